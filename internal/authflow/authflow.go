// Package authflow implements login and password reset.
//
// Login failures are uniform: an unknown email and a wrong password both
// yield INVALID_CREDENTIALS. A disabled account is only reported once the
// password has been verified. Reset tokens are single use and may carry an
// expiry.
package authflow

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/recordkit/auth"
	"github.com/kbukum/recordkit/auth/jwt"
	"github.com/kbukum/recordkit/auth/password"
	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/internal/audit"
	"github.com/kbukum/recordkit/internal/identity"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
)

// TokenType is the token_type reported with every issued token.
const TokenType = "bearer"

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// Service runs the login and reset flows.
type Service struct {
	db     *database.DB
	tokens *jwt.Service
	hasher password.Hasher
	cfg    auth.Config
	now    func() time.Time
	log    *logger.Logger
	decoy  func() string
}

// decoyPassword is hashed once so that logins for unknown emails pay the
// same verification cost as a wrong password.
const decoyPassword = "recordkit-decoy-password"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source for last-login and reset expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the auth flow service. cfg is expected to have its
// defaults applied.
func NewService(db *database.DB, tokens *jwt.Service, hasher password.Hasher, cfg auth.Config, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		db:     db,
		tokens: tokens,
		hasher: hasher,
		cfg:    cfg,
		now:    time.Now,
		log:    log.WithComponent("authflow"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.decoy = sync.OnceValue(func() string {
		hash, err := s.hasher.Hash(decoyPassword)
		if err != nil {
			s.log.Warn("Decoy hash unavailable", logger.Fields(logger.FieldError, err.Error()))
		}
		return hash
	})
	return s
}

// Login verifies email and plaintext and issues a token carrying the user's
// scopes for the configured login lifetime.
func (s *Service) Login(ctx context.Context, email, plaintext string) (resp *TokenResponse, err error) {
	ctx, op := observability.Start(ctx, "authflow", "login")
	defer func() { op.End(err) }()

	user, err := s.findByEmail(s.db.WithContext(ctx), email)
	if database.IsNotFoundError(err) {
		s.hasher.Verify(plaintext, s.decoy())
		return nil, errors.InvalidCredentials()
	}
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}
	if user.PasswordHash == nil {
		s.hasher.Verify(plaintext, s.decoy())
		return nil, errors.InvalidCredentials()
	}
	if !s.hasher.Verify(plaintext, *user.PasswordHash) {
		s.log.WithContext(ctx).Info("Login rejected", logger.Fields("user_id", user.ID))
		return nil, errors.InvalidCredentials()
	}
	if err := identity.RequireEnabled(user); err != nil {
		return nil, err
	}
	op.SetAttributes(attribute.Int64(observability.AttrUserID, int64(user.ID)))

	token, exp, err := s.tokens.Issue(user.Email, user.Scopes, s.cfg.LoginTTL)
	if err != nil {
		return nil, errors.Internal(err)
	}

	now := s.now()
	err = s.db.WithContext(ctx).Model(user).UpdateColumn("last_login", now).Error
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}

	s.log.WithContext(ctx).Info("Login succeeded", logger.Fields("user_id", user.ID))
	return &TokenResponse{AccessToken: token, TokenType: TokenType, ExpiresAt: exp}, nil
}

// IssueReset generates and stores a reset token for the user with email.
// The token expires after the configured reset lifetime.
func (s *Service) IssueReset(ctx context.Context, email string) (token string, err error) {
	ctx, op := observability.Start(ctx, "authflow", "issue_reset")
	defer func() { op.End(err) }()

	user, err := s.findByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		return "", database.FromDatabase(err, "user")
	}

	token, err = password.GenerateToken(s.cfg.ResetTokenLength)
	if err != nil {
		return "", errors.Internal(err)
	}
	expires := s.now().Add(s.cfg.ResetTTL)
	err = s.db.WithContext(ctx).Model(user).UpdateColumns(map[string]any{
		"reset_token":            token,
		"reset_token_expires_at": expires,
	}).Error
	if err != nil {
		return "", database.FromDatabase(err, "user")
	}

	s.log.WithContext(ctx).Info("Reset token issued", logger.Fields(
		"user_id", user.ID,
		"expires_at", expires,
	))
	return token, nil
}

// RedeemReset sets a new password for the user holding resetToken and
// clears the token. The user is recorded as its own modifier.
func (s *Service) RedeemReset(ctx context.Context, resetToken, newPassword string) (user *models.User, err error) {
	ctx, op := observability.Start(ctx, "authflow", "redeem_reset")
	defer func() { op.End(err) }()

	if resetToken == "" {
		return nil, errors.InvalidToken()
	}

	err = s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var found models.User
		err := tx.
			Where(clause.Eq{Column: clause.Column{Name: "reset_token"}, Value: resetToken}).
			Where(clause.Eq{Column: clause.Column{Name: models.ColumnIsDeleted}, Value: false}).
			Take(&found).Error
		if database.IsNotFoundError(err) {
			return errors.InvalidToken()
		}
		if err != nil {
			return err
		}
		if !found.ResetTokenValid(s.now()) {
			return errors.InvalidToken()
		}

		hash, err := s.hasher.Hash(newPassword)
		switch {
		case stderrors.Is(err, password.ErrTooShort), stderrors.Is(err, password.ErrTooLong):
			return errors.InvalidInput("password", err.Error())
		case err != nil:
			return errors.Internal(err)
		}

		found.PasswordHash = &hash
		found.ResetToken = nil
		found.ResetTokenExpiresAt = nil
		audit.StampUpdate(&found, found.ID)
		if err := tx.Save(&found).Error; err != nil {
			return err
		}
		user = &found
		return nil
	})
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}

	s.log.WithContext(ctx).Info("Reset token redeemed", logger.Fields("user_id", user.ID))
	return user, nil
}

func (s *Service) findByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.
		Where(clause.Eq{Column: clause.Column{Name: "email"}, Value: models.NormalizeEmail(email)}).
		Where(clause.Eq{Column: clause.Column{Name: models.ColumnIsDeleted}, Value: false}).
		Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
