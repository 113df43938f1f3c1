// Package identity turns a bearer token into an authorized user.
package identity

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm/clause"

	"github.com/kbukum/recordkit/auth/jwt"
	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/observability"
)

// Resolver maps validated token claims to live users.
type Resolver struct {
	db     *database.DB
	tokens *jwt.Service
}

// NewResolver creates a resolver.
func NewResolver(db *database.DB, tokens *jwt.Service) *Resolver {
	return &Resolver{db: db, tokens: tokens}
}

// Resolve returns the non-deleted user whose email equals the claims
// subject. Stored emails are lowercase, so the match is exact.
func (r *Resolver) Resolve(ctx context.Context, claims *jwt.Claims) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "email"}, Value: claims.Subject}).
		Where(clause.Eq{Column: clause.Column{Name: models.ColumnIsDeleted}, Value: false}).
		Take(&user).Error
	if database.IsNotFoundError(err) {
		return nil, errors.Unauthorized("")
	}
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}
	return &user, nil
}

// RequireScopes fails with FORBIDDEN unless user holds every required scope.
func RequireScopes(user *models.User, required ...string) error {
	if !user.Scopes.HasAll(required...) {
		return errors.Forbidden()
	}
	return nil
}

// RequireEnabled fails with ACCOUNT_DISABLED for a disabled user.
func RequireEnabled(user *models.User) error {
	if user.IsDisabled {
		return errors.AccountDisabled()
	}
	return nil
}

// Authenticate validates token, resolves its user and checks that the user
// is enabled and holds the required scopes. The scopes must be present both
// in the token and on the stored user, so revoking a scope takes effect
// before the token expires.
func (r *Resolver) Authenticate(ctx context.Context, token string, required ...string) (user *models.User, err error) {
	ctx, op := observability.Start(ctx, "identity", "authenticate")
	defer func() { op.End(err) }()

	if token == "" {
		return nil, errors.Unauthorized("Not authenticated")
	}
	claims, err := r.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err = r.Resolve(ctx, claims)
	if err != nil {
		return nil, err
	}
	op.SetAttributes(attribute.Int64(observability.AttrUserID, int64(user.ID)))

	if err = RequireEnabled(user); err != nil {
		return nil, err
	}
	if !models.Scopes(claims.ScopeList()).HasAll(required...) {
		return nil, errors.Forbidden()
	}
	if err = RequireScopes(user, required...); err != nil {
		return nil, err
	}
	return user, nil
}
