// Package jwt issues and validates the signed bearer tokens used by the API.
//
// A token carries the subject (the user's email), the granted scopes joined
// by a space, and an absolute expiry. Validation failures of any kind
// collapse into a single INVALID_TOKEN error so callers cannot tell a bad
// signature from an expired token.
//
// Usage:
//
//	svc, err := jwt.NewService(cfg)
//	token, exp, err := svc.Issue("alice@example.com", []string{"user"}, 0)
//	claims, err := svc.Validate(token)
package jwt

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/recordkit/errors"
)

// Claims is the claim set carried by a bearer token.
type Claims struct {
	Scopes string `json:"scopes"`
	gojwt.RegisteredClaims
}

// ScopeList splits the space-joined scopes claim.
func (c *Claims) ScopeList() []string {
	return strings.Fields(c.Scopes)
}

// Service issues and validates HS256 bearer tokens.
type Service struct {
	cfg    Config
	now    func() time.Time
	parser *gojwt.Parser
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new token service.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(func() time.Time { return s.now() }),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(cfg.Issuer))
	}
	s.parser = gojwt.NewParser(parserOpts...)
	return s, nil
}

// CookieName returns the configured token cookie name.
func (s *Service) CookieName() string {
	return s.cfg.CookieName
}

// Issue signs a token for subject with the given scopes, expiring after ttl.
// A zero ttl uses the configured default. It returns the token and its
// absolute expiry.
func (s *Service) Issue(subject string, scopes []string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}
	now := s.now()
	exp := now.Add(ttl).Truncate(time.Second)

	claims := &Claims{
		Scopes: strings.Join(scopes, " "),
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate verifies the signature and expiry of token and returns its
// claims. Every failure yields the same INVALID_TOKEN error.
func (s *Service) Validate(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.InvalidToken()
	}
	claims := &Claims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, errors.InvalidToken().WithCause(err)
	}
	if claims.Subject == "" {
		return nil, errors.InvalidToken()
	}
	return claims, nil
}

// Extract returns the bearer token from the configured cookie or, failing
// that, from an "Authorization: Bearer" header. It returns "" when neither
// carries a token.
func (s *Service) Extract(r *http.Request) string {
	if c, err := r.Cookie(s.cfg.CookieName); err == nil && c.Value != "" {
		if token, ok := bearerValue(c.Value); ok {
			return token
		}
		return c.Value
	}
	token, _ := bearerValue(r.Header.Get("Authorization"))
	return token
}

func bearerValue(v string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(v), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (s *Service) keyFunc(token *gojwt.Token) (any, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}
