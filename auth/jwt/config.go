package jwt

import (
	"errors"
	"time"
)

const (
	// DefaultTTL is the token lifetime used when Issue receives a zero ttl.
	DefaultTTL = 15 * time.Minute

	// DefaultCookieName is the cookie Extract reads before the Authorization header.
	DefaultCookieName = "access_token"

	minSecretLength = 16
)

// Config configures the token service. Tokens are signed with HS256 using a
// single shared secret.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `mapstructure:"secret"`

	// Issuer is the "iss" claim (optional). When set, tokens from other
	// issuers are rejected.
	Issuer string `mapstructure:"issuer"`

	// TTL is the lifetime of tokens issued without an explicit ttl (default: 15m).
	TTL time.Duration `mapstructure:"ttl"`

	// CookieName is the cookie carrying the token (default: access_token).
	CookieName string `mapstructure:"cookie_name"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if len(c.Secret) < minSecretLength {
		return errors.New("secret must be at least 16 characters")
	}
	if c.TTL < 0 {
		return errors.New("ttl must not be negative")
	}
	return nil
}
