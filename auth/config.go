package auth

import (
	"fmt"
	"time"

	"github.com/kbukum/recordkit/auth/jwt"
	"github.com/kbukum/recordkit/auth/password"
)

const (
	defaultLoginTTL         = 24 * time.Hour
	defaultResetTokenLength = 32
	defaultResetTTL         = time.Hour
)

// Config holds all authentication configuration.
type Config struct {
	// JWT configures the token service.
	JWT jwt.Config `mapstructure:"jwt"`

	// Password configures password hashing.
	Password password.Config `mapstructure:"password"`

	// LoginTTL is the lifetime of tokens issued by the login endpoint (default: 24h).
	LoginTTL time.Duration `mapstructure:"login_ttl"`

	// InsecureCookie drops the Secure attribute from the token cookie.
	// Only meant for plain-HTTP local development.
	InsecureCookie bool `mapstructure:"insecure_cookie"`

	// ResetTokenLength is the number of random bytes in a reset token (default: 32).
	ResetTokenLength int `mapstructure:"reset_token_length"`

	// ResetTTL is how long an issued reset token stays redeemable (default: 1h).
	ResetTTL time.Duration `mapstructure:"reset_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
	if c.LoginTTL == 0 {
		c.LoginTTL = defaultLoginTTL
	}
	if c.ResetTokenLength == 0 {
		c.ResetTokenLength = defaultResetTokenLength
	}
	if c.ResetTTL == 0 {
		c.ResetTTL = defaultResetTTL
	}
}

// Validate checks the configuration and its sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return err
	}
	if c.LoginTTL < 0 {
		return fmt.Errorf("auth.login_ttl must not be negative (got: %s)", c.LoginTTL)
	}
	if c.ResetTokenLength < 16 {
		return fmt.Errorf("auth.reset_token_length must be >= 16 (got: %d)", c.ResetTokenLength)
	}
	if c.ResetTTL < 0 {
		return fmt.Errorf("auth.reset_ttl must not be negative (got: %s)", c.ResetTTL)
	}
	return nil
}

// Describe returns a one-line summary for the startup log.
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(HS256) TTL=%s login=%s password=%s", c.JWT.TTL, c.LoginTTL, c.Password.Algorithm)
}
