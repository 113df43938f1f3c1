package password

import "github.com/kbukum/recordkit/validation"

// Algorithm names a hashing scheme for newly stored passwords. Verification
// accepts either scheme regardless of this setting.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config selects and tunes the hasher used when passwords are written.
type Config struct {
	Algorithm  Algorithm `mapstructure:"algorithm" validate:"oneof=bcrypt argon2id"`
	BcryptCost int       `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`

	Argon2Time    uint32 `mapstructure:"argon2_time" validate:"min=1"`
	Argon2Memory  uint32 `mapstructure:"argon2_memory" validate:"min=1024"` // KiB
	Argon2Threads uint8  `mapstructure:"argon2_threads" validate:"min=1"`

	// MinLength is the shortest accepted plaintext. bcrypt reads at most
	// 72 bytes, which bounds it from above.
	MinLength int `mapstructure:"min_length" validate:"min=1,max=72"`
}

// ApplyDefaults fills zero fields: bcrypt at cost 12, argon2id at one pass
// over 64 MiB with 4 lanes, and an 8 character minimum.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
	if c.MinLength == 0 {
		c.MinLength = 8
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Config("auth.password", c)
}

// NewHasher returns the Hasher selected by cfg.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	if cfg.Algorithm == AlgorithmArgon2id {
		return NewArgon2Hasher(
			WithArgon2Time(cfg.Argon2Time),
			WithArgon2Memory(cfg.Argon2Memory),
			WithArgon2Threads(cfg.Argon2Threads),
			WithArgon2MinLength(cfg.MinLength),
		)
	}
	return NewBcryptHasher(WithCost(cfg.BcryptCost), WithMinLength(cfg.MinLength))
}
