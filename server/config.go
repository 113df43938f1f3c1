package server

import (
	"fmt"
	"time"

	"github.com/kbukum/recordkit/server/middleware"
	"github.com/kbukum/recordkit/util"
	"github.com/kbukum/recordkit/validation"
)

// Config holds HTTP listener and request-handling settings. Timeouts are in
// seconds.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port" validate:"min=0,max=65535"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"min=0"`

	// MaxBodySize bounds every request body, e.g. "1MB" or "512KB".
	MaxBodySize string `yaml:"max_body_size" mapstructure:"max_body_size" validate:"required"`

	CORS middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`

	// LoginRateLimit caps login attempts per client IP and minute. Zero
	// turns throttling off.
	LoginRateLimit int `yaml:"login_rate_limit" mapstructure:"login_rate_limit" validate:"min=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, t := range []*int{&c.ReadTimeout, &c.WriteTimeout} {
		if *t == 0 {
			*t = 15
		}
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.LoginRateLimit == 0 {
		c.LoginRateLimit = 30
	}
	c.CORS.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Config("server", c); err != nil {
		return err
	}
	if util.ParseSize(c.MaxBodySize, -1) <= 0 {
		return fmt.Errorf("server.max_body_size is not a valid size (got: %q)", c.MaxBodySize)
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
