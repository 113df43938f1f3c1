package bootstrap

import (
	"time"

	"github.com/kbukum/recordkit/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// Option customizes NewApp.
type Option func(*settings)

type settings struct {
	log      *logger.Logger
	graceful time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{graceful: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger replaces the logger NewApp would build from the logging
// section. The global logger is left alone.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence (default: 15s).
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.graceful = d
		}
	}
}
