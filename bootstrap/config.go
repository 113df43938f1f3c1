package bootstrap

import (
	"github.com/kbukum/recordkit/config"
)

// Config is satisfied by any struct embedding config.ServiceConfig that
// defines its own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
