package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/recordkit/logger"
)

// StopTimeout bounds how long a single component may take to stop.
const StopTimeout = 10 * time.Second

// Registry owns an ordered set of components. Start walks the order
// forwards, stop walks it backwards over the components that started.
type Registry struct {
	mu      sync.RWMutex
	order   []Component
	running int
	log     *logger.Logger
}

// NewRegistry returns an empty registry logging under "components".
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{log: log.WithComponent("components")}
}

// Register appends c. A component must be registered after the
// components it depends on.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.order = append(r.order, c)
	return nil
}

// StartAll starts the components that are not running yet. On failure the
// ones already started stay running so StopAll can release them.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.running < len(r.order) {
		c := r.order[r.running]
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields("name", c.Name(), logger.FieldError, err.Error()))
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		r.running++
		r.log.Debug("Component started", logger.Fields("name", c.Name()))
	}
	return nil
}

// StopAll stops running components newest first and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for ; r.running > 0; r.running-- {
		c := r.order[r.running-1]
		if err := r.stop(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			r.log.Error("Component stop failed", logger.Fields("name", c.Name(), logger.FieldError, err.Error()))
			continue
		}
		r.log.Info("Component stopped", logger.Fields("name", c.Name()))
	}
	return errors.Join(errs...)
}

func (r *Registry) stop(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, StopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll reports every registered component, running or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.order))
	for i, c := range r.order {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(name); i >= 0 {
		return r.order[i]
	}
	return nil
}

func (r *Registry) indexOf(name string) int {
	return slices.IndexFunc(r.order, func(c Component) bool { return c.Name() == name })
}
