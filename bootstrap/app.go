package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/logger"
)

// App drives one service process. C is the service's config type.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	graceful    time.Duration
	onConfigure []func(ctx context.Context, app *App[C]) error
	onStart     []Hook
	onReady     []Hook
	onStop      []Hook
}

// NewApp applies the config defaults, validates the result and sets up
// logging. Without WithLogger the logger built from the config also
// becomes the global logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	s := newSettings(opts)
	svc := cfg.GetServiceConfig()
	if s.log == nil {
		s.log = logger.New(&svc.Logging, svc.Name)
		logger.SetGlobalLogger(s.log)
	}

	return &App[C]{
		Name:       svc.Name,
		Version:    svc.Version,
		Cfg:        cfg,
		Components: component.NewRegistry(s.log),
		Logger:     s.log,
		graceful:   s.graceful,
	}, nil
}

// RegisterComponent adds c to the lifecycle. Components start in
// registration order, so register dependencies first.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers fn to run after components and start hooks. It is
// where services, controllers and routes get built on top of the started
// infrastructure.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck returns an error naming every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var failing []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += " (" + h.Message + ")"
		}
		failing = append(failing, entry)
	}
	if len(failing) > 0 {
		return errors.New("unhealthy components: " + strings.Join(failing, ", "))
	}
	return nil
}

// Run brings the service up and blocks until SIGINT, SIGTERM or ctx ends,
// then shuts it down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.up(ctx); err != nil {
		return errors.Join(err, a.down())
	}
	a.Logger.Info("Application ready", logger.Fields("name", a.Name, "version", a.Version))
	a.WaitForSignal(ctx)
	return a.down()
}

// RunTask brings the service up, runs task once and shuts down. The task's
// context ends on SIGINT or SIGTERM. The task's error takes precedence
// over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.up(ctx); err != nil {
		return errors.Join(err, a.down())
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := task(taskCtx)
	if downErr := a.down(); err == nil {
		err = downErr
	}
	return err
}

// up runs: components, start hooks, configure callbacks, ready check, ready
// hooks. An unhealthy ready check is logged but does not abort.
func (a *App[C]) up(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Startup complete", logger.DurationFields("startup", time.Since(began)))
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx ends. It returns the
// signal, or nil when ctx ended first.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// down runs the stop hooks, then stops components in reverse order, all
// within the graceful timeout.
func (a *App[C]) down() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.graceful)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("stop_hooks", err))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_components", err))
		errs = append(errs, err)
	}
	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
