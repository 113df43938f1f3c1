package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/config"
	"github.com/kbukum/recordkit/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	status   component.HealthStatus
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	return nil
}
func (m *mockComponent) Health(context.Context) component.Health {
	return component.Health{Name: m.name, Status: m.status}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "recordkit", Version: "1.0.0"}}
	app, err := NewApp(cfg, WithLogger(logger.NewNop()))
	require.NoError(t, err)
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, "recordkit", app.Name)
	assert.Equal(t, "1.0.0", app.Version)
	assert.Equal(t, "development", app.Cfg.Environment)
	assert.NotNil(t, app.Components)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.NewNop()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	db := &mockComponent{name: "database", status: component.StatusHealthy}
	require.NoError(t, app.RegisterComponent(db))

	var order []string
	app.OnStart(func(context.Context) error { order = append(order, "start"); return nil })
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		order = append(order, "configure:"+a.Cfg.Name)
		return nil
	})
	app.OnReady(func(context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "stop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "configure:recordkit", "ready", "task", "stop"}, order)
	assert.True(t, db.started)
	assert.True(t, db.stopped)
}

func TestRunTask_ConfigureFailureStopsComponents(t *testing.T) {
	app := newTestApp(t)
	db := &mockComponent{name: "database", status: component.StatusHealthy}
	require.NoError(t, app.RegisterComponent(db))
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return errors.New("seed failed") })

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error { ran = true; return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed failed")
	assert.False(t, ran)
	assert.True(t, db.stopped)
}

func TestRunTask_ReturnsTaskError(t *testing.T) {
	app := newTestApp(t)
	err := app.RunTask(context.Background(), func(context.Context) error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.RegisterComponent(&mockComponent{name: "database", status: component.StatusUnhealthy}))

	err := app.ReadyCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database=unhealthy")
}

func TestRun_ContextCancel(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error { cancel(); return nil })

	assert.NoError(t, app.Run(ctx))
}
