// Package bootstrap runs a service through its lifecycle: validate config,
// start components, run configure callbacks and hooks, block until a signal,
// then shut down in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(db)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error { ... })
//	err = app.Run(ctx)
package bootstrap
