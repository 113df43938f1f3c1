// Command recordkit serves the record API.
//
// Usage:
//
//	recordkit                      serve HTTP until SIGINT/SIGTERM
//	recordkit reset-token EMAIL    print a fresh password reset token for EMAIL
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/recordkit/auth/jwt"
	"github.com/kbukum/recordkit/auth/password"
	"github.com/kbukum/recordkit/bootstrap"
	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/config"
	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/internal/authflow"
	"github.com/kbukum/recordkit/internal/httpapi"
	"github.com/kbukum/recordkit/internal/identity"
	"github.com/kbukum/recordkit/internal/registry"
	"github.com/kbukum/recordkit/internal/resource"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
	"github.com/kbukum/recordkit/server"
	"github.com/kbukum/recordkit/server/endpoint"
	"github.com/kbukum/recordkit/version"
)

const serviceName = "recordkit"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

// services holds the business layer built once the database is up.
type services struct {
	tokens    *jwt.Service
	resolver  *identity.Resolver
	resources *resource.Controller
	flow      *authflow.Service
}

func run(ctx context.Context, args []string) error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvPrefix("RECORDKIT")); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.GetShortVersion()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	hasher := password.NewHasher(cfg.Auth.Password)
	reg := registry.Builtin(hasher)

	dbComp := database.NewComponent(cfg.Database, app.Logger).WithAutoMigrate(reg.Models()...)
	if err := app.RegisterComponent(dbComp); err != nil {
		return err
	}
	obsComp := observability.NewComponent(cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, app.Logger)
	if err := app.RegisterComponent(obsComp); err != nil {
		return err
	}

	svc := &services{}
	app.OnConfigure(func(ctx context.Context, app *bootstrap.App[*Config]) error {
		db := dbComp.DB()
		tokens, err := jwt.NewService(app.Cfg.Auth.JWT)
		if err != nil {
			return err
		}
		svc.tokens = tokens
		svc.resolver = identity.NewResolver(db, tokens)
		svc.resources = resource.NewController(db, reg, app.Logger)
		svc.flow = authflow.NewService(db, tokens, hasher, app.Cfg.Auth, app.Logger)
		return seedAdmin(ctx, db, hasher, app.Cfg.Bootstrap, app.Logger)
	})

	if len(args) > 0 {
		return runCommand(ctx, app, svc, args)
	}
	return serve(ctx, app, svc)
}

func serve(ctx context.Context, app *bootstrap.App[*Config], svc *services) error {
	srv := server.New(app.Cfg.Server, app.Logger)
	srvComp := server.NewComponent(srv)

	app.OnConfigure(func(_ context.Context, app *bootstrap.App[*Config]) error {
		srv.ApplyMiddleware(observability.DefaultMetrics())

		checker := func(ctx context.Context) []component.Health {
			return append(app.Components.HealthAll(ctx), srvComp.Health(ctx))
		}
		engine := srv.GinEngine()
		engine.GET("/health", endpoint.Health(app.Name, checker))
		engine.GET("/ready", endpoint.Ready(func(ctx context.Context) []component.Health {
			return app.Components.HealthAll(ctx)
		}))
		engine.GET("/info", endpoint.Info(app.Name))

		httpapi.New(svc.resources, svc.flow, svc.resolver, svc.tokens, app.Cfg.Auth, app.Logger,
			httpapi.WithLoginRateLimit(app.Cfg.Server.LoginRateLimit),
		).Register(engine)

		app.Logger.Info("Auth configured", logger.Fields("auth", app.Cfg.Auth.Describe()))
		return nil
	})
	// Routes exist only after configure, so the listener opens on ready and
	// closes before components stop.
	app.OnReady(srvComp.Start)
	app.OnStop(srvComp.Stop)

	return app.Run(ctx)
}

func runCommand(ctx context.Context, app *bootstrap.App[*Config], svc *services, args []string) error {
	switch args[0] {
	case "reset-token":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s reset-token EMAIL", serviceName)
		}
		return app.RunTask(ctx, func(ctx context.Context) error {
			token, err := svc.flow.IssueReset(ctx, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, token)
			return nil
		})
	case "version":
		info := version.GetVersionInfo()
		fmt.Fprintf(os.Stdout, "%s %s (%s, built %s)\n", serviceName, info.Version, info.GitCommit, info.BuildTime)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
