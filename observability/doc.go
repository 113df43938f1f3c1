// Package observability provides OpenTelemetry tracing and metrics.
//
// The Component installs OTLP/HTTP exporters when enabled in configuration:
//
//	obs := observability.NewComponent(cfg.Observability, observability.ServiceInfo{Name: "recordkit"}, log)
//	app.RegisterComponent(obs)
//
// Services wrap their operations so each gets a span and an outcome counter:
//
//	ctx, op := observability.Start(ctx, "resource", "list",
//	    attribute.String(observability.AttrResource, "Note"))
//	defer func() { op.End(err) }()
//
// HTTP request metrics are recorded by the server middleware through Metrics.
package observability
