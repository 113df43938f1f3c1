// Package server provides the HTTP server: a Gin engine served over HTTP/1.1
// and h2c, wrapped as a lifecycle component.
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware(observability.DefaultMetrics())
//	srv.GinEngine().GET("/api/v1", handler)
//
//	comp := server.NewComponent(srv)
//	app.OnReady(comp.Start)
//	app.OnStop(comp.Stop)
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - CORS and BodySizeLimit wrap the whole handler
//   - Recovery turns panics into a 500 error body
//   - RequestID propagates X-Request-Id into the logger context
//   - Tracing and Metrics record a span and request metrics
//   - RequestLogger logs every request by status
//   - RateLimit throttles per client key
//   - Auth authenticates bearer tokens
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): component health, readiness and
// build info.
package server
