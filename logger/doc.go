// Package logger provides structured logging on top of zerolog.
//
// Loggers are scoped by component and enriched from the request context:
//
//	log := base.WithComponent("resource").WithContext(ctx)
//	log.Info("record created", logger.Fields("resource", "note", "external_id", id))
package logger
