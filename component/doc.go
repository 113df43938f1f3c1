// Package component defines lifecycle-managed infrastructure (database, HTTP
// server, telemetry) and a registry that starts them in order and stops them
// in reverse.
package component
