// Package version reports the build version of the service.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/recordkit/version.Version=1.0.0" ./cmd/recordkit
package version
