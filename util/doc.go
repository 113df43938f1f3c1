// Package util holds small helpers shared by configuration and logging:
// human-readable size parsing and secret masking.
package util
