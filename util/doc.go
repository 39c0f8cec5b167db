// Package util holds small helpers shared across the service: size parsing
// for config values, secret masking for logs, and string cleanup.
package util
