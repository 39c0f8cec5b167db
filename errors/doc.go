// Package errors provides the structured error type shared by every stage of
// the translation pipeline. Each AppError carries a machine-readable code, a
// client-safe message, an HTTP status, and an optional cause that is only logged.
package errors
