package middleware

import (
	"net/http"
	"slices"
)

// Middleware decorates a handler. The server wraps the root mux with its
// stack, so Gin routes and mounted handlers see the same chain.
type Middleware func(http.Handler) http.Handler

// Chain folds ms into one Middleware; ms[0] sees the request first.
func Chain(ms ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for _, m := range slices.Backward(ms) {
			h = m(h)
		}
		return h
	}
}
