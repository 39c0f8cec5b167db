// Package server provides the HTTP server: Gin routes behind a root
// ServeMux with h2c support and a net/http middleware stack.
//
// # Middleware
//
// Applied around every route, outermost first (server/middleware):
//
//   - Recovery: panics become 500 INTERNAL_ERROR
//   - RequestID: X-Request-Id propagation into the logging context
//   - CORS: allow-list, all origins by default
//   - BodySizeLimit: 413 PAYLOAD_TOO_LARGE above max_body_size
//   - RequestLogger: method, path, status and duration per request
//
// # Endpoints
//
// RegisterDefaultEndpoints adds /health (component health, 503 when any
// component is unhealthy), /alive, /info and /metrics (server/endpoint).
package server
