// Package component defines the lifecycle contract of the service's
// long-lived parts and a registry that starts them in order, stops them
// in reverse, and aggregates their health for the /health endpoint.
package component
