// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: process is running, no dependency checks
//   - Readiness: every registered dependency check passes
//
// Usage:
//
//	mux.Handle("GET /live", health.Liveness())
//	mux.Handle("GET /ready", health.Readiness(log, store.Healthcheck, redis.Healthcheck(client)))
//
// Dependency checks follow the func(context.Context) error signature.
package health
