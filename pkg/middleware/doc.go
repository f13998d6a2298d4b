// Package middleware provides observability middleware for route resolution.
//
// Each constructor returns a resolver.Middleware, so the pieces compose with
// resolver.Chain around any resolver.Func:
//
//	resolve := resolver.Chain(live.Func(),
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithNamespace("docs")),
//	    middleware.Logging(logger),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - docroutes_resolutions_total: resolutions by outcome (matched, fallback)
//   - docroutes_resolution_duration_seconds: resolution latency
//   - docroutes_chain_depth: component chain length per resolution
//
// The server additionally records table reloads with RecordReload and the
// current table size with SetTableSize. Expose them with promhttp:
//
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// The OpenTelemetry middleware opens one span per resolution and records the
// matched leaf, chain depth and fallback flag as attributes. The span is
// carried on the context handed to the wrapped Func, so later middleware and
// the HTTP handler's own spans nest beneath it.
//
// # Logging
//
// Logging writes one debug-level log/slog line per resolution.
package middleware
