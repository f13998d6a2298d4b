package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/docroutes/pkg/resolver"
)

// Default tracer name for docroutes.
const defaultTracerName = "docroutes"

// SpanName is the name of every resolution span.
const SpanName = "docroutes.resolve"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "docroutes").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Filter determines which paths to trace.
	// Return true to trace the resolution, false to skip.
	// If nil, all resolutions are traced.
	Filter func(path string) bool

	// AttributeExtractor adds custom attributes from the result.
	AttributeExtractor func(res resolver.Result) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithPathFilter sets a filter function for paths.
func WithPathFilter(filter func(path string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(res resolver.Result) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every resolution.
//
// The span carries:
//   - docroutes.path: the requested path
//   - docroutes.leaf: the matched leaf's path
//   - docroutes.component: the leaf component as handle@version
//   - docroutes.depth: the chain length
//   - docroutes.fallback: whether the top-level wildcard matched
//   - docroutes.sidebar: the leaf's sidebar key, when set
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) resolver.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next resolver.Func) resolver.Func {
		return func(ctx context.Context, path string) resolver.Result {
			if config.Filter != nil && !config.Filter(path) {
				return next(ctx, path)
			}

			spanCtx, span := tracer.Start(ctx, SpanName,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("docroutes.path", path)),
			)
			defer span.End()

			res := next(spanCtx, path)

			attrs := []attribute.KeyValue{
				attribute.String("docroutes.leaf", res.Leaf.Path),
				attribute.String("docroutes.component", res.Component().String()),
				attribute.Int("docroutes.depth", res.Depth()),
				attribute.Bool("docroutes.fallback", res.Fallback),
			}
			if res.Sidebar != "" {
				attrs = append(attrs, attribute.String("docroutes.sidebar", res.Sidebar))
			}
			if res.MatchedPath != path {
				attrs = append(attrs, attribute.String("docroutes.matched_path", res.MatchedPath))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(res)...)
			}
			span.SetAttributes(attrs...)
			span.SetStatus(codes.Ok, "")

			return res
		}
	}
}
