package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/docroutes/pkg/resolver"
)

// Logging creates middleware that logs each resolution at debug level.
// A nil logger uses slog.Default().
func Logging(logger *slog.Logger) resolver.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "resolver")

	return func(next resolver.Func) resolver.Func {
		return func(ctx context.Context, path string) resolver.Result {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, path)
			}

			start := time.Now()
			res := next(ctx, path)

			attrs := []any{
				"path", path,
				"leaf", res.Leaf.Path,
				"component", res.Component().String(),
				"depth", res.Depth(),
				"fallback", res.Fallback,
				"duration", time.Since(start),
			}
			if res.MatchedPath != path {
				attrs = append(attrs, "matched_path", res.MatchedPath)
			}
			if res.OutsideBase {
				attrs = append(attrs, "outside_base", true)
			}
			logger.DebugContext(ctx, "route resolved", attrs...)

			return res
		}
	}
}
