package resolver

import "context"

// Func resolves a path. It is the unit resolver middleware wraps.
type Func func(ctx context.Context, path string) Result

// Middleware decorates a Func with metrics, tracing or logging.
type Middleware func(next Func) Func

// Func adapts Resolve to the Func signature.
func (r *Resolver) Func() Func {
	return func(_ context.Context, path string) Result {
		return r.Resolve(path)
	}
}

// Chain wraps f with mws. The first middleware is the outermost.
func Chain(f Func, mws ...Middleware) Func {
	for i := len(mws) - 1; i >= 0; i-- {
		f = mws[i](f)
	}
	return f
}
