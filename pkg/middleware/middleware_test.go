package middleware

import (
	"testing"

	"github.com/vango-dev/docroutes/pkg/resolver"
	rt "github.com/vango-dev/docroutes/pkg/routetable"
)

func testResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	return resolver.New(rt.MustNew([]rt.Entry{
		rt.Nested("/docs", rt.Ref("/docs", "1cd"),
			rt.Exact("/docs/intro", rt.Ref("/docs/intro", "59e")).WithSidebar("tutorialSidebar"),
		),
		rt.Exact("/blog/", rt.Ref("/blog/", "811")),
		rt.Wildcard(rt.Ref("*", "")),
	}), resolver.WithTrailingSlashFallback(), resolver.WithBasePath("/docs"))
}
