package source

import (
	"context"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Loader produces a route table.
type Loader interface {
	// Load reads and validates the current table.
	Load(ctx context.Context) (*routetable.Table, error)

	// Describe names the source for logs, e.g. "file:build/routes.js".
	Describe() string
}

// Versioner reports a token identifying the current manifest contents.
// Equal tokens mean the manifest has not changed.
type Versioner interface {
	Version(ctx context.Context) (string, error)
}
