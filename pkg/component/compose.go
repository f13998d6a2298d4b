package component

import (
	"context"
	"fmt"
	"html/template"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Compose renders chain, outermost layout first, by instantiating it from the
// leaf outwards. Each factory receives the rendered output of the component
// nested inside it. Cancellation of ctx is checked between levels.
func Compose(ctx context.Context, reg *Registry, chain []routetable.ComponentRef) (template.HTML, error) {
	var out template.HTML
	for i := len(chain) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		ref := chain[i]
		f, ok := reg.Lookup(ref.Handle)
		if !ok {
			return "", fmt.Errorf("%w %q", ErrNoFactory, ref.Handle)
		}

		rendered, err := f(ref, out)
		if err != nil {
			return "", fmt.Errorf("component %s: %w", ref, err)
		}
		out = rendered
	}
	return out, nil
}
