// Package component turns a resolved chain of component references into
// rendered output.
//
// A resolver returns references only. The Registry binds handles to
// factories, and Compose instantiates a chain innermost first so each
// layout receives its already rendered child:
//
//	reg := component.NewRegistry()
//	reg.Register("/docs", func(ref routetable.ComponentRef, child template.HTML) (template.HTML, error) {
//	    return template.HTML("<main>") + child + template.HTML("</main>"), nil
//	})
//
//	html, err := component.Compose(ctx, reg, result.Chain)
//
// Handles without a registered factory fall back to the registry's default
// factory, which renders a placeholder element carrying the handle and
// version.
package component
