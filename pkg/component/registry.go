package component

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"sync"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// ErrNoFactory is returned when a handle has no factory and the registry has
// no default.
var ErrNoFactory = errors.New("component: no factory for handle")

// Factory renders one component. child is the rendered output of the next
// component in the chain, empty for the leaf.
type Factory func(ref routetable.ComponentRef, child template.HTML) (template.HTML, error)

// Registry maps component handles to factories.
// It is safe for concurrent use.
type Registry struct {
	factories map[string]Factory
	fallback  Factory
	mu        sync.RWMutex
}

// NewRegistry creates a registry whose default factory is Placeholder.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		fallback:  Placeholder,
	}
}

// Register binds handle to f, replacing any earlier binding.
func (r *Registry) Register(handle string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[handle] = f
}

// SetDefault sets the factory used for unregistered handles. A nil f
// disables the fallback.
func (r *Registry) SetDefault(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = f
}

// Lookup returns the factory for handle, or the default factory.
func (r *Registry) Lookup(handle string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.factories[handle]; ok {
		return f, true
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// Handles returns the registered handles in sorted order.
func (r *Registry) Handles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]string, 0, len(r.factories))
	for h := range r.factories {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	return handles
}

// Placeholder renders ref as an element that names the component:
//
//	<div data-component="/docs" data-version="1cd">child</div>
func Placeholder(ref routetable.ComponentRef, child template.HTML) (template.HTML, error) {
	version := ""
	if ref.Version != "" {
		version = fmt.Sprintf(` data-version="%s"`, template.HTMLEscapeString(ref.Version))
	}
	return template.HTML(fmt.Sprintf(`<div data-component="%s"%s>`,
		template.HTMLEscapeString(ref.Handle), version)) + child + "</div>", nil
}
