package component

import (
	"context"
	"errors"
	"html/template"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rt "github.com/vango-dev/docroutes/pkg/routetable"
)

func wrap(tag string) Factory {
	return func(_ rt.ComponentRef, child template.HTML) (template.HTML, error) {
		return template.HTML("<"+tag+">") + child + template.HTML("</"+tag+">"), nil
	}
}

func TestComposeNestsOuterToInner(t *testing.T) {
	reg := NewRegistry()
	reg.Register("layout", wrap("main"))
	reg.Register("docs", wrap("article"))
	reg.Register("intro", func(ref rt.ComponentRef, child template.HTML) (template.HTML, error) {
		assert.Empty(t, child, "leaf receives no child")
		return template.HTML("intro@" + ref.Version), nil
	})

	out, err := Compose(context.Background(), reg, []rt.ComponentRef{
		rt.Ref("layout", "1"),
		rt.Ref("docs", "2"),
		rt.Ref("intro", "3"),
	})
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<main><article>intro@3</article></main>"), out)
}

func TestComposeDefaultFactory(t *testing.T) {
	out, err := Compose(context.Background(), NewRegistry(), []rt.ComponentRef{
		rt.Ref("/docs", "1cd"),
		rt.Ref("*", ""),
	})
	require.NoError(t, err)
	assert.Equal(t,
		template.HTML(`<div data-component="/docs" data-version="1cd"><div data-component="*"></div></div>`),
		out)
}

func TestPlaceholderEscapes(t *testing.T) {
	out, err := Placeholder(rt.Ref(`"><script>`, ""), "")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestComposeNoFactory(t *testing.T) {
	reg := NewRegistry()
	reg.SetDefault(nil)
	reg.Register("known", wrap("p"))

	_, err := Compose(context.Background(), reg, []rt.ComponentRef{rt.Ref("unknown", ""), rt.Ref("known", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFactory))
	assert.Contains(t, err.Error(), `"unknown"`)
}

func TestComposeFactoryError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Register("bad", func(rt.ComponentRef, template.HTML) (template.HTML, error) {
		return "", boom
	})

	_, err := Compose(context.Background(), reg, []rt.ComponentRef{rt.Ref("bad", "9")})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad@9")
}

func TestComposeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	reg := NewRegistry()
	reg.SetDefault(func(rt.ComponentRef, template.HTML) (template.HTML, error) {
		calls++
		return "", nil
	})

	_, err := Compose(ctx, reg, []rt.ComponentRef{rt.Ref("a", ""), rt.Ref("b", "")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestComposeEmptyChain(t *testing.T) {
	out, err := Compose(context.Background(), NewRegistry(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRegistryLookupAndHandles(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", wrap("b"))
	reg.Register("a", wrap("a"))

	_, ok := reg.Lookup("a")
	assert.True(t, ok)
	_, ok = reg.Lookup("missing")
	assert.True(t, ok, "default factory serves unknown handles")

	assert.Equal(t, []string{"a", "b"}, reg.Handles())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Register("h", wrap("x"))
		}()
		go func() {
			defer wg.Done()
			_, _ = Compose(context.Background(), reg, []rt.ComponentRef{rt.Ref("h", "")})
		}()
	}
	wg.Wait()
}
