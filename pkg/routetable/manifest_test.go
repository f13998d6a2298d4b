package routetable

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/docroutes/internal/errors"
)

func loadSample(t *testing.T) *Table {
	t.Helper()
	table, err := DecodeFile(filepath.Join("testdata", "routes.js"))
	require.NoError(t, err)
	return table
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json": FormatJSON,
		".JSON": FormatJSON,
		"yaml": FormatYAML,
		".yml": FormatYAML,
		"toml": FormatTOML,
		"js":   FormatJS,
		".mjs": FormatJS,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.HasCode(err, "E102"))
}

func TestFormatFromPath(t *testing.T) {
	got, err := FormatFromPath("build/routes.yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, got)

	_, err = FormatFromPath("build/routes")
	assert.True(t, errors.HasCode(err, "E102"))
}

func TestDecodeSampleModule(t *testing.T) {
	table := loadSample(t)

	assert.Equal(t, 31, table.Len())
	assert.Len(t, table.Root(), 18)
	assert.Equal(t, Ref("*", ""), table.Wildcard().Component)

	first := table.Root()[0]
	assert.Equal(t, "/bot-box/blog", first.Path)
	assert.Equal(t, Ref("/bot-box/blog", "811"), first.Component)
	assert.True(t, first.Exact)

	sidebars := 0
	for _, leaf := range table.Leaves() {
		if leaf.Entry.Sidebar == "tutorialSidebar" {
			sidebars++
			assert.Len(t, leaf.Chain, 4, leaf.Entry.Path)
		}
	}
	assert.Equal(t, 11, sidebars)
}

func TestDecodeJSONForms(t *testing.T) {
	object := `{"routes":[{"path":"/a","component":"/a","version":"1","exact":true},{"path":"*","component":"*"}]}`
	array := `[{"path":"/a","component":"/a","version":"1","exact":true},{"path":"*","component":"*"}]`

	a, err := Decode(strings.NewReader(object), FormatJSON)
	require.NoError(t, err)
	b, err := Decode(strings.NewReader(array), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, Ref("/a", "1"), a.Root()[0].Component)
}

func TestDecodeYAML(t *testing.T) {
	src := `
routes:
  - path: /docs
    component: /docs
    version: 1cd
    routes:
      - path: /docs/intro
        component: /docs/intro
        version: 59e
        exact: true
        sidebar: tutorialSidebar
  - path: "*"
    component: "*"
`
	table, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)

	docs := table.Root()[0]
	assert.Equal(t, KindNested, docs.Kind())
	require.Len(t, docs.Children, 1)
	assert.Equal(t, "tutorialSidebar", docs.Children[0].Sidebar)
}

func TestDecodeTOML(t *testing.T) {
	src := `
[[routes]]
path = "/docs"
component = "/docs"
version = "1cd"

  [[routes.routes]]
  path = "/docs/intro"
  component = "/docs/intro"
  version = "59e"
  exact = true

[[routes]]
path = "*"
component = "*"
`
	table, err := Decode(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "/docs/intro", table.Root()[0].Children[0].Path)
}

func TestRoundTripAllFormats(t *testing.T) {
	sample := loadSample(t)

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML, FormatJS} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, sample, format))

			decoded, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, sample.Fingerprint(), decoded.Fingerprint())
			assert.Equal(t, sample.Entries(), decoded.Entries())
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSON)
	assert.True(t, errors.HasCode(err, "E101"))

	_, err = Decode(strings.NewReader(`[{"path":"/a","component":"a","exact":true}]`), FormatJSON)
	assert.True(t, errors.HasCode(err, "E100"), "table without wildcard must fail validation")

	_, err = Decode(strings.NewReader("[]"), Format("xml"))
	assert.True(t, errors.HasCode(err, "E102"))

	var buf bytes.Buffer
	err = Encode(&buf, loadSample(t), Format("xml"))
	assert.True(t, errors.HasCode(err, "E102"))
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "routes.json"))
	assert.True(t, errors.HasCode(err, "E111"))
}

func TestDecodeFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, loadSample(t), FormatJSON))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	table, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 31, table.Len())
}
