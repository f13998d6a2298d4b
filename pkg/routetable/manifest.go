package routetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/vango-dev/docroutes/internal/errors"
)

// Format is a route manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"

	// FormatJS is the routes.js module emitted by the site generator.
	FormatJS Format = "js"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "js", "mjs":
		return FormatJS, nil
	}
	return "", errors.New("E102").WithDetail(fmt.Sprintf("unsupported format %q", name))
}

// FormatFromPath picks the Format matching a file or object key extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New("E102").
			WithDetail(fmt.Sprintf("%s has no file extension", path)).
			WithSuggestion("Name the manifest routes.json, routes.yaml, routes.toml or routes.js")
	}
	return ParseFormat(ext)
}

// ManifestEntry is the serialized form of an Entry.
type ManifestEntry struct {
	Path      string          `json:"path" yaml:"path" toml:"path"`
	Component string          `json:"component,omitempty" yaml:"component,omitempty" toml:"component,omitempty"`
	Version   string          `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Exact     bool            `json:"exact,omitempty" yaml:"exact,omitempty" toml:"exact,omitempty"`
	Sidebar   string          `json:"sidebar,omitempty" yaml:"sidebar,omitempty" toml:"sidebar,omitempty"`
	Routes    []ManifestEntry `json:"routes,omitempty" yaml:"routes,omitempty" toml:"routes,omitempty"`
}

// Manifest is the document wrapping the top-level routes.
type Manifest struct {
	Routes []ManifestEntry `json:"routes" yaml:"routes" toml:"routes"`
}

// FromManifest converts manifest entries into a validated Table.
func FromManifest(entries []ManifestEntry) (*Table, error) {
	return New(fromManifest(entries))
}

func fromManifest(entries []ManifestEntry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, m := range entries {
		out[i] = Entry{
			Path:      m.Path,
			Component: ComponentRef{Handle: m.Component, Version: m.Version},
			Exact:     m.Exact,
			Sidebar:   m.Sidebar,
			Children:  fromManifest(m.Routes),
		}
	}
	return out
}

// Manifest returns the table in serialized form.
func (t *Table) Manifest() Manifest {
	return Manifest{Routes: toManifest(t.entries)}
}

func toManifest(entries []Entry) []ManifestEntry {
	if entries == nil {
		return nil
	}
	out := make([]ManifestEntry, len(entries))
	for i, e := range entries {
		out[i] = ManifestEntry{
			Path:      e.Path,
			Component: e.Component.Handle,
			Version:   e.Component.Version,
			Exact:     e.Exact,
			Sidebar:   e.Sidebar,
			Routes:    toManifest(e.Children),
		}
	}
	return out
}

// Decode reads a manifest in the given format and builds a Table.
func Decode(r io.Reader, format Format) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("E110").Wrap(err)
	}

	var routes []ManifestEntry
	switch format {
	case FormatJSON:
		routes, err = decodeJSON(data)
	case FormatYAML:
		var m Manifest
		err = yaml.Unmarshal(data, &m)
		routes = m.Routes
	case FormatTOML:
		var m Manifest
		_, err = toml.Decode(string(data), &m)
		routes = m.Routes
	case FormatJS:
		routes, err = ParseJSModule(data)
	default:
		return nil, errors.New("E102").WithDetail(fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, errors.New("E101").WithDetail(string(format) + " manifest").Wrap(err)
	}

	return FromManifest(routes)
}

// decodeJSON accepts either {"routes": [...]} or a bare array.
func decodeJSON(data []byte) ([]ManifestEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var routes []ManifestEntry
		err := json.Unmarshal(trimmed, &routes)
		return routes, err
	}
	var m Manifest
	err := json.Unmarshal(trimmed, &m)
	return m.Routes, err
}

// DecodeFile reads a manifest file, choosing the format from its extension.
func DecodeFile(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E111").WithDetail(path)
		}
		return nil, errors.New("E110").WithDetail(path).Wrap(err)
	}
	defer f.Close()

	return Decode(f, format)
}

// Encode writes the table in the given format.
func Encode(w io.Writer, t *Table, format Format) error {
	m := t.Manifest()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		data, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	case FormatJS:
		return writeJSModule(w, m.Routes)
	}
	return errors.New("E102").WithDetail(fmt.Sprintf("unsupported format %q", format))
}
