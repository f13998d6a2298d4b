// Package routepath normalizes request paths and implements the
// segment-boundary prefix rule used by route resolution.
package routepath

import (
	"errors"
	"strings"
)

// Path cleaning errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Cleaned is the result of Clean.
type Cleaned struct {
	// Path is the normalized path, always starting with "/".
	Path string

	// Query is the query string without the leading "?".
	Query string

	// Fragment is the fragment without the leading "#".
	Fragment string

	// Changed reports whether Path differs from the raw path part of the input.
	Changed bool
}

// Clean normalizes a raw request path for resolution.
//
// The query string and fragment are split off. The path gets a leading "/",
// repeated slashes are collapsed, "." segments are dropped and ".." segments
// are resolved. A trailing slash is kept: route tables register "/site/"
// and "/site" as different paths.
//
// Inputs containing a backslash, a NUL byte (literal or %00), a malformed
// percent escape, or a ".." that climbs above the root are rejected.
func Clean(input string) (Cleaned, error) {
	if input == "" {
		return Cleaned{Path: "/", Changed: true}, nil
	}

	raw, fragment, _ := strings.Cut(input, "#")
	raw, query, _ := strings.Cut(raw, "?")

	if strings.Contains(raw, "\\") {
		return Cleaned{}, ErrBackslashInPath
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return Cleaned{}, ErrNullByteInPath
	}
	if strings.Contains(raw, "%") {
		if err := validatePercentEscapes(raw); err != nil {
			return Cleaned{}, err
		}
	}

	trailing := len(raw) > 1 && strings.HasSuffix(raw, "/")

	var segments []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return Cleaned{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path := "/" + strings.Join(segments, "/")
	if trailing && path != "/" {
		path += "/"
	}

	return Cleaned{
		Path:     path,
		Query:    query,
		Fragment: fragment,
		Changed:  path != raw,
	}, nil
}

// validatePercentEscapes checks that every "%" starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// HasSegmentPrefix reports whether prefix covers path on a segment boundary.
//
// "/docs" covers "/docs" and "/docs/intro" but not "/docsx". A prefix that
// already ends in "/" is its own boundary, so "/site/" covers "/site/a" and
// "/" covers every absolute path.
func HasSegmentPrefix(path, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return false
	}
	if len(path) == len(prefix) || strings.HasSuffix(prefix, "/") {
		return true
	}
	return path[len(prefix)] == '/'
}

// ToggleTrailingSlash returns path with its trailing slash added or removed.
// The root is returned unchanged.
func ToggleTrailingSlash(path string) string {
	if path == "/" || path == "" {
		return path
	}
	if strings.HasSuffix(path, "/") {
		return strings.TrimSuffix(path, "/")
	}
	return path + "/"
}

// Segments splits a cleaned path into its non-empty segments.
func Segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
