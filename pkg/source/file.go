package source

import (
	"context"
	"fmt"
	"os"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// File loads a manifest from the local filesystem.
type File struct {
	path   string
	format routetable.Format
}

// NewFile creates a loader for path. The format is chosen from the file
// extension when the table is loaded.
func NewFile(path string) *File {
	return &File{path: path}
}

// WithFormat overrides the extension-derived format.
func (f *File) WithFormat(format routetable.Format) *File {
	f.format = format
	return f
}

// Path returns the manifest path.
func (f *File) Path() string {
	return f.path
}

// Load implements Loader.
func (f *File) Load(ctx context.Context) (*routetable.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := f.format
	if format == "" {
		var err error
		if format, err = routetable.FormatFromPath(f.path); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E111").WithDetail(f.path)
		}
		return nil, errors.New("E110").WithDetail(f.path).Wrap(err)
	}
	defer file.Close()

	return routetable.Decode(file, format)
}

// Version implements Versioner using the file's modification time and size.
func (f *File) Version(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("E111").WithDetail(f.path)
		}
		return "", errors.New("E110").WithDetail(f.path).Wrap(err)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Describe implements Loader.
func (f *File) Describe() string {
	return "file:" + f.path
}
