package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kilianp07/evload/core/model"
)

// Source opens named profile resources.
type Source interface {
	// Open returns a reader for the named resource. Implementations must
	// wrap model.ErrResourceNotFound when the resource does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource reads profile files from a local directory.
type DirSource struct {
	Dir string
}

// Open opens Dir/name.
func (s DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: invalid resource name %q", model.ErrResourceNotFound, name)
	}
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrResourceNotFound, name)
		}
		return nil, err
	}
	return f, nil
}

// FSSource reads profile files from an fs.FS such as an embed.FS or
// fstest.MapFS.
type FSSource struct {
	FS fs.FS
}

// Open opens name from the file system.
func (s FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.FS.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrResourceNotFound, name)
		}
		return nil, err
	}
	return f, nil
}
