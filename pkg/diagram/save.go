package diagram

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
)

// Renderer lays out a finished diagram and encodes it as an image.
type Renderer interface {
	Render(ctx context.Context, d *Diagram, w io.Writer) error
}

// Save validates the diagram, renders it with r and writes the image to
// [Diagram.Path], replacing any existing file. It returns the written path.
//
// Save succeeds at most once per diagram. Declaration errors are reported
// before r is invoked, and nothing is written when rendering fails.
func (d *Diagram) Save(ctx context.Context, r Renderer) (string, error) {
	if d.saved {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "diagram %q has already been saved", d.name)
	}
	d.saved = true

	hooks := observability.Render()
	err := d.Err()
	hooks.OnBuildComplete(ctx, d.name, d.Stats(), err)
	if err != nil {
		return "", err
	}

	hooks.OnRenderStart(ctx, d.name, FormatPNG)
	start := time.Now()
	var buf bytes.Buffer
	err = r.Render(ctx, d, &buf)
	if err != nil && apperrors.GetCode(err) == "" {
		err = apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "render %q", d.name)
	}
	hooks.OnRenderComplete(ctx, d.name, FormatPNG, buf.Len(), time.Since(start), err)
	if err != nil {
		return "", err
	}

	path := d.Path()
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	hooks.OnWrite(ctx, path, buf.Len())
	return path, nil
}

// Draw is the scoped form of a diagram: it creates a diagram, runs build to
// declare its contents and saves it with r once build returns. If build
// panics the panic propagates and no file is written.
func Draw(ctx context.Context, r Renderer, name string, build func(*Diagram), opts ...Option) (string, error) {
	d := New(name, opts...)
	if build != nil {
		build(d)
	}
	return d.Save(ctx, r)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written image.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "replace %s", path)
	}
	return nil
}
