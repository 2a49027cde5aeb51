package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as files in <root>/<dir>.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the <root>/<dir> directory if needed and returns a
// store writing into it.
func NewLocalStore(root, dir string) (*LocalStore, error) {
	full := filepath.Join(root, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &LocalStore{dir: full}, nil
}

// Dir returns the absolute-or-relative directory blobs are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes r to name, replacing any existing blob. The data is written to
// a temporary file first so readers never observe a partial blob.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing blob %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming blob %s: %w", name, err)
	}

	return nil
}

// Delete removes name. Returns ErrNotFound if it does not exist.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting blob %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name is present.
func (s *LocalStore) Exists(_ context.Context, name string) (bool, error) {
	if !ValidName(name) {
		return false, ErrInvalidName
	}

	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking blob %s: %w", name, err)
	}
	return info.Mode().IsRegular(), nil
}
