package api

import (
	"io/fs"
)

// fileOnlyFS hides directories so the storage file server never lists them.
type fileOnlyFS struct {
	fs fs.FS
}

func (f fileOnlyFS) Open(name string) (fs.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}

	return file, nil
}
