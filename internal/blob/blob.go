// Package blob stores uploaded files under generated names.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

// TeamsDir is the logical directory holding team profile images.
const TeamsDir = "teams"

// ErrNotFound is returned when a named blob does not exist.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidName is returned for names that are empty or escape the store directory.
var ErrInvalidName = errors.New("invalid blob name")

// Store saves and removes blobs by name within a single directory.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) error
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// NewName returns a collision-resistant blob name with the given extension,
// e.g. "3f2c...9a1b.png". A leading dot on ext is optional.
func NewName(ext string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// ValidName reports whether name is a plain file name usable as a blob key.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
