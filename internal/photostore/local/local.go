package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/photostore"
)

// LocalPhotoStore keeps each owner's photos in its own directory under
// basePath. Storage keys have the form "<prefix>/<uuid><ext>".
type LocalPhotoStore struct {
	basePath string
}

func NewLocalPhotoStore(basePath string) (*LocalPhotoStore, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid photo directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &LocalPhotoStore{basePath: abs}, nil
}

// Save streams r into a temporary file and renames it into place, so a
// reader never observes a partial photo.
func (s *LocalPhotoStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prefix == "" || strings.ContainsAny(prefix, `/\`) || prefix == "." || prefix == ".." {
		return "", fmt.Errorf("%w: bad prefix %q", photostore.ErrInvalidKey, prefix)
	}
	ext, ok := photostore.MimeTypeExt(mimeType)
	if !ok {
		return "", fmt.Errorf("%w: unsupported type %q", photostore.ErrInvalidKey, mimeType)
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	discard := func() {
		if rerr := os.Remove(tmp.Name()); rerr != nil && !os.IsNotExist(rerr) {
			slog.Error("failed to remove temp photo", "path", tmp.Name(), "error", rerr)
		}
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		discard()
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		discard()
		return "", fmt.Errorf("failed to close photo: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		discard()
		return "", fmt.Errorf("failed to move photo into place: %w", err)
	}
	return key, nil
}

// Get opens the photo and derives its MIME type from the key's extension.
func (s *LocalPhotoStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	p, err := s.resolve(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", photostore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, photostore.ExtMimeType(filepath.Ext(p)), nil
}

// Delete removes the photo and, once empty, its owner's directory.
func (s *LocalPhotoStore) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.resolve(storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return photostore.ErrNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	// fails while other photos remain
	if dir := filepath.Dir(p); dir != s.basePath {
		_ = os.Remove(dir)
	}
	return nil
}

// resolve maps a storage key to a path under basePath and rejects keys that
// would escape it.
func (s *LocalPhotoStore) resolve(storageKey string) (string, error) {
	p := filepath.Join(s.basePath, filepath.FromSlash(storageKey))
	rel, err := filepath.Rel(s.basePath, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the photo directory", photostore.ErrInvalidKey, storageKey)
	}
	return p, nil
}
