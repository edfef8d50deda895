package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrEmptyContent = errors.New("file buffer is missing")
	ErrNotFound     = errors.New("media object not found")
	ErrForeignURL   = errors.New("url is not managed by this store")
)

// Store persists uploaded bytes and hands back the public URL they are
// served under. Implementations never return a URL for content that was not
// completely written.
type Store interface {
	Save(ctx context.Context, data []byte, originalFilename, mimeType, folder string) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
	// Delete removes the object behind url. An object that is already gone is
	// not an error.
	Delete(ctx context.Context, url string) error
	// List returns the URL of every stored object.
	List(ctx context.Context) ([]string, error)
}

func cleanFolder(folder string) string {
	return strings.Trim(path.Clean("/"+strings.ReplaceAll(folder, "\\", "/")), "/")
}

func filenameFor(originalFilename, mimeType string) string {
	ext := ExtensionForMIME(mimeType)
	if ext == "" {
		ext = Extension(originalFilename)
	}
	return UniqueFilename(ext)
}
