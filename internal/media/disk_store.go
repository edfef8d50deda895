package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const tempPrefix = ".upload-"

// DiskStore keeps uploads below a root directory that is served verbatim
// under PublicPrefix.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) Save(ctx context.Context, data []byte, originalFilename, mimeType, folder string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder = cleanFolder(folder)
	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	// MkdirAll treats an existing directory as success, which is what makes
	// concurrent first uploads into a new folder safe.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := filenameFor(originalFilename, mimeType)

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		slog.Info(err.Error())
	}
	if err := os.Rename(tmpName, filepath.Join(dir, filename)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publish upload: %w", err)
	}

	return Join(folder, filename), nil
}

func (s *DiskStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	p, err := s.resolve(url)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, err
	}
	return f, nil
}

func (s *DiskStore) Delete(ctx context.Context, url string) error {
	p, err := s.resolve(url)
	if errors.Is(err, ErrForeignURL) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	var urls []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		urls = append(urls, Canonicalize(filepath.ToSlash(rel)))
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (s *DiskStore) resolve(url string) (string, error) {
	if IsAbsoluteURL(url) {
		return "", ErrForeignURL
	}
	rel := RelativePath(url)
	if rel == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, url)
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}
