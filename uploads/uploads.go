// Package uploads stores post images on local disk under the public
// uploads directory.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// PublicPrefix is the URL prefix the stored files are served under.
const PublicPrefix = "/uploads"

// ImageStore writes uploaded images into a directory and hands back the
// public path to record on the post.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: creating %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the filesystem directory backing the store.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a generated name (millisecond
// timestamp plus the original extension) and returns its public path.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("uploads: opening upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), strings.ToLower(filepath.Ext(fh.Filename)))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("uploads: creating file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("uploads: writing file: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Remove deletes the file behind a public path. Best effort: a missing
// file is not an error, and only the base name is used so the store never
// touches anything outside its directory.
func (s *ImageStore) Remove(publicPath string) {
	if publicPath == "" {
		return
	}
	_ = os.Remove(filepath.Join(s.dir, path.Base(publicPath)))
}
