package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// MaxImageSize caps a single uploaded image.
const MaxImageSize = 5 << 20

// SaveImage stores an uploaded image under root/folder and returns its public URL path
// (/uploads/<folder>/<file>).
func SaveImage(fh *multipart.FileHeader, root, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	if fh.Size > MaxImageSize {
		return "", fmt.Errorf("image %s exceeds %d bytes", fh.Filename, MaxImageSize)
	}

	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := dst.ReadFrom(src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return "/uploads/" + folder + "/" + name, nil
}

// RemoveImages deletes files previously returned by SaveImage. Unknown or already missing
// paths are skipped.
func RemoveImages(root string, urls []string) {
	for _, u := range urls {
		rel, ok := strings.CutPrefix(u, "/uploads/")
		if !ok || rel == "" {
			continue
		}
		clean := filepath.Clean(filepath.FromSlash(rel))
		if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			continue
		}
		if err := os.Remove(filepath.Join(root, clean)); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("remove uploaded image failed", zap.String("path", u), zap.Error(err))
		}
	}
}
