// Package upload stores admin-submitted cover images and article PDFs
// under predictable timestamped names.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".svg": true,
}

type Store struct {
	CoversDir string
	PDFsDir   string
}

func NewStore(coversDir, pdfsDir string) *Store {
	return &Store{CoversDir: coversDir, PDFsDir: pdfsDir}
}

// SaveImage stores a cover image, returning the stored file name.
func (s *Store) SaveImage(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	return save(file, s.CoversDir, ext)
}

// SavePDF stores an article PDF, returning the stored file name.
func (s *Store) SavePDF(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	return save(file, s.PDFsDir, ext)
}

// save writes the upload under a timestamp-prefixed sanitized name.
func save(file *multipart.FileHeader, dir, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	base := sanitizeBase(strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename)))
	name := fmt.Sprintf("%s_%s%s", time.Now().Format("20060102-150405"), base, ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filepath.Join(dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return name, nil
}

// sanitizeBase keeps a conservative character set in stored file names.
func sanitizeBase(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
