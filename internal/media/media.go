package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	proofsDir = "workshops/proofs"
	imagesDir = "workshops/images"
	qrDir     = "workshops/qr"
)

// Store keeps uploaded files under a local root and builds the absolute
// URLs they are served from.
type Store struct {
	root    string
	baseURL string
}

func NewStore(root, baseURL string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	for _, dir := range []string{proofsDir, imagesDir, qrDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media root: %w", err)
		}
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Store) Root() string { return s.root }

// URL resolves a stored relative path to an absolute URL; an empty path
// stays an empty string.
func (s *Store) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return s.baseURL + "/media/" + strings.TrimLeft(relPath, "/")
}

// SavePaymentProof stores an uploaded proof for a registration and
// returns the relative media path. The stored name is prefixed with the
// registration id, so a repeat upload replaces the previous file's role
// without colliding across registrations.
func (s *Store) SavePaymentProof(file *multipart.FileHeader, registrationID int64) (string, error) {
	return s.save(file, proofsDir, registrationID)
}

// SaveWorkshopImage stores a workshop cover image.
func (s *Store) SaveWorkshopImage(file *multipart.FileHeader, workshopID int64) (string, error) {
	return s.save(file, imagesDir, workshopID)
}

// SaveWorkshopQR stores a workshop payment-QR image.
func (s *Store) SaveWorkshopQR(file *multipart.FileHeader, workshopID int64) (string, error) {
	return s.save(file, qrDir, workshopID)
}

func (s *Store) save(file *multipart.FileHeader, dir string, ownerID int64) (string, error) {
	name := sanitizeFilename(file.Filename)
	relPath := path.Join(dir, fmt.Sprintf("%d_%s", ownerID, name))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return relPath, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "upload"
	}
	return out
}
