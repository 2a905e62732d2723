package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFormatoNoSoportado is returned when the uploaded bytes are not JPEG, PNG or WebP.
var ErrFormatoNoSoportado = errors.New("formato de imagen no soportado")

var extensiones = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// FileStore keeps uploaded photos on local disk under a single directory.
// References handed back are bare file names, never paths.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Store sniffs the content type, writes data under a fresh uuid name and
// returns that name.
func (s *FileStore) Store(_ context.Context, data []byte) (string, error) {
	ext, ok := extensiones[http.DetectContentType(data)]
	if !ok {
		return "", ErrFormatoNoSoportado
	}
	ref := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("media: write %s: %w", ref, err)
	}
	return ref, nil
}

// Delete removes a stored photo. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context, ref string) error {
	if ref == "" || strings.ContainsAny(ref, `/\`) || ref == "." || ref == ".." {
		return fmt.Errorf("media: invalid reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.dir, ref))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media: delete %s: %w", ref, err)
	}
	return nil
}

// Dir is the root served under /media.
func (s *FileStore) Dir() string { return s.dir }
