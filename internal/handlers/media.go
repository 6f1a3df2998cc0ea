package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const mediaPrefix = "/media/"

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

const badImageMsg = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

var errBadImage = errors.New("unsupported image file")

// mediaStore сохраняет загруженные файлы под uuid-именами.
type mediaStore struct {
	dir string
}

func newMediaStore(dir string) *mediaStore {
	return &mediaStore{dir: dir}
}

// saveFormFile сохраняет файл из multipart-поля field.
// Возвращает относительный URL ("" если поле не передано).
func (m *mediaStore) saveFormFile(r *http.Request, field, subdir string) (string, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !allowedImageExt[ext] {
		return "", errBadImage
	}
	dir := filepath.Join(m.dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := uuid.NewString() + ext
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, f); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return mediaPrefix + subdir + "/" + name, nil
}

// absURL превращает сохранённый относительный путь в абсолютный URL; пустой путь — nil.
func absURL(r *http.Request, rel string) *string {
	if rel == "" {
		return nil
	}
	u := baseURL(r) + rel
	return &u
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
