package services

import (
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"yatube/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MediaURLPrefix is where uploaded files are served from.
const MediaURLPrefix = "/media/"

var unsafeNameChars = regexp.MustCompile(`[^\w.-]`)

// MediaStore keeps uploaded files on the local disk under Root.
type MediaStore struct {
	Root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{Root: root}
}

// SaveImage 保存上传的图片到 posts/ 目录，返回相对路径
// A name that is already taken gets a short random suffix.
func (m *MediaStore) SaveImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	dir := filepath.Join(m.Root, models.ImageUploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}

	name := cleanFilename(fh.Filename)
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		ext := path.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:7] + ext
		dst, err = os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", errors.Wrap(err, "create media file")
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "write media file")
	}
	if err := dst.Close(); err != nil {
		return "", errors.Wrap(err, "close media file")
	}
	return path.Join(models.ImageUploadDir, name), nil
}

// Remove deletes a stored file; a missing file is not an error.
func (m *MediaStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.Root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove media file")
	}
	return nil
}

// URL is the public address of a stored file.
func (m *MediaStore) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return MediaURLPrefix + (&url.URL{Path: rel}).EscapedPath()
}

func cleanFilename(name string) string {
	// browsers may send a full client-side path
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		name = "image"
	}
	return name
}
