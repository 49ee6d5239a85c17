package forms

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageSize 图片大小上限 10MB
const MaxImageSize = 10 * 1024 * 1024

var (
	ErrImageTooLarge = errors.New("image is larger than 10MB")
	ErrNotAnImage    = errors.New("file is not a decodable image")
)

// ValidateImage checks that an upload decodes as gif, jpeg, png, webp or bmp and
// returns the detected format.
func ValidateImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return "", ErrNotAnImage
	}
	return format, nil
}

func imageMessage(err error) string {
	if errors.Is(err, ErrImageTooLarge) {
		return "The image must be 10 MB or smaller."
	}
	return msgInvalidImage
}
