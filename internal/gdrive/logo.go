package gdrive

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// DefaultLogoWidth is the width logos are scaled down to.
const DefaultLogoWidth = 512

// ResizeLogo decodes an uploaded image, shrinks it to at most maxWidth
// pixels wide keeping its aspect ratio, and re-encodes it as PNG.
func ResizeLogo(r io.Reader, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultLogoWidth
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions returns the size of an encoded image.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
