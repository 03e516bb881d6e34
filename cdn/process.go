package cdn

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 85
)

// Processed is a decoded, normalized image ready for upload.
type Processed struct {
	Data   []byte
	Width  int
	Height int
}

// Process decodes an image (JPEG, PNG, GIF, or WebP), downscales it to at
// most maxImageWidth wide, and re-encodes it as JPEG so upload payloads stay
// bounded regardless of what the author drops into the form.
func Process(src io.Reader) (Processed, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Processed{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Processed{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Processed{Data: buf.Bytes(), Width: w, Height: h}, nil
}
