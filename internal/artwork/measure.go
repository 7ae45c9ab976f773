package artwork

import (
	"fmt"
	"image"
	"io"

	// Registered decoders for the formats artwork uploads arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// alphaSampleGrid bounds transparency sampling to a coarse grid so large
// images are not scanned pixel by pixel.
const alphaSampleGrid = 64

// Measure decodes an uploaded file into the pixel dimensions and transparency
// flag the classifier consumes. The classifier itself never touches raw
// bytes.
func Measure(name string, r io.Reader) (models.UploadedImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return models.UploadedImage{}, fmt.Errorf("decode %q: %w", name, err)
	}

	bounds := img.Bounds()
	return models.UploadedImage{
		Name:            name,
		Width:           bounds.Dx(),
		Height:          bounds.Dy(),
		HasTransparency: sampleTransparency(img, format),
	}, nil
}

// sampleTransparency walks a coarse grid over the image looking for any
// non-opaque pixel. JPEG has no alpha channel, so it short-circuits.
func sampleTransparency(img image.Image, format string) bool {
	if format == "jpeg" {
		return false
	}

	bounds := img.Bounds()
	stepX := bounds.Dx() / alphaSampleGrid
	if stepX < 1 {
		stepX = 1
	}
	stepY := bounds.Dy() / alphaSampleGrid
	if stepY < 1 {
		stepY = 1
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
