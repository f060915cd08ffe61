// Package normalizer prepares uploaded images for submission to the
// analysis service: decode, bounded downscale, JPEG re-encode.
package normalizer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/plantlens/plant-analyzer/internal/utils"
	"github.com/plantlens/plant-analyzer/pkg/types"
)

// DecodeError indicates the input could not be decoded as an image.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image %q: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError indicates re-encoding produced no usable output.
type EncodeError struct {
	Filename string
	Err      error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode image %q: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("encode image %q: empty output", e.Filename)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Config holds configuration for image normalization
type Config struct {
	// MaxEdge bounds the long edge of the output in pixels.
	MaxEdge int
	// Quality is the JPEG output quality (1-100).
	Quality int
}

// Normalizer converts arbitrary input images into bounded JPEG copies
type Normalizer struct {
	config Config
}

// New creates a Normalizer with default configuration
func New() *Normalizer {
	return &Normalizer{
		config: Config{
			MaxEdge: 1024,
			Quality: 70,
		},
	}
}

// NewWithConfig creates a Normalizer with custom configuration
func NewWithConfig(config Config) *Normalizer {
	if config.MaxEdge <= 0 {
		config.MaxEdge = 1024
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 70
	}
	return &Normalizer{config: config}
}

// Normalize decodes the input, downscales it so the long edge does not
// exceed MaxEdge (never upscaling), and re-encodes it as JPEG. The output
// filename keeps the input base name with the extension rewritten to .jpg.
func (n *Normalizer) Normalize(r io.Reader, filename string) (*types.NormalizedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Filename: filename, Err: err}
	}

	img, err := decodeImageFromBytes(data)
	if err != nil {
		return nil, &DecodeError{Filename: filename, Err: err}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > n.config.MaxEdge || h > n.config.MaxEdge {
		// Resize the driving dimension to MaxEdge; imaging derives the
		// other dimension from the aspect ratio.
		if w >= h {
			img = imaging.Resize(img, n.config.MaxEdge, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, n.config.MaxEdge, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.config.Quality}); err != nil {
		return nil, &EncodeError{Filename: filename, Err: err}
	}
	if buf.Len() == 0 {
		return nil, &EncodeError{Filename: filename}
	}

	out := img.Bounds()
	return &types.NormalizedImage{
		Data:      buf.Bytes(),
		MediaType: "image/jpeg",
		Filename:  utils.ReplaceExtension(filename, "jpg"),
		Width:     out.Dx(),
		Height:    out.Dy(),
	}, nil
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func decodeImageFromBytes(data []byte) (image.Image, error) {
	// Try standard image.Decode first
	reader := bytes.NewReader(data)
	if img, _, err := image.Decode(reader); err == nil {
		return img, nil
	}

	// Try WebP decode
	reader = bytes.NewReader(data)
	if img, err := webp.Decode(reader); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("image: unknown or unsupported format")
}
