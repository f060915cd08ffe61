package normalizer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a pattern with a bright region so JPEG has something to encode
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	n := New()
	if n == nil {
		t.Fatal("New() returned nil")
	}

	if n.config.MaxEdge != 1024 {
		t.Errorf("expected default MaxEdge 1024, got %d", n.config.MaxEdge)
	}

	if n.config.Quality != 70 {
		t.Errorf("expected default Quality 70, got %d", n.config.Quality)
	}
}

func TestNewWithConfigClampsInvalidValues(t *testing.T) {
	n := NewWithConfig(Config{MaxEdge: -5, Quality: 150})

	if n.config.MaxEdge != 1024 {
		t.Errorf("expected MaxEdge fallback 1024, got %d", n.config.MaxEdge)
	}

	if n.config.Quality != 70 {
		t.Errorf("expected Quality fallback 70, got %d", n.config.Quality)
	}
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	n := New()
	data := encodePNG(t, createTestImage(800, 600))

	out, err := n.Normalize(bytes.NewReader(data), "leaf.png")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if out.Width != 800 || out.Height != 600 {
		t.Errorf("expected dimensions unchanged (800x600), got %dx%d", out.Width, out.Height)
	}
}

func TestNormalizeBoundsLongEdge(t *testing.T) {
	n := New()
	data := encodePNG(t, createTestImage(2048, 1536))

	out, err := n.Normalize(bytes.NewReader(data), "leaf.png")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if out.Width != 1024 {
		t.Errorf("expected long edge 1024, got %d", out.Width)
	}

	// 1536 * 1024/2048 = 768
	if out.Height < 767 || out.Height > 769 {
		t.Errorf("expected height 768 (+/-1), got %d", out.Height)
	}
}

func TestNormalizeBoundsPortraitImages(t *testing.T) {
	n := New()
	data := encodePNG(t, createTestImage(1500, 3000))

	out, err := n.Normalize(bytes.NewReader(data), "soil.png")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if out.Height != 1024 {
		t.Errorf("expected long edge 1024, got %d", out.Height)
	}

	// 1500 * 1024/3000 = 512
	if out.Width < 511 || out.Width > 513 {
		t.Errorf("expected width 512 (+/-1), got %d", out.Width)
	}
}

func TestNormalizeRewritesExtension(t *testing.T) {
	n := New()
	data := encodePNG(t, createTestImage(100, 100))

	cases := []struct{ in, want string }{
		{"plant.png", "plant.jpg"},
		{"plant.webp", "plant.jpg"},
		{"plant", "plant.jpg"},
		{"dir/plant.PNG", "plant.jpg"},
	}

	for _, tc := range cases {
		out, err := n.Normalize(bytes.NewReader(data), tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", tc.in, err)
		}
		if out.Filename != tc.want {
			t.Errorf("Normalize(%q) filename = %q, want %q", tc.in, out.Filename, tc.want)
		}
		if out.MediaType != "image/jpeg" {
			t.Errorf("Normalize(%q) media type = %q, want image/jpeg", tc.in, out.MediaType)
		}
	}
}

func TestNormalizeIsIdempotentPerInput(t *testing.T) {
	n := New()
	data := encodePNG(t, createTestImage(1600, 900))

	first, err := n.Normalize(bytes.NewReader(data), "leaf.png")
	if err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}

	second, err := n.Normalize(bytes.NewReader(data), "leaf.png")
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}

	if first.Width != second.Width || first.Height != second.Height {
		t.Errorf("dimensions differ between runs: %dx%d vs %dx%d",
			first.Width, first.Height, second.Width, second.Height)
	}

	if !bytes.Equal(first.Data, second.Data) {
		t.Error("encoded bytes differ between runs")
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	n := New()

	_, err := n.Normalize(strings.NewReader("this is not an image"), "notes.txt")
	if err == nil {
		t.Fatal("expected decode error for non-image input")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected *DecodeError, got %T", err)
	}
}
