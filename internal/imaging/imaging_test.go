package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"photo.JPG", true},
		{"scan.jpeg", true},
		{"anim.gif", true},
		{"modern.webp", true},
		{"old.bmp", true},
		{"doc.pdf", false},
		{"script.exe", false},
		{"noextension", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := AllowedExtension(tt.filename); got != tt.want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage(pngBytes(t, 4, 4)) {
		t.Error("expected png data to be detected as image")
	}

	if IsImage([]byte("this is plain text, not an image")) {
		t.Error("expected text data to be rejected")
	}

	if IsImage([]byte{0x25, 0x50, 0x44, 0x46, 0x2d}) {
		t.Error("expected pdf signature to be rejected")
	}
}

func TestOptimize_ReencodesAsJPEG(t *testing.T) {
	data := Optimize(pngBytes(t, 100, 80))

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode optimized image: %v", err)
	}

	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}

	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Errorf("expected 100x80 to keep its size, got %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestOptimize_DownscalesLargeImages(t *testing.T) {
	data := Optimize(pngBytes(t, 3840, 2160))

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode optimized image: %v", err)
	}

	if img.Bounds().Dx() != 1920 || img.Bounds().Dy() != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestOptimize_ReturnsOriginalOnDecodeFailure(t *testing.T) {
	garbage := []byte("definitely not an image")
	if got := Optimize(garbage); !bytes.Equal(got, garbage) {
		t.Error("expected original bytes back for undecodable input")
	}
}

func TestOptimize_FlattensTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	// Fully transparent input should come out white after flattening.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}

	out, err := jpeg.Decode(bytes.NewReader(Optimize(buf.Bytes())))
	if err != nil {
		t.Fatalf("failed to decode optimized image: %v", err)
	}

	r, g, b, _ := out.At(5, 5).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected near-white pixel, got r=%d g=%d b=%d", r>>8, g>>8, b>>8)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"within bounds", 800, 600, 800, 600},
		{"exact bounds", 1920, 1080, 1920, 1080},
		{"too wide", 3840, 1080, 1920, 540},
		{"too tall", 1920, 2160, 960, 1080},
		{"both oversized", 3840, 2160, 1920, 1080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, maxWidth, maxHeight)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitWithin(%d, %d) = %d, %d, want %d, %d",
					tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
