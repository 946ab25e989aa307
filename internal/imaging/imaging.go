// Package imaging validates and optimizes uploaded screenshots before they
// are stored.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/png"
)

const (
	maxWidth    = 1920
	maxHeight   = 1080
	jpegQuality = 85
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// AllowedExtension reports whether the filename carries a supported image
// extension.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsImage checks the file signature rather than trusting the declared
// content type.
func IsImage(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// Optimize re-encodes an image as JPEG, flattening transparency onto white
// and downscaling anything larger than 1920x1080. The original bytes are
// returned unchanged when the image cannot be decoded, so a decode failure
// never blocks an upload.
func Optimize(data []byte) []byte {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return data
	}

	targetWidth, targetHeight := fitWithin(width, height, maxWidth, maxHeight)

	// Flatten onto a white background; JPEG has no alpha channel.
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return data
	}

	return buf.Bytes()
}

// fitWithin scales the dimensions down to fit the bounding box while
// preserving aspect ratio. Images already within bounds keep their size.
func fitWithin(width, height, maxW, maxH int) (int, int) {
	if width <= maxW && height <= maxH {
		return width, height
	}

	scaleW := float64(maxW) / float64(width)
	scaleH := float64(maxH) / float64(height)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
