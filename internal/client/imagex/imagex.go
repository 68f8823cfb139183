// Package imagex resizes, encodes and decodes captured images.
package imagex

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/crypto/blake2b"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 80
)

var ErrEmptyImage = errors.New("image has no pixels")

// Fit returns the size of a w x h image scaled so that its longer edge does
// not exceed max. Images already within bounds keep their size.
func Fit(w, h, max int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if max <= 0 || longest <= max {
		return w, h
	}

	scale := float64(max) / float64(longest)
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Downsize scales img with Lanczos resampling so it fits within max.
func Downsize(img image.Image, max int) (image.Image, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	w, h := Fit(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return img, nil
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// EncodeJPEG encodes img at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads any registered format (JPEG, PNG, GIF, BMP, TIFF, WebP),
// applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return img, nil
}

// Checksum is the hex BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
