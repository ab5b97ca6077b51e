// Package imaging normalizes avatar and card images to PNG before upload.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"strings"
)

var (
	// ErrNotDataURI is returned when parsing a string that is not a data URI.
	ErrNotDataURI = errors.New("not a data uri")
	// ErrEmptyImage is returned for zero-length input.
	ErrEmptyImage = errors.New("empty image")
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// IsPNG reports whether b starts with the PNG signature.
func IsPNG(b []byte) bool {
	return bytes.HasPrefix(b, pngMagic)
}

// IsDataURI reports whether s is an inline image.
func IsDataURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// ParseDataURI decodes data:<mime>[;base64],<payload>.
func ParseDataURI(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrNotDataURI
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("data uri: missing payload")
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("data uri: %w", err)
		}
		return b, mime, nil
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data uri: %w", err)
	}
	return []byte(decoded), mime, nil
}

// DataURI encodes a PNG as an inline image.
func DataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// EnsurePNG returns b unchanged when it is already PNG, otherwise decodes
// it (JPEG, GIF) and re-encodes it as PNG.
func EnsurePNG(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrEmptyImage
	}
	if IsPNG(b) {
		return b, nil
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder renders a flat square avatar used when the real one cannot
// be fetched or decoded.
func Placeholder() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0x9e, G: 0x9e, B: 0xb0, A: 0xff}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
