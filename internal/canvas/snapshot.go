package canvas

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"
)

// ErrInvalidSnapshot reports snapshot data that is not a decodable image.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

const pngDataURLPrefix = "data:image/png;base64,"

var snapshotEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Snapshot is an immutable PNG encoding of a buffer's full content. The zero
// value means "no stored content" and loads as a blank buffer.
type Snapshot struct {
	data []byte
}

// Encode captures img as a snapshot.
func Encode(img image.Image) (Snapshot, error) {
	var buf bytes.Buffer
	if err := snapshotEncoder.Encode(&buf, img); err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return Snapshot{data: buf.Bytes()}, nil
}

// FromPNG wraps PNG data as a snapshot once the whole image decodes, so a
// snapshot built from outside data always loads.
func FromPNG(data []byte) (Snapshot, error) {
	if len(data) == 0 {
		return Snapshot{}, nil
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return Snapshot{data: append([]byte(nil), data...)}, nil
}

// IsZero reports whether the snapshot holds no content.
func (s Snapshot) IsZero() bool { return len(s.data) == 0 }

// Bytes returns a copy of the PNG data.
func (s Snapshot) Bytes() []byte { return append([]byte(nil), s.data...) }

// Len is the encoded size in bytes.
func (s Snapshot) Len() int { return len(s.data) }

// Equal compares encoded content.
func (s Snapshot) Equal(o Snapshot) bool { return bytes.Equal(s.data, o.data) }

// Decode returns the snapshot pixels.
func (s Snapshot) Decode() (image.Image, error) {
	if s.IsZero() {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSnapshot)
	}
	img, err := png.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return img, nil
}

// DataURL renders the snapshot as a base64 PNG data URL. The zero snapshot
// renders as the empty string.
func (s Snapshot) DataURL() string {
	if s.IsZero() {
		return ""
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(s.data)
}

// ParseDataURL is the inverse of DataURL. Non-PNG image data URLs are decoded
// and re-encoded as PNG.
func ParseDataURL(u string) (Snapshot, error) {
	u = strings.TrimSpace(u)
	if u == "" {
		return Snapshot{}, nil
	}
	if !strings.HasPrefix(u, "data:image/") {
		return Snapshot{}, fmt.Errorf("%w: not an image data URL", ErrInvalidSnapshot)
	}
	header, payload, ok := strings.Cut(u, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return Snapshot{}, fmt.Errorf("%w: data URL is not base64", ErrInvalidSnapshot)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if header == strings.TrimSuffix(pngDataURLPrefix, ",") {
		return FromPNG(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return Encode(img)
}
