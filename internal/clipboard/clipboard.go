// Package clipboard publishes page images to the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

var errNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")

// writePNG is replaced in tests.
var writePNG = publishPNG

// WriteImage encodes img as PNG and takes clipboard ownership. The returned
// channel is closed once another client replaces the clipboard content; the
// process must stay alive until then for the data to remain pasteable.
func WriteImage(img image.Image) (<-chan struct{}, error) {
	if img == nil {
		return nil, fmt.Errorf("clipboard: no image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("clipboard: encode: %w", err)
	}
	return writePNG(buf.Bytes())
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
