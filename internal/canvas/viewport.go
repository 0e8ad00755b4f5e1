package canvas

import "image"

// Viewport describes how a buffer is displayed. The display may be scaled
// independently of the backing resolution.
type Viewport struct {
	// Origin is the top-left corner of the displayed buffer in device space.
	Origin Point
	// Width and Height are the displayed size in device units.
	Width, Height float64
}

// Map converts a device-space position to buffer pixel space using the ratio
// of buffer resolution to displayed size. A zero-sized viewport maps 1:1.
func (v Viewport) Map(bounds image.Rectangle, x, y float64) Point {
	sx, sy := 1.0, 1.0
	if v.Width > 0 {
		sx = float64(bounds.Dx()) / v.Width
	}
	if v.Height > 0 {
		sy = float64(bounds.Dy()) / v.Height
	}
	return Point{
		X: float64(bounds.Min.X) + (x-v.Origin.X)*sx,
		Y: float64(bounds.Min.Y) + (y-v.Origin.Y)*sy,
	}
}

// Contains reports whether the device-space position falls on the display.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.Origin.X && y >= v.Origin.Y && x < v.Origin.X+v.Width && y < v.Origin.Y+v.Height
}
