// Package render composes raster output around pad pages: the window's sheet
// shadow, text drawing, and the printable prescription sheet.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow drawn under a sheet.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions suits a sheet shown on the pad window backdrop.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  8,
		Offset:  image.Pt(4, 6),
		Opacity: 0.45,
	}
}

// SheetShadow returns the blurred coverage mask of a rectangle of the given
// size together with where the mask's origin sits relative to the
// rectangle's top-left corner. A nil mask means no shadow.
func SheetShadow(size image.Point, opts ShadowOptions) (*image.Alpha, image.Point) {
	if size.X <= 0 || size.Y <= 0 || opts.Opacity <= 0 {
		return nil, image.Point{}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}
	bounds := image.Rect(0, 0, size.X+2*radius, size.Y+2*radius)
	mask := image.NewAlpha(bounds)
	level := image.NewUniform(alphaOf(opacity))
	draw.Draw(mask, image.Rect(radius, radius, radius+size.X, radius+size.Y), level, image.Point{}, draw.Src)
	return boxBlur(mask, radius), opts.Offset.Sub(image.Pt(radius, radius))
}

// DrawSheetShadow paints the shadow for a sheet placed at r onto dst.
func DrawSheetShadow(dst draw.Image, r image.Rectangle, opts ShadowOptions, shadow image.Image) {
	mask, off := SheetShadow(r.Size(), opts)
	if mask == nil {
		return
	}
	at := mask.Bounds().Add(r.Min.Add(off))
	draw.DrawMask(dst, at, shadow, image.Point{}, mask, image.Point{}, draw.Over)
}

// boxBlur runs a separable box blur of the given radius using prefix sums.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	dst := image.NewAlpha(b)
	prefix := make([]int, max(w, h)+1)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		out := tmp.Pix[y*tmp.Stride:]
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			out[x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}

func alphaOf(opacity float64) color.Alpha {
	return color.Alpha{A: uint8(opacity*255 + 0.5)}
}
