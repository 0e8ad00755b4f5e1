package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type faceKey struct {
	bold bool
	size float64
}

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *sfnt.Font
	bold      *sfnt.Font
	faces     sync.Map // faceKey -> font.Face
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// Face returns a cached Go font face at size points (72 DPI).
func Face(size float64, isBold bool) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	key := faceKey{isBold, size}
	if f, ok := faces.Load(key); ok {
		return f.(font.Face), nil
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	src := regular
	if isBold {
		src = bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	actual, _ := faces.LoadOrStore(key, f)
	return actual.(font.Face), nil
}

// MeasureText returns the advance width and line height of text.
func MeasureText(face font.Face, text string) (width, height int) {
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// DrawText draws text with its top-left corner at pt and returns the
// rectangle it covers.
func DrawText(dst draw.Image, face font.Face, pt image.Point, text string, col color.Color) image.Rectangle {
	w, h := MeasureText(face, text)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return image.Rect(pt.X, pt.Y, pt.X+w, pt.Y+h)
}
