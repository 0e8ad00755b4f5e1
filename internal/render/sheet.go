package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/example/rxpad/internal/docfile"
	xdraw "golang.org/x/image/draw"
)

// Sheet is one printable page: the form fields, the page raster and the
// signature raster.
type Sheet struct {
	Meta      docfile.Metadata
	Page      image.Image
	Signature image.Image
	Number    int // 1-based
	Count     int
}

// SheetLayout controls the print sheet geometry in pixels.
type SheetLayout struct {
	Margin         int
	SignatureWidth int
	TitleSize      float64
	TextSize       float64
}

// DefaultSheetLayout returns the layout used by print.
func DefaultSheetLayout() SheetLayout {
	return SheetLayout{Margin: 24, SignatureWidth: 220, TitleSize: 22, TextSize: 13}
}

var (
	ink      = color.RGBA{0, 0, 0, 255}
	faint    = color.RGBA{90, 90, 90, 255}
	ruleLine = color.RGBA{160, 160, 160, 255}
)

// HeaderLines returns the header rows printed above the page.
func HeaderLines(m docfile.Metadata) []string {
	var lines []string
	add := func(parts ...string) {
		var kept []string
		for _, p := range parts {
			if !strings.HasSuffix(strings.TrimSpace(p), ":") {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			lines = append(lines, strings.Join(kept, "    "))
		}
	}
	add("Doctor: " + m.DoctorName)
	add("Patient: "+m.PatientName, "Age: "+m.PatientAge, "Gender: "+m.PatientGender)
	add("Date: "+m.Date, "Time: "+m.Time)
	add("Prescription: " + m.PrescriptionID)
	return lines
}

// ComposeSheet renders s onto a white sheet as wide as the page plus margins.
func ComposeSheet(s Sheet, layout SheetLayout) (*image.RGBA, error) {
	if s.Page == nil {
		return nil, fmt.Errorf("compose sheet: no page")
	}
	title, err := Face(layout.TitleSize, true)
	if err != nil {
		return nil, err
	}
	body, err := Face(layout.TextSize, false)
	if err != nil {
		return nil, err
	}
	_, titleH := MeasureText(title, "Rx")
	_, lineH := MeasureText(body, "Rx")
	lines := HeaderLines(s.Meta)

	m := layout.Margin
	pb := s.Page.Bounds()
	headerH := titleH + len(lines)*(lineH+4) + m/2

	var sigRect image.Rectangle
	footerH := lineH*2 + m
	if s.Signature != nil && !s.Signature.Bounds().Empty() {
		sb := s.Signature.Bounds()
		w := min(layout.SignatureWidth, sb.Dx())
		h := sb.Dy() * w / sb.Dx()
		sigRect = image.Rect(0, 0, w, h)
		footerH += h
	}

	width := pb.Dx() + 2*m
	height := m + headerH + pb.Dy() + footerH + m
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	y := m
	clinic := strings.TrimSpace(s.Meta.ClinicName)
	if clinic == "" {
		clinic = "Prescription"
	}
	DrawText(dst, title, image.Pt(m, y), clinic, ink)
	if s.Count > 1 {
		label := fmt.Sprintf("Page %d of %d", s.Number, s.Count)
		lw, _ := MeasureText(body, label)
		DrawText(dst, body, image.Pt(width-m-lw, y), label, faint)
	}
	y += titleH + 4
	for _, line := range lines {
		DrawText(dst, body, image.Pt(m, y), line, ink)
		y += lineH + 4
	}
	y += m/2 - 2
	draw.Draw(dst, image.Rect(m, y, width-m, y+1), image.NewUniform(ruleLine), image.Point{}, draw.Src)
	y += 1

	pageRect := image.Rect(m, y, m+pb.Dx(), y+pb.Dy())
	draw.Draw(dst, pageRect, s.Page, pb.Min, draw.Over)
	y = pageRect.Max.Y + m/2

	if !sigRect.Empty() {
		sigRect = sigRect.Add(image.Pt(width-m-sigRect.Dx(), y))
		xdraw.CatmullRom.Scale(dst, sigRect, s.Signature, s.Signature.Bounds(), draw.Over, nil)
		y = sigRect.Max.Y
	}
	lineX0 := width - m - max(sigRect.Dx(), layout.SignatureWidth)
	draw.Draw(dst, image.Rect(lineX0, y+2, width-m, y+3), image.NewUniform(ink), image.Point{}, draw.Src)
	caption := "Signature"
	if name := strings.TrimSpace(s.Meta.DoctorName); name != "" {
		caption = name
	}
	DrawText(dst, body, image.Pt(lineX0, y+6), caption, faint)
	return dst, nil
}
