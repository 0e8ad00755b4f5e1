// Package printout writes composed prescription sheets as PDF or PNG.
package printout

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/rxpad/internal/pad"
	"github.com/example/rxpad/internal/render"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// AllPages selects every page in Sheets.
const AllPages = -1

// Format is the print output encoding.
type Format int

const (
	FormatPDF Format = iota
	FormatPNG
)

// FormatFor picks the output format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".png":
		return FormatPNG, nil
	}
	return 0, fmt.Errorf("print output must end in .pdf or .png: %s", path)
}

// Sheets composes print sheets for page (zero-based) or AllPages.
func Sheets(p *pad.Pad, page int) ([]image.Image, error) {
	first, last := page, page
	if page == AllPages {
		first, last = 0, p.PageCount()-1
	}
	sig := p.SignatureImage()
	layout := render.DefaultSheetLayout()
	var out []image.Image
	for i := first; i <= last; i++ {
		img, err := p.PageImage(i)
		if err != nil {
			return nil, err
		}
		sheet, err := render.ComposeSheet(render.Sheet{
			Meta:      p.Metadata(),
			Page:      img,
			Signature: sig,
			Number:    i + 1,
			Count:     p.PageCount(),
		}, layout)
		if err != nil {
			return nil, err
		}
		out = append(out, sheet)
	}
	return out, nil
}

// WritePDF writes one A4 page per sheet.
func WritePDF(w io.Writer, sheets []image.Image) error {
	if len(sheets) == 0 {
		return fmt.Errorf("print: no sheets")
	}
	readers := make([]io.Reader, 0, len(sheets))
	for i, s := range sheets {
		var buf bytes.Buffer
		if err := png.Encode(&buf, s); err != nil {
			return fmt.Errorf("print: encode sheet %d: %w", i+1, err)
		}
		readers = append(readers, &buf)
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.Scale = 0.95
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImages(nil, w, readers, imp, conf); err != nil {
		return fmt.Errorf("print: pdf: %w", err)
	}
	return nil
}

// WritePNG writes a single sheet.
func WritePNG(w io.Writer, sheets []image.Image) error {
	if len(sheets) != 1 {
		return fmt.Errorf("print: png output holds exactly one page, got %d", len(sheets))
	}
	return png.Encode(w, sheets[0])
}

// WriteFile writes sheets to path in the format implied by its extension.
func WriteFile(path string, sheets []image.Image) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		err = WritePNG(&buf, sheets)
	default:
		err = WritePDF(&buf, sheets)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
