// Package docfile reads and writes exported prescription documents: the
// ordered page rasters, the signature raster and the form fields, as a flat
// key/value file.
package docfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/rxpad/internal/canvas"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrImportParse reports a document file that cannot be understood.
var ErrImportParse = errors.New("malformed document")

// Format selects the file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from a file extension. Anything that is not
// YAML is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

func (f Format) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Metadata holds the prescription form fields.
type Metadata struct {
	PrescriptionID string
	DoctorName     string
	ClinicName     string
	PatientName    string
	PatientAge     string
	PatientGender  string
	Date           string
	Time           string
}

// Document is a full export: pages in order, signature and fields.
type Document struct {
	Metadata
	Pages     []canvas.Snapshot
	Signature canvas.Snapshot
	SavedAt   time.Time
}

type wireDocument struct {
	Pages          *[]string `json:"pages" yaml:"pages"`
	Signature      string    `json:"signature" yaml:"signature"`
	PrescriptionID string    `json:"prescriptionId,omitempty" yaml:"prescriptionId,omitempty"`
	DoctorName     string    `json:"doctorName" yaml:"doctorName"`
	ClinicName     string    `json:"clinicName" yaml:"clinicName"`
	PatientName    string    `json:"patientName" yaml:"patientName"`
	PatientAge     string    `json:"patientAge" yaml:"patientAge"`
	PatientGender  string    `json:"patientGender,omitempty" yaml:"patientGender,omitempty"`
	Date           string    `json:"date" yaml:"date"`
	Time           string    `json:"time" yaml:"time"`
	SavedAt        string    `json:"savedAt" yaml:"savedAt"`
}

// Encode writes doc to w.
func Encode(w io.Writer, doc Document, format Format) error {
	pages := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = p.DataURL()
	}
	wd := wireDocument{
		Pages:          &pages,
		Signature:      doc.Signature.DataURL(),
		PrescriptionID: doc.PrescriptionID,
		DoctorName:     doc.DoctorName,
		ClinicName:     doc.ClinicName,
		PatientName:    doc.PatientName,
		PatientAge:     doc.PatientAge,
		PatientGender:  doc.PatientGender,
		Date:           doc.Date,
		Time:           doc.Time,
	}
	if !doc.SavedAt.IsZero() {
		wd.SavedAt = doc.SavedAt.UTC().Format(time.RFC3339)
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&wd); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&wd); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Decode reads a document. Every failure wraps ErrImportParse.
func Decode(r io.Reader, format Format) (Document, error) {
	var wd wireDocument
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&wd); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrImportParse, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&wd); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrImportParse, err)
		}
	}
	if wd.Pages == nil {
		return Document{}, fmt.Errorf("%w: missing pages", ErrImportParse)
	}
	doc := Document{
		Metadata: Metadata{
			PrescriptionID: wd.PrescriptionID,
			DoctorName:     wd.DoctorName,
			ClinicName:     wd.ClinicName,
			PatientName:    wd.PatientName,
			PatientAge:     wd.PatientAge,
			PatientGender:  wd.PatientGender,
			Date:           wd.Date,
			Time:           wd.Time,
		},
		Pages: make([]canvas.Snapshot, 0, len(*wd.Pages)),
	}
	for i, u := range *wd.Pages {
		snap, err := canvas.ParseDataURL(u)
		if err != nil {
			return Document{}, fmt.Errorf("%w: page %d: %v", ErrImportParse, i+1, err)
		}
		doc.Pages = append(doc.Pages, snap)
	}
	sig, err := canvas.ParseDataURL(wd.Signature)
	if err != nil {
		return Document{}, fmt.Errorf("%w: signature: %v", ErrImportParse, err)
	}
	doc.Signature = sig
	if wd.SavedAt != "" {
		if ts, err := time.Parse(time.RFC3339, wd.SavedAt); err == nil {
			doc.SavedAt = ts
		}
	}
	return doc, nil
}

// Save writes doc to path in the format implied by its extension.
func Save(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, doc, FormatFor(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads the document at path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Decode(f, FormatFor(path))
}

// Filename builds prescription_<patient_name_with_underscores>_<date>.<ext>.
// Missing values fall back to "patient" and the date of now.
func Filename(meta Metadata, format Format, now time.Time) string {
	name := strings.Join(strings.Fields(meta.PatientName), "_")
	if name == "" {
		name = "patient"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	date := strings.TrimSpace(meta.Date)
	if date == "" {
		date = now.Format("2006-01-02")
	}
	date = strings.ReplaceAll(date, "/", "-")
	return fmt.Sprintf("prescription_%s_%s.%s", name, date, format.Ext())
}

// NewPrescriptionID returns an identifier of the form RX<yyyymmdd><8 hex>.
func NewPrescriptionID(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RX" + now.Format("20060102") + strings.ToUpper(id[:8])
}
