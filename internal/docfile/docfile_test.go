package docfile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/example/rxpad/internal/canvas"
)

func sample(t *testing.T) Document {
	t.Helper()
	mk := func(c color.RGBA) canvas.Snapshot {
		img := image.NewRGBA(image.Rect(0, 0, 3, 3))
		img.SetRGBA(1, 1, c)
		s, err := canvas.Encode(img)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	return Document{
		Metadata: Metadata{
			PrescriptionID: "RX20260101ABCDEF01",
			DoctorName:     "Dr. Ada Lovelace",
			ClinicName:     "Analytical Clinic",
			PatientName:    "Charles Babbage",
			PatientAge:     "54",
			PatientGender:  "Male",
			Date:           "2026-10-19",
			Time:           "09:30",
		},
		Pages:     []canvas.Snapshot{mk(color.RGBA{R: 255, A: 255}), {}, mk(color.RGBA{G: 255, A: 255})},
		Signature: mk(color.RGBA{B: 255, A: 255}),
		SavedAt:   time.Date(2026, 10, 19, 9, 31, 0, 0, time.UTC),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		doc := sample(t)
		var buf bytes.Buffer
		if err := Encode(&buf, doc, format); err != nil {
			t.Fatalf("%s encode: %v", format.Ext(), err)
		}
		got, err := Decode(&buf, format)
		if err != nil {
			t.Fatalf("%s decode: %v", format.Ext(), err)
		}
		if got.Metadata != doc.Metadata {
			t.Errorf("%s metadata = %+v", format.Ext(), got.Metadata)
		}
		if len(got.Pages) != len(doc.Pages) {
			t.Fatalf("%s page count = %d", format.Ext(), len(got.Pages))
		}
		for i := range doc.Pages {
			if !got.Pages[i].Equal(doc.Pages[i]) {
				t.Errorf("%s page %d differs", format.Ext(), i)
			}
		}
		if !got.Signature.Equal(doc.Signature) {
			t.Errorf("%s signature differs", format.Ext())
		}
		if !got.SavedAt.Equal(doc.SavedAt) {
			t.Errorf("%s savedAt = %v", format.Ext(), got.SavedAt)
		}
	}
}

func TestJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample(t), FormatJSON); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"pages", "signature", "doctorName", "clinicName", "patientName", "patientAge", "date", "time", "savedAt"} {
		if !strings.Contains(buf.String(), `"`+key+`"`) {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      "{",
		"missing pages": `{"doctorName":"x"}`,
		"bad page":      `{"pages":["data:image/png;base64,AAAA"]}`,
		"bad signature": `{"pages":[],"signature":"hello"}`,
		"wrong type":    `{"pages":"nope"}`,
	}
	for name, input := range cases {
		if _, err := Decode(strings.NewReader(input), FormatJSON); !errors.Is(err, ErrImportParse) {
			t.Errorf("%s: expected ErrImportParse, got %v", name, err)
		}
	}
}

func TestDecodeTruncatedPage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 13)
	}
	snap, err := canvas.Encode(img)
	if err != nil {
		t.Fatal(err)
	}
	data := snap.Bytes()
	truncated := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data[:len(data)/2])
	input := `{"pages":["` + snap.DataURL() + `","` + truncated + `"]}`
	_, err = Decode(strings.NewReader(input), FormatJSON)
	if !errors.Is(err, ErrImportParse) {
		t.Fatalf("expected ErrImportParse, got %v", err)
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Fatalf("error does not name the page: %v", err)
	}
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "rx.yml")
	doc := sample(t)
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.PatientName != doc.PatientName || len(got.Pages) != 3 {
		t.Fatalf("unexpected document %+v", got.Metadata)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	got := Filename(Metadata{PatientName: "  Mary  Ann Smith ", Date: "2026-10-19"}, FormatJSON, now)
	if got != "prescription_Mary_Ann_Smith_2026-10-19.json" {
		t.Fatalf("Filename = %q", got)
	}
	got = Filename(Metadata{}, FormatYAML, now)
	if got != "prescription_patient_2026-01-02.yaml" {
		t.Fatalf("Filename fallback = %q", got)
	}
}

func TestNewPrescriptionID(t *testing.T) {
	id := NewPrescriptionID(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	if !regexp.MustCompile(`^RX20261019[0-9A-F]{8}$`).MatchString(id) {
		t.Fatalf("unexpected id %q", id)
	}
}
