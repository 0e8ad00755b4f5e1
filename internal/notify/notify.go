// Package notify turns pad events and recovered errors into desktop toasts.
package notify

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/history"
	"github.com/example/rxpad/internal/pages"
	"github.com/example/rxpad/internal/platform"
	"github.com/example/rxpad/internal/store"
)

// Event identifies a notification trigger.
type Event string

const (
	EventSave      Event = "save"
	EventImport    Event = "import"
	EventExport    Event = "export"
	EventPrint     Event = "print"
	EventCopy      Event = "copy"
	EventSignature Event = "signature"
	EventError     Event = "error"
)

// Events lists every event in configuration order.
func Events() []Event {
	return []Event{EventSave, EventImport, EventExport, EventPrint, EventCopy, EventSignature, EventError}
}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "rxpad",
		Events: map[Event]EventPreference{
			EventSave:      {Template: "Saved %s"},
			EventImport:    {Template: "Loaded %s"},
			EventExport:    {Template: "Exported %s"},
			EventPrint:     {Template: "Print sheet written to %s"},
			EventCopy:      {Template: "Copied %s to clipboard"},
			EventSignature: {Template: "Signature %s"},
			EventError:     {Template: "%s"},
		},
	}
}

// LoadPreferences applies RXPAD_NOTIFY_* environment overrides to base.
func LoadPreferences(base Preferences) Preferences {
	prefs := Preferences{Title: base.Title, Events: make(map[Event]EventPreference, len(base.Events))}
	for k, v := range base.Events {
		prefs.Events[k] = v
	}
	if v := strings.TrimSpace(os.Getenv("RXPAD_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range Events() {
		key := "RXPAD_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Message is the user-facing text for a recovered error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, history.ErrNothingToUndo):
		return "Nothing to undo"
	case errors.Is(err, history.ErrNothingToRedo):
		return "Nothing to redo"
	case errors.Is(err, pages.ErrCannotDeleteLastPage):
		return "Cannot delete the last page"
	case errors.Is(err, pages.ErrAlreadyAtBoundary):
		return "No more pages in that direction"
	case errors.Is(err, pages.ErrPageOutOfRange):
		return "No such page"
	case errors.Is(err, store.ErrPersistenceWrite):
		return "Could not save the signature"
	case errors.Is(err, docfile.ErrImportParse):
		return "Could not read the document file"
	}
	return "Error: " + err.Error()
}

// dispatchNotify is swapped in tests.
var dispatchNotify = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save reports a written document file.
func (n *Notifier) Save(path string) {
	n.dispatch(EventSave, absPath(path), platform.Options{})
}

// Import reports a loaded document file.
func (n *Notifier) Import(path string) {
	n.dispatch(EventImport, absPath(path), platform.Options{})
}

// Export reports an exported page image and shows it as the toast icon.
func (n *Notifier) Export(path string) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := absPath(path)
	opts := platform.Options{}
	if _, err := os.Stat(detail); err == nil {
		opts.IconPath = detail
	}
	n.dispatch(EventExport, detail, opts)
}

// Print reports a written print sheet.
func (n *Notifier) Print(path string) {
	n.dispatch(EventPrint, absPath(path), platform.Options{})
}

// Copy reports a clipboard copy with an optional preview.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "page"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Signature reports a signature action such as "saved" or "cleared".
func (n *Notifier) Signature(action string) {
	n.dispatch(EventSignature, action, platform.Options{})
}

// Error reports a recovered error.
func (n *Notifier) Error(err error) {
	if err == nil {
		return
	}
	n.dispatch(EventError, Message(err), platform.Options{})
}

func absPath(path string) string {
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(detail); err == nil {
		return abs
	}
	return detail
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := dispatchNotify(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "rxpad-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
