package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/pad"
	"github.com/example/rxpad/internal/theme"
)

// Size is a buffer resolution in pixels.
type Size struct {
	Width  int
	Height int
}

// Tool holds the starting tool state.
type Tool struct {
	Name  string
	Color color.RGBA
	Width float64
}

// Notify selects which events raise desktop toasts.
type Notify struct {
	Save      bool
	Import    bool
	Export    bool
	Print     bool
	Copy      bool
	Signature bool
	Errors    bool
}

// Config holds the application configuration.
type Config struct {
	SaveDir string
	Store   string
	Format  string
	Theme   string

	Canvas    Size
	Signature Size
	Tool      Tool
	Notify    Notify

	// Window holds per-colour overrides on top of Theme.
	Window map[string]color.RGBA
}

// New creates a Config with defaults.
func New() *Config {
	ts := canvas.DefaultToolState()
	return &Config{
		Format:    "json",
		Canvas:    Size{Width: pad.DefaultWidth, Height: pad.DefaultHeight},
		Signature: Size{Width: pad.DefaultSignatureWidth, Height: pad.DefaultSignatureHeight},
		Tool:      Tool{Name: ts.Tool.String(), Color: ts.Color, Width: ts.Width},
		Notify:    Notify{Errors: true},
		Window:    make(map[string]color.RGBA),
	}
}

// ToolState converts the [tool] section into a canvas tool state.
func (c *Config) ToolState() (canvas.ToolState, error) {
	tool, err := canvas.ParseTool(c.Tool.Name)
	if err != nil {
		return canvas.ToolState{}, err
	}
	return canvas.ToolState{Tool: tool, Color: c.Tool.Color, Width: c.Tool.Width}, nil
}

// PadConfig returns the buffer sizes and tool state for a new pad.
func (c *Config) PadConfig() (pad.Config, error) {
	ts, err := c.ToolState()
	if err != nil {
		return pad.Config{}, err
	}
	return pad.Config{
		Width:           c.Canvas.Width,
		Height:          c.Canvas.Height,
		SignatureWidth:  c.Signature.Width,
		SignatureHeight: c.Signature.Height,
		Tools:           ts,
	}, nil
}

// ResolveTheme applies the [window] overrides to the selected palette.
func (c *Config) ResolveTheme() (*theme.Theme, error) {
	t := theme.Named(c.Theme)
	if err := t.Apply(c.Window); err != nil {
		return nil, err
	}
	return t, nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Store != "" {
		fmt.Fprintf(&sb, "store = %s\n", c.Store)
	}
	if c.Format != "" {
		fmt.Fprintf(&sb, "format = %s\n", c.Format)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	writeSize(&sb, "canvas", c.Canvas)
	writeSize(&sb, "signature", c.Signature)

	sb.WriteString("[tool]\n")
	fmt.Fprintf(&sb, "name = %s\n", c.Tool.Name)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Tool.Color))
	fmt.Fprintf(&sb, "width = %g\n", c.Tool.Width)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "import = %v\n", c.Notify.Import)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "print = %v\n", c.Notify.Print)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "signature = %v\n", c.Notify.Signature)
	fmt.Fprintf(&sb, "errors = %v\n", c.Notify.Errors)

	if len(c.Window) > 0 {
		sb.WriteString("\n[window]\n")
		keys := make([]string, 0, len(c.Window))
		for k := range c.Window {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s = %s\n", k, theme.Hex(c.Window[k]))
		}
	}
	return sb.String()
}

func writeSize(sb *strings.Builder, section string, s Size) {
	fmt.Fprintf(sb, "[%s]\n", section)
	fmt.Fprintf(sb, "width = %d\n", s.Width)
	fmt.Fprintf(sb, "height = %d\n", s.Height)
	sb.WriteString("\n")
}
