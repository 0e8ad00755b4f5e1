package canvas

import (
	"fmt"
	"image/color"
	"strings"
)

// Tool selects how strokes are composited onto a buffer.
type Tool int

const (
	ToolPen Tool = iota
	ToolBrush
	ToolHighlighter
	ToolEraser
)

// Composition is the blend applied when a stroke segment lands on the buffer.
type Composition int

const (
	// CompositeNormal paints the stroke colour over existing pixels.
	CompositeNormal Composition = iota
	// CompositeErase removes pixels under the stroke, leaving transparency.
	CompositeErase
)

// ToolMode holds the fixed rendering parameters of a tool.
type ToolMode struct {
	Composition Composition
	Opacity     float64
	WidthScale  float64
}

var toolModes = [...]ToolMode{
	ToolPen:         {Composition: CompositeNormal, Opacity: 1.0, WidthScale: 1},
	ToolBrush:       {Composition: CompositeNormal, Opacity: 0.8, WidthScale: 1.5},
	ToolHighlighter: {Composition: CompositeNormal, Opacity: 0.3, WidthScale: 3},
	ToolEraser:      {Composition: CompositeErase, Opacity: 1.0, WidthScale: 2},
}

var toolNames = [...]string{
	ToolPen:         "pen",
	ToolBrush:       "brush",
	ToolHighlighter: "highlighter",
	ToolEraser:      "eraser",
}

// Tools lists every selectable tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolPen, ToolBrush, ToolHighlighter, ToolEraser}
}

// Mode returns the rendering parameters for t. Unknown tools render as a pen.
func (t Tool) Mode() ToolMode {
	if t < 0 || int(t) >= len(toolModes) {
		return toolModes[ToolPen]
	}
	return toolModes[t]
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool resolves a tool by name, case-insensitively.
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolPen, fmt.Errorf("unknown tool %q", s)
}

// ToolState is the process-wide drawing configuration shared by every surface
// of a pad. Changes apply to strokes begun afterwards.
type ToolState struct {
	Tool  Tool
	Color color.RGBA
	Width float64
}

// DefaultToolState is a 2px black pen.
func DefaultToolState() ToolState {
	return ToolState{Tool: ToolPen, Color: color.RGBA{A: 255}, Width: 2}
}

// StrokeWidth is the base width scaled by the tool's multiplier.
func (ts ToolState) StrokeWidth() float64 {
	w := ts.Width
	if w <= 0 {
		w = 1
	}
	return w * ts.Tool.Mode().WidthScale
}
