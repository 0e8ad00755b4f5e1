// Package theme holds the pad window palette and colour parsing shared by the
// configuration file and the command line.
package theme

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"
)

// Theme defines the colours of the pad window chrome.
type Theme struct {
	Name string

	// Window area around the sheet.
	Background color.RGBA
	Foreground color.RGBA

	// Toolbar and page tabs.
	ToolbarBackground color.RGBA
	TabBackground     color.RGBA
	TabActive         color.RGBA
	TabText           color.RGBA

	// Tool buttons.
	ButtonBackground color.RGBA
	ButtonActive     color.RGBA
	ButtonText       color.RGBA
	ButtonBorder     color.RGBA

	// Sheet drop shadow and the transient message overlay.
	Shadow            color.RGBA
	OverlayBackground color.RGBA
	OverlayText       color.RGBA
}

// Default returns the light palette.
func Default() *Theme {
	return &Theme{
		Name:              "light",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{235, 235, 235, 255},
		TabBackground:     color.RGBA{210, 210, 210, 255},
		TabActive:         color.RGBA{250, 250, 250, 255},
		TabText:           color.RGBA{0, 0, 0, 255},
		ButtonBackground:  color.RGBA{200, 200, 200, 255},
		ButtonActive:      color.RGBA{150, 180, 230, 255},
		ButtonText:        color.RGBA{0, 0, 0, 255},
		ButtonBorder:      color.RGBA{90, 90, 90, 255},
		Shadow:            color.RGBA{0, 0, 0, 90},
		OverlayBackground: color.RGBA{40, 40, 40, 220},
		OverlayText:       color.RGBA{255, 255, 255, 255},
	}
}

// Dark returns the dark palette.
func Dark() *Theme {
	return &Theme{
		Name:              "dark",
		Background:        color.RGBA{45, 45, 48, 255},
		Foreground:        color.RGBA{230, 230, 230, 255},
		ToolbarBackground: color.RGBA{30, 30, 30, 255},
		TabBackground:     color.RGBA{60, 60, 64, 255},
		TabActive:         color.RGBA{90, 90, 96, 255},
		TabText:           color.RGBA{230, 230, 230, 255},
		ButtonBackground:  color.RGBA{70, 70, 74, 255},
		ButtonActive:      color.RGBA{40, 90, 160, 255},
		ButtonText:        color.RGBA{230, 230, 230, 255},
		ButtonBorder:      color.RGBA{20, 20, 20, 255},
		Shadow:            color.RGBA{0, 0, 0, 140},
		OverlayBackground: color.RGBA{230, 230, 230, 230},
		OverlayText:       color.RGBA{0, 0, 0, 255},
	}
}

// Named returns a built-in palette. Unknown names fall back to Default.
func Named(name string) *Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return Dark()
	}
	return Default()
}

// Fields lists the colour field names in declaration order.
func Fields() []string {
	typ := reflect.TypeOf(Theme{})
	var out []string
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type == reflect.TypeOf(color.RGBA{}) {
			out = append(out, typ.Field(i).Name)
		}
	}
	return out
}

// Set assigns a colour field by case-insensitive name.
func (t *Theme) Set(key string, c color.RGBA) error {
	val := reflect.ValueOf(t).Elem()
	for _, name := range Fields() {
		if strings.EqualFold(name, key) {
			val.FieldByName(name).Set(reflect.ValueOf(c))
			return nil
		}
	}
	return fmt.Errorf("unknown window colour %q", key)
}

// Apply copies overrides onto t.
func (t *Theme) Apply(overrides map[string]color.RGBA) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.Set(k, overrides[k]); err != nil {
			return err
		}
	}
	return nil
}
