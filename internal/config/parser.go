package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/theme"
)

// Parse reads configuration from an io.Reader. Lines are `key = value` or
// `key: value`; `#` and `//` start comments.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "canvas":
			err = setSizeField(&cfg.Canvas, key, value)
		case "signature":
			err = setSizeField(&cfg.Signature, key, value)
		case "tool":
			err = setToolField(&cfg.Tool, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "window":
			err = setWindowField(cfg, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: root section: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: section [%s]: %w", lineNo, section, err)
		}
	}
	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "store":
		cfg.Store = value
	case "theme":
		cfg.Theme = value
	case "format":
		switch strings.ToLower(value) {
		case "json", "yaml":
			cfg.Format = strings.ToLower(value)
		default:
			return fmt.Errorf("format must be json or yaml, got %q", value)
		}
	}
	return nil
}

func setSizeField(s *Size, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	switch key {
	case "width":
		s.Width = n
	case "height":
		s.Height = n
	}
	return nil
}

func setToolField(t *Tool, key, value string) error {
	switch key {
	case "name":
		tool, err := canvas.ParseTool(value)
		if err != nil {
			return err
		}
		t.Name = tool.String()
	case "color", "colour":
		c, err := theme.ParseColor(value)
		if err != nil {
			return err
		}
		t.Color = c
	case "width":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || w <= 0 {
			return fmt.Errorf("invalid width %q", value)
		}
		t.Width = w
	}
	return nil
}

func setWindowField(cfg *Config, key, value string) error {
	col, err := theme.ParseColor(value)
	if err != nil {
		return err
	}
	for _, name := range theme.Fields() {
		if strings.EqualFold(name, key) {
			cfg.Window[name] = col
			return nil
		}
	}
	return fmt.Errorf("unknown window colour %q", key)
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "import":
		n.Import = b
	case "export":
		n.Export = b
	case "print":
		n.Print = b
	case "copy":
		n.Copy = b
	case "signature":
		n.Signature = b
	case "errors":
		n.Errors = b
	}
	return nil
}
