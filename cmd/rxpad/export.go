package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
)

type exportCmd struct {
	r      *root
	fs     *flag.FlagSet
	doc    string
	output string
	page   int
}

func (c *exportCmd) Program() string        { return c.r.program + " export-image" }
func (c *exportCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export-image", flag.ExitOnError)
	c := &exportCmd{r: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.doc, "doc", "", "document to read")
	fs.StringVar(&c.output, "o", "", "output PNG path")
	fs.IntVar(&c.page, "page", 1, "page number, starting at 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.doc == "" || c.output == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *exportCmd) Run() error {
	p, closeStore, err := c.r.openPad(c.doc)
	if err != nil {
		return err
	}
	defer closeStore()
	idx, err := pageIndex(p, c.page)
	if err != nil {
		return err
	}
	img, err := p.PageImage(idx)
	if err != nil {
		return err
	}
	if err := writePNG(c.output, img); err != nil {
		return err
	}
	fmt.Printf("exported page %d to %s\n", c.page, c.output)
	c.r.notifier.Export(c.output)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
