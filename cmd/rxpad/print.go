package main

import (
	"flag"
	"fmt"

	"github.com/example/rxpad/internal/printout"
)

type printCmd struct {
	r      *root
	fs     *flag.FlagSet
	doc    string
	output string
	page   int
}

func (c *printCmd) Program() string        { return c.r.program + " print" }
func (c *printCmd) FlagSet() *flag.FlagSet { return c.fs }

func parsePrintCmd(args []string, r *root) (*printCmd, error) {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	c := &printCmd{r: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.doc, "doc", "", "document to read")
	fs.StringVar(&c.output, "o", "", "output path ending in .pdf or .png")
	fs.IntVar(&c.page, "page", 0, "page number, starting at 1 (0 prints every page)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.doc == "" || c.output == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *printCmd) Run() error {
	format, err := printout.FormatFor(c.output)
	if err != nil {
		return err
	}
	p, closeStore, err := c.r.openPad(c.doc)
	if err != nil {
		return err
	}
	defer closeStore()
	page := printout.AllPages
	if c.page != 0 {
		if page, err = pageIndex(p, c.page); err != nil {
			return err
		}
	}
	if format == printout.FormatPNG && page == printout.AllPages && p.PageCount() > 1 {
		return fmt.Errorf("PNG print output holds one sheet; choose one with -page")
	}
	sheets, err := printout.Sheets(p, page)
	if err != nil {
		return err
	}
	if err := printout.WriteFile(c.output, sheets); err != nil {
		return err
	}
	fmt.Printf("wrote %d sheet(s) to %s\n", len(sheets), c.output)
	c.r.notifier.Print(c.output)
	return nil
}
