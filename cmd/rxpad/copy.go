package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/rxpad/internal/clipboard"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteImage

type copyCmd struct {
	r    *root
	fs   *flag.FlagSet
	doc  string
	page int
}

func (c *copyCmd) Program() string        { return c.r.program + " copy" }
func (c *copyCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseCopyCmd(args []string, r *root) (*copyCmd, error) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	c := &copyCmd{r: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.doc, "doc", "", "document to read")
	fs.IntVar(&c.page, "page", 1, "page number, starting at 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.doc == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *copyCmd) Run() error {
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
	lost, err := writeClipboard(img)
	if err != nil {
		return fmt.Errorf("failed to copy page %d: %w", c.page, err)
	}
	c.r.notifier.Copy(fmt.Sprintf("page %d", c.page), img)
	if lost == nil {
		return nil
	}
	fmt.Fprintf(os.Stderr, "page %d copied; serving the clipboard until it is replaced\n", c.page)
	<-lost
	return nil
}
