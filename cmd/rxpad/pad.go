package main

import (
	"flag"

	"github.com/example/rxpad/internal/appstate"
)

type padCmd struct {
	r   *root
	fs  *flag.FlagSet
	doc string
}

func (c *padCmd) Program() string        { return c.r.program + " pad" }
func (c *padCmd) FlagSet() *flag.FlagSet { return c.fs }

func parsePadCmd(args []string, r *root) (*padCmd, error) {
	fs := flag.NewFlagSet("pad", flag.ExitOnError)
	c := &padCmd{r: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.doc, "doc", "", "document to open and save to")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *padCmd) Run() error {
	th, err := c.r.config.ResolveTheme()
	if err != nil {
		return err
	}
	p, docPath, closeStore, err := c.r.openSession(c.doc)
	if err != nil {
		return err
	}
	defer closeStore()
	st := appstate.New(p,
		appstate.WithDocPath(docPath),
		appstate.WithSaveDir(c.r.config.SaveDir),
		appstate.WithFormat(c.r.docFormat()),
		appstate.WithTheme(th),
		appstate.WithNotifier(c.r.notifier),
	)
	st.Run()
	return nil
}
