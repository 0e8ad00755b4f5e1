package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/example/rxpad/internal/docfile"
)

type newCmd struct {
	r      *root
	fs     *flag.FlagSet
	output string
	fields map[string]*string
}

func (c *newCmd) Program() string        { return c.r.program + " new" }
func (c *newCmd) FlagSet() *flag.FlagSet { return c.fs }

var newFields = []struct{ flag, field, usage string }{
	{"doctor", "doctor", "doctor name"},
	{"clinic", "clinic", "clinic name"},
	{"patient", "patient", "patient name"},
	{"age", "age", "patient age"},
	{"gender", "gender", "patient gender"},
	{"date", "date", "prescription date (default today)"},
	{"time", "time", "prescription time (default now)"},
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	c := &newCmd{r: r, fs: fs, fields: map[string]*string{}}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "o", "", "output document path")
	for _, f := range newFields {
		c.fields[f.field] = fs.String(f.flag, "", f.usage)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.output == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *newCmd) Run() error {
	p, closeStore, err := c.r.openPad("")
	if err != nil {
		return err
	}
	defer closeStore()

	now := time.Now()
	if *c.fields["date"] == "" {
		*c.fields["date"] = now.Format("2006-01-02")
	}
	if *c.fields["time"] == "" {
		*c.fields["time"] = now.Format("15:04")
	}
	for _, f := range newFields {
		if err := p.SetField(f.field, *c.fields[f.field]); err != nil {
			return err
		}
	}
	doc, err := p.Document()
	if err != nil {
		return err
	}
	if err := docfile.Save(c.output, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	fmt.Printf("created %s (%s)\n", c.output, doc.Metadata.PrescriptionID)
	c.r.notifier.Save(c.output)
	return nil
}
