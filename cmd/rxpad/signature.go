package main

import (
	"context"
	"flag"
	"fmt"
)

type signatureCmd struct {
	r      *root
	fs     *flag.FlagSet
	action string
	doc    string
	output string
}

func (c *signatureCmd) Program() string        { return c.r.program + " signature" }
func (c *signatureCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseSignatureCmd(args []string, r *root) (*signatureCmd, error) {
	fs := flag.NewFlagSet("signature", flag.ExitOnError)
	c := &signatureCmd{r: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.doc, "doc", "", "document holding the signature")
	fs.StringVar(&c.output, "o", "", "output PNG path for export")
	if len(args) == 0 {
		return nil, &UsageError{of: c}
	}
	c.action = args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	switch c.action {
	case "save":
		if c.doc == "" {
			return nil, &UsageError{of: c}
		}
	case "clear":
	case "export":
		if c.output == "" {
			return nil, &UsageError{of: c}
		}
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *signatureCmd) Run() error {
	p, closeStore, err := c.r.openPad(c.doc)
	if err != nil {
		return err
	}
	defer closeStore()

	switch c.action {
	case "save":
		if err := p.SaveSignature(context.Background()); err != nil {
			return err
		}
		fmt.Printf("stored signature from %s\n", c.doc)
		c.r.notifier.Signature("saved")
	case "clear":
		p.ClearSignature()
		if err := p.SaveSignature(context.Background()); err != nil {
			return err
		}
		fmt.Println("cleared stored signature")
		c.r.notifier.Signature("cleared")
	case "export":
		if err := writePNG(c.output, p.SignatureImage()); err != nil {
			return err
		}
		fmt.Printf("exported signature to %s\n", c.output)
		c.r.notifier.Export(c.output)
	}
	return nil
}
