package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/example/rxpad/internal/config"
	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/notify"
	"github.com/example/rxpad/internal/pad"
	"github.com/example/rxpad/internal/store"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	notifier *notify.Notifier
	config   *config.Config

	configPath   string
	saveAlerts   bool
	errorAlerts  bool
	exportAlerts bool
	printAlerts  bool
	copyAlerts   bool
	themeName    string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// configFlag finds -config ahead of flag parsing so the file can supply the
// defaults of the remaining flags.
func configFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		switch {
		case name == "config" && hasValue:
			return value
		case name == "config" && i+1 < len(args):
			return args[i+1]
		case name == "theme" && !hasValue:
			i++
		}
	}
	return configPathOverride
}

func newRoot(args []string) *root {
	path := configFlag(args)
	cfg, err := config.NewLoader(version, path).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("rxpad", flag.ExitOnError),
		program:  "rxpad",
		notifier: notify.New(notify.LoadPreferences(notify.DefaultPreferences())),
		config:   cfg,
	}
	r.fs.StringVar(&r.configPath, "config", path, "path to the rc configuration file")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a document")
	r.fs.BoolVar(&r.errorAlerts, "notify-errors", cfg.Notify.Errors, "show a desktop notification for recovered errors")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a page image")
	r.fs.BoolVar(&r.printAlerts, "notify-print", cfg.Notify.Print, "show a desktop notification after writing a print sheet")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.themeName, "theme", "", "window theme (light, dark)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.themeName != "" {
		r.config.Theme = r.themeName
	}
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventImport, r.config.Notify.Import)
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventPrint, r.printAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.notifier.Enable(notify.EventSignature, r.config.Notify.Signature)
	r.notifier.Enable(notify.EventError, r.errorAlerts)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "new":
		cmd, err = parseNewCmd(subArgs, r)
	case "pad":
		cmd, err = parsePadCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "export-image":
		cmd, err = parseExportCmd(subArgs, r)
	case "print":
		cmd, err = parsePrintCmd(subArgs, r)
	case "signature":
		cmd, err = parseSignatureCmd(subArgs, r)
	case "copy":
		cmd, err = parseCopyCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot(os.Args[1:])
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// docFormat maps the configured format name onto a document encoding.
func (r *root) docFormat() docfile.Format {
	if strings.EqualFold(r.config.Format, "yaml") || strings.EqualFold(r.config.Format, "yml") {
		return docfile.FormatYAML
	}
	return docfile.FormatJSON
}

// openPad builds a pad from the configuration, restores the persisted
// signature and imports docPath when given. The returned closer releases the
// signature store.
func (r *root) openPad(docPath string) (*pad.Pad, func(), error) {
	cfg, err := r.config.PadConfig()
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	path := r.config.Store
	if path == "" {
		path = store.DefaultPath()
	}
	if s, err := store.Open(path); err != nil {
		log.Printf("signature store: %v", err)
	} else {
		cfg.Store = s
		closer = func() {
			if err := s.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}
	}
	p, err := pad.New(cfg)
	if err != nil {
		closer()
		return nil, nil, err
	}
	if _, err := p.LoadSignature(context.Background()); err != nil {
		log.Printf("load signature: %v", err)
	}
	if docPath != "" {
		if err := p.Import(docPath); err != nil {
			closer()
			return nil, nil, err
		}
		r.notifier.Import(docPath)
	}
	return p, closer, nil
}

// openSession opens a pad for the long-running commands. A document that
// cannot be imported is reported and the session starts blank with no
// document path, so a later save never overwrites the unreadable file.
func (r *root) openSession(docPath string) (*pad.Pad, string, func(), error) {
	p, closer, err := r.openPad("")
	if err != nil || docPath == "" {
		return p, "", closer, err
	}
	if err := p.Import(docPath); err != nil {
		if !errors.Is(err, docfile.ErrImportParse) {
			closer()
			return nil, "", nil, err
		}
		log.Printf("import %s: %v", docPath, err)
		r.notifier.Error(err)
		return p, "", closer, nil
	}
	r.notifier.Import(docPath)
	return p, docPath, closer, nil
}

// pageIndex converts a one-based page flag into an index.
func pageIndex(p *pad.Pad, page int) (int, error) {
	if page < 1 || page > p.PageCount() {
		return 0, fmt.Errorf("page %d out of range (1-%d)", page, p.PageCount())
	}
	return page - 1, nil
}
