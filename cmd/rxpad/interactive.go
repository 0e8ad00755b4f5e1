package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/docfile"
	"github.com/example/rxpad/internal/history"
	"github.com/example/rxpad/internal/notify"
	"github.com/example/rxpad/internal/pad"
	"github.com/example/rxpad/internal/pages"
	"github.com/example/rxpad/internal/printout"
	"github.com/example/rxpad/internal/store"
	"github.com/example/rxpad/internal/theme"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type interactiveCmd struct {
	r     *root
	fs    *flag.FlagSet
	doc   string
	execs commandList

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	pad     *pad.Pad
	docPath string
}

func (c *interactiveCmd) Program() string        { return c.r.program + " interactive" }
func (c *interactiveCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	c := &interactiveCmd{r: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.doc, "doc", "", "document to open")
	fs.Var(&c.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *interactiveCmd) Run() error {
	p, docPath, closeStore, err := c.r.openSession(c.doc)
	if err != nil {
		return err
	}
	defer closeStore()
	c.pad = p
	c.docPath = docPath

	if len(c.execs) > 0 {
		for _, line := range c.execs {
			done, err := c.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(c.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := c.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(c.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// recoverable reports errors that are shown to the user without ending an
// immediate-mode run.
func recoverable(err error) bool {
	for _, target := range []error{
		history.ErrNothingToUndo, history.ErrNothingToRedo,
		pages.ErrCannotDeleteLastPage, pages.ErrAlreadyAtBoundary, pages.ErrPageOutOfRange,
		store.ErrPersistenceWrite, docfile.ErrImportParse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// executeLine runs one session command. Pad errors are reported and the
// session continues; malformed commands are returned.
func (c *interactiveCmd) executeLine(line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	name := strings.ToLower(args[0])
	rest := args[1:]
	var err error
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(c.stdout, (&UsageError{of: c}).Error())
	case "tool":
		err = c.setTool(rest)
	case "color", "colour":
		err = c.setColor(rest)
	case "width":
		err = c.setWidth(rest)
	case "stroke":
		err = c.stroke(pad.Main, rest)
	case "sign":
		err = c.stroke(pad.Signature, rest)
	case "undo":
		err = c.pad.Undo()
	case "redo":
		err = c.pad.Redo()
	case "clear":
		err = c.pad.Clear()
	case "page":
		err = c.page(rest)
	case "field":
		if len(rest) < 1 {
			return false, fmt.Errorf("usage: field NAME VALUE")
		}
		err = c.pad.SetField(rest[0], strings.Join(rest[1:], " "))
	case "signature":
		err = c.signature(rest)
	case "open":
		err = c.open(rest)
	case "save":
		err = c.save(rest)
	case "export-image":
		err = c.exportImage(rest)
	case "print":
		err = c.print(rest)
	case "copy":
		err = c.copy()
	case "status":
		c.status()
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil && recoverable(err) {
		fmt.Fprintln(c.stderr, notify.Message(err))
		c.r.notifier.Error(err)
		return false, nil
	}
	return false, err
}

func (c *interactiveCmd) setTool(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tool pen|brush|highlighter|eraser")
	}
	t, err := canvas.ParseTool(args[0])
	if err != nil {
		return err
	}
	c.pad.SetTool(t)
	return nil
}

func (c *interactiveCmd) setColor(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: color NAME|#RRGGBB")
	}
	col, err := theme.ParseColor(args[0])
	if err != nil {
		return err
	}
	c.pad.SetColor(col)
	return nil
}

func (c *interactiveCmd) setWidth(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: width N")
	}
	w, err := strconv.ParseFloat(args[0], 64)
	if err != nil || w <= 0 {
		return fmt.Errorf("invalid width %q", args[0])
	}
	c.pad.SetWidth(w)
	return nil
}

func (c *interactiveCmd) stroke(t pad.Target, args []string) error {
	if len(args) < 4 || len(args)%2 != 0 {
		return fmt.Errorf("usage: stroke X Y X Y [X Y]...")
	}
	pts := make([]canvas.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", args[i])
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", args[i+1])
		}
		pts = append(pts, canvas.Pt(x, y))
	}
	return c.pad.Stroke(t, pts...)
}

func (c *interactiveCmd) page(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: page add|delete|prev|next|goto N")
	}
	switch args[0] {
	case "add":
		return c.pad.AddPage()
	case "delete":
		return c.pad.DeletePage()
	case "prev", "previous":
		return c.pad.PreviousPage()
	case "next":
		return c.pad.NextPage()
	case "goto":
		if len(args) != 2 {
			return fmt.Errorf("usage: page goto N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[1])
		}
		return c.pad.GoToPage(n - 1)
	}
	return fmt.Errorf("unknown page command %q", args[0])
}

func (c *interactiveCmd) signature(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: signature save|clear")
	}
	switch args[0] {
	case "save":
		if err := c.pad.SaveSignature(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "signature saved")
		c.r.notifier.Signature("saved")
	case "clear":
		c.pad.ClearSignature()
		fmt.Fprintln(c.stdout, "signature cleared")
		c.r.notifier.Signature("cleared")
	default:
		return fmt.Errorf("unknown signature command %q", args[0])
	}
	return nil
}

func (c *interactiveCmd) open(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open FILE")
	}
	if err := c.pad.Import(args[0]); err != nil {
		return err
	}
	c.docPath = args[0]
	fmt.Fprintf(c.stdout, "opened %s (%d pages)\n", args[0], c.pad.PageCount())
	c.r.notifier.Import(args[0])
	return nil
}

func (c *interactiveCmd) save(args []string) error {
	path := c.docPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = filepath.Join(c.r.config.SaveDir, docfile.Filename(c.pad.Metadata(), c.r.docFormat(), time.Now()))
	}
	err := c.pad.Save(context.Background(), path)
	if err != nil && !errors.Is(err, store.ErrPersistenceWrite) {
		return err
	}
	c.docPath = path
	fmt.Fprintf(c.stdout, "saved %s\n", path)
	c.r.notifier.Save(path)
	return err
}

func (c *interactiveCmd) exportImage(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export-image FILE")
	}
	img, err := c.pad.PageImage(c.pad.ActivePage())
	if err != nil {
		return err
	}
	if err := writePNG(args[0], img); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "exported %s\n", args[0])
	c.r.notifier.Export(args[0])
	return nil
}

func (c *interactiveCmd) print(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: print FILE")
	}
	page := printout.AllPages
	if format, err := printout.FormatFor(args[0]); err != nil {
		return err
	} else if format == printout.FormatPNG {
		page = c.pad.ActivePage()
	}
	sheets, err := printout.Sheets(c.pad, page)
	if err != nil {
		return err
	}
	if err := printout.WriteFile(args[0], sheets); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "printed %s\n", args[0])
	c.r.notifier.Print(args[0])
	return nil
}

func (c *interactiveCmd) copy() error {
	img, err := c.pad.PageImage(c.pad.ActivePage())
	if err != nil {
		return err
	}
	if _, err := writeClipboard(img); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "page copied to clipboard")
	c.r.notifier.Copy(fmt.Sprintf("page %d", c.pad.ActivePage()+1), img)
	return nil
}

func (c *interactiveCmd) status() {
	ts := c.pad.Tools()
	m := c.pad.Metadata()
	fmt.Fprintf(c.stdout, "page %d of %d\n", c.pad.ActivePage()+1, c.pad.PageCount())
	fmt.Fprintf(c.stdout, "tool %s color %s width %g\n", ts.Tool, theme.Hex(ts.Color), ts.Width)
	fmt.Fprintf(c.stdout, "undo %t redo %t\n", c.pad.CanUndo(), c.pad.CanRedo())
	fmt.Fprintf(c.stdout, "prescription %s patient %q\n", m.PrescriptionID, m.PatientName)
}
