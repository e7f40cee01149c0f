package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"
)

var errMissingPath = errors.New("missing <path> argument")

func cmdOpen(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printOpenHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("open", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	mtimeOnly := flagSet.Bool("mtime-only", false, "print only the modification time")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	doc, err := app.Editor.Open(app.resolvePath(flagSet.Arg(0)))
	if err != nil {
		return err
	}

	if *mtimeOnly {
		o.Println(doc.MtimeMillis)

		return nil
	}

	// Content on stdout, metadata on stderr, so piping stays clean while
	// scripts can still capture the mtime for a later conflict-checked save.
	o.ErrPrintln("mtime_ms:", doc.MtimeMillis)
	o.Printf("%s", doc.Content)

	return nil
}

func printOpenHelp(o *IO) {
	o.Println("Usage: mdvault open [options] <path>")
	o.Println("")
	o.Println("Print a document's content to stdout. The file's modification")
	o.Println("time in milliseconds is printed to stderr; pass it back to")
	o.Println("'save --expect-mtime' to detect concurrent edits.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --mtime-only    Print only the modification time (to stdout)")
}
