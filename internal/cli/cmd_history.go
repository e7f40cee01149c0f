package cli

import (
	"errors"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

var errMissingSnapshotID = errors.New("missing <id> argument")

func cmdSnapshot(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printSnapshotHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	reason := flagSet.String("reason", "manual", "why the snapshot was taken")
	fromStdin := flagSet.Bool("stdin", false, "snapshot stdin instead of the file on disk")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	path := app.resolvePath(flagSet.Arg(0))

	var content string

	if *fromStdin {
		content, err = app.readStdin()
		if err != nil {
			return err
		}
	} else {
		doc, openErr := app.Editor.Open(path)
		if openErr != nil {
			return openErr
		}

		content = doc.Content
	}

	record, err := app.History.CreateSnapshot(path, content, *reason)
	if err != nil {
		return err
	}

	o.Println("snapshot", record.ID)

	return nil
}

func cmdHistory(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: mdvault history <path>")
		o.Println("")
		o.Println("List snapshots of a document, newest first. Each line shows")
		o.Println("the snapshot id, creation time, reason and size in bytes.")

		return nil
	}

	if len(args) < 1 {
		return errMissingPath
	}

	records, err := app.History.ListSnapshots(app.resolvePath(args[0]))
	if err != nil {
		return err
	}

	for _, record := range records {
		createdAt := time.UnixMilli(record.CreatedAtMillis).UTC().Format(time.RFC3339)
		o.Printf("%s  %s  %-10s  %d bytes\n", record.ID, createdAt, record.Reason, record.SizeBytes)
	}

	return nil
}

func cmdRestore(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printRestoreHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("restore", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	outPath := flagSet.StringP("output", "o", "", "write the snapshot to this file")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	if flagSet.NArg() < 2 {
		return errMissingSnapshotID
	}

	doc, err := app.History.LoadSnapshot(app.resolvePath(flagSet.Arg(0)), flagSet.Arg(1))
	if err != nil {
		return err
	}

	if *outPath != "" {
		result, saveErr := app.Editor.SaveAs(app.resolvePath(*outPath), doc.Content)
		if saveErr != nil {
			return saveErr
		}

		o.Println("restored to", *outPath)
		o.ErrPrintln("mtime_ms:", result.MtimeMillis)

		return nil
	}

	o.Printf("%s", doc.Content)

	return nil
}

func printSnapshotHelp(o *IO) {
	o.Println("Usage: mdvault snapshot [options] <path>")
	o.Println("")
	o.Println("Record a history snapshot of a document. Identical consecutive")
	o.Println("content is deduplicated, and autosave snapshots within a minute")
	o.Println("coalesce into one record.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --reason=<why>    Snapshot reason (e.g. manual, autosave) [default: manual]")
	o.Println("  --stdin           Snapshot stdin instead of the file on disk")
}

func printRestoreHelp(o *IO) {
	o.Println("Usage: mdvault restore [options] <path> <id>")
	o.Println("")
	o.Println("Print a snapshot's content to stdout, or write it to a file.")
	o.Println("The live document is never touched unless -o points at it.")
	o.Println("")
	o.Println("Options:")
	o.Println("  -o, --output=<file>    Write the snapshot to <file> instead of stdout")
}
