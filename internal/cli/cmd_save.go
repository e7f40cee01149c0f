package cli

import (
	"io"

	flag "github.com/spf13/pflag"
)

func cmdSave(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printSaveHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("save", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	expectMtime := flagSet.Int64("expect-mtime", 0, "expected mtime in milliseconds")
	snapshot := flagSet.Bool("snapshot", false, "also record a history snapshot")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	content, err := app.readStdin()
	if err != nil {
		return err
	}

	var expected *int64
	if flagSet.Changed("expect-mtime") {
		expected = expectMtime
	}

	path := app.resolvePath(flagSet.Arg(0))

	result, err := app.Editor.Save(path, content, expected)
	if err != nil {
		return err
	}

	o.Println("saved", flagSet.Arg(0))
	o.ErrPrintln("mtime_ms:", result.MtimeMillis)

	if *snapshot {
		if _, snapErr := app.History.CreateSnapshot(path, content, "save"); snapErr != nil {
			o.Warn("could not record history snapshot: " + snapErr.Error())
		}
	}

	return nil
}

func cmdSaveAs(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: mdvault save-as <path>")
		o.Println("")
		o.Println("Write stdin to <path> unconditionally, creating parent")
		o.Println("directories as needed. No conflict detection.")

		return nil
	}

	if len(args) < 1 {
		return errMissingPath
	}

	content, err := app.readStdin()
	if err != nil {
		return err
	}

	result, err := app.Editor.SaveAs(app.resolvePath(args[0]), content)
	if err != nil {
		return err
	}

	o.Println("saved", args[0])
	o.ErrPrintln("mtime_ms:", result.MtimeMillis)

	return nil
}

func printSaveHelp(o *IO) {
	o.Println("Usage: mdvault save [options] <path>")
	o.Println("")
	o.Println("Write stdin to an existing document atomically. With")
	o.Println("--expect-mtime the save is refused when the file on disk has")
	o.Println("changed since it was opened.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --expect-mtime=N    Fail if the file's mtime (ms) differs from N")
	o.Println("  --snapshot          Record a 'save' snapshot after writing")
}
