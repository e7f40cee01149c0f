package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/pedroaldea/md-editor/internal/workspace"
)

func cmdLs(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printLsHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	absolute := flagSet.Bool("absolute", false, "print absolute paths")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	root := app.Workspace
	if flagSet.NArg() > 0 {
		root = app.resolvePath(flagSet.Arg(0))
	}

	entries, err := workspace.List(app.FS, root)
	if err != nil {
		return err
	}

	app.Log.Logf("list_files", "%s (%d files)", root, len(entries))

	for _, entry := range entries {
		if *absolute {
			o.Println(entry.Path)
		} else {
			o.Println(entry.RelativePath)
		}
	}

	return nil
}

func printLsHelp(o *IO) {
	o.Println("Usage: mdvault ls [options] [dir]")
	o.Println("")
	o.Println("List markdown files under the workspace root (or under [dir]),")
	o.Println("sorted case-insensitively by relative path. Hidden directories,")
	o.Println("node_modules, target, vendor, dist and build are skipped.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --absolute    Print absolute paths instead of relative ones")
}
