package cli

import (
	"context"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/pedroaldea/md-editor/internal/links"
)

func cmdCheck(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printCheckHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("check", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	external := flagSet.Bool("external", false, "probe external URLs for reachability")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	path := app.resolvePath(flagSet.Arg(0))

	doc, err := app.Editor.Open(path)
	if err != nil {
		return err
	}

	report := app.Validator.Validate(context.Background(), path, doc.Content, *external)

	errorCount := 0

	for _, issue := range report.Issues {
		line := fmt.Sprintf("%s:%d: %s: %s (%s)",
			flagSet.Arg(0), issue.Line, issue.Severity, issue.Message, issue.Link)

		if issue.Severity == links.SeverityError {
			errorCount++

			o.Println(line)
		} else {
			o.Warn(line)
		}
	}

	if errorCount == 0 && len(report.Issues) == 0 {
		if report.CheckedExternal {
			o.Println("ok (external URLs probed)")
		} else {
			o.Println("ok")
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d broken link(s)", errorCount)
	}

	return nil
}

func printCheckHelp(o *IO) {
	o.Println("Usage: mdvault check [options] <path>")
	o.Println("")
	o.Println("Validate every link in a document: local targets must exist,")
	o.Println("anchors must match a heading in the target document. Broken")
	o.Println("local links are errors; unreachable external URLs are warnings.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --external    Probe external URLs with a quick TCP check")
}
