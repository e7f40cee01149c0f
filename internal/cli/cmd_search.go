package cli

import (
	"errors"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/pedroaldea/md-editor/internal/workspace"
)

var errMissingQuery = errors.New("missing search terms")

func cmdSearch(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printSearchHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("search", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	limit := flagSet.Int("limit", workspace.DefaultSearchLimit, "maximum hits")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	// An explicit limit below 1 clamps to 1; only an unset flag means
	// "use the default".
	if flagSet.Changed("limit") && *limit < 1 {
		*limit = 1
	}

	query := strings.Join(flagSet.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return errMissingQuery
	}

	hits, err := workspace.Search(app.FS, app.Workspace, query, *limit)
	if err != nil {
		return err
	}

	app.Log.Logf("search_files", "%q (%d hits)", query, len(hits))

	for _, hit := range hits {
		o.Printf("%s:%d: %s\n", hit.RelativePath, hit.Line, hit.Snippet)
	}

	return nil
}

func printSearchHelp(o *IO) {
	o.Printf("Usage: mdvault search [options] <term>...\n")
	o.Println("")
	o.Println("Search markdown file contents. A file matches when it contains")
	o.Println("ALL given terms (case-insensitive substrings, any order). One")
	o.Println("hit per file: the line of the first term's first occurrence")
	o.Println("plus a short snippet.")
	o.Println("")
	o.Println("Options:")
	o.Printf("  --limit=N    Max hits to show [default: %d]\n", workspace.DefaultSearchLimit)
}
