package cli

import (
	"errors"
	"fmt"
)

var errMissingDraftAction = errors.New("missing draft action: show, store or clear")

func cmdDraft(o *IO, app *App, args []string) error {
	if hasHelpFlag(args) {
		printDraftHelp(o)

		return nil
	}

	if len(args) < 1 {
		return errMissingDraftAction
	}

	switch args[0] {
	case "show":
		content, ok, err := app.Editor.LoadRecoveryDraft()
		if err != nil {
			return err
		}

		if !ok {
			o.ErrPrintln("no recovery draft")

			return nil
		}

		o.Printf("%s", content)

		return nil

	case "store":
		content, err := app.readStdin()
		if err != nil {
			return err
		}

		err = app.Editor.StoreRecoveryDraft(content)
		if err != nil {
			return err
		}

		o.Println("draft stored")

		return nil

	case "clear":
		err := app.Editor.StoreRecoveryDraft("")
		if err != nil {
			return err
		}

		o.Println("draft cleared")

		return nil

	default:
		return fmt.Errorf("unknown draft action: %s", args[0])
	}
}

func printDraftHelp(o *IO) {
	o.Println("Usage: mdvault draft <show|store|clear>")
	o.Println("")
	o.Println("Manage the crash-recovery draft, a single scratch document kept")
	o.Println("outside the workspace. 'store' reads content from stdin; storing")
	o.Println("blank content clears the draft.")
}
