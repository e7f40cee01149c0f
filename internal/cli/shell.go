package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/pedroaldea/md-editor/internal/editor"
)

// shellCommands is the completion vocabulary for the interactive shell.
var shellCommands = []string{
	"open", "ls", "search", "history", "restore", "check", "draft",
	"help", "exit", "quit",
}

// cmdShell runs an interactive browsing shell on the real terminal.
// Mutating commands (save, snapshot) are deliberately absent: the shell
// is for inspecting a vault, not editing it line by line.
//
// A path argument is held in a take-once slot and opened after the shell
// has started, the same way a launch argument reaches a not-yet-ready UI.
func cmdShell(o *IO, app *App, args []string, env map[string]string) error {
	var pending editor.PendingOpen

	if len(args) > 0 {
		if !pending.Set(app.resolvePath(args[0])) {
			return fmt.Errorf("not a text file: %s", args[0])
		}
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var matches []string

		for _, cmd := range shellCommands {
			if strings.HasPrefix(cmd, strings.ToLower(prefix)) {
				matches = append(matches, cmd)
			}
		}

		return matches
	})

	historyPath := shellHistoryFile(env)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	o.Println("mdvault shell - workspace:", app.Workspace)
	o.Println("Type 'help' for available commands.")
	o.Println()

	if path, ok := pending.Take(); ok {
		if err := cmdOpen(o, app, []string{path}); err != nil {
			o.ErrPrintln("error:", err)
		}
	}

	defer saveShellHistory(line, historyPath)

	for {
		input, err := line.Prompt("mdvault> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				o.Println("\nBye!")

				return nil
			}

			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if cmd == "exit" || cmd == "quit" || cmd == "q" {
			o.Println("Bye!")

			return nil
		}

		err = dispatchShellCommand(o, app, cmd, args)
		if err != nil {
			o.ErrPrintln("error:", err)
		}
	}
}

func dispatchShellCommand(o *IO, app *App, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		printShellHelp(o)
		return nil
	case "open":
		return cmdOpen(o, app, args)
	case "ls", "list":
		return cmdLs(o, app, args)
	case "search":
		return cmdSearch(o, app, args)
	case "history":
		return cmdHistory(o, app, args)
	case "restore":
		return cmdRestore(o, app, args)
	case "check":
		return cmdCheck(o, app, args)
	case "draft":
		return cmdDraft(o, app, args)
	case "clear", "cls":
		o.Printf("\033[H\033[2J")
		return nil
	default:
		o.Println("Unknown command:", cmd, "(type 'help' for commands)")
		return nil
	}
}

func printShellHelp(o *IO) {
	o.Println(`Commands:
  open <path>            Print a document
  ls [dir]               List markdown files
  search <term>...       Search file contents
  history <path>         List snapshots of a document
  restore <path> <id>    Print a snapshot's content
  check <path>           Validate links in a document
  draft show             Print the recovery draft
  clear                  Clear the screen
  help                   Show this help
  exit / quit / q        Exit`)
}

// shellHistoryFile returns the readline history location, or empty when
// no home directory can be determined.
func shellHistoryFile(env map[string]string) string {
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".mdvault_history")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".mdvault_history")
}

func saveShellHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}

	_, _ = line.WriteHistory(f)
	_ = f.Close()
}
