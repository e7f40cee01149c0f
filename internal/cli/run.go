package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pedroaldea/md-editor/internal/editor"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

var (
	// ErrFlagRequiresArg is returned when a global flag is missing its value.
	ErrFlagRequiresArg = errors.New("flag requires an argument")

	// ErrUnknownFlag is returned for an unrecognized global flag.
	ErrUnknownFlag = errors.New("unknown flag")
)

// Run is the main entry point. Returns exit code.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	// Parse global flags
	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Default workDir to current directory
	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	// Load and validate config
	cliOverrides := editor.Config{DataDir: flags.dataDir, Workspace: flags.workspace}

	cfg, sources, err := editor.LoadConfig(workDir, flags.configPath, cliOverrides, env)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]

	// Handle help flags
	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	app, err := newApp(stdin, workDir, cfg, sources, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Create IO for command
	ioCtx := NewIO(out, errOut)

	// Dispatch to command
	var cmdErr error

	switch cmd {
	case "open":
		cmdErr = cmdOpen(ioCtx, app, flags.remaining[1:])
	case "save":
		cmdErr = cmdSave(ioCtx, app, flags.remaining[1:])
	case "save-as":
		cmdErr = cmdSaveAs(ioCtx, app, flags.remaining[1:])
	case "ls":
		cmdErr = cmdLs(ioCtx, app, flags.remaining[1:])
	case "search":
		cmdErr = cmdSearch(ioCtx, app, flags.remaining[1:])
	case "snapshot":
		cmdErr = cmdSnapshot(ioCtx, app, flags.remaining[1:])
	case "history":
		cmdErr = cmdHistory(ioCtx, app, flags.remaining[1:])
	case "restore":
		cmdErr = cmdRestore(ioCtx, app, flags.remaining[1:])
	case "check":
		cmdErr = cmdCheck(ioCtx, app, flags.remaining[1:])
	case "draft":
		cmdErr = cmdDraft(ioCtx, app, flags.remaining[1:])
	case "shell":
		cmdErr = cmdShell(ioCtx, app, flags.remaining[1:], env)
	case "print-config":
		cmdErr = cmdPrintConfig(ioCtx, app)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	// Fatal error
	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	// Finish handles warnings and exit code
	return ioCtx.Finish()
}

type globalFlags struct {
	workDir    string
	configPath string
	dataDir    string
	workspace  string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --data-dir flag
	if arg == "--data-dir" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.dataDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--data-dir="); ok {
		flags.dataDir = after

		return consumedOne, nil
	}

	// -w/--workspace flag
	if arg == "-w" || arg == "--workspace" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.workspace = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--workspace="); ok {
		flags.workspace = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func cmdPrintConfig(o *IO, app *App) error {
	formatted, err := json.MarshalIndent(app.Config, "", "  ")
	if err != nil {
		return err
	}

	o.Println(string(formatted))

	o.Println("")
	o.Println("# Resolved:")
	o.Println("#   workspace:", app.Workspace)
	o.Println("#   data dir: ", app.Editor.Paths().DataDir)

	// Print sources
	o.Println("")
	o.Println("# Sources:")

	if app.Sources.Global != "" {
		o.Println("#   global:", app.Sources.Global)
	}

	if app.Sources.Project != "" {
		o.Println("#   project:", app.Sources.Project)
	}

	if app.Sources.Global == "" && app.Sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(writer io.Writer) {
	fprintln(writer, `mdvault - local-first markdown vault

Usage: mdvault [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
  -w, --workspace <dir>  Workspace root for ls/search
      --data-dir <dir>   Directory for history, drafts and logs

Commands:
  open <path>              Print a document (mtime goes to stderr)
  save <path>              Save stdin to <path> with conflict detection
  save-as <path>           Save stdin to <path> unconditionally
  ls                       List markdown files in the workspace
  search <term>...         Search file contents for all terms
  snapshot <path>          Record a history snapshot of a document
  history <path>           List snapshots of a document, newest first
  restore <path> <id>      Print a snapshot's content
  check <path>             Validate links and anchors in a document
  draft <show|store|clear> Manage the crash-recovery draft
  shell [path]             Interactive browsing shell, optionally opening <path>
  print-config             Show resolved configuration`)
}
