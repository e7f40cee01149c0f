package cli

import (
	"io"
	"path/filepath"

	"github.com/pedroaldea/md-editor/internal/editor"
	"github.com/pedroaldea/md-editor/internal/history"
	"github.com/pedroaldea/md-editor/internal/links"
	"github.com/pedroaldea/md-editor/internal/oplog"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

// App bundles the wired-up services every command operates on.
type App struct {
	FS        fs.FS
	Editor    *editor.Editor
	History   *history.Store
	Validator *links.Validator
	Log       *oplog.Logger

	// Workspace is the absolute root for listing and search.
	Workspace string

	Config  editor.Config
	Sources editor.ConfigSources

	stdin io.Reader
}

// newApp resolves directories from cfg and constructs the service graph.
func newApp(stdin io.Reader, workDir string, cfg editor.Config, sources editor.ConfigSources, env map[string]string) (*App, error) {
	dataDir, err := cfg.ResolveDataDir(env)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(workDir, dataDir)
	}

	workspace := cfg.Workspace
	if workspace == "" {
		workspace = workDir
	}

	if !filepath.IsAbs(workspace) {
		workspace = filepath.Join(workDir, workspace)
	}

	fsys := fs.NewReal()
	paths := editor.Paths{DataDir: dataDir}
	logger := oplog.New(paths.LogPath())

	return &App{
		FS:        fsys,
		Editor:    editor.New(fsys, paths, logger),
		History:   history.NewStore(fsys, paths, logger),
		Validator: links.NewValidator(fsys),
		Log:       logger,
		Workspace: workspace,
		Config:    cfg,
		Sources:   sources,
		stdin:     stdin,
	}, nil
}

// resolvePath makes a command-line path absolute against the workspace.
func (a *App) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(a.Workspace, path)
}

// readStdin slurps the whole of standard input, used by commands that
// take document content on stdin.
func (a *App) readStdin() (string, error) {
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
