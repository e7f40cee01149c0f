package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
//
// Config files are JSONC (JSON with comments and trailing commas),
// standardized with hujson before decoding.
type Config struct {
	// DataDir overrides the application-support directory that holds the
	// history store, recovery draft, and operation log.
	DataDir string `json:"data_dir,omitempty"`

	// Workspace is the default root for listing and search when a command
	// does not name one.
	Workspace string `json:"workspace,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // path to global config if loaded, empty otherwise
	Project string // path to project config if loaded, empty otherwise
}

// ConfigFileName is the project-local config file name.
const ConfigFileName = ".mdvault.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
)

// LoadConfig loads configuration with the following precedence (highest
// wins):
//  1. Defaults (everything empty; DataDir resolved lazily, see
//     [Config.ResolveDataDir])
//  2. Global user config ($XDG_CONFIG_HOME/mdvault/config.json or
//     ~/.config/mdvault/config.json)
//  3. Project config (.mdvault.json in workDir), or an explicit file via
//     configPath (which must then exist)
//  4. CLI overrides (non-empty fields of cliOverrides)
func LoadConfig(workDir, configPath string, cliOverrides Config, env map[string]string) (Config, ConfigSources, error) {
	var (
		cfg     Config
		sources ConfigSources
	)

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(globalPath, false)
		if err != nil {
			return Config{}, ConfigSources{}, err
		}

		if loaded {
			sources.Global = globalPath
			cfg = mergeConfig(cfg, globalCfg)
		}
	}

	projectFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		projectFile = configPath
		if !filepath.IsAbs(projectFile) {
			projectFile = filepath.Join(workDir, projectFile)
		}

		mustExist = true
	}

	projectCfg, loaded, err := loadConfigFile(projectFile, mustExist)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	if loaded {
		sources.Project = projectFile
		cfg = mergeConfig(cfg, projectCfg)
	}

	cfg = mergeConfig(cfg, cliOverrides)

	return cfg, sources, nil
}

// ResolveDataDir returns the application-support directory: DataDir if
// configured, else $XDG_DATA_HOME/mdvault, else ~/.local/share/mdvault.
func (c Config) ResolveDataDir(env map[string]string) (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}

	if xdgData := env["XDG_DATA_HOME"]; xdgData != "" {
		return filepath.Join(xdgData, "mdvault"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "mdvault"), nil
}

// globalConfigPath returns the global config file location, or empty if
// the home directory cannot be determined.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "mdvault", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "mdvault", "config.json")
}

// loadConfigFile loads one config file. If mustExist is false, a missing
// file yields (zero, false, nil).
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// mergeConfig overlays non-empty fields of overlay onto base.
func mergeConfig(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Workspace != "" {
		base.Workspace = overlay.Workspace
	}

	return base
}
