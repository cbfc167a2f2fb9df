// Package config loads burrow's JSON configuration. Settings are looked up
// per repository first, then in the user's XDG config directory. A missing
// file is not an error: every field has a working default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/burrowtools/burrow/internal/errors"
)

// FileName is the config file name inside the repo-local settings directory.
const FileName = "burrow.json"

// RepoConfigDir is the repo-local settings directory, relative to the root.
const RepoConfigDir = ".opencode"

// Config holds the application configuration
type Config struct {
	BaseDir       string          `json:"base_dir,omitempty"`       // Repo-local container dir for worktrees (default ".opencode")
	WorktreesDir  string          `json:"worktrees_dir,omitempty"`  // Subdirectory under BaseDir (default "worktrees")
	Plugins       map[string]bool `json:"plugins,omitempty"`        // Per-plugin enable overrides, keyed by plugin name
	ShellTemplate string          `json:"shell_template,omitempty"` // Wrapper template for bash commands, "{}" is the command

	NotificationsEnabled bool `json:"notifications_enabled,omitempty"` // Desktop notification when a worktree is provisioned
}

// Default returns a config with every field at its built-in default.
func Default() *Config {
	return &Config{
		BaseDir:      RepoConfigDir,
		WorktreesDir: "worktrees",
		Plugins:      make(map[string]bool),
	}
}

// searchPaths returns candidate config file paths in priority order for the
// given repository root. An empty root skips the repo-local candidate.
func searchPaths(root string) []string {
	var paths []string
	if root != "" {
		paths = append(paths, filepath.Join(root, RepoConfigDir, FileName))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "burrow", "config.json"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "burrow", "config.json"))
	}
	return paths
}

// Load reads the first config file found on the search path. A missing file
// on every candidate yields the defaults; a present but malformed file is an
// error so bad settings never fail silently.
func Load(root string) (*Config, error) {
	for _, path := range searchPaths(root) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.ConfigLoadFailed(path, err)
		}
		return Parse(data, path)
	}
	return Default(), nil
}

// Parse decodes config JSON. path is used only for error context.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}
	return cfg, nil
}

// ensureInitialized fills in defaults for fields the file left empty and
// makes sure maps are non-nil after unmarshaling. Called before Validate()
// since Validate() only reads.
func (c *Config) ensureInitialized() {
	if c.BaseDir == "" {
		c.BaseDir = RepoConfigDir
	}
	if c.WorktreesDir == "" {
		c.WorktreesDir = "worktrees"
	}
	if c.Plugins == nil {
		c.Plugins = make(map[string]bool)
	}
}

// Validate checks the config for settings that cannot work
func (c *Config) Validate() error {
	if filepath.IsAbs(c.BaseDir) {
		return fmt.Errorf("base_dir must be relative to the repository root: %s", c.BaseDir)
	}
	if strings.Contains(c.BaseDir, "..") {
		return fmt.Errorf("base_dir must not escape the repository root: %s", c.BaseDir)
	}
	if filepath.IsAbs(c.WorktreesDir) {
		return fmt.Errorf("worktrees_dir must be relative to base_dir: %s", c.WorktreesDir)
	}
	if strings.Contains(c.WorktreesDir, "..") {
		return fmt.Errorf("worktrees_dir must not escape base_dir: %s", c.WorktreesDir)
	}
	if c.ShellTemplate != "" && !strings.Contains(c.ShellTemplate, "{}") {
		return fmt.Errorf("shell_template must contain the {} placeholder: %s", c.ShellTemplate)
	}
	return nil
}

// PluginEnabled reports whether the named plugin should run. Plugins are on
// by default; the config can only switch them off explicitly.
func (c *Config) PluginEnabled(name string) bool {
	enabled, ok := c.Plugins[name]
	if !ok {
		return true
	}
	return enabled
}
