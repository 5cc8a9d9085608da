// Package config loads application and repository configuration from YAML.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/theme"
	"github.com/chmouel/lazycommit/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRefreshInterval is the auto-refresh period in seconds.
	DefaultRefreshInterval = 5
	// minRefreshInterval keeps the periodic status call from hammering git.
	minRefreshInterval = 1
)

// AppConfig holds the application configuration.
type AppConfig struct {
	GitExecutable     string
	CommitDescription string // Text after the version token in the commit subject
	Push              bool   // Push after committing (default: true)
	StopOnError       bool   // Skip remaining steps after the first failure (default: false)
	AutoRefresh       bool
	RefreshInterval   int  // Seconds between periodic refreshes
	Watch             bool // Refresh on working-tree filesystem events
	ShowIcons         bool // Render Nerd Font icons next to files (default: true)
	Theme             string
	DebugLog          string
	ConfirmOnExit     bool // Offer the commit workflow when the overlay closes (default: true)
}

// RepoConfig holds overrides read from .lazycommit.yaml at the repository root.
type RepoConfig struct {
	CommitDescription string
	Push              *bool
	Path              string
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		GitExecutable:     git.DefaultExecutable,
		CommitDescription: git.DefaultCommitDescription,
		Push:              true,
		StopOnError:       false,
		AutoRefresh:       true,
		RefreshInterval:   DefaultRefreshInterval,
		Watch:             true,
		ShowIcons:         true,
		Theme:             "",
		ConfirmOnExit:     true,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyValues(cfg, data)
	return cfg
}

// applyValues overlays recognised keys from data onto cfg.
func applyValues(cfg *AppConfig, data map[string]any) {
	if v, ok := coerceString(data["git_executable"]); ok {
		cfg.GitExecutable = v
	}
	if v, ok := coerceString(data["commit_description"]); ok {
		cfg.CommitDescription = v
	}
	if v, ok := coerceString(data["debug_log"]); ok {
		cfg.DebugLog = v
	}
	if v, ok := coerceString(data["theme"]); ok {
		cfg.Theme = theme.Normalize(v)
	}

	cfg.Push = coerceBool(data["push"], cfg.Push)
	cfg.StopOnError = coerceBool(data["stop_on_error"], cfg.StopOnError)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.Watch = coerceBool(data["watch"], cfg.Watch)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.ConfirmOnExit = coerceBool(data["confirm_on_exit"], cfg.ConfirmOnExit)

	cfg.RefreshInterval = coerceInt(data["refresh_interval"], cfg.RefreshInterval)
	if cfg.RefreshInterval < minRefreshInterval {
		cfg.RefreshInterval = minRefreshInterval
	}
}

// Apply overlays repository-scoped values onto cfg.
func (r *RepoConfig) Apply(cfg *AppConfig) {
	if r == nil || cfg == nil {
		return
	}
	if r.CommitDescription != "" {
		cfg.CommitDescription = r.CommitDescription
	}
	if r.Push != nil {
		cfg.Push = *r.Push
	}
}

// LoadRepoConfig loads repository-specific overrides from .lazycommit.yaml in repoPath.
func LoadRepoConfig(repoPath string) (*RepoConfig, string, error) {
	if repoPath == "" {
		return nil, "", fmt.Errorf("empty repo path")
	}
	cleanRepoPath := filepath.Clean(repoPath)
	cfgPath := filepath.Join(cleanRepoPath, models.RepoConfigFilename)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return nil, cfgPath, nil
	}

	dataBytes, err := fs.ReadFile(os.DirFS(cleanRepoPath), models.RepoConfigFilename)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("failed to read %s: %w", models.RepoConfigFilename, err)
	}

	var yamlData map[string]any
	if err := yaml.Unmarshal(dataBytes, &yamlData); err != nil {
		return nil, cfgPath, fmt.Errorf("failed to parse %s: %w", models.RepoConfigFilename, err)
	}

	cfg := &RepoConfig{Path: cfgPath}
	if v, ok := coerceString(yamlData["commit_description"]); ok {
		cfg.CommitDescription = v
	}
	if raw, ok := yamlData["push"]; ok && raw != nil {
		push := coerceBool(raw, true)
		cfg.Push = &push
	}
	return cfg, cfgPath, nil
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// ConfigBase returns the directory holding config.yaml.
func ConfigBase() string {
	return filepath.Clean(filepath.Join(getConfigDir(), models.ConfigDirName))
}

// LoadConfig reads the application configuration from a YAML file.
// An empty configPath looks for config.yaml (or config.yml) under ConfigBase.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string

	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if _, err := os.Stat(absPath); err != nil {
			return DefaultConfig(), fmt.Errorf("config file %s: %w", absPath, err)
		}
		paths = []string{absPath}
	} else {
		base := ConfigBase()
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is either the user's explicit choice or under the config directory
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		cfg = parseConfig(yamlData)
		break
	}

	return cfg, nil
}

// ResolveTheme fills an unset theme from the terminal background.
func (c *AppConfig) ResolveTheme(detect func() string) {
	if c.Theme != "" {
		return
	}
	if detect == nil {
		c.Theme = theme.DefaultDark()
		return
	}
	c.Theme = detect()
}
