package config

import (
	"fmt"
	"strings"
)

// OverridePrefix namespaces keys given with -C on the command line.
const OverridePrefix = "lc."

// parseCLIConfigOverrides parses -C lc.key=value pairs into a map for applyValues.
// A key given twice keeps its last value.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lc.key=value (note: use = not space)", override)
		}

		fullKey := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(fullKey, OverridePrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", OverridePrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, OverridePrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		if !knownKeys[key] {
			return nil, fmt.Errorf("unknown config key %q", key)
		}
		result[key] = parts[1]
	}

	return result, nil
}

var knownKeys = map[string]bool{
	"git_executable":     true,
	"commit_description": true,
	"push":               true,
	"stop_on_error":      true,
	"auto_refresh":       true,
	"refresh_interval":   true,
	"watch":              true,
	"show_icons":         true,
	"theme":              true,
	"debug_log":          true,
	"confirm_on_exit":    true,
}

// ApplyCLIOverrides overlays -C lc.key=value pairs onto cfg.
func ApplyCLIOverrides(cfg *AppConfig, overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	values, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyValues(cfg, values)
	return nil
}
