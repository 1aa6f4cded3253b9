// Package config loads nextaction settings from YAML or JSONC files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amirbrooks/nextaction/internal/fileutil"
	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/remote"
)

// Config is the full settings tree. Keys are snake_case in every format.
type Config struct {
	Local   local.Config  `yaml:"local" mapstructure:"local"`
	Todoist TodoistConfig `yaml:"todoist" mapstructure:"todoist"`
	Refresh RefreshConfig `yaml:"refresh" mapstructure:"refresh"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
}

type TodoistConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// APITokenEnv names the environment variable holding the API token.
	APITokenEnv string              `yaml:"api_token_env" mapstructure:"api_token_env"`
	BaseURL     string              `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Filter      remote.FilterConfig `yaml:"filter" mapstructure:"filter"`
	Sort        []remote.SortKey    `yaml:"sort" mapstructure:"sort"`
}

// Token reads the API token from the configured environment variable.
func (c TodoistConfig) Token() string {
	if c.APITokenEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.APITokenEnv))
}

type RefreshConfig struct {
	Todoist TodoistRefreshConfig `yaml:"todoist" mapstructure:"todoist"`
}

type TodoistRefreshConfig struct {
	IntervalSeconds int `yaml:"interval_seconds" mapstructure:"interval_seconds"`
	// CacheFile overrides the snapshot location. Empty means the user cache
	// directory.
	CacheFile string `yaml:"cache_file,omitempty" mapstructure:"cache_file"`
}

func (r TodoistRefreshConfig) TTL() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// CachePath resolves where the remote snapshot is stored.
func (r TodoistRefreshConfig) CachePath() string {
	if r.CacheFile != "" {
		return fileutil.ExpandHome(r.CacheFile)
	}
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = filepath.Join(os.TempDir(), "nextaction-cache")
		return filepath.Join(dir, "todoist.json")
	}
	return filepath.Join(dir, appName, "todoist.json")
}

type Priority string

const (
	PriorityLocal   Priority = "local"
	PriorityTodoist Priority = "todoist"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type DisplayConfig struct {
	MaxTaskLength      int       `yaml:"max_task_length" mapstructure:"max_task_length"`
	ShowRemainingCount bool      `yaml:"show_remaining_count" mapstructure:"show_remaining_count"`
	ShowSource         bool      `yaml:"show_source" mapstructure:"show_source"`
	Icons              Icons     `yaml:"icons" mapstructure:"icons"`
	Separator          string    `yaml:"separator" mapstructure:"separator"`
	Priority           Priority  `yaml:"priority" mapstructure:"priority"`
	Color              ColorMode `yaml:"color" mapstructure:"color"`
}

type Icons struct {
	Local   string `yaml:"local" mapstructure:"local"`
	Todoist string `yaml:"todoist" mapstructure:"todoist"`
}
