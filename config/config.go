package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName names the per-user config directory.
	AppName = "git-subtree"
	// ConfigFileName is looked up (as YAML) when no explicit config file is given.
	ConfigFileName = "git-subtree"
	// EnvPrefix prefixes environment overrides, e.g. GIT_SUBTREE_GC_AGGRESSIVE.
	EnvPrefix = "GIT_SUBTREE"
)

// Configuration holds the tool settings.
type Configuration struct {
	Git          string             `mapstructure:"git"`
	HistoryFile  string             `mapstructure:"history_file"`
	Verbose      bool               `mapstructure:"verbose"`
	GC           GCConfig           `mapstructure:"gc"`
	FilterBranch FilterBranchConfig `mapstructure:"filter_branch"`
}

// GCConfig controls the final `git gc` of a rewritten repository.
type GCConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Aggressive bool   `mapstructure:"aggressive"`
	Prune      string `mapstructure:"prune"`
}

// FilterBranchConfig tunes git filter-branch invocations.
type FilterBranchConfig struct {
	// SquelchWarning sets FILTER_BRANCH_SQUELCH_WARNING=1 so filter-branch does not pause.
	SquelchWarning bool `mapstructure:"squelch_warning"`
}

// Dir returns the per-user configuration directory for the tool.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Configuration {
	historyFile := "git-subtree-history.yml"
	if dir, err := Dir(); err == nil {
		historyFile = filepath.Join(dir, "history.yml")
	}

	return &Configuration{
		Git:         "git",
		HistoryFile: historyFile,
		GC: GCConfig{
			Enabled:    true,
			Aggressive: true,
			Prune:      "now",
		},
		FilterBranch: FilterBranchConfig{SquelchWarning: true},
	}
}

// ReadConfig loads the configuration. An explicit configPath must exist; otherwise
// git-subtree.yml is searched in the working directory and then the user config
// directory, and a missing file just means defaults. Environment variables with the
// GIT_SUBTREE_ prefix override both.
func ReadConfig(configPath string) (*Configuration, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("git", defaults.Git)
	v.SetDefault("history_file", defaults.HistoryFile)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("gc.enabled", defaults.GC.Enabled)
	v.SetDefault("gc.aggressive", defaults.GC.Aggressive)
	v.SetDefault("gc.prune", defaults.GC.Prune)
	v.SetDefault("filter_branch.squelch_warning", defaults.FilterBranch.SquelchWarning)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(absPath)
		v.SetConfigType("yaml")
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Git == "" {
		cfg.Git = defaults.Git
	}

	return &cfg, nil
}
