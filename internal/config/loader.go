package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/nextaction/internal/fileutil"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "NEXTACTION_CONFIG"

// envPrefix prefixes per-key overrides, e.g. NEXTACTION_TODOIST_ENABLED.
const envPrefix = "NEXTACTION"

var (
	ErrNotFound = errors.New("config not found")
	ErrInvalid  = errors.New("invalid config")
	ErrExists   = errors.New("config already exists")
)

// Paths lists the default search locations in lookup order.
func Paths() []string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", appName, "config.yaml"),
		filepath.Join(home, ".config", appName, "config.yml"),
		filepath.Join(home, ".config", appName, "config.jsonc"),
		filepath.Join(home, "."+appName+".yaml"),
		filepath.Join(home, "."+appName+".yml"),
	}
}

// Resolve picks the config file to read. An explicit path, then
// $NEXTACTION_CONFIG, must exist; otherwise the first existing default
// path wins. ok is false when no file applies.
func Resolve(explicit string) (path string, ok bool, err error) {
	for _, p := range []string{explicit, os.Getenv(EnvConfig)} {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = fileutil.ExpandHome(p)
		if !fileutil.Exists(p) {
			return "", false, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return p, true, nil
	}
	for _, p := range Paths() {
		if fileutil.Exists(p) {
			return p, true, nil
		}
	}
	return "", false, nil
}

// Load reads the resolved file over Default() and validates the result.
// Unset keys keep their defaults; a list in the file replaces the default
// list. It returns the path that was read, or "" when running on defaults.
func Load(explicit string) (Config, string, error) {
	path, ok, err := Resolve(explicit)
	if err != nil {
		return Config{}, "", err
	}

	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return Config{}, "", err
	}
	if ok {
		if err := readFile(v, path); err != nil {
			return Config{}, path, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, path, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// setDefaults registers every leaf of cfg as a viper default so a file
// only needs the keys it changes.
func setDefaults(v *viper.Viper, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}
	for key, value := range tree {
		v.SetDefault(key, value)
	}
	return nil
}

func readFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
		v.SetConfigType("json")
	default:
		v.SetConfigType("yaml")
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteDefault writes the default config as YAML. An existing file is
// left alone.
func WriteDefault(path string) error {
	if fileutil.Exists(path) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	data, err := Marshal(Default())
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, data, 0o644)
}
