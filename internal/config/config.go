// Package config loads server settings from defaults, an optional YAML file
// and BITMAP_MCP_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/ironsheep/bitmap-tools-mcp/internal/transform"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BITMAP_MCP_"

// EnvConfigPath names the variable holding the config file path.
const EnvConfigPath = EnvPrefix + "CONFIG"

// Config holds the server settings.
type Config struct {
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	BatchConcurrency int    `yaml:"batch_concurrency"`
	PreviewMaxSize   int    `yaml:"preview_max_size"`
	DefaultMode      string `yaml:"default_mode"`
}

// keys lists the settings in the form used by YAML files. The environment
// variable for a key is EnvPrefix followed by the key in upper case.
var keys = []string{"log_level", "log_format", "batch_concurrency", "preview_max_size", "default_mode"}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	logFormats = []string{"text", "json"}
)

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		LogLevel:         "info",
		LogFormat:        "text",
		BatchConcurrency: 4,
		PreviewMaxSize:   512,
		DefaultMode:      transform.ModeBlur.String(),
	}
}

// Load builds a Config from the defaults, the YAML file at path and the
// environment. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	raw := map[string]interface{}{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
			}
		}
	}

	for _, key := range keys {
		if v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(key)); ok {
			raw[key] = v
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode copies raw onto cfg. Strings from the environment are converted to
// the field types, and keys that match no field are rejected.
func decode(raw map[string]interface{}, cfg *Config) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if len(md.Unused) > 0 {
		return fmt.Errorf("unknown config keys: %s", strings.Join(md.Unused, ", "))
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if !contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (valid: %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if !contains(logFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("invalid log_format %q (valid: %s)", c.LogFormat, strings.Join(logFormats, ", "))
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("batch_concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if c.PreviewMaxSize <= 0 {
		return fmt.Errorf("preview_max_size must be positive, got %d", c.PreviewMaxSize)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("invalid default_mode: %w", err)
	}
	return nil
}

// Mode parses DefaultMode.
func (c Config) Mode() (transform.Mode, error) {
	m, err := transform.ParseMode(c.DefaultMode)
	if err != nil {
		return 0, err
	}
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %s", transform.ErrUnknownMode, m)
	}
	return m, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
