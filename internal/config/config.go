package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/LFroesch/duet/internal/logger"
)

const (
	ConfirmYes = "yes"
	ConfirmNo  = "no"
)

// Config holds all duet configuration
type Config struct {
	ShowHidden     bool     `yaml:"show_hidden"`
	HidePatterns   []string `yaml:"hide_patterns"`   // glob patterns never listed, e.g. "*.pyc"
	Editor         string   `yaml:"editor"`          // empty: $EDITOR, then nvim/vim/vi/nano
	HandoffFile    string   `yaml:"handoff_file"`    // where "open in terminal" leaves the pane path
	Watch          bool     `yaml:"watch"`           // reload panes on filesystem events
	ConfirmDefault string   `yaml:"confirm_default"` // initially focused confirm action: yes|no
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ShowHidden:     true,
		HidePatterns:   []string{},
		Editor:         "",
		HandoffFile:    "~/.last_fm_path",
		Watch:          true,
		ConfirmDefault: ConfirmYes,
	}
}

// Path returns ~/.config/duet/config.yaml
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "duet", "config.yaml"), nil
}

// Load reads config from ~/.config/duet/config.yaml. It never fails: a
// missing file is replaced by the defaults, a broken one is ignored.
func Load() *Config {
	configPath, err := Path()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return Default()
	}

	cfg, err := LoadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		if err := SaveFile(cfg, configPath); err != nil {
			logger.Warn("Failed to save default config: %v", err)
		}
		return cfg
	}
	if err != nil {
		logger.Warn("Failed to load config file %s: %v, using defaults", configPath, err)
		return Default()
	}
	return cfg
}

// LoadFile reads and validates a specific config file. Keys absent from the
// file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize drops invalid values instead of refusing to start.
func (c *Config) normalize() {
	if c.HidePatterns == nil {
		c.HidePatterns = []string{}
	}

	valid := c.HidePatterns[:0]
	for _, pattern := range c.HidePatterns {
		if _, err := glob.Compile(pattern); err != nil {
			logger.Warn("Ignoring invalid hide pattern %q: %v", pattern, err)
			continue
		}
		valid = append(valid, pattern)
	}
	c.HidePatterns = valid

	switch strings.ToLower(c.ConfirmDefault) {
	case ConfirmYes, ConfirmNo:
		c.ConfirmDefault = strings.ToLower(c.ConfirmDefault)
	default:
		logger.Warn("Invalid confirm_default %q, using %q", c.ConfirmDefault, ConfirmYes)
		c.ConfirmDefault = ConfirmYes
	}

	if c.HandoffFile == "" {
		c.HandoffFile = Default().HandoffFile
	}
}

// SaveFile writes config to path, creating parent directories.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", filepath.Dir(path), err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		logger.Error("Failed to marshal config: %v", err)
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", path, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}

// HandoffPath returns HandoffFile with a leading ~ expanded.
func (c *Config) HandoffPath() string {
	return ExpandHome(c.HandoffFile)
}

// ExpandHome expands a leading "~" to the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
