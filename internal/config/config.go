package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Index    string         `mapstructure:"index" yaml:"index"`
	Language LanguageConfig `mapstructure:"language" yaml:"language"`
	Edit     EditConfig     `mapstructure:"edit" yaml:"edit"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

type LanguageConfig struct {
	Default string            `mapstructure:"default" yaml:"default"`
	Aliases map[string]string `mapstructure:"aliases" yaml:"aliases,omitempty"`
}

type EditConfig struct {
	Editor   string `mapstructure:"editor" yaml:"editor"` // overrides $EDITOR and $VISUAL
	Confirm  bool   `mapstructure:"confirm" yaml:"confirm"`
	ShowDiff bool   `mapstructure:"show_diff" yaml:"show_diff"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"` // empty uses the XDG data dir
}

type DisplayConfig struct {
	Highlight    bool   `mapstructure:"highlight" yaml:"highlight"`
	Style        string `mapstructure:"style" yaml:"style"`                 // chroma style
	GlamourStyle string `mapstructure:"glamour_style" yaml:"glamour_style"` // dark, light, notty, ...
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("index", "nested")
	v.SetDefault("language.default", "plaintext")
	v.SetDefault("language.aliases", map[string]string{})
	v.SetDefault("edit.editor", "")
	v.SetDefault("edit.confirm", true)
	v.SetDefault("edit.show_diff", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("display.highlight", true)
	v.SetDefault("display.style", "monokai")
	v.SetDefault("display.glamour_style", "dark")
}

// Load reads the config file at path, or the default location when path is
// empty. A missing default file is not an error; a missing explicit one is.
// FENCEDIT_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(expandPath(path))
	} else {
		configPath, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(configPath)
	}

	v.SetEnvPrefix("FENCEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - won't error if missing)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if cfg.File != "" {
		if _, err := os.Stat(cfg.File); err != nil {
			cfg.File = ""
		}
	}

	cfg.Index = strings.ToLower(strings.TrimSpace(cfg.Index))
	cfg.Language.Default = strings.ToLower(strings.TrimSpace(cfg.Language.Default))
	cfg.Edit.Editor = expandEnv(cfg.Edit.Editor)
	if cfg.History.Path != "" {
		cfg.History.Path = expandPath(cfg.History.Path)
	}
	return &cfg, nil
}

// Defaults returns the configuration used when no file or environment
// overrides are present.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	return &cfg, nil
}

// AliasTags returns the configured alias tags, sorted.
func (c *Config) AliasTags() []string {
	tags := make([]string, 0, len(c.Language.Aliases))
	for tag := range c.Language.Aliases {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// expandPath expands environment variables and a leading ~/.
func expandPath(p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if strings.HasPrefix(p, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(homeDir, p[2:])
		}
	}
	return p
}

// GetConfigDir returns the XDG config directory for fencedit.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "fencedit"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "fencedit"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Save writes cfg to path as a commented config file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var aliases strings.Builder
	for _, tag := range cfg.AliasTags() {
		fmt.Fprintf(&aliases, "    %s: %s\n", tag, cfg.Language.Aliases[tag])
	}
	if aliases.Len() == 0 {
		aliases.WriteString("    # py3: python\n")
	}

	content := fmt.Sprintf(`# How coarse sections are found: nested, commonmark or none
index: %s

language:
  # Reported for empty or unknown fence tags
  default: %s
  aliases:
%s
edit:
  # Empty uses $EDITOR, then $VISUAL, then vi
  editor: %q
  confirm: %t
  show_diff: %t

history:
  enabled: %t
  # Empty uses $XDG_DATA_HOME/fencedit/history.db
  path: %q

display:
  highlight: %t
  style: %s
  glamour_style: %s
`, cfg.Index, cfg.Language.Default, aliases.String(),
		cfg.Edit.Editor, cfg.Edit.Confirm, cfg.Edit.ShowDiff,
		cfg.History.Enabled, cfg.History.Path,
		cfg.Display.Highlight, cfg.Display.Style, cfg.Display.GlamourStyle)

	return os.WriteFile(path, []byte(content), 0600)
}
