// Package config holds the hilite configuration: defaults, validation,
// loading through viper and writing the commented default file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/zjrosen/hilite/internal/flags"
	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/tracing"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every configuration option.
type Config struct {
	// Lexer forces a lexer by name; empty means detect.
	Lexer string `mapstructure:"lexer"`
	// Formatter is the output format: terminal, html or plain.
	Formatter string `mapstructure:"formatter"`
	// Theme is the color theme of the terminal and HTML formatters.
	Theme string `mapstructure:"theme"`
	// ThemeFiles are YAML theme files registered at startup.
	ThemeFiles []string `mapstructure:"theme_files"`

	// LexerOptions and FormatterOptions are applied as if given with -O/-P.
	LexerOptions     map[string]any `mapstructure:"lexer_options"`
	FormatterOptions map[string]any `mapstructure:"formatter_options"`

	// MaxDepth bounds nested delegation; 0 uses the engine default.
	MaxDepth int `mapstructure:"max_depth"`

	Cache   CacheConfig     `mapstructure:"cache"`
	Tracing tracing.Config  `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`

	Debug   bool   `mapstructure:"debug"`
	LogFile string `mapstructure:"log_file"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Dir returns ~/.config/hilite, or "" without a home directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hilite")
}

// DefaultTracesFilePath returns ~/.config/hilite/traces/traces.jsonl, or ""
// without a home directory.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Formatter: "terminal",
		Theme:     theme.Default,
		Cache: CacheConfig{
			Enabled: false,
			TTL:     10 * time.Minute,
		},
		Tracing: tr,
		Flags:   map[string]bool{},
		LogFile: "debug.log",
	}
}

// SetDefaults registers Defaults with v so that unset keys unmarshal to
// them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("lexer", d.Lexer)
	v.SetDefault("formatter", d.Formatter)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("theme_files", d.ThemeFiles)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	log.Debug(log.CatConfig, "config loaded", "file", v.ConfigFileUsed(),
		"formatter", cfg.Formatter, "theme", cfg.Theme, "cache", cfg.Cache.Enabled)
	return cfg, nil
}

// Validate checks the values that can be checked without loading theme
// files.
func Validate(cfg Config) error {
	if cfg.Formatter != "" {
		if _, err := formatter.ByName(cfg.Formatter); err != nil {
			return fmt.Errorf("%w: formatter: %w", ErrInvalidConfig, err)
		}
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must not be negative, got %d", ErrInvalidConfig, cfg.MaxDepth)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative, got %s", ErrInvalidConfig, cfg.Cache.TTL)
	}
	if _, err := StringOptions(cfg.LexerOptions); err != nil {
		return err
	}
	if _, err := StringOptions(cfg.FormatterOptions); err != nil {
		return err
	}
	for _, f := range cfg.ThemeFiles {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: theme_files contains an empty path", ErrInvalidConfig)
		}
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0 || tr.SampleRate > 1 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalidConfig, tr.SampleRate)
	}
	switch tr.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q",
			ErrInvalidConfig, tr.Exporter)
	}
	if !tr.Enabled {
		return nil
	}
	if tr.Exporter == tracing.ExporterFile && tr.FilePath == "" {
		return fmt.Errorf("%w: tracing.file_path is required when exporter is \"file\"", ErrInvalidConfig)
	}
	if tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalidConfig)
	}
	return nil
}

// StringOptions converts configured option values, which YAML may have
// typed as numbers or booleans, to the text form options are parsed from.
func StringOptions(m map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for name, v := range m {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: option %s: %w", ErrInvalidConfig, name, err)
		}
		out[name] = s
	}
	return out, nil
}

// FlagRegistry builds the feature flags of cfg.
func (c Config) FlagRegistry() *flags.Registry {
	return flags.New(c.Flags)
}

// LoadThemes registers the themes of ThemeFiles, replacing earlier versions
// of the same themes.
func (c Config) LoadThemes() ([]*theme.Theme, error) {
	loaded := make([]*theme.Theme, 0, len(c.ThemeFiles))
	for _, path := range c.ThemeFiles {
		t, err := theme.Load(expandHome(path))
		if err != nil {
			return loaded, fmt.Errorf("theme file %s: %w", path, err)
		}
		theme.Replace(t)
		log.Debug(log.CatConfig, "theme loaded", "name", t.Name, "path", path)
		loaded = append(loaded, t)
	}
	return loaded, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DefaultConfigTemplate returns the default config file with comments.
func DefaultConfigTemplate() string {
	return `# hilite configuration

# Output format: terminal (default), html or plain
formatter: terminal

# Color theme used by the terminal and html formatters.
# Builtin themes: github, molokai, monokai (see "hilite list themes")
theme: molokai

# Extra themes in YAML, registered under their own name
# theme_files:
#   - ~/.config/hilite/themes/solarized.yaml

# Force a lexer instead of detecting one from the file name and content
# lexer: sql

# Options applied to the lexer and formatter, like -O and -P
# lexer_options:
#   dialect: postgresql
# formatter_options:
#   profile: truecolor

# Maximum nesting of embedded languages (0 = default)
max_depth: 0

# In-memory cache of rendered output, used by "hilite view"
cache:
  enabled: false
  ttl: 10m

# Feature flags
# flags:
#   chroma-lexers: true     # add chroma lexers for languages without a builtin lexer
#   highlight-cache: false  # same as cache.enabled

# Tracing of highlight runs (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file          # none, file, stdout or otlp
#   file_path: ~/.config/hilite/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to path, creating the
// parent directory.
func WriteDefaultConfig(path string) error {
	log.Debug(log.CatConfig, "writing default config", "path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "path", path)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", path)
		return fmt.Errorf("writing config file: %w", err)
	}
	log.Info(log.CatConfig, "created default config", "path", path)
	return nil
}
