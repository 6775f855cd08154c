// Package config loads analyzer settings from defaults, an optional project
// config file, RUST_UNUSED_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Dhir0808/cargo-rust-unused/internal/render"
)

const (
	// FileName is the project-local config file looked up in the project root.
	FileName = ".cargo-rust-unused.yaml"
	// EnvPrefix prefixes environment overrides, e.g. RUST_UNUSED_FORMAT.
	EnvPrefix = "RUST_UNUSED"

	// SourceTOML reads dependencies from Cargo.toml directly.
	SourceTOML = "toml"
	// SourceCargo asks `cargo metadata`.
	SourceCargo = "cargo"
)

// ErrConfigNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Config holds every setting the CLI acts on.
type Config struct {
	Format         render.Format `mapstructure:"format"`
	EntryPoint     string        `mapstructure:"entrypoint"`
	IncludePrivate bool          `mapstructure:"include_private"`
	Locations      bool          `mapstructure:"locations"`
	Exclude        []string      `mapstructure:"exclude"`
	Manifest       Manifest      `mapstructure:"manifest"`
	LogLevel       string        `mapstructure:"log_level"`
}

// Manifest selects how dependencies are listed.
type Manifest struct {
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:     render.Text,
		EntryPoint: "main",
		Exclude:    []string{},
		Manifest: Manifest{
			Source:  SourceTOML,
			Timeout: 30 * time.Second,
		},
		LogLevel: "info",
	}
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// ProjectRoot is searched for FileName when ConfigFile is empty.
	ProjectRoot string
	// ConfigFile, when set, must exist and is used exclusively.
	ConfigFile string
	// Flags are bound over file and environment values. Only flags the user
	// set take precedence.
	Flags *pflag.FlagSet
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"format":          "format",
	"include-private": "include_private",
	"locations":       "locations",
	"entrypoint":      "entrypoint",
	"exclude":         "exclude",
	"manifest-source": "manifest.source",
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, string, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fs)

	defaults := Default()
	v.SetDefault("format", string(defaults.Format))
	v.SetDefault("entrypoint", defaults.EntryPoint)
	v.SetDefault("include_private", defaults.IncludePrivate)
	v.SetDefault("locations", defaults.Locations)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("manifest.source", defaults.Manifest.Source)
	v.SetDefault("manifest.timeout", defaults.Manifest.Timeout)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved, err := resolveFile(fs, opts)
	if err != nil {
		return nil, "", err
	}
	if resolved != "" {
		v.SetConfigFile(resolved)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", resolved, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, "", fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		if resolved != "" {
			return nil, "", fmt.Errorf("%s: %w", resolved, err)
		}
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func resolveFile(fs afero.Fs, opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		ok, err := afero.Exists(fs, opts.ConfigFile)
		if err != nil {
			return "", fmt.Errorf("checking config %s: %w", opts.ConfigFile, err)
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFile)
		}
		return opts.ConfigFile, nil
	}
	if opts.ProjectRoot == "" {
		return "", nil
	}
	local := filepath.Join(opts.ProjectRoot, FileName)
	ok, err := afero.Exists(fs, local)
	if err != nil {
		return "", fmt.Errorf("checking config %s: %w", local, err)
	}
	if !ok {
		return "", nil
	}
	return local, nil
}

// Validate checks enumerated values and normalises the format.
func (c *Config) Validate() error {
	f, err := render.ParseFormat(string(c.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	c.Format = f

	switch c.Manifest.Source {
	case SourceTOML, SourceCargo:
	default:
		return fmt.Errorf("invalid manifest.source %q (want %s or %s)", c.Manifest.Source, SourceTOML, SourceCargo)
	}
	if c.Manifest.Timeout <= 0 {
		return fmt.Errorf("invalid manifest.timeout %s: must be positive", c.Manifest.Timeout)
	}
	if strings.TrimSpace(c.EntryPoint) == "" {
		return errors.New("invalid entrypoint: must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level. Validate has already rejected
// unknown names.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
