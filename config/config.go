// Package config loads xgxcontext.Config from TOML or YAML files and the
// environment.
//
// Files only need to name the settings they change; everything else keeps
// its xgxcontext.DefaultConfig value. String lists accept either a list or a
// comma separated string:
//
//	project_root = "/srv/app"
//
//	[channels]
//	when_known = "ops, audit"
//	default    = ["default"]
//
//	[level]
//	when_not_known = "error"
//
// Environment variables override the file. Keys are upper-cased, dots become
// underscores and the prefix (DefaultEnvPrefix unless set) is prepended:
// XGXCONTEXT_LEVEL_WHEN_KNOWN, XGXCONTEXT_CHANNELS_DEFAULT and so on.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	xgxcontext "github.com/xgx-io/xgx-context"
)

// DefaultEnvPrefix prefixes environment overrides when LoadOptions leaves
// EnvPrefix empty.
const DefaultEnvPrefix = "XGXCONTEXT"

// Format is a configuration file format.
type Format int

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// LoadOptions tune LoadWithOptions and Watch.
type LoadOptions struct {
	Format Format

	// EnvPrefix replaces DefaultEnvPrefix.
	EnvPrefix string

	// SkipEnv ignores the environment entirely.
	SkipEnv bool

	// Defaults replaces xgxcontext.DefaultConfig as the merge base.
	Defaults *xgxcontext.Config
}

// Load reads path with default options.
func Load(path string) (xgxcontext.Config, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// LoadWithOptions reads path, merges it over the defaults, applies the
// environment and validates the result.
func LoadWithOptions(path string, opts LoadOptions) (xgxcontext.Config, error) {
	if strings.TrimSpace(path) == "" {
		return xgxcontext.Config{}, xgxcontext.New("config file path cannot be empty").
			Code(xgxcontext.CodeInvalidArgument)
	}

	format := opts.Format
	if format == FormatAuto {
		format = detectFormat(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return xgxcontext.Config{}, xgxcontext.Wrap(err, "reading config file", "path", path).
			Code(xgxcontext.CodeInitialization)
	}

	cfg, err := parse(content, format, opts.base())
	if err != nil {
		return xgxcontext.Config{}, xgxcontext.Wrap(err, "parsing config file", "path", path, "format", format.String()).
			Code(xgxcontext.CodeInitialization)
	}

	if !opts.SkipEnv {
		if err := ApplyEnv(&cfg, opts.EnvPrefix); err != nil {
			return xgxcontext.Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return xgxcontext.Config{}, xgxcontext.Wrap(err, "invalid config file", "path", path)
	}
	return cfg, nil
}

// Parse decodes data over xgxcontext.DefaultConfig. FormatAuto is read as
// TOML. The environment is not consulted.
func Parse(data []byte, format Format) (xgxcontext.Config, error) {
	cfg, err := parse(data, format, xgxcontext.DefaultConfig())
	if err != nil {
		return xgxcontext.Config{}, xgxcontext.Wrap(err, "parsing config", "format", format.String()).
			Code(xgxcontext.CodeInitialization)
	}
	if err := cfg.Validate(); err != nil {
		return xgxcontext.Config{}, err
	}
	return cfg, nil
}

func (o LoadOptions) base() xgxcontext.Config {
	if o.Defaults != nil {
		return *o.Defaults
	}
	return xgxcontext.DefaultConfig()
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func parse(content []byte, format Format, base xgxcontext.Config) (xgxcontext.Config, error) {
	var fc fileConfig
	switch format {
	case FormatAuto, FormatTOML:
		if _, err := toml.Decode(string(content), &fc); err != nil {
			return base, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &fc); err != nil {
			return base, err
		}
	default:
		return base, fmt.Errorf("unsupported format %d", int(format))
	}
	return fc.merge(base), nil
}

// fileConfig mirrors xgxcontext.Config with every setting optional. A nil
// pointer or nil list means "keep the default".
type fileConfig struct {
	Enabled        *bool      `toml:"enabled" yaml:"enabled"`
	ProjectRoot    *string    `toml:"project_root" yaml:"project_root"`
	VendorPrefixes stringList `toml:"vendor_prefixes" yaml:"vendor_prefixes"`
	Channels       struct {
		WhenKnown    stringList `toml:"when_known" yaml:"when_known"`
		WhenNotKnown stringList `toml:"when_not_known" yaml:"when_not_known"`
		Default      stringList `toml:"default" yaml:"default"`
	} `toml:"channels" yaml:"channels"`
	Level struct {
		WhenKnown    *string `toml:"when_known" yaml:"when_known"`
		WhenNotKnown *string `toml:"when_not_known" yaml:"when_not_known"`
	} `toml:"level" yaml:"level"`
	Report *bool `toml:"report" yaml:"report"`
}

func (fc fileConfig) merge(cfg xgxcontext.Config) xgxcontext.Config {
	if fc.Enabled != nil {
		cfg.Enabled = *fc.Enabled
	}
	if fc.ProjectRoot != nil {
		cfg.ProjectRoot = *fc.ProjectRoot
	}
	if fc.VendorPrefixes != nil {
		cfg.VendorPrefixes = fc.VendorPrefixes
	}
	if fc.Channels.WhenKnown != nil {
		cfg.Channels.WhenKnown = fc.Channels.WhenKnown
	}
	if fc.Channels.WhenNotKnown != nil {
		cfg.Channels.WhenNotKnown = fc.Channels.WhenNotKnown
	}
	if fc.Channels.Default != nil {
		cfg.Channels.Default = fc.Channels.Default
	}
	if fc.Level.WhenKnown != nil {
		cfg.Level.WhenKnown = *fc.Level.WhenKnown
	}
	if fc.Level.WhenNotKnown != nil {
		cfg.Level.WhenNotKnown = *fc.Level.WhenNotKnown
	}
	if fc.Report != nil {
		r := *fc.Report
		cfg.Report = &r
	}
	return cfg
}
