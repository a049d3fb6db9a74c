package xgxcontext

import (
	"path"
	"strings"
)

// DefaultChannel is used when no channel configuration applies.
const DefaultChannel = "default"

// Config holds the settings a Session resolves Contexts with. Package
// config loads it from TOML, YAML and the environment.
type Config struct {
	// Enabled turns meta-data collection on. When false, recording is a
	// no-op and Contexts carry no Meta.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// ProjectRoot is stripped from file paths to form project paths. When
	// set, frames from files outside it are not application frames.
	ProjectRoot string `toml:"project_root" yaml:"project_root"`

	// VendorPrefixes mark project paths holding third-party code.
	VendorPrefixes []string `toml:"vendor_prefixes" yaml:"vendor_prefixes"`

	Channels ChannelConfig `toml:"channels" yaml:"channels"`
	Level    LevelConfig   `toml:"level" yaml:"level"`

	// Report is the report flag for Contexts built from errors; nil means
	// true.
	Report *bool `toml:"report" yaml:"report"`
}

// ChannelConfig picks the channels a Context is reported to.
type ChannelConfig struct {
	WhenKnown    []string `toml:"when_known" yaml:"when_known"`
	WhenNotKnown []string `toml:"when_not_known" yaml:"when_not_known"`
	Default      []string `toml:"default" yaml:"default"`
}

// LevelConfig picks the level a Context built from an error is reported at.
type LevelConfig struct {
	WhenKnown    string `toml:"when_known" yaml:"when_known"`
	WhenNotKnown string `toml:"when_not_known" yaml:"when_not_known"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		VendorPrefixes: []string{"/vendor/"},
		Channels:       ChannelConfig{Default: []string{DefaultChannel}},
	}
}

// Validate checks the configured levels and reports every bad one.
func (c Config) Validate() error {
	var errs error
	for _, s := range []string{c.Level.WhenKnown, c.Level.WhenNotKnown} {
		if _, err := ParseLevel(s); err != nil {
			errs = Append(errs, err)
		}
	}
	return errs
}

func (c Config) pickChannels(known bool) []string {
	ch := c.Channels.WhenNotKnown
	if known {
		ch = c.Channels.WhenKnown
	}
	if ch = normalizeStrings(ch...); len(ch) > 0 {
		return ch
	}
	if ch = normalizeStrings(c.Channels.Default...); len(ch) > 0 {
		return ch
	}
	return []string{DefaultChannel}
}

func (c Config) pickLevel(known bool) (Level, error) {
	if known {
		return ParseLevel(c.Level.WhenKnown)
	}
	return ParseLevel(c.Level.WhenNotKnown)
}

func (c Config) report() bool {
	return c.Report == nil || *c.Report
}

// projectFile strips the project root from file. Files outside the root are
// returned unchanged.
func (c Config) projectFile(file string) string {
	root := strings.TrimRight(c.ProjectRoot, "/")
	if root == "" {
		return file
	}
	if rest, ok := strings.CutPrefix(file, root); ok && strings.HasPrefix(rest, "/") {
		return rest
	}
	return file
}

// isApplicationFile reports whether file belongs to the project itself.
func (c Config) isApplicationFile(file string) bool {
	root := strings.TrimRight(c.ProjectRoot, "/")
	if root == "" {
		return true
	}
	rel := c.projectFile(file)
	if rel == file {
		return false
	}
	rel = path.Clean(rel)
	for _, prefix := range c.VendorPrefixes {
		if prefix != "" && strings.HasPrefix(rel+"/", prefix) {
			return false
		}
	}
	return true
}
