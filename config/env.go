package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	xgxcontext "github.com/xgx-io/xgx-context"
)

// stringList decodes from a list or from one comma separated string.
// Blank items are dropped; an explicitly empty value yields an empty, non-nil
// list so it still overrides the default.
type stringList []string

func splitList(s string) stringList {
	out := stringList{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *stringList) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*l = splitList(v)
	case []any:
		out := stringList{}
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return xgxcontext.New("list items must be strings", "item", item).
					Code(xgxcontext.CodeInitialization)
			}
			out = append(out, splitList(s)...)
		}
		*l = out
	default:
		return xgxcontext.New("expected a string or a list of strings", "value", v).
			Code(xgxcontext.CodeInitialization)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = splitList(n.Value)
	case yaml.SequenceNode:
		var items []string
		if err := n.Decode(&items); err != nil {
			return err
		}
		out := stringList{}
		for _, s := range items {
			out = append(out, splitList(s)...)
		}
		*l = out
	default:
		return xgxcontext.New("expected a string or a list of strings", "line", n.Line).
			Code(xgxcontext.CodeInitialization)
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables named prefix + "_" + key.
// An empty prefix means DefaultEnvPrefix. Unset variables leave cfg alone;
// a set but empty list variable clears the list.
func ApplyEnv(cfg *xgxcontext.Config, prefix string) error {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	lookup := func(key string) (string, bool) {
		return os.LookupEnv(envKey(prefix, key))
	}

	if v, ok := lookup("enabled"); ok {
		b, err := parseBool(prefix, "enabled", v)
		if err != nil {
			return err
		}
		cfg.Enabled = b
	}
	if v, ok := lookup("report"); ok {
		b, err := parseBool(prefix, "report", v)
		if err != nil {
			return err
		}
		cfg.Report = &b
	}
	if v, ok := lookup("project_root"); ok {
		cfg.ProjectRoot = strings.TrimSpace(v)
	}
	if v, ok := lookup("level.when_known"); ok {
		cfg.Level.WhenKnown = v
	}
	if v, ok := lookup("level.when_not_known"); ok {
		cfg.Level.WhenNotKnown = v
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"vendor_prefixes", &cfg.VendorPrefixes},
		{"channels.when_known", &cfg.Channels.WhenKnown},
		{"channels.when_not_known", &cfg.Channels.WhenNotKnown},
		{"channels.default", &cfg.Channels.Default},
	}
	for _, l := range lists {
		if v, ok := lookup(l.key); ok {
			*l.dst = splitList(v)
		}
	}
	return nil
}

// envKey converts a dotted key: level.when_known -> XGXCONTEXT_LEVEL_WHEN_KNOWN.
func envKey(prefix, key string) string {
	return strings.ToUpper(prefix + "_" + strings.ReplaceAll(key, ".", "_"))
}

func parseBool(prefix, key, v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, xgxcontext.Wrap(err, "invalid boolean in environment", "variable", envKey(prefix, key)).
			Code(xgxcontext.CodeInitialization)
	}
	return b, nil
}
