package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	xgxcontext "github.com/xgx-io/xgx-context"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "xgxctx "+Version+" (go"), out)
}

func TestDemo_Text(t *testing.T) {
	t.Parallel()

	out, err := run(t, "demo", "--order", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="loading order"`)
	assert.Contains(t, out, "context=order context=42")
	assert.Contains(t, out, "session_id")
	assert.NotContains(t, out, "meta recorded", "observer logs need --verbose")
}

func TestDemo_JSONKnownAndDump(t *testing.T) {
	t.Parallel()

	out, err := run(t, "demo", "--log-format", "json", "--known", "flaky", "--dump")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec), lines[0])
	assert.Equal(t, []any{"flaky"}, rec["known_issues"])
	assert.Equal(t, "error", rec["source"])

	assert.Contains(t, out, "known: flaky")
	assert.Contains(t, out, "demoRepository")
}

func TestDemo_Verbose(t *testing.T) {
	t.Parallel()

	out, err := run(t, "demo", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "meta recorded")
	assert.Contains(t, out, "context built")
}

func TestDemo_BadLogFormat(t *testing.T) {
	t.Parallel()

	_, err := run(t, "demo", "--log-format", "xml")
	require.Error(t, err)
	assert.True(t, xgxcontext.IsInvalidArgument(err))
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "xgx.toml")
	require.NoError(t, os.WriteFile(path, []byte("project_root = \"/srv/app\"\n[level]\nwhen_known = \"notice\"\n"), 0o644))

	out, err := run(t, "config", "show", "--config", path)
	require.NoError(t, err)

	var cfg xgxcontext.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg), out)
	assert.Equal(t, "/srv/app", cfg.ProjectRoot)
	assert.Equal(t, "notice", cfg.Level.WhenKnown)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{xgxcontext.DefaultChannel}, cfg.Channels.Default)
}

func TestConfigShow_InvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "xgx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level:\n  when_known: loud\n"), 0o644))

	_, err := run(t, "config", "show", "--config", path)
	require.Error(t, err)
	assert.True(t, xgxcontext.IsInitialization(err))
}
