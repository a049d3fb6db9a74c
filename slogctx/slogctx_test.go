package slogctx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xgxcontext "github.com/xgx-io/xgx-context"
)

func jsonLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level, ReplaceAttr: ReplaceAttr}))
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func errorContext(t *testing.T, cfg xgxcontext.Config) *xgxcontext.Context {
	t.Helper()
	s := xgxcontext.NewSession(cfg)
	require.NoError(t, s.Add("order", 7))
	s.TraceIdentifier("req-1", "request_id")
	c, err := s.BuildFromError(xgxcontext.New("boom"), false, xgxcontext.NoID)
	require.NoError(t, err)
	return c
}

func TestLevel(t *testing.T) {
	t.Parallel()

	want := map[xgxcontext.Level]slog.Level{
		xgxcontext.LevelNone:      slog.LevelInfo,
		xgxcontext.LevelDebug:     slog.LevelDebug,
		xgxcontext.LevelInfo:      slog.LevelInfo,
		xgxcontext.LevelNotice:    LevelNotice,
		xgxcontext.LevelWarning:   slog.LevelWarn,
		xgxcontext.LevelError:     slog.LevelError,
		xgxcontext.LevelCritical:  LevelCritical,
		xgxcontext.LevelAlert:     LevelAlert,
		xgxcontext.LevelEmergency: LevelEmergency,
	}
	for l, sl := range want {
		assert.Equal(t, sl, Level(l), "level %q", l)
	}

	// Severity order is preserved.
	levels := xgxcontext.Levels()
	for i := 1; i < len(levels); i++ {
		assert.Less(t, Level(levels[i-1]), Level(levels[i]))
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	cfg := xgxcontext.DefaultConfig()
	cfg.Channels.WhenNotKnown = []string{"ops"}
	cfg.Level.WhenNotKnown = "critical"
	c := errorContext(t, cfg)

	var buf bytes.Buffer
	require.True(t, Report(context.Background(), jsonLogger(&buf, slog.LevelDebug), c))

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "CRITICAL", rec["level"])
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "error", rec["source"])
	assert.Equal(t, []any{"ops"}, rec["channels"])
	assert.Equal(t, map[string]any{"request_id": "req-1"}, rec["trace_ids"])
	assert.NotContains(t, rec, "known_issues")

	meta, ok := rec["meta"].([]any)
	require.True(t, ok, "meta groups are logged as a list")
	var joined []string
	for _, m := range meta {
		joined = append(joined, m.(string))
	}
	all := strings.Join(joined, "\n")
	assert.Contains(t, all, "context=order context=7")
	assert.Contains(t, all, "exception-thrown")
}

func TestReport_Skips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := jsonLogger(&buf, slog.LevelError)

	assert.False(t, Report(context.Background(), logger, nil))

	c := errorContext(t, xgxcontext.DefaultConfig())
	c.DontReport()
	assert.False(t, Report(context.Background(), logger, c), "report flag off")

	c.SetReport(true).SetLevel(xgxcontext.LevelWarning)
	assert.False(t, Report(context.Background(), logger, c), "below the handler level")

	c.SetLevel(xgxcontext.LevelNone)
	assert.True(t, Report(context.Background(), logger, c), "undecided level on an error context means error")
	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "ERROR", recs[0]["level"])
}

func TestReport_HereContextWithKnownIssues(t *testing.T) {
	t.Parallel()

	s := xgxcontext.NewSession(xgxcontext.DefaultConfig())
	c, err := s.BuildHere(0)
	require.NoError(t, err)
	c.SetReport(true).SetKnown("flaky", "slow").SetLevel(xgxcontext.LevelNotice)

	var buf bytes.Buffer
	require.True(t, Report(context.Background(), jsonLogger(&buf, slog.LevelInfo), c))

	rec := records(t, &buf)[0]
	assert.Equal(t, "NOTICE", rec["level"])
	assert.Equal(t, "context captured", rec["msg"])
	assert.Equal(t, "here", rec["source"])
	assert.Equal(t, []any{"flaky", "slow"}, rec["known_issues"])
}

func TestValue(t *testing.T) {
	t.Parallel()

	c := errorContext(t, xgxcontext.DefaultConfig())
	var buf bytes.Buffer
	jsonLogger(&buf, slog.LevelInfo).Info("captured", "xgx", Value(c))

	rec := records(t, &buf)[0]
	group, ok := rec["xgx"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "error", group["source"])
	assert.Equal(t, "boom", group["error"])
	assert.Equal(t, true, group["report"])

	stack, ok := group["stack"].(map[string]any)
	require.True(t, ok)
	require.Len(t, stack, c.StackTrace().Len())

	top, ok := stack["0"].(map[string]any)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(top["function"].(string), "errorContext"), top["function"])
	assert.Contains(t, top["flags"], "thrown")
	assert.Contains(t, top["meta"], "exception-thrown")
}

func TestValue_Nil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<nil>", Value(nil).LogValue().String())
}

func TestObserver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := xgxcontext.NewSession(xgxcontext.DefaultConfig(),
		xgxcontext.WithObserver(NewObserver(jsonLogger(&buf, slog.LevelDebug))))
	require.NoError(t, s.Add("a", "b"))
	_, err := s.BuildHere(0)
	require.NoError(t, err)

	recs := records(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "meta recorded", recs[0]["msg"])
	assert.Equal(t, float64(2), recs[0]["count"])
	assert.Equal(t, "xgxcontext", recs[0]["component"])
	assert.Equal(t, "context built", recs[1]["msg"])
	assert.Equal(t, "here", recs[1]["source"])
}

func TestObserver_QuietAboveDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	o := NewObserver(jsonLogger(&buf, slog.LevelInfo))
	o.MetaRecorded("context", 1)
	o.MetaPruned(3)
	assert.Empty(t, buf.String())
}
