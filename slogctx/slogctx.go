// Package slogctx renders xgxcontext values for log/slog.
//
// Contexts are reported at their own level, mapped onto slog's scale. The
// levels slog has no name for (notice, critical, alert, emergency) sit
// between or above the standard ones; ReplaceAttr prints their names.
package slogctx

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	xgxcontext "github.com/xgx-io/xgx-context"
)

// Extra slog levels for the xgxcontext levels slog lacks.
const (
	LevelNotice    = slog.LevelInfo + 2
	LevelCritical  = slog.LevelError + 4
	LevelAlert     = slog.LevelError + 8
	LevelEmergency = slog.LevelError + 12
)

// Level maps l onto slog's scale. LevelNone maps to slog.LevelInfo.
func Level(l xgxcontext.Level) slog.Level {
	switch l {
	case xgxcontext.LevelDebug:
		return slog.LevelDebug
	case xgxcontext.LevelNotice:
		return LevelNotice
	case xgxcontext.LevelWarning:
		return slog.LevelWarn
	case xgxcontext.LevelError:
		return slog.LevelError
	case xgxcontext.LevelCritical:
		return LevelCritical
	case xgxcontext.LevelAlert:
		return LevelAlert
	case xgxcontext.LevelEmergency:
		return LevelEmergency
	default:
		return slog.LevelInfo
	}
}

var levelNames = map[slog.Level]string{
	LevelNotice:    "NOTICE",
	LevelCritical:  "CRITICAL",
	LevelAlert:     "ALERT",
	LevelEmergency: "EMERGENCY",
}

// ReplaceAttr names the extra levels. Use it as slog.HandlerOptions.ReplaceAttr.
func ReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok {
		if name, ok := levelNames[l]; ok {
			a.Value = slog.StringValue(name)
		}
	}
	return a
}

// levelFor picks the level a Context is reported at. An undecided level
// means error for error Contexts and info otherwise.
func levelFor(c *xgxcontext.Context) slog.Level {
	if c.Level() == xgxcontext.LevelNone && c.Err() != nil {
		return slog.LevelError
	}
	return Level(c.Level())
}

// Report logs c at its level through logger (slog.Default when nil) and
// reports whether a record was emitted. Contexts whose report flag is off,
// and levels the logger has disabled, are skipped.
func Report(ctx context.Context, logger *slog.Logger, c *xgxcontext.Context) bool {
	if c == nil || !c.Report() {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	level := levelFor(c)
	if !logger.Enabled(ctx, level) {
		return false
	}

	msg := "context captured"
	if err := c.Err(); err != nil {
		msg = err.Error()
	}

	attrs := []slog.Attr{
		slog.String("source", string(c.Source())),
		slog.Any("channels", c.Channels()),
		slog.Bool("worth_reporting", c.WorthReporting()),
	}
	if known := c.KnownIssues(); len(known) > 0 {
		attrs = append(attrs, slog.Any("known_issues", known))
	}
	if ids := traceIDsAttr(c.TraceIdentifiers()); ids.Key != "" {
		attrs = append(attrs, ids)
	}
	if groups := c.CallStack().MetaGroups(); len(groups) > 0 {
		attrs = append(attrs, slog.Any("meta", groupStrings(groups)))
	}

	logger.LogAttrs(ctx, level, msg, attrs...)
	return true
}

// Value returns a slog.LogValuer that renders c as a group.
func Value(c *xgxcontext.Context) slog.LogValuer { return contextValue{c} }

// StackValue returns a slog.LogValuer that renders cs frame by frame.
func StackValue(cs xgxcontext.CallStack) slog.LogValuer { return stackValue{cs} }

type contextValue struct{ c *xgxcontext.Context }

type stackValue struct{ cs xgxcontext.CallStack }

var (
	_ slog.LogValuer = contextValue{}
	_ slog.LogValuer = stackValue{}
)

func (v contextValue) LogValue() slog.Value {
	c := v.c
	if c == nil {
		return slog.StringValue("<nil>")
	}
	attrs := []slog.Attr{
		slog.String("source", string(c.Source())),
		slog.String("level", string(c.Level())),
		slog.Any("channels", c.Channels()),
		slog.Bool("report", c.Report()),
		slog.Bool("rethrow", c.Rethrow()),
	}
	if err := c.Err(); err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if known := c.KnownIssues(); len(known) > 0 {
		attrs = append(attrs, slog.Any("known_issues", known))
	}
	if ids := traceIDsAttr(c.TraceIdentifiers()); ids.Key != "" {
		attrs = append(attrs, ids)
	}
	attrs = append(attrs, slog.Any("stack", StackValue(c.StackTrace())))
	return slog.GroupValue(attrs...)
}

func (v stackValue) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, v.cs.Len())
	for i, f := range v.cs.All() {
		frame := []slog.Attr{
			slog.String("function", f.Function()),
			slog.String("file", f.ProjectFile()),
			slog.Int("line", f.Line()),
		}
		if flags := frameFlags(f); flags != "" {
			frame = append(frame, slog.String("flags", flags))
		}
		if meta := f.Meta(); len(meta) > 0 {
			values := make([]string, len(meta))
			for j, m := range meta {
				values[j] = metaString(m)
			}
			frame = append(frame, slog.Any("meta", values))
		}
		attrs = append(attrs, slog.Attr{Key: strconv.Itoa(i), Value: slog.GroupValue(frame...)})
	}
	return slog.GroupValue(attrs...)
}

func frameFlags(f xgxcontext.Frame) string {
	var flags []string
	if f.IsLastApplicationFrame() {
		flags = append(flags, "last-application")
	}
	if f.ExceptionThrownHere() {
		flags = append(flags, "thrown")
	}
	if f.ExceptionCaughtHere() {
		flags = append(flags, "caught")
	}
	if f.IsVendorFrame() {
		flags = append(flags, "vendor")
	}
	return strings.Join(flags, ",")
}

func traceIDsAttr(ids map[string]any) slog.Attr {
	if len(ids) == 0 {
		return slog.Attr{}
	}
	attrs := make([]slog.Attr, 0, len(ids))
	for _, name := range slices.Sorted(maps.Keys(ids)) {
		attrs = append(attrs, slog.Any(name, ids[name]))
	}
	return slog.Attr{Key: "trace_ids", Value: slog.GroupValue(attrs...)}
}

// groupStrings renders each group as "file:line meta meta ...".
func groupStrings(groups []xgxcontext.MetaGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		var b strings.Builder
		fmt.Fprintf(&b, "%s:%d", g.ProjectFile, g.Line)
		for _, m := range g.Meta() {
			b.WriteByte(' ')
			b.WriteString(metaString(m))
		}
		out[i] = b.String()
	}
	return out
}

func metaString(m xgxcontext.Meta) string {
	switch m := m.(type) {
	case xgxcontext.ContextMeta:
		return fmt.Sprintf("%s=%v", m.Kind(), m.Value)
	case xgxcontext.CallMeta:
		if m.CaughtHere {
			return fmt.Sprintf("%s(caught)%v", m.Kind(), m.Known)
		}
		return fmt.Sprintf("%s%v", m.Kind(), m.Known)
	default:
		return m.Kind().String()
	}
}
