package xgxcontext

import "slices"

// Level is a reporting level. The empty Level means "not decided here".
type Level string

const (
	LevelNone      Level = ""
	LevelDebug     Level = "debug"
	LevelInfo      Level = "info"
	LevelNotice    Level = "notice"
	LevelWarning   Level = "warning"
	LevelError     Level = "error"
	LevelCritical  Level = "critical"
	LevelAlert     Level = "alert"
	LevelEmergency Level = "emergency"
)

// allLevels lists the allowed levels from least to most severe.
var allLevels = []Level{
	LevelDebug,
	LevelInfo,
	LevelNotice,
	LevelWarning,
	LevelError,
	LevelCritical,
	LevelAlert,
	LevelEmergency,
}

// Levels returns the allowed levels from least to most severe.
func Levels() []Level { return slices.Clone(allLevels) }

// Valid reports whether l is one of the allowed levels.
func (l Level) Valid() bool { return slices.Contains(allLevels, l) }

// Severity returns l's position in Levels, or -1 for LevelNone or an
// unknown level.
func (l Level) Severity() int { return slices.Index(allLevels, l) }

// ParseLevel resolves a configured level name. Names match exactly; an
// empty name yields LevelNone. Anything else, including "ERROR" or " error",
// is an initialization error.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if l == LevelNone || l.Valid() {
		return l, nil
	}
	return LevelNone, errLevelNotAllowed(s)
}
