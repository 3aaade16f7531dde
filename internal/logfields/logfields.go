package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProject    = "project"
	KeyPath       = "path"
	KeyTask       = "task"
	KeyRunID      = "run_id"
	KeyEventType  = "event_type"
	KeyDurationMS = "duration_ms"
	KeyCommit     = "commit"
	KeySchedule   = "schedule"
	KeyFile       = "file"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Project(name string) slog.Attr   { return slog.String(KeyProject, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Task(name string) slog.Attr      { return slog.String(KeyTask, name) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func EventType(t string) slog.Attr    { return slog.String(KeyEventType, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Schedule(s string) slog.Attr     { return slog.String(KeySchedule, s) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
