package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyCategory   = "category"
	KeyFile       = "file"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyTemplate   = "template"
	KeyDepth      = "depth"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func File(name string) slog.Attr       { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Depth(d int) slog.Attr            { return slog.Int(KeyDepth, d) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
