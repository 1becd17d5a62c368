// Package clog provides the compiler's structured console logging:
// Debug/Info/Warn/Error/Fatal helpers wrapping log/slog, rendered
// through github.com/lmittmann/tint, with mattn/go-isatty deciding
// whether color escapes are safe to emit.
package clog

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var base *slog.Logger

func init() {
	Reset(slog.LevelInfo)
}

// Reset rebuilds the default logger at the given minimum level. Exposed so
// the CLI's --debug flag can lower it to slog.LevelDebug at startup.
func Reset(minLevel slog.Level) {
	color := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("NO_COLOR") == "" && os.Getenv("CI") == ""
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      minLevel,
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	})
	base = slog.New(handler)
	slog.SetDefault(base)
}

// With returns a logger scoped to the given correlation attributes (for
// example "unit", the compilation unit's uuid).
func With(args ...any) *slog.Logger {
	return base.With(args...)
}

func Debug(msg string, args ...any) { base.Debug(msg, args...) }
func Info(msg string, args ...any)  { base.Info(msg, args...) }
func Warn(msg string, args ...any)  { base.Warn(msg, args...) }
func Error(msg string, args ...any) { base.Error(msg, args...) }

// Fatal logs at error level and exits the process with status 1. The CLI
// does not call it: a malformed flag exits with status 2, and pipeline
// failures are reported via diagnostics.Reporter and exit through the
// CLI's own exit-code logic.
func Fatal(msg string, args ...any) {
	base.Error(msg, args...)
	os.Exit(1)
}

// DebugContext logs at debug level with a context attached.
func DebugContext(ctx context.Context, msg string, args ...any) {
	base.DebugContext(ctx, msg, args...)
}
