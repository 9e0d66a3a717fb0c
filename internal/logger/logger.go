// Package logger is the process-wide structured logger. It wraps log/slog
// with a runtime-switchable level, text or JSON output, and request-scoped
// fields carried through context.Context.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config selects the log level, output format, and destination.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text or json
	Output string // stdout, stderr, or a file path
}

var (
	// level is shared by every handler this package builds, so SetLevel
	// takes effect without swapping the handler.
	level = new(slog.LevelVar)

	mu       sync.RWMutex
	format   = "text"
	output   io.Writer = os.Stdout
	useColor bool
	slogger  *slog.Logger
)

func init() {
	if f, ok := output.(*os.File); ok {
		useColor = isTerminal(f.Fd())
	}
	mu.Lock()
	rebuildLocked()
	mu.Unlock()
}

// rebuildLocked swaps the handler for the current format, output, and color
// settings. Callers must hold mu.
func rebuildLocked() {
	if format == "json" {
		slogger = slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))
	} else {
		slogger = slog.New(newTextHandler(output, level, useColor))
	}
}

// Init applies cfg. Output may be "stdout", "stderr", or a file path; files
// are opened in append mode and never colored. Empty fields keep their
// current values.
func Init(cfg Config) error {
	if cfg.Output != "" {
		var w io.Writer
		var color bool
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			w, color = os.Stdout, isTerminal(os.Stdout.Fd())
		case "stderr":
			w, color = os.Stderr, isTerminal(os.Stderr.Fd())
		default:
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %q: %w", cfg.Output, err)
			}
			w = f
		}

		mu.Lock()
		output, useColor = w, color
		rebuildLocked()
		mu.Unlock()
	}

	SetLevel(cfg.Level)
	SetFormat(cfg.Format)
	return nil
}

// InitWithWriter points the logger at w, mainly for tests.
func InitWithWriter(w io.Writer, levelName, formatName string, color bool) {
	mu.Lock()
	output, useColor = w, color
	if f := strings.ToLower(formatName); f == "text" || f == "json" {
		format = f
	}
	rebuildLocked()
	mu.Unlock()

	SetLevel(levelName)
}

// SetLevel sets the minimum level by name, case-insensitively. Unknown
// names are ignored.
func SetLevel(name string) {
	if l, ok := parseLevel(name); ok {
		level.Set(l)
	}
}

// SetFormat switches between "text" and "json" output. Anything else is
// ignored.
func SetFormat(name string) {
	name = strings.ToLower(name)
	if name != "text" && name != "json" {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	format = name
	rebuildLocked()
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level with alternating key/value fields.
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs at info level with alternating key/value fields.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs at warn level with alternating key/value fields.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs at error level with alternating key/value fields.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// DebugCtx logs at debug level, prepending the LogContext fields from ctx.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelDebug, msg, args)
}

// InfoCtx logs at info level, prepending the LogContext fields from ctx.
func InfoCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelInfo, msg, args)
}

// WarnCtx logs at warn level, prepending the LogContext fields from ctx.
func WarnCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelWarn, msg, args)
}

// ErrorCtx logs at error level, prepending the LogContext fields from ctx.
func ErrorCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelError, msg, args)
}

func logCtx(ctx context.Context, lv slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := getLogger()
	if !l.Enabled(ctx, lv) {
		return
	}
	l.Log(ctx, lv, msg, prependContextFields(ctx, args)...)
}

// prependContextFields puts the LogContext fields ahead of args so they
// lead every line.
func prependContextFields(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}

	fields := make([]any, 0, 14+len(args))
	if lc.TraceID != "" {
		fields = append(fields, KeyTraceID, lc.TraceID)
	}
	if lc.SpanID != "" {
		fields = append(fields, KeySpanID, lc.SpanID)
	}
	if lc.Endpoint != "" {
		fields = append(fields, KeyEndpoint, lc.Endpoint)
	}
	if lc.Organization != "" {
		fields = append(fields, KeyOrganization, lc.Organization)
	}
	if lc.Username != "" {
		fields = append(fields, KeySubject, lc.Username)
	}
	if lc.SessionID != 0 {
		fields = append(fields, KeySessionID, lc.SessionID)
	}
	if lc.ClientIP != "" {
		fields = append(fields, KeyClientIP, lc.ClientIP)
	}
	return append(fields, args...)
}
