// Package debug provides categorized, structured debug logging.
//
// Logging is off until Setup is called with a writer. The UI owns the
// terminal, so output normally goes to a file in the user cache directory.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category represents a debug logging category.
type Category string

const (
	APP    Category = "APP"    // Application orchestration, focus, folder lifecycle
	INDEX  Category = "INDEX"  // Tree population ticks, cancellation
	FS     Category = "FS"     // Directory scans
	GIT    Category = "GIT"    // Status/diff invocations, annotation passes
	WATCH  Category = "WATCH"  // Filesystem notifications and debounce
	STORE  Category = "STORE"  // Session database, recent folders, state files
	EDITOR Category = "EDITOR" // Load/save of buffers
	TERM   Category = "TERM"   // Terminal panel process
)

var allCategories = []Category{APP, INDEX, FS, GIT, WATCH, STORE, EDITOR, TERM}

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled = map[Category]bool{}
	closer  io.Closer
)

// Setup routes log output to w and enables the categories named by spec.
// spec is "all", "none", or a comma separated list such as "INDEX,GIT".
func Setup(w io.Writer, spec string) {
	mu.Lock()
	defer mu.Unlock()

	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	enabled = parseCategories(spec)
}

// SetupFile opens (appending) the log file at path and enables categories.
// The returned error is non-nil only if the file cannot be opened.
func SetupFile(path, spec string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	Setup(f, spec)

	mu.Lock()
	closer = f
	mu.Unlock()
	return nil
}

// Close releases the log file, if any, and disables logging.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled = map[Category]bool{}
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// SpecFromEnv returns the category spec from QUILL_DEBUG, or fallback.
func SpecFromEnv(fallback string) string {
	if env := os.Getenv("QUILL_DEBUG"); env != "" {
		return env
	}
	return fallback
}

// Log writes a debug record for cat with key/value attributes.
func Log(cat Category, msg string, args ...any) {
	mu.RLock()
	l, on := logger, enabled[cat]
	mu.RUnlock()
	if !on {
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, msg, append([]slog.Attr{slog.String("cat", string(cat))}, argsToAttrs(args)...)...)
}

// Warn writes a warning for cat. Warnings are emitted whenever logging is set
// up, regardless of category filtering.
func Warn(cat Category, msg string, err error, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	attrs := []slog.Attr{slog.String("cat", string(cat))}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	l.LogAttrs(context.Background(), slog.LevelWarn, msg, append(attrs, argsToAttrs(args)...)...)
}

// IsEnabled reports whether cat is currently logged.
func IsEnabled(cat Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled[cat]
}

func parseCategories(spec string) map[Category]bool {
	out := make(map[Category]bool, len(allCategories))
	switch strings.ToUpper(strings.TrimSpace(spec)) {
	case "", "NONE":
		return out
	case "ALL", "1", "TRUE":
		for _, c := range allCategories {
			out[c] = true
		}
		return out
	}
	for _, part := range strings.Split(spec, ",") {
		name := Category(strings.ToUpper(strings.TrimSpace(part)))
		for _, c := range allCategories {
			if c == name {
				out[c] = true
			}
		}
	}
	return out
}

func argsToAttrs(args []any) []slog.Attr {
	var attrs []slog.Attr
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
