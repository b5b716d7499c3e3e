// Package logging provides zerolog construction and context helpers shared by
// the CLI, the grid, and the cell adapters.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output and format names accepted by Config.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"

	FormatJSON    = "json"
	FormatConsole = "console"
	FormatText    = "text"
)

// Config describes how a logger should be built.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool
}

// LogPathResult is the outcome of NewLoggerWithPath. When a log file was
// requested but could not be opened, FallbackUsed is set and the logger
// writes to stderr instead.
type LogPathResult struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a logger from cfg, discarding any file fallback details.
func NewLogger(cfg Config) zerolog.Logger {
	return NewLoggerWithPath(cfg).Logger
}

// NewLoggerWithPath builds a logger from cfg. File output falls back to stderr
// when the file cannot be opened; the reason is recorded on the result.
func NewLoggerWithPath(cfg Config) LogPathResult {
	var result LogPathResult

	var out io.Writer = os.Stderr
	switch cfg.Output {
	case OutputStdout:
		out = os.Stdout
	case OutputFile:
		f, err := openLogFile(cfg.File)
		if err != nil {
			result.FallbackUsed = true
			result.FallbackReason = err.Error()
			break
		}
		out = f
		result.file = f
		result.UsingFile = true
		result.FilePath = cfg.File
	}

	result.Logger = build(out, cfg)
	return result
}

// NewWriterLogger builds a logger writing to w. Used by tests and by callers
// that already own their sink.
func NewWriterLogger(w io.Writer, cfg Config) zerolog.Logger {
	return build(w, cfg)
}

func build(out io.Writer, cfg Config) zerolog.Logger {
	if isConsoleFormat(cfg.Format) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger().Hook(TraceHook{})
}

func isConsoleFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatConsole, FormatText:
		return true
	default:
		return false
	}
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// PrintLogPathMessage tells the user where logs are being written.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user that file logging was not possible.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file (%s), logging to stderr\n", reason)
}
