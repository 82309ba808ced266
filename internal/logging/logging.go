// Package logging provides structured logging with slog for smartinput.
//
// Text or JSON output, a component attribute on every record, and an
// optional log file under the platform state directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Level represents a logging level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format represents the output format for logs.
type Format int

const (
	// FormatText outputs human-readable text logs.
	FormatText Format = iota
	// FormatJSON outputs JSON-structured logs.
	FormatJSON
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level Level

	// Format is the output format (text or JSON).
	Format Format

	// Output specifies where logs are written: "stdout", "stderr", "file"
	// or "both" (stderr plus file).
	Output string

	// FilePath is the log file path when Output includes "file".
	FilePath string

	// Component is the name of the component using this logger.
	Component string
}

// DefaultConfig returns a default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    "stderr",
		FilePath:  DefaultLogPath(),
		Component: "smartinput",
	}
}

// DefaultLogPath returns the platform-specific default log path.
func DefaultLogPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Logs", "smartinput", "smartinput.log")
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		return filepath.Join(appData, "smartinput", "logs", "smartinput.log")
	default:
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			home, _ := os.UserHomeDir()
			stateHome = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(stateHome, "smartinput", "smartinput.log")
	}
}

// Logger wraps slog.Logger with its config and any open log file.
type Logger struct {
	*slog.Logger
	config *Config
	file   *os.File
}

var (
	defaultLogger *Logger
	loggerMu      sync.RWMutex
)

// Default returns the default global logger, creating a stderr logger on
// first use.
func Default() *Logger {
	loggerMu.RLock()
	l := defaultLogger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if defaultLogger == nil {
		l, err := New(DefaultConfig())
		if err != nil {
			l = &Logger{Logger: slog.Default(), config: DefaultConfig()}
		}
		defaultLogger = l
	}
	return defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(l *Logger) {
	loggerMu.Lock()
	defaultLogger = l
	loggerMu.Unlock()
	slog.SetDefault(l.Logger)
}

// New creates a new Logger with the given configuration.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := &Logger{config: cfg}

	w, err := l.setupWriter()
	if err != nil {
		return nil, fmt.Errorf("setup log output: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	if cfg.Component != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}

	l.Logger = slog.New(handler)
	return l, nil
}

func (l *Logger) setupWriter() (io.Writer, error) {
	switch strings.ToLower(l.config.Output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	case "file":
		return l.openFile()
	case "both":
		f, err := l.openFile()
		if err != nil {
			return nil, err
		}
		return io.MultiWriter(os.Stderr, f), nil
	default:
		return os.Stderr, nil
	}
}

func (l *Logger) openFile() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(l.config.FilePath), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(l.config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// WithComponent returns a new logger with a different component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("component", name)),
		config: l.config,
		file:   l.file,
	}
}

// Close closes the log file, if one is open.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Convenience functions for the default logger.

// Debug logs at debug level using the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs at info level using the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs at warn level using the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs at error level using the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }

// ParseLevel parses a string into a log level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// ParseFormat parses a string into a log format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", s)
	}
}
