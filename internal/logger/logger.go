package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	slogLogger *slog.Logger
	levelVar   = new(slog.LevelVar) // Allows dynamic level changes
	logFile    *os.File
	mu         sync.Mutex
	logPath    string
	initDone   bool
	debugOn    bool
)

// DefaultLogPath is the default log file for the TUI process
const DefaultLogPath = "/tmp/recall-debug.log"

// logGlob matches every log file recall may have written.
const logGlob = "/tmp/recall-*.log"

// SetDebug toggles debug level logging. Info is the floor otherwise.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugOn = enabled
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init initializes the logger with a custom path. Calling it again after a
// successful Init is a no-op until Reset.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}
	return openLocked(path)
}

func openLocked(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logPath = path
	logFile = f
	if debugOn {
		levelVar.Set(slog.LevelDebug)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar})
	slogLogger = slog.New(handler)
	initDone = true

	slogLogger.Info("Logger initialized", "path", path)
	return nil
}

// ensureInit falls back to DefaultLogPath. Callers hold mu.
func ensureInit() {
	if initDone {
		return
	}
	if err := openLocked(DefaultLogPath); err != nil {
		// Print to stderr since we can't log
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		initDone = true
	}
}

func logf(level slog.Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()

	if slogLogger == nil || !slogLogger.Enabled(context.Background(), level) {
		return
	}
	slogLogger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug writes a printf-style debug message.
func Debug(format string, args ...interface{}) { logf(slog.LevelDebug, format, args...) }

// Info writes a printf-style info message.
func Info(format string, args ...interface{}) { logf(slog.LevelInfo, format, args...) }

// Warn writes a printf-style warning.
func Warn(format string, args ...interface{}) { logf(slog.LevelWarn, format, args...) }

// Error writes a printf-style error message.
func Error(format string, args ...interface{}) { logf(slog.LevelError, format, args...) }

// Path returns the file the logger writes to, or "" before initialization.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
}

// Reset resets the logger state, allowing reinitialization.
// This is primarily for testing purposes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	initDone = false
	logPath = ""
	slogLogger = nil
	debugOn = false
	levelVar = new(slog.LevelVar)
}

// LogFiles returns every recall log file currently in /tmp.
func LogFiles() ([]string, error) {
	return filepath.Glob(logGlob)
}

// ClearLogs removes all recall log files from /tmp
func ClearLogs() (int, error) {
	count := 0

	logs, err := LogFiles()
	if err != nil {
		return count, err
	}

	for _, p := range logs {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}

	return count, nil
}

// WithComponent returns a slog.Logger with the component attribute pre-attached.
//
// Example:
//
//	log := logger.WithComponent("sidebar")
//	log.Debug("sessions loaded", "count", len(sessions))
func WithComponent(component string) *slog.Logger {
	return with(slog.String("component", component))
}

// WithSession returns a slog.Logger with the session ID pre-attached.
func WithSession(sessionID string) *slog.Logger {
	return with(slog.String("sessionID", sessionID))
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()

	if slogLogger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slogLogger.With(attr)
}

// Get returns the underlying slog.Logger.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if slogLogger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slogLogger
}
