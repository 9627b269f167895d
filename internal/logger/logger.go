// Package logger is a small leveled logger. Output is discarded unless a log
// file is configured, since the wizard owns the terminal.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// Logger is a simple leveled logger
type Logger struct {
	mu     sync.Mutex
	level  Level
	logger *log.Logger
	file   *os.File
}

// Default is the logger behind the package-level functions.
var Default = New()

// New creates a logger from BCFL_LOG_LEVEL and BCFL_LOG_FILE.
func New() *Logger {
	l := &Logger{
		level:  LevelInfo,
		logger: log.New(io.Discard, "", log.LstdFlags),
	}

	if levelStr := os.Getenv("BCFL_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLevel(levelStr); err == nil {
			l.level = level
		}
	}

	if logFile := os.Getenv("BCFL_LOG_FILE"); logFile != "" {
		_ = l.OpenFile(logFile)
	}

	return l
}

// OpenFile redirects output to an append-only file, closing any previous one.
func (l *Logger) OpenFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.logger.SetOutput(f)
	return nil
}

// Close closes the logger and any open file handles
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.logger.SetOutput(io.Discard)
	return err
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.log(LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log(LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.log(LevelError, format, v...) }

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] %s", level, msg)
}

// Configure applies configured level and file to the default logger.
// Empty values keep what the environment selected.
func Configure(level, file string) error {
	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return err
		}
		Default.SetLevel(lvl)
	}
	if file != "" {
		return Default.OpenFile(file)
	}
	return nil
}

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) { Default.Debug(format, v...) }

// Info logs an info message using the default logger
func Info(format string, v ...interface{}) { Default.Info(format, v...) }

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) { Default.Warn(format, v...) }

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) { Default.Error(format, v...) }

// Close closes the default logger
func Close() error {
	return Default.Close()
}
