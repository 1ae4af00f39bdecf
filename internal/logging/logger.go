package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/sirupsen/logrus"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "debug",
	INFO:  "info",
	WARN:  "warn",
	ERROR: "error",
}

var logrusLevels = map[Level]logrus.Level{
	DEBUG: logrus.DebugLevel,
	INFO:  logrus.InfoLevel,
	WARN:  logrus.WarnLevel,
	ERROR: logrus.ErrorLevel,
}

// String returns the level's name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a level name to a Level
func ParseLevel(name string) (Level, error) {
	for level, n := range levelNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return level, nil
		}
	}
	if strings.EqualFold(strings.TrimSpace(name), "warning") {
		return WARN, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger is a leveled logger with optional structured fields
type Logger struct {
	entry *logrus.Entry
	level Level
}

// NewLogger creates a new logger instance writing to stderr
func NewLogger(level Level) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	base.SetLevel(logrusLevels[level])

	return &Logger{
		entry: logrus.NewEntry(base),
		level: level,
	}
}

// Level returns the minimum level that is written
func (l *Logger) Level() Level {
	return l.level
}

// SetOutput redirects the logger and every logger derived from it
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

// WithFields returns a logger that adds the given fields to every message
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
		level: l.level,
	}
}

// WithField returns a logger that adds one field to every message
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		entry: l.entry.WithField(key, value),
		level: l.level,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// LogError logs err, adding code and cause fields for a GameError
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		fields := logrus.Fields{"code": string(gameErr.Code)}
		if gameErr.Err != nil {
			fields["cause"] = gameErr.Err.Error()
		}
		l.entry.WithFields(fields).Errorf("Game error occurred: %s", gameErr.Message)
		return
	}

	l.entry.Errorf("Unexpected error: %v", err)
}

// Default logger instance
var Default = NewLogger(INFO)
