// ==============================================================================
// LOGGER PACKAGE - pkg/logger/logger.go
// ==============================================================================
package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Info(message string, fields map[string]interface{})
	Error(message string, fields map[string]interface{})
	Warn(message string, fields map[string]interface{})
	Debug(message string, fields map[string]interface{})
	Fatal(message string, fields map[string]interface{})
}

// Level orders log severities; entries below the configured level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "info"
}

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Option customises a JSON logger.
type Option func(*jsonLogger)

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(l *jsonLogger) { l.level = level }
}

// WithWriter redirects output, mostly for tests.
func WithWriter(w io.Writer) Option {
	return func(l *jsonLogger) { l.logger = log.New(w, "", 0) }
}

type jsonLogger struct {
	serviceName string
	level       Level
	mu          sync.Mutex
	logger      *log.Logger
	exit        func(int)
}

func New(serviceName string, opts ...Option) Logger {
	l := &jsonLogger{
		serviceName: serviceName,
		level:       LevelInfo,
		logger:      log.New(os.Stdout, "", 0),
		exit:        os.Exit,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *jsonLogger) log(level Level, message string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level.String(),
		"service":   l.serviceName,
		"message":   message,
	}

	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}

	jsonData, _ := json.Marshal(entry)
	l.mu.Lock()
	l.logger.Println(string(jsonData))
	l.mu.Unlock()
}

func (l *jsonLogger) Info(message string, fields map[string]interface{}) {
	l.log(LevelInfo, message, fields)
}

func (l *jsonLogger) Error(message string, fields map[string]interface{}) {
	l.log(LevelError, message, fields)
}

func (l *jsonLogger) Warn(message string, fields map[string]interface{}) {
	l.log(LevelWarn, message, fields)
}

func (l *jsonLogger) Debug(message string, fields map[string]interface{}) {
	l.log(LevelDebug, message, fields)
}

func (l *jsonLogger) Fatal(message string, fields map[string]interface{}) {
	l.log(LevelFatal, message, fields)
	l.exit(1)
}

func NewNop() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (l *nopLogger) Info(message string, fields map[string]interface{})  {}
func (l *nopLogger) Error(message string, fields map[string]interface{}) {}
func (l *nopLogger) Warn(message string, fields map[string]interface{})  {}
func (l *nopLogger) Debug(message string, fields map[string]interface{}) {}
func (l *nopLogger) Fatal(message string, fields map[string]interface{}) {}
