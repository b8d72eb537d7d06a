package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var logLevelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// logSink is the writer shared by a logger and all of its children.
type logSink struct {
	mu     sync.Mutex
	output io.Writer
}

// Logger writes one JSON object per line
type Logger struct {
	level     LogLevel
	component string
	sink      *logSink
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// NewLogger creates a new structured logger
func NewLogger(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}
	return &Logger{
		level: parseLogLevel(level),
		sink:  &logSink{output: output},
	}
}

// Named returns a child logger that tags every entry with component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{level: l.level, component: component, sink: l.sink}
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithFields returns a new log entry with the specified fields
func (l *Logger) WithFields(fields map[string]interface{}) *LogEntryBuilder {
	b := &LogEntryBuilder{logger: l}
	return b.WithFields(fields)
}

// WithField returns a new log entry with a single field
func (l *Logger) WithField(key string, value interface{}) *LogEntryBuilder {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithError returns a new log entry with an error field
func (l *Logger) WithError(err error) *LogEntryBuilder {
	return &LogEntryBuilder{logger: l, err: err}
}

func (l *Logger) Debug(message string) { l.log(LevelDebug, message, nil, nil) }
func (l *Logger) Info(message string)  { l.log(LevelInfo, message, nil, nil) }
func (l *Logger) Warn(message string)  { l.log(LevelWarn, message, nil, nil) }
func (l *Logger) Error(message string) { l.log(LevelError, message, nil, nil) }

func (l *Logger) log(level LogLevel, message string, fields map[string]interface{}, err error) {
	if l == nil || level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     logLevelNames[level],
		Component: l.component,
		Message:   message,
		Fields:    fields,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	// Add caller information for errors
	if level >= LevelError {
		if _, file, line, ok := runtime.Caller(3); ok {
			entry.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}

	jsonBytes, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		// Fields holding unencodable values still get a line out
		entry.Fields = map[string]interface{}{"marshal_error": marshalErr.Error()}
		jsonBytes, _ = json.Marshal(entry)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	fmt.Fprintln(l.sink.output, string(jsonBytes))
}

// LogEntryBuilder helps build log entries with fields
type LogEntryBuilder struct {
	logger *Logger
	fields map[string]interface{}
	err    error
}

// WithField adds a field to the log entry
func (b *LogEntryBuilder) WithField(key string, value interface{}) *LogEntryBuilder {
	if b.fields == nil {
		b.fields = make(map[string]interface{})
	}
	b.fields[key] = value
	return b
}

// WithFields adds multiple fields to the log entry
func (b *LogEntryBuilder) WithFields(fields map[string]interface{}) *LogEntryBuilder {
	for k, v := range fields {
		b.WithField(k, v)
	}
	return b
}

// WithError adds an error to the log entry
func (b *LogEntryBuilder) WithError(err error) *LogEntryBuilder {
	b.err = err
	return b
}

func (b *LogEntryBuilder) Debug(message string) { b.logger.log(LevelDebug, message, b.fields, b.err) }
func (b *LogEntryBuilder) Info(message string)  { b.logger.log(LevelInfo, message, b.fields, b.err) }
func (b *LogEntryBuilder) Warn(message string)  { b.logger.log(LevelWarn, message, b.fields, b.err) }
func (b *LogEntryBuilder) Error(message string) { b.logger.log(LevelError, message, b.fields, b.err) }

// NewAppLogger builds the server logger. Output goes to config.LogFile
// when set, otherwise stdout. The returned closer releases the file.
func NewAppLogger(config *Config) (*Logger, func() error, error) {
	if config.LogFile == "" {
		return NewLogger(config.LogLevel, os.Stdout), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(config.LogLevel, file), file.Close, nil
}
