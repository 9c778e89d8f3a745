package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
)

type Logger struct {
	output io.Writer
	fields map[string]interface{}
}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	File      string                 `json:"file,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func NewLogger() *Logger {
	return &Logger{output: os.Stdout}
}

// NewLoggerWithOutput is used by tests to capture log lines.
func NewLoggerWithOutput(w io.Writer) *Logger {
	return &Logger{output: w}
}

func (l *Logger) log(level, msg string, kv ...interface{}) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		File:      file,
		Line:      line,
	}

	if len(l.fields) > 0 || len(kv) >= 2 {
		e.Fields = make(map[string]interface{}, len(l.fields)+len(kv)/2)
		for k, v := range l.fields {
			e.Fields[k] = v
		}
		for i := 0; i+1 < len(kv); i += 2 {
			if key, ok := kv[i].(string); ok {
				e.Fields[key] = kv[i+1]
			}
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: marshal entry: %v\n", err)
		return
	}

	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.log("DEBUG", msg, kv...)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.log("INFO", msg, kv...)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.log("WARN", msg, kv...)
}

func (l *Logger) Error(msg string, kv ...interface{}) {
	l.log("ERROR", msg, kv...)
}

func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.log("FATAL", msg, kv...)
	os.Exit(1)
}

// WithField returns a logger that attaches the given field to every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{output: l.output, fields: fields}
}
