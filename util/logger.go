package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel defines the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var logrusLevels = map[LogLevel]logrus.Level{
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
}

// consoleFormatter renders "[15:04:05] LEVEL prefix: message key=value".
type consoleFormatter struct {
	prefix string
	color  *Colorizer
}

func (f *consoleFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s %s: %s", e.Time.Format("15:04:05"), levelLabel(e.Level), f.prefix, e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	line := b.String()
	switch e.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		line = f.color.Dim(line)
	case logrus.WarnLevel:
		line = f.color.Yellow(line)
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		line = f.color.Red(line)
	}
	return []byte(line + "\n"), nil
}

func levelLabel(l logrus.Level) string {
	switch l {
	case logrus.WarnLevel:
		return "WARN"
	case logrus.PanicLevel:
		return "FATAL"
	default:
		return strings.ToUpper(l.String())
	}
}

// Logger is a levelled logger writing through logrus.
type Logger struct {
	mu      sync.Mutex
	entry   *logrus.Logger
	console *consoleFormatter
	out     io.Writer
	file    *os.File
}

// NewLogger creates a new Logger instance.
func NewLogger(out io.Writer, level LogLevel, prefix string, colorize bool) *Logger {
	console := &consoleFormatter{prefix: prefix, color: &Colorizer{Enabled: colorize}}
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(console)
	l.SetLevel(logrusLevels[level])
	return &Logger{entry: l, console: console, out: out}
}

// SetLevel sets the current logging level.
func (l *Logger) SetLevel(level LogLevel) {
	l.entry.SetLevel(logrusLevels[level])
}

// SetColorEnabled enables or disables colored output.
func (l *Logger) SetColorEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.color.Enabled = enabled
}

// SetOutput redirects log output. An attached log file keeps receiving a copy.
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
	l.applyOutput()
}

func (l *Logger) applyOutput() {
	if l.file != nil {
		l.entry.SetOutput(io.MultiWriter(l.out, l.file))
		return
	}
	l.entry.SetOutput(l.out)
}

// SetStructured switches between JSON lines and the console format. When
// filePath is set, output is also appended to that file and colour is turned
// off. Any previously attached file is closed.
func (l *Logger) SetStructured(structured bool, filePath string) {
	if structured {
		l.entry.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.entry.SetFormatter(l.console)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFile()
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l.entry.WithError(err).Error("Could not create file for logging")
		} else {
			l.file = file
			l.console.color.Enabled = false
		}
	}
	l.applyOutput()
}

// Close detaches and closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.closeFile()
	l.applyOutput()
	return err
}

func (l *Logger) closeFile() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// WithField returns a logrus entry carrying key for structured callers.
func (l *Logger) WithField(key string, value any) *logrus.Entry {
	return l.entry.WithField(key, value)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Global logger instance
var defaultLogger = NewLogger(os.Stderr, LevelInfo, "soacframe", true)

func SetLogLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

func SetColorEnabled(enabled bool) {
	defaultLogger.SetColorEnabled(enabled)
}

func SetLogOutput(out io.Writer) {
	defaultLogger.SetOutput(out)
}

func SetStructured(structured bool, filePath string) {
	defaultLogger.SetStructured(structured, filePath)
}

// CloseLog closes the log file attached with SetStructured.
func CloseLog() error {
	return defaultLogger.Close()
}

func WithField(key string, value any) *logrus.Entry {
	return defaultLogger.WithField(key, value)
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}
