package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	}
	return "UNKNOWN"
}

// Logger writes leveled messages to stdout and, optionally, a dated file.
type Logger struct {
	mu         sync.Mutex
	level      Level
	logger     *log.Logger
	fileLogger *log.Logger
}

var defaultLogger = New(INFO, os.Stdout)

// New creates a Logger writing to the given output.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(output, "", log.Ldate|log.Ltime),
	}
}

// SetLevel sets the minimum level that will be emitted.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// EnableFileLogging mirrors output to a dated log file under directory.
func (l *Logger) EnableFileLogging(directory string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	name := filepath.Join(directory, fmt.Sprintf("rewardsvc_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileLogger = log.New(file, "", log.Ldate|log.Ltime)
	return nil
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, file, line, _ := runtime.Caller(2)
	msg := fmt.Sprintf("[%s] [%s:%d] %s", level, filepath.Base(file), line, fmt.Sprintf(format, v...))

	l.logger.Println(msg)
	if l.fileLogger != nil {
		l.fileLogger.Println(msg)
	}

	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.log(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log(WARN, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.log(ERROR, format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.log(FATAL, format, v...) }

// Errorf logs a wrapped error and returns it for propagation.
func (l *Logger) Errorf(err error, format string, v ...interface{}) error {
	wrapped := fmt.Errorf("%s: %w", fmt.Sprintf(format, v...), err)
	l.Error(wrapped.Error())
	return wrapped
}

// Package-level helpers using the default logger.

func SetLevel(level Level) { defaultLogger.SetLevel(level) }

func EnableFileLogging(directory string) error {
	return defaultLogger.EnableFileLogging(directory)
}

func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

func Errorf(err error, format string, v ...interface{}) error {
	return defaultLogger.Errorf(err, format, v...)
}
