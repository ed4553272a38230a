package app

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger is the leveled logger the use cases, the lock service and the HTTP
// controller write to. The CLI installs its own through SetLogger.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// stderrLogger is in place until SetLogger runs. Per-item Debug and Info lines
// are dropped so library callers only see problems.
type stderrLogger struct {
	mu     sync.Mutex
	output io.Writer
}

func (l *stderrLogger) Debug(string, ...interface{}) {}
func (l *stderrLogger) Info(string, ...interface{})  {}

func (l *stderrLogger) Warn(format string, args ...interface{}) {
	l.write("WARN", format, args...)
}

func (l *stderrLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

func (l *stderrLogger) write(prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, "%s: %s\n", prefix, fmt.Sprintf(format, args...))
}

var (
	loggerMu     sync.RWMutex
	globalLogger Logger = &stderrLogger{output: os.Stderr}
)

// SetLogger replaces the process-wide logger; nil is ignored
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	loggerMu.Lock()
	globalLogger = logger
	loggerMu.Unlock()
}

// GetLogger returns the current logger
func GetLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}
