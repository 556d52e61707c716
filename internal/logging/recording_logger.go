package logging

import (
	"fmt"
	"sync"
)

// Entry is one message captured by RecordingLogger.
type Entry struct {
	Level   string
	Message string
}

// RecordingLogger keeps every message in memory.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.add("verbose", format, args)
}

func (l *RecordingLogger) Info(format string, args ...interface{}) { l.add("info", format, args) }

func (l *RecordingLogger) Warn(format string, args ...interface{}) { l.add("warn", format, args) }

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.add("error", format, args)
}

// Entries returns a copy of the captured messages at the given level,
// or all messages when level is empty.
func (l *RecordingLogger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (l *RecordingLogger) add(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}
