package api

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

// LogEntry is a single captured log line
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// LogBuffer is a thread-safe ring buffer holding the most recent log lines
// for the web UI's log view. Soft failures like a timed-out jobs poll land
// here instead of the notification queue.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	cap     int
}

// NewLogBuffer creates a log buffer with the given capacity
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LogBuffer{
		entries: make([]LogEntry, 0, capacity),
		cap:     capacity,
	}
}

// Add appends an entry, dropping the oldest when full
func (lb *LogBuffer) Add(level, message string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}

	if len(lb.entries) >= lb.cap {
		copy(lb.entries, lb.entries[1:])
		lb.entries[len(lb.entries)-1] = entry
	} else {
		lb.entries = append(lb.entries, entry)
	}
}

// Entries returns a copy of the buffered entries, oldest first
func (lb *LogBuffer) Entries() []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make([]LogEntry, len(lb.entries))
	copy(out, lb.entries)
	return out
}

// logWriter adapts LogBuffer to io.Writer for the stdlib log package
type logWriter struct {
	buf *LogBuffer
}

func (lw *logWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	level := "info"
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "error") || strings.Contains(lower, "fail") {
		level = "error"
	} else if strings.Contains(lower, "warn") || strings.Contains(lower, "timed out") {
		level = "warn"
	}

	// Strip the stdlib "2006/01/02 15:04:05 " prefix if present
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' {
		msg = msg[20:]
	}

	lw.buf.Add(level, msg)
	return len(p), nil
}

// InstallLogCapture tees the stdlib logger into the buffer while keeping
// its original output
func InstallLogCapture(buf *LogBuffer) {
	lw := &logWriter{buf: buf}
	log.SetOutput(io.MultiWriter(lw, log.Writer()))
	log.SetFlags(log.LstdFlags)
}
