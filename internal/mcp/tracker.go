package mcp

import (
	"sync"
	"time"
)

// toolCall is one entry of the app://activity resource.
type toolCall struct {
	Tool       string    `json:"tool"`
	At         time.Time `json:"at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// callLog keeps the most recent tool calls in a fixed-size ring. In-memory
// and per process.
type callLog struct {
	mu    sync.Mutex
	calls []toolCall
	next  int
	full  bool
}

func newCallLog(size int) *callLog {
	return &callLog{calls: make([]toolCall, max(size, 1))}
}

// Record appends a call, overwriting the oldest once the log is full.
func (l *callLog) Record(tool string, at time.Time, d time.Duration, err error) {
	c := toolCall{Tool: tool, At: at.UTC(), DurationMS: d.Milliseconds()}
	if err != nil {
		c.Error = err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[l.next] = c
	l.next = (l.next + 1) % len(l.calls)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns the recorded calls, newest first.
func (l *callLog) Recent() []toolCall {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.next
	if l.full {
		n = len(l.calls)
	}
	out := make([]toolCall, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, l.calls[(l.next-i+len(l.calls))%len(l.calls)])
	}
	return out
}
