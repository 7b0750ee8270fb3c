package repo

import (
	"context"
	"strings"
	"sync"
	"time"
)

// PromptEntry is one remembered prompt.
type PromptEntry struct {
	Prompt string    `json:"prompt"`
	Style  string    `json:"style,omitempty"`
	SeenAt time.Time `json:"seen_at"`
}

const (
	promptLogCap         = 50
	promptDedupeInterval = 5 * time.Minute
)

// PromptLog remembers recently used prompts for the history endpoint. A
// prompt repeated within the dedupe interval refreshes its timestamp instead
// of adding a row, and the log keeps at most the newest fifty entries.
type PromptLog struct {
	mu      sync.Mutex
	entries []PromptEntry
	now     func() time.Time
}

func NewPromptLog() *PromptLog {
	return &PromptLog{now: time.Now}
}

// Record notes a prompt use.
func (l *PromptLog) Record(ctx context.Context, prompt, style string) {
	if prompt == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now().UTC()
	for i := range l.entries {
		e := &l.entries[i]
		if e.Prompt == prompt && e.Style == style && now.Sub(e.SeenAt) < promptDedupeInterval {
			e.SeenAt = now
			return
		}
	}
	l.entries = append(l.entries, PromptEntry{Prompt: prompt, Style: style, SeenAt: now})
	if len(l.entries) > promptLogCap {
		l.entries = l.entries[len(l.entries)-promptLogCap:]
	}
}

// Recent returns entries newest first.
func (l *PromptLog) Recent(ctx context.Context) []PromptEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]PromptEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Suggest returns entries whose prompt contains the query, newest first,
// capped at ten. An empty query matches nothing.
func (l *PromptLog) Suggest(ctx context.Context, query string) []PromptEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []PromptEntry
	for i := len(l.entries) - 1; i >= 0 && len(out) < 10; i-- {
		if strings.Contains(strings.ToLower(l.entries[i].Prompt), query) {
			out = append(out, l.entries[i])
		}
	}
	return out
}
