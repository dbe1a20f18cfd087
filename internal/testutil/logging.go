package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// TestLogHandler records every log entry so tests can assert on what was logged.
// Handlers derived through With share the same record store.
type TestLogHandler struct {
	store *logStore
	attrs []slog.Attr
	group string
}

type logStore struct {
	mu      sync.Mutex
	records []TestLogRecord
}

type TestLogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

func NewTestLogHandler() *TestLogHandler {
	return &TestLogHandler{store: &logStore{}}
}

func (h *TestLogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *TestLogHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		attrs[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		attrs[key] = attr.Value.Any()
		return true
	})

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = append(h.store.records, TestLogRecord{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})

	return nil
}

func (h *TestLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *h
	child.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &child
}

func (h *TestLogHandler) WithGroup(name string) slog.Handler {
	child := *h
	if child.group != "" {
		name = child.group + "." + name
	}
	child.group = name
	return &child
}

func (h *TestLogHandler) GetRecords() []TestLogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]TestLogRecord(nil), h.store.records...)
}

func (h *TestLogHandler) GetRecordsByLevel(level slog.Level) []TestLogRecord {
	var filtered []TestLogRecord
	for _, record := range h.GetRecords() {
		if record.Level == level {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// Find returns the first record logged with message at level.
func (h *TestLogHandler) Find(level slog.Level, message string) (TestLogRecord, bool) {
	for _, record := range h.GetRecordsByLevel(level) {
		if record.Message == message {
			return record, true
		}
	}
	return TestLogRecord{}, false
}

func (h *TestLogHandler) Reset() {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = h.store.records[:0]
}

func (h *TestLogHandler) ContainsMessage(level slog.Level, message string) bool {
	_, ok := h.Find(level, message)
	return ok
}

func (h *TestLogHandler) CountByLevel(level slog.Level) int {
	return len(h.GetRecordsByLevel(level))
}
