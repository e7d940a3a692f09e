package spies

import (
	"context"
	"sync"
)

// LogRecord represents a recorded log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
	HasCtx  bool
}

// Arg returns the value logged for key.
func (r LogRecord) Arg(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if r.Args[i] == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// LoggerSpy implements both Logger and ContextualLogger and records every call.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewLoggerSpy creates an empty LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{records: make([]LogRecord, 0)}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args, false) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args, false) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args, false) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args, false) }

func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args, true)
}

func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args, true)
}

func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args, true)
}

func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args, true)
}

func (s *LoggerSpy) record(level string, msg string, args []any, hasCtx bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	argsCopy := make([]any, len(args))
	copy(argsCopy, args)

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: argsCopy, HasCtx: hasCtx})
}

// Records returns a copy of all recorded calls.
func (s *LoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]LogRecord, len(s.records))
	copy(records, s.records)

	return records
}

// RecordsWithMessage returns the recorded calls with the given message.
func (s *LoggerSpy) RecordsWithMessage(msg string) []LogRecord {
	matching := make([]LogRecord, 0)
	for _, record := range s.Records() {
		if record.Message == msg {
			matching = append(matching, record)
		}
	}

	return matching
}

// HasMessage reports whether a call with the given level and message was recorded.
func (s *LoggerSpy) HasMessage(level string, msg string) bool {
	for _, record := range s.RecordsWithMessage(msg) {
		if record.Level == level {
			return true
		}
	}

	return false
}
