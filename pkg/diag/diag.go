// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"fmt"
	"strings"
	"sync"
)

type Level int

const (
	LevelNotice Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelNotice:
		return "notice"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

type Message struct {
	Level   Level
	Message string
	Context []string
	Data    interface{}
}

func (m Message) ContextString() string {
	return strings.Join(m.Context, "/")
}

func (m Message) String() string {
	if len(m.Context) == 0 {
		return fmt.Sprintf("%s: %s", m.Level, m.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", m.Level, m.ContextString(), m.Message)
}

type Sink interface {
	Report(Message)
}

type SinkFunc func(Message)

func (f SinkFunc) Report(msg Message) { f(msg) }

var Discard Sink = SinkFunc(func(Message) {})

// Log is a Sink that keeps every message. It may be shared across goroutines.
type Log struct {
	mu       sync.Mutex
	messages []Message
	counts   [3]int
	forward  Sink
}

var _ Sink = &Log{}

func NewLog() *Log { return &Log{} }

// NewForwardingLog keeps messages and additionally passes them to forward as they arrive.
func NewForwardingLog(forward Sink) *Log { return &Log{forward: forward} }

func (l *Log) Report(msg Message) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	if msg.Level >= LevelNotice && msg.Level <= LevelError {
		l.counts[msg.Level]++
	}
	forward := l.forward
	l.mu.Unlock()

	if forward != nil {
		forward.Report(msg)
	}
}

func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages...)
}

func (l *Log) Count(level Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < LevelNotice || level > LevelError {
		return 0
	}
	return l.counts[level]
}

func (l *Log) Summary(leaves int) Summary {
	return Summary{
		Errors:   l.Count(LevelError),
		Warnings: l.Count(LevelWarn),
		Notices:  l.Count(LevelNotice),
		Leaves:   leaves,
	}
}

type Summary struct {
	Errors   int
	Warnings int
	Notices  int
	Leaves   int
}

// Failed is true when errors were reported or nothing was generated.
func (s Summary) Failed() bool { return s.Errors > 0 || s.Leaves == 0 }

func (s Summary) String() string {
	result := fmt.Sprintf("%d error(s), %d warning(s), %d notice(s); ", s.Errors, s.Warnings, s.Notices)
	if s.Leaves == 0 {
		return result + "no blocks generated"
	}
	return result + fmt.Sprintf("%d block(s) generated", s.Leaves)
}
