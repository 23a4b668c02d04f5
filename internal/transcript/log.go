// Package transcript renders the append-only visible log of a session.
package transcript

import (
	"errors"
	"html"
	"log/slog"
	"sync"

	"dale-assistant/internal/domain"
)

const (
	rowMine   = "flex justify-end"
	rowTheirs = "flex justify-start"

	bubbleMine   = "px-3 py-2 rounded-xl bg-emerald-600 text-white max-w-[80%]"
	bubbleTheirs = "px-3 py-2 rounded-xl bg-emerald-50 max-w-[80%]"
)

// Container receives rendered rows.
type Container interface {
	AppendMarkup(markup string) error
	ScrollToEnd()
}

// Log is the visible transcript. Entries are never removed or changed.
type Log struct {
	mu        sync.Mutex
	container Container
	messages  []domain.ChatMessage
	observers []func(domain.ChatMessage)
	logger    *slog.Logger
}

// New returns a Log rendering into container.
func New(container Container, logger *slog.Logger) (*Log, error) {
	if container == nil {
		return nil, errors.New("transcript: container must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{container: container, logger: logger}, nil
}

// OnAppend registers fn to run after every append, outside the lock.
func (l *Log) OnAppend(fn func(domain.ChatMessage)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Append renders msg as the last entry and scrolls to it.
func (l *Log) Append(msg domain.ChatMessage) {
	l.mu.Lock()
	if err := l.container.AppendMarkup(Row(msg)); err != nil {
		l.logger.Error("transcript append failed", "err", err)
	}
	l.container.ScrollToEnd()
	l.messages = append(l.messages, msg)
	observers := append([]func(domain.ChatMessage){}, l.observers...)
	l.mu.Unlock()

	for _, fn := range observers {
		fn(msg)
	}
}

// Messages returns a copy of the entries in insertion order.
func (l *Log) Messages() []domain.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ChatMessage(nil), l.messages...)
}

// Row renders a single entry, right-aligned when mine.
func Row(msg domain.ChatMessage) string {
	row, bubble := rowTheirs, bubbleTheirs
	if msg.Mine {
		row, bubble = rowMine, bubbleMine
	}
	return `<div class="` + row + `"><div class="` + bubble + `">` + Escape(msg.Text) + `</div></div>`
}

// Escape neutralizes &, <, >, " and ' so text never becomes markup.
func Escape(s string) string {
	return html.EscapeString(s)
}
