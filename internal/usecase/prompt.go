package usecase

import (
	"fmt"
	"strings"

	"dale-assistant/internal/domain"
)

const maxHistoryTurns = 6

// composeReply builds the stand-in acknowledgement. It echoes what the
// widget sent and nothing more.
func composeReply(page string, section domain.Section, prompt string, historyTurns int) string {
	where := page
	if where == "" {
		where = "this page"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dale (local stand-in) received your %s request from %s: %q.", section, where, normalizePromptInput(prompt))
	if historyTurns > 0 {
		fmt.Fprintf(&sb, " %d earlier turn(s) were attached.", historyTurns)
	}
	sb.WriteString(" Point the widget at a real assistant endpoint for answers.")
	return sb.String()
}

// trimHistory keeps the most recent turns.
func trimHistory(history []domain.ChatMessage) []domain.ChatMessage {
	if len(history) <= maxHistoryTurns {
		return history
	}
	return history[len(history)-maxHistoryTurns:]
}

func normalizePromptInput(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// approxTokens is a whitespace word count, recorded for parity with the
// audit schema.
func approxTokens(parts ...string) int {
	n := 0
	for _, p := range parts {
		n += len(strings.Fields(p))
	}
	return n
}
