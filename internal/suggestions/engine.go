// Package suggestions maps a page context to canned prompts.
package suggestions

import "dale-assistant/internal/domain"

// Common prompts close every list, in this order.
var Common = []string{
	"Summarize what I was last doing and propose the next best step.",
	"Draft a concise to-do list for this page.",
}

var sectionPrompts = map[domain.Section][]string{
	domain.SectionMarketplace: {
		"Recommend top 3 products to promote based on ratings/reviews.",
		"Which store has the best reputation and why?",
		"Suggest pricing or discount tweaks to lift conversion.",
	},
	domain.SectionWorkforce: {
		"Recommend top 3 professionals to contact with reasons.",
		"Suggest a hiring outreach message for the best-fit pro.",
	},
	domain.SectionDigitalStore: {
		"Review my store metrics and suggest two quick wins to increase sales.",
		"Pick one product to feature on the homepage and explain why.",
		"Suggest ad copy and CTA for a new promotion.",
	},
	domain.SectionChats: {
		"Generate a friendly, concise reply to the latest customer message.",
		"Summarize the current conversation and propose next actions.",
	},
}

// Engine selects suggestions from a fixed table.
type Engine struct {
	table  map[domain.Section][]string
	common []string
}

// New returns an Engine over the built-in table.
func New() *Engine {
	return &Engine{table: sectionPrompts, common: Common}
}

// Suggestions returns the section prompts followed by the common prompts.
// The returned slice is a fresh copy. Sections without an entry, generic
// included, get the common prompts only.
func (e *Engine) Suggestions(dctx domain.ContextDescriptor) []string {
	specific := e.table[dctx.Extras.Section]
	out := make([]string, 0, len(specific)+len(e.common))
	out = append(out, specific...)
	return append(out, e.common...)
}

// specific returns how many section prompts precede the common ones.
func (e *Engine) specific(section domain.Section) int {
	return len(e.table[section])
}
