// Package pagecontext derives the context descriptor attached to every
// assistant request from the current page location.
package pagecontext

import (
	"net/url"
	"strings"

	"dale-assistant/internal/domain"
)

// Location reports the current page path.
type Location interface {
	Path() string
}

// StaticLocation is a fixed path.
type StaticLocation string

func (l StaticLocation) Path() string { return string(l) }

// URLLocation extracts the path from a URL or bare path, keeping percent
// escapes as a browser location does. Unparseable input is used verbatim.
type URLLocation string

func (l URLLocation) Path() string {
	u, err := url.Parse(string(l))
	if err != nil {
		return string(l)
	}
	return u.EscapedPath()
}

// Rule classifies a page whose final segment contains Keyword.
type Rule struct {
	Keyword string
	Section domain.Section
}

// DefaultRules are evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{Keyword: "workforce", Section: domain.SectionWorkforce},
	{Keyword: "marketplace", Section: domain.SectionMarketplace},
	{Keyword: "digital_store", Section: domain.SectionDigitalStore},
	{Keyword: "chats", Section: domain.SectionChats},
}

// Builder classifies pages with DefaultRules followed by any extra rules.
type Builder struct {
	rules []Rule
}

// NewBuilder returns a Builder. Extra rules with an empty keyword or an
// invalid section are ignored.
func NewBuilder(extra ...Rule) *Builder {
	rules := make([]Rule, 0, len(DefaultRules)+len(extra))
	rules = append(rules, DefaultRules...)
	for _, r := range extra {
		if r.Keyword == "" || !r.Section.Valid() {
			continue
		}
		rules = append(rules, r)
	}
	return &Builder{rules: rules}
}

var defaultBuilder = NewBuilder()

// Build derives the descriptor for loc using DefaultRules.
func Build(loc Location) domain.ContextDescriptor {
	return defaultBuilder.Build(loc)
}

// Build derives the descriptor for loc. It is recomputed on every call.
func (b *Builder) Build(loc Location) domain.ContextDescriptor {
	page := ""
	if loc != nil {
		page = LastSegment(loc.Path())
	}
	return domain.ContextDescriptor{
		Page:   page,
		Type:   domain.ContextTypePage,
		ID:     nil,
		Extras: domain.Extras{Section: b.Classify(page)},
	}
}

// Classify maps a page name to its section.
func (b *Builder) Classify(page string) domain.Section {
	for _, r := range b.rules {
		if strings.Contains(page, r.Keyword) {
			return r.Section
		}
	}
	return domain.SectionGeneric
}

// LastSegment returns everything after the final slash; a trailing slash
// yields "".
func LastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
