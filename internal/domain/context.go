package domain

// Section classifies the page a request originates from.
type Section string

const (
	SectionMarketplace  Section = "marketplace"
	SectionWorkforce    Section = "workforce"
	SectionDigitalStore Section = "digital_store"
	SectionChats        Section = "chats"
	SectionGeneric      Section = "generic"
)

// ContextTypePage is the only context type the widget produces.
const ContextTypePage = "page"

// Valid reports whether s is one of the enumerated sections.
func (s Section) Valid() bool {
	switch s {
	case SectionMarketplace, SectionWorkforce, SectionDigitalStore, SectionChats, SectionGeneric:
		return true
	}
	return false
}

// Extras carries section-level hints for the assistant.
type Extras struct {
	Section Section `json:"section"`
}

// ContextDescriptor describes where a request comes from. It is derived from
// the current location on every interaction and never stored.
type ContextDescriptor struct {
	Page   string  `json:"page"`
	Type   string  `json:"type"`
	ID     *string `json:"id"`
	Extras Extras  `json:"extras"`
}
