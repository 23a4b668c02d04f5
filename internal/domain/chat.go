package domain

// ChatMessage is a single transcript entry. Mine marks text the user typed or
// clicked; replies and error notices are never mine.
type ChatMessage struct {
	Text string `json:"text"`
	Mine bool   `json:"mine"`
}

// AssistantRequest is the body POSTed to the assistant endpoint.
type AssistantRequest struct {
	Prompt  string            `json:"prompt"`
	Context ContextDescriptor `json:"context"`
	History []ChatMessage     `json:"history"`
}

// AssistantReply is the success body returned by the assistant endpoint.
type AssistantReply struct {
	Reply string `json:"reply"`
	LogID *int64 `json:"log_id,omitempty"`
}
