package domain

import "time"

// AuditRecord is one answered prompt as logged by the stand-in assistant
// service.
type AuditRecord struct {
	LogID       int64
	Subject     string
	ContextType string
	ContextID   string
	Prompt      string
	Response    string
	Model       string
	TokensUsed  int
	CreatedAt   time.Time
}
