// Package usecase is a deterministic stand-in for the remote assistant
// service, used for local development and tests. It validates requests the
// way the real endpoint does and acknowledges them; it does no reasoning.
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"dale-assistant/internal/domain"
)

const (
	DefaultModel = "llama3-8b-8192"

	detailNoCredentials = "Authentication credentials were not provided."
	detailInvalidToken  = "Given token not valid for any token type"
	detailPromptMissing = "prompt is required"
	detailAuditFailed   = "AI error: could not record the request"
)

// Recorder persists answered prompts and returns the assigned log id.
type Recorder interface {
	Record(ctx context.Context, rec domain.AuditRecord) (int64, error)
}

type AskService struct {
	recorder Recorder
	model    string
	tokens   map[string]struct{}
	seq      atomic.Int64
	now      func() time.Time
}

type AskInput struct {
	Prompt      string
	Context     domain.ContextDescriptor
	History     []domain.ChatMessage
	PageHeader  string
	BearerToken string
}

type AskOutput struct {
	Reply string
	LogID int64
}

// NewAskService returns a service. A nil recorder assigns log ids from an
// in-process sequence. When allowedTokens is non-empty only those bearer
// tokens are accepted.
func NewAskService(recorder Recorder, model string, allowedTokens []string) (*AskService, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	tokens := make(map[string]struct{}, len(allowedTokens))
	for _, t := range allowedTokens {
		if t = strings.TrimSpace(t); t != "" {
			tokens[t] = struct{}{}
		}
	}
	return &AskService{
		recorder: recorder,
		model:    model,
		tokens:   tokens,
		now:      time.Now,
	}, nil
}

func (s *AskService) Ask(ctx context.Context, in AskInput) (AskOutput, error) {
	token := strings.TrimSpace(in.BearerToken)
	if token == "" {
		return AskOutput{}, newError(ErrorUnauthenticated, "missing_credentials", detailNoCredentials, nil)
	}
	if len(s.tokens) > 0 {
		if _, ok := s.tokens[token]; !ok {
			return AskOutput{}, newError(ErrorUnauthenticated, "invalid_token", detailInvalidToken, nil)
		}
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return AskOutput{}, newError(ErrorInvalidInput, "empty_prompt", detailPromptMissing, nil)
	}

	page := in.Context.Page
	if page == "" {
		page = strings.TrimSpace(in.PageHeader)
	}
	contextType := in.Context.Type
	if contextType == "" {
		contextType = "generic"
	}
	section := in.Context.Extras.Section
	if !section.Valid() {
		section = domain.SectionGeneric
	}
	contextID := ""
	if in.Context.ID != nil {
		contextID = *in.Context.ID
	}

	history := trimHistory(in.History)
	reply := composeReply(page, section, prompt, len(history))

	rec := domain.AuditRecord{
		Subject:     subjectFor(token),
		ContextType: firstNonEmpty(page, contextType),
		ContextID:   contextID,
		Prompt:      prompt,
		Response:    reply,
		Model:       s.model,
		TokensUsed:  approxTokens(prompt, reply),
		CreatedAt:   s.now().UTC(),
	}
	logID, err := s.record(ctx, rec)
	if err != nil {
		return AskOutput{}, newError(ErrorInternal, "audit_write_error", detailAuditFailed, err)
	}
	return AskOutput{Reply: reply, LogID: logID}, nil
}

func (s *AskService) record(ctx context.Context, rec domain.AuditRecord) (int64, error) {
	if s.recorder == nil {
		return s.seq.Add(1), nil
	}
	id, err := s.recorder.Record(ctx, rec)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("usecase: recorder returned no log id")
	}
	return id, nil
}

// subjectFor identifies a caller without keeping the token.
func subjectFor(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
