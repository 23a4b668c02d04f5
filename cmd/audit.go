package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dale-assistant/internal/domain"
)

type auditReader interface {
	Get(ctx context.Context, id int64) (domain.AuditRecord, bool, error)
}

type auditView struct {
	LogID       int64     `json:"log_id"`
	Subject     string    `json:"subject"`
	ContextType string    `json:"context_type"`
	ContextID   string    `json:"context_id,omitempty"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	Model       string    `json:"model"`
	TokensUsed  int       `json:"tokens_used"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAuditCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <log-id>",
		Short: "Print an audit record written by the stand-in service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("log id must be a positive integer, got %q", args[0])
			}
			store, err := a.newAuditStore(cmd.Context())
			if err != nil {
				return err
			}
			return printAudit(cmd.Context(), a.out, store, id)
		},
	}
}

func printAudit(ctx context.Context, w io.Writer, r auditReader, id int64) error {
	rec, ok, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no audit record with log id %d", id)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(auditView{
		LogID:       rec.LogID,
		Subject:     rec.Subject,
		ContextType: rec.ContextType,
		ContextID:   rec.ContextID,
		Prompt:      rec.Prompt,
		Response:    rec.Response,
		Model:       rec.Model,
		TokensUsed:  rec.TokensUsed,
		CreatedAt:   rec.CreatedAt,
	})
}
