package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dale-assistant/internal/pagecontext"
	"dale-assistant/internal/suggestions"
)

func newSuggestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Print the context descriptor and suggested prompts for the current page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dctx := pagecontext.Build(pagecontext.URLLocation(a.cfg.Page))
			raw, err := json.Marshal(dctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "context: %s\n", raw)
			for i, s := range suggestions.New().Suggestions(dctx) {
				fmt.Fprintf(a.out, "%d. %s\n", i+1, s)
			}
			return nil
		},
	}
}
