package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dale-assistant/internal/pagecontext"
)

func newAskCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send one prompt with the current page context and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			dctx := pagecontext.Build(pagecontext.URLLocation(a.cfg.Page))
			reply, err := client.Ask(cmd.Context(), strings.Join(args, " "), dctx, nil)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(reply)
			}
			_, err = fmt.Fprintln(a.out, reply.Reply)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw reply body")
	return cmd
}
