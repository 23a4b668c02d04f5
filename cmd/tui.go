package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dale-assistant/internal/page"
	"dale-assistant/internal/pagecontext"
	"dale-assistant/internal/tui"
	"dale-assistant/internal/widget"
)

func newTUICommand(a *app) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Host the widget in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The alternate screen owns the terminal; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: a.cfg.SlogLevel()}))
			a.logger = logger

			client, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			ctrl, err := widget.New(page.New("Dale"), pagecontext.URLLocation(a.cfg.Page), client,
				widget.WithLogger(logger),
				widget.WithBaseContext(cmd.Context()),
			)
			if err != nil {
				return err
			}
			return tui.Run(tui.ModelConfig{Controller: ctrl, PagePath: a.cfg.Page})
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the TUI runs")
	return cmd
}
