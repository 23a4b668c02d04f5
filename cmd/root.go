package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"dale-assistant/internal/config"
)

// app is the state shared by every subcommand after the root has loaded
// configuration.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: slog.Default()}

	var (
		cfgFile  string
		logLevel string
		pagePath string
		baseURL  string
	)

	root := &cobra.Command{
		Use:   "dale",
		Short: "Dale AI assistant widget",
		Long: `Dale attaches a context-aware assistant to a host page: a trigger opens a
modal with section-specific suggestions, every prompt carries the current
page context, and replies accumulate in a transcript.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("page") {
				cfg.Page = pagePath
			}
			if cmd.Flags().Changed("base-url") {
				cfg.Endpoint.BaseURL = baseURL
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewJSONHandler(a.errOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			slog.SetDefault(a.logger)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&pagePath, "page", "", "current page location, e.g. /app/marketplace.html")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "assistant endpoint base URL")

	root.AddCommand(
		newAskCommand(a),
		newSuggestCommand(a),
		newRenderCommand(a),
		newTUICommand(a),
		newDevServerCommand(a),
		newAuditCommand(a),
	)
	return root
}
