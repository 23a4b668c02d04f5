package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"dale-assistant/handler"
	"dale-assistant/internal/devserver"
)

func newDevServerCommand(a *app) *cobra.Command {
	var asLambda bool
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve the deterministic stand-in assistant endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.newAskService(cmd.Context())
			if err != nil {
				return err
			}

			if asLambda {
				h, err := handler.NewHandler(svc)
				if err != nil {
					return err
				}
				lambda.Start(h.Handle)
				return nil
			}

			router, err := devserver.NewRouter(svc, a.cfg.Endpoint.Path, a.logger)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              a.cfg.DevServer.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       120 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return devserver.Serve(ctx, srv, a.logger)
		},
	}
	cmd.Flags().BoolVar(&asLambda, "lambda", false, "run as an AWS Lambda API Gateway handler")
	return cmd
}
