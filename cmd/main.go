package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"dale-assistant/internal/assistant"
)

// exitNotAuthenticated lets scripts tell a missing credential apart from
// other failures.
const exitNotAuthenticated = 3

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if assistant.IsUnauthenticated(err) {
		return exitNotAuthenticated
	}
	return 1
}
