package main

import (
	"os/signal"
	"syscall"

	"github.com/legisai/legisai/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the chat API. Routes live under api_prefix (default /api/v1):

  POST   /chat                     ask a question in a new or existing session
  GET    /tools                    list the Congress.gov tool catalog
  POST   /sessions                 create an empty session
  GET    /sessions/{id}/messages   read a session's conversation
  POST   /sessions/{id}/reset      clear a session's conversation
  DELETE /sessions/{id}            drop a session`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := server.Build(ctx, cfg, server.BuildOptions{})
	if err != nil {
		return err
	}
	defer stack.Close()

	if err := server.New(cfg, stack).Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
