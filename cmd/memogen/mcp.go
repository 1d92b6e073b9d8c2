package main

import (
	"context"
	"errors"
	"os"

	"github.com/gijiroku/memogen/pkg/config"
	"github.com/gijiroku/memogen/pkg/mcpserver"
	"github.com/gijiroku/memogen/pkg/memo"
	"github.com/spf13/cobra"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve memo generation as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(resolveConfigPath())
			gen := memo.New(cfg, memo.WithLogger(log))

			s := mcpserver.New("memogen", version, gen)

			log.Info().Str("provider", cfg.Provider).Msg("serving MCP on stdio")

			err := s.Serve(cmd.Context(), os.Stdin, os.Stdout)
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}
}
