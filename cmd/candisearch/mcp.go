package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpTransport "github.com/kailas-cloud/candisearch/internal/transport/mcp"
	"github.com/kailas-cloud/candisearch/internal/version"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the search tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			tools := mcpTransport.NewTools(a.search, a.resumes, a.logger)
			s := mcpTransport.NewServer("candisearch", version.Version, tools)
			a.logger.Info("Serving MCP over stdio")
			return mcpTransport.ServeStdio(a.withLogger(ctx), s, os.Stdin, os.Stdout)
		},
	}
}

