package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "candisearch",
		Short:        "Answer questions about job candidates from metadata and resumes",
		SilenceUsage: true,
		Long: `candisearch routes each question to the candidate metadata store, the resume
search index or both, and synthesizes a single answer.

Configuration is read from config/<ENV>.yaml (ENV defaults to "local") unless
--config points at a file.`,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (overrides ENV lookup)")

	root.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newEvaluateCmd(opts),
		newMCPCmd(opts),
		newVersionCmd(),
	)
	return root
}
