package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and print the outcome as JSON",
		Example: `  candisearch ask "What are the skills of John Doe?"
  candisearch ask --mode single "Give emails of all candidates"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := a.withLogger(cmd.Context())
			out, askErr := a.search.Ask(ctx, mode, strings.Join(args, " "))
			if out != nil {
				if err := printJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			}
			if askErr != nil {
				return fmt.Errorf("ask: %w", askErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "hybrid", `classifier variant: "hybrid" or "single"`)
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
