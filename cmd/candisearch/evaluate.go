package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/candisearch/internal/domain/evaluation"
)

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var (
		requirements string
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score every candidate against job requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := a.evaluate.Evaluate(a.withLogger(cmd.Context()), requirements)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), run)
			}
			return printRanking(cmd.OutOrStdout(), run)
		},
	}
	cmd.Flags().StringVar(&requirements, "requirements", "", "job requirements (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full run as JSON")
	return cmd
}

func printRanking(w io.Writer, run *evaluation.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run %s: %s\n\n", run.ID, run.Requirements)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tSCORE\tSTATUS\tLINKEDIN\tGITHUB")
	for i, r := range run.Results {
		status := string(r.Status)
		if r.Err() != nil {
			status += ": " + r.ErrorMessage()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			i+1, r.Candidate.ID, r.Candidate.Name, r.Score, status, r.Summary.LinkedIn, r.Summary.GitHub)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	return nil
}
