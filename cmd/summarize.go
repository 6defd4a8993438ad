package cmd

import (
	"github.com/spf13/cobra"

	"github.com/signlang-ai/signstream/orchestrator"
	"github.com/signlang-ai/signstream/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <events.json>",
	Short: "Recompute the summary of a saved session event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := orchestrator.ReadBundle(args[0])
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), outputFormat(cmd), summary.Summarize(b.Events, b.StartedAt, b.EndedAt))
	},
}

func init() {
	summarizeCmd.Flags().String("format", "json", "output format (json, yaml)")
}
