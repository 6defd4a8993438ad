package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/signlang-ai/signstream/orchestrator"
)

var replayCmd = &cobra.Command{
	Use:   "replay <observations.jsonl>",
	Short: "Run a session over a recorded observation file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		speak, _ := cmd.Flags().GetBool("speak")
		w, err := wire(cmd.Context(), conf, speak)
		if err != nil {
			return err
		}
		defer w.close()

		src := orchestrator.NewReplaySource(f, time.Now())
		res, err := w.pipeline(conf, orchestrator.WithClock(src.Now)).Run(cmd.Context(), src)
		if res != nil {
			if perr := printResult(cmd.OutOrStdout(), outputFormat(cmd), res.Record); perr != nil {
				return perr
			}
		}
		return err
	},
}

func init() {
	fs := replayCmd.Flags()
	fs.Bool("speak", false, "speak confirmed signs with the configured engine")
	fs.String("format", "json", "output format (json, yaml)")
}
