package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/signlang-ai/signstream/clients"
	"github.com/signlang-ai/signstream/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a live session against the recognizer until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if conf.Services.Recognizer.URL == "" {
			return errors.New("no recognizer url (services.recognizer.url or --recognizer-url)")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if d, _ := cmd.Flags().GetDuration("duration"); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		w, err := wire(ctx, conf, true)
		if err != nil {
			return err
		}
		defer w.close()

		src := orchestrator.NewLiveSource(
			clients.NewHTTPTimeout(conf.Services.Recognizer.Timeout),
			conf.Services.Recognizer.URL,
			conf.FrameInterval(),
			log.WithField("component", "recognizer"),
		)
		defer src.Close()

		log.WithFields(log.Fields{"fps": conf.Detector.FPS, "recognizer": conf.Services.Recognizer.URL}).Info("press Ctrl-C to stop")
		res, err := w.pipeline(conf).Run(ctx, src)
		if res != nil {
			if perr := printResult(cmd.OutOrStdout(), outputFormat(cmd), res.Record); perr != nil {
				return perr
			}
		}
		return err
	},
}

func outputFormat(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("format")
	return f
}

func init() {
	fs := runCmd.Flags()
	fs.String("recognizer-url", "", "gesture recognizer base URL")
	fs.Int("fps", 0, "frames polled per second")
	fs.String("speech-engine", "", "speech engine (system, http, none)")
	fs.String("speech-voice", "", "voice id")
	fs.Int("speech-rate", 0, "speech rate (words per minute for system engine)")
	fs.String("speech-url", "", "speech service base URL for the http engine")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	fs.Duration("duration", 0, "stop the session after this long (0 = until interrupted)")
	fs.String("format", "json", "output format (json, yaml)")
	bindFlags(fs)
}
