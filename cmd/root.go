package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	cfg "github.com/signlang-ai/signstream/config"
)

var (
	cfgFile string
	v       = viper.New()
	conf    *cfg.Root
)

var rootCmd = &cobra.Command{
	Use:           "signstream",
	Short:         "Turn a gesture recognizer stream into spoken signs and session summaries",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "path to YAML config (default config/$CONFIG_ENV/config.yaml)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	pf.String("outputs", "", "directory for per-session JSON output")
	pf.String("user-name", "", "user name recorded with each session")
	pf.String("user-id", "", "user id recorded with each session")
	pf.String("signdata-url", "", "sign data backend base URL")
	pf.String("postgres-url", "", "PostgreSQL URL for session records")
	bindFlags(pf)

	v.SetEnvPrefix("SIGNSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(runCmd, replayCmd, summarizeCmd, historyCmd)
}

// bindFlags exposes each flag to viper under its snake_case name.
func bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		conf, err = cfg.LoadFile(cfgFile)
	} else {
		conf, err = cfg.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conf.Overlay(v)
	return setupLogging(conf)
}

func setupLogging(c *cfg.Root) error {
	lvl, err := log.ParseLevel(c.Pipeline.LogLvl)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	if strings.EqualFold(c.Pipeline.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
