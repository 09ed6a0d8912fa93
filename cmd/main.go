package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"logpretty/config"
	"logpretty/internal/logging"
)

// exit status for a run stopped by SIGINT/SIGTERM, as shells report it
const exitInterrupted = 130

func main() {
	// bootstrap logger until the configured level is known
	_ = logging.Setup("warn")

	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitInterrupted)
		}
		log.Error().Err(err).Msg("logpretty failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logpretty [file...]",
		Short: "Pretty-print newline-delimited JSON logs",
		Long: `logpretty reads newline-delimited JSON log records (pino/bunyan style:
level, time, msg, tag, err) and prints each as a colorized, indented block.
Lines that are not JSON objects are passed through unchanged.

Inputs are read in order; "-" or no argument reads stdin. Files ending in
.gz or .zst are decompressed on the fly.

  node server.js | logpretty
  logpretty app.log app.log.1.gz`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig(cmd.Flags(), args)
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.Log.Level); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, Output{W: os.Stdout, File: os.Stdout})
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}
