// Command neogo explores near-Earth object close approach data: inspect
// NEOs by designation or name, query close approaches by date, distance,
// velocity, diameter, and hazard classification, and refresh datasets from
// the JPL SSD/CNEOS API.
//
// Configuration comes from the environment (optionally a .env file); see
// internal/config for the recognized variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/neogo"
	"github.com/hupe1980/neogo/internal/config"
)

var (
	cfg    *config.Config
	logger *neogo.Logger
)

var rootCmd = &cobra.Command{
	Use:          "neogo",
	Short:        "Explore near-Earth object close approaches",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if cfg.LogFormat == "json" {
			logger = neogo.NewJSONLogger(cfg.LogLevel)
		} else {
			logger = neogo.NewTextLogger(cfg.LogLevel)
		}

		return nil
	},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
