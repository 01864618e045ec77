package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// logger is configured by the root command before any subcommand runs.
var logger = logrus.New()

func setupLogger(l *logrus.Logger, level string, json bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	l.SetOutput(os.Stderr)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logJSON bool

	rootCmd := &cobra.Command{
		Use:           "cpcemu",
		Short:         "Z80 execution core for an Amstrad CPC-class machine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logger, logLevel, logJSON)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(newRunCmd(), newDisasmCmd(), newVerifyCmd(), newDskCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cpcemu:", err)
		os.Exit(1)
	}
}
