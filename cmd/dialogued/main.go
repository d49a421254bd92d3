// Package main is the entry point for the dialogue manager service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dialogue "github.com/msgpo/rhasspy-dialogue-hermes-1"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/bus/mqtt"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
)

var (
	configFile  string
	brokerURL   string
	siteIDs     []string
	wakewordIDs []string
	logLevel    string
	logFormat   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dialogued",
		Short: "Dialogue session manager for Hermes voice assistants",
		Long: `dialogued arbitrates one active dialogue session at a time across the
hotword, speech-to-text, intent recognition and text-to-speech components
of a Hermes deployment, communicating over the MQTT broker they share.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	root.Flags().StringVar(&brokerURL, "broker", "tcp://localhost:1883", "MQTT broker address")
	root.Flags().StringSliceVar(&siteIDs, "site-id", nil, "Site allow-list (repeatable; empty accepts all sites)")
	root.Flags().StringSliceVar(&wakewordIDs, "wakeword-id", []string{"default"}, "Wakeword ids to listen for (repeatable)")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")

	return root
}

func run(cmd *cobra.Command, args []string) error {
	cfg := defaultConfig()
	if configFile != "" {
		if err := cfg.loadFile(configFile); err != nil {
			return err
		}
	}
	cfg.applyFlags(cmd)

	logger := logging.NewLogger(parseLevel(cfg.LogLevel), cfg.LogFormat, os.Stderr)

	b, err := mqtt.Connect(cfg.Broker, func(o *mqtt.Options) {
		o.ClientID = cfg.ClientID
		o.Username = cfg.Username
		o.Password = cfg.Password
		o.Logger = logger
	})
	if err != nil {
		return fmt.Errorf("failed to connect bus: %w", err)
	}
	defer b.Close()

	d := dialogue.New(b, func(o *dialogue.Options) {
		o.SiteIDs = cfg.SiteIDs
		o.WakewordIDs = cfg.WakewordIDs
		o.Logger = logger
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("dialogue manager started", "broker", cfg.Broker, "sites", cfg.SiteIDs, "wakewords", cfg.WakewordIDs)
	return d.Run(ctx)
}

func parseLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
