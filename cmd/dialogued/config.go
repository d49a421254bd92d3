package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config holds the service configuration. Values come from the YAML file
// first; flags set explicitly on the command line win.
type config struct {
	Broker      string   `yaml:"broker"`
	ClientID    string   `yaml:"clientId"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	SiteIDs     []string `yaml:"siteIds"`
	WakewordIDs []string `yaml:"wakewordIds"`
	LogLevel    string   `yaml:"logLevel"`
	LogFormat   string   `yaml:"logFormat"`
}

func defaultConfig() *config {
	return &config{
		Broker:      "tcp://localhost:1883",
		ClientID:    "rhasspy-dialogue",
		WakewordIDs: []string{"default"},
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func (c *config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyFlags overlays explicitly set command line flags onto the config.
func (c *config) applyFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("broker") {
		c.Broker = brokerURL
	}
	if cmd.Flags().Changed("site-id") {
		c.SiteIDs = siteIDs
	}
	if cmd.Flags().Changed("wakeword-id") {
		c.WakewordIDs = wakewordIDs
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		c.LogFormat = logFormat
	}
}
