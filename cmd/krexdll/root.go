package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Krex381/krexdll/internal/config"
	"github.com/Krex381/krexdll/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "krexdll",
	Short: "Portfolio server with live Discord presence",
	Long: "krexdll serves the krex.dll portfolio, keeps a Lanyard gateway subscription\n" +
		"for the live Discord widget and tracks the public GitHub repository count.",
	SilenceUsage: true,
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Optional config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presenceCmd)
	rootCmd.AddCommand(reposCmd)
}

// setup loads the config and builds the logger every command shares.
func setup() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}
