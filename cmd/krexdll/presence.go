package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Krex381/krexdll/internal/lanyard"
)

var presenceCmd = &cobra.Command{
	Use:   "presence",
	Short: "Print the current Discord presence",
	Long:  "Connect to the Lanyard gateway once and print the first presence payload as JSON.",
	RunE:  runPresence,
}

var presenceTimeout time.Duration

func init() {
	presenceCmd.Flags().DurationVar(&presenceTimeout, "timeout", 15*time.Second, "Give up after this long")
}

func runPresence(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), presenceTimeout)
	defer cancel()

	client := lanyard.New(lanyard.Config{
		URL:    cfg.LanyardURL,
		Origin: cfg.LanyardOrigin,
		UserID: cfg.DiscordUserID,
	}, nil, log, nil)

	p, err := client.Once(ctx)
	if err != nil {
		return fmt.Errorf("no presence for %s: %w", cfg.DiscordUserID, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
