package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Krex381/krexdll/internal/github"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Print the public GitHub repository count",
	RunE:  runRepos,
}

func runRepos(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	counter := github.NewCounter(github.NewClient(cfg.GitHubAPI, nil), cfg.GitHubHandle, cfg.FallbackRepos, log, nil)
	if err := counter.Refresh(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "using fallback: %v\n", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), counter.Count())
	return nil
}
