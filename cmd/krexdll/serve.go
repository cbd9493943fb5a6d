package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Krex381/krexdll/internal/contact"
	"github.com/Krex381/krexdll/internal/content"
	"github.com/Krex381/krexdll/internal/github"
	"github.com/Krex381/krexdll/internal/lanyard"
	"github.com/Krex381/krexdll/internal/metrics"
	"github.com/Krex381/krexdll/internal/presence"
	"github.com/Krex381/krexdll/internal/server"
	"github.com/Krex381/krexdll/internal/storage"
)

const pruneEvery = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio server",
	Long:  "Start the HTTP server, the Lanyard gateway client and the GitHub repo counter.",
	RunE:  runServe,
}

var serveListenAddr string

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (default from config or :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveListenAddr != "" {
		cfg.ListenAddr = serveListenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.DBPath, "")
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	state := presence.NewStore()
	gateway := lanyard.New(lanyard.Config{
		URL:            cfg.LanyardURL,
		Origin:         cfg.LanyardOrigin,
		UserID:         cfg.DiscordUserID,
		ReconnectDelay: cfg.ReconnectDelay,
	}, state, log, m)

	repos := github.NewCounter(github.NewClient(cfg.GitHubAPI, nil), cfg.GitHubHandle, cfg.FallbackRepos, log, m)

	if !cfg.SMTPConfigured() {
		log.Warn(ctx, "SMTP credentials missing, contact form will answer with an error")
	}
	mailer := contact.NewMailer(contact.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		To:   cfg.ContactTo,
	}, log)

	srv, err := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Site:     content.Default(cfg.DiscordUserID, cfg.GitHubHandle),
		Presence: state,
		Repos:    repos,
		Mailer:   mailer,
		Store:    store,
		Metrics:  m,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return gateway.Run(ctx) })
	g.Go(func() error { return repos.Run(ctx, cfg.ReposRefresh) })
	g.Go(func() error { return presence.RecordHistory(ctx, state, store, log) })
	g.Go(func() error { return store.RunPruner(ctx, cfg.VisitorRetention, pruneEvery, log) })
	if cfg.MetricsAddr != "" {
		log.Info(ctx, "prometheus metrics enabled", "addr", cfg.MetricsAddr)
		g.Go(func() error { return metrics.Serve(ctx, cfg.MetricsAddr, reg) })
	}

	err = g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}
