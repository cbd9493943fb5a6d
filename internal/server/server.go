// Package server is the HTTP surface of the portfolio: the page, the JSON
// API, the presence event stream, the contact form and the admin area.
package server

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Krex381/krexdll/internal/config"
	"github.com/Krex381/krexdll/internal/contact"
	"github.com/Krex381/krexdll/internal/content"
	"github.com/Krex381/krexdll/internal/logging"
	"github.com/Krex381/krexdll/internal/metrics"
	"github.com/Krex381/krexdll/internal/presence"
	"github.com/Krex381/krexdll/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type RepoCounter interface {
	Count() int
	Live() (bool, time.Time)
}

type Mailer interface {
	Send(ctx context.Context, f contact.Form) (string, error)
}

type VisitorStore interface {
	Ping(ctx context.Context) error
	RecordVisit(ctx context.Context, ip, userAgent, path string, at time.Time) error
	Stats(ctx context.Context, now time.Time) (*storage.VisitorStats, error)
	PruneVisits(ctx context.Context, before time.Time) (int64, error)
	StatusHistory(ctx context.Context, limit int) ([]storage.StatusChange, error)
}

// Deps are the collaborators a Server needs. Metrics may be nil.
type Deps struct {
	Config   *config.Config
	Log      logging.Logger
	Site     content.Site
	Presence *presence.Store
	Repos    RepoCounter
	Mailer   Mailer
	Store    VisitorStore
	Metrics  *metrics.Metrics
}

type Server struct {
	cfg      *config.Config
	log      logging.Logger
	site     content.Site
	presence *presence.Store
	repos    RepoCounter
	mailer   Mailer
	store    VisitorStore
	metrics  *metrics.Metrics

	router         *gin.Engine
	contactLimiter *RateLimiter
	loginLimiter   *RateLimiter
	adminToken     string
	now            func() time.Time

	visits    chan visit
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

const (
	contactCooldown = 30 * time.Second
	loginBlock      = 15 * time.Second
	visitQueueSize  = 64
)

// remoteIPHeaders are consulted, in order, when the peer is a trusted proxy.
var remoteIPHeaders = []string{"CF-Connecting-IP", "True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

func New(d Deps) (*Server, error) {
	if d.Config == nil || d.Log == nil || d.Presence == nil || d.Repos == nil || d.Mailer == nil || d.Store == nil {
		return nil, errors.New("server: missing dependency")
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.RemoteIPHeaders = remoteIPHeaders
	if err := router.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:            d.Config,
		log:            d.Log.With("component", "http"),
		site:           d.Site,
		presence:       d.Presence,
		repos:          d.Repos,
		mailer:         d.Mailer,
		store:          d.Store,
		metrics:        d.Metrics,
		router:         router,
		contactLimiter: NewRateLimiter(contactCooldown),
		loginLimiter:   NewRateLimiter(loginBlock),
		adminToken:     token,
		now:            time.Now,
		visits:         make(chan visit, visitQueueSize),
		done:           make(chan struct{}),
	}

	s.wg.Add(1)
	go s.visitWriter()

	s.setupRoutes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully. Open event
// streams end with ctx.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info(ctx, "listening", "addr", s.cfg.ListenAddr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close stops background work owned by the server. Queued visits that were
// not written yet are dropped.
func (s *Server) Close() {
	s.contactLimiter.Close()
	s.loginLimiter.Close()
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestLogger())
	s.router.Use(s.visitorTracking())

	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/profile", s.handleProfile)
		api.GET("/sections", s.handleSections)
		api.GET("/sections/:id", s.handleSection)
		api.GET("/sections/:id/next", s.handleNextSection)
		api.GET("/sections/:id/prev", s.handlePrevSection)
		api.GET("/carousel/:name", s.handleCarousel)
		api.GET("/skills", s.handleSkills)
		api.GET("/education", s.handleEducation)
		api.GET("/contact", s.handleContactMethods)
		api.GET("/repos", s.handleRepos)
		api.GET("/presence", s.handlePresence)
		api.GET("/presence/stream", s.handlePresenceStream)
	}

	s.router.POST("/contact", s.handleContact)

	s.setupAdminRoutes()
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
