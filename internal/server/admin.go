package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

// adminAuth checks the admin cookie. API calls get 401, pages a redirect
// to the login form.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setupAdminRoutes() {
	s.router.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})
	s.router.POST("/admin/login", s.handleAdminLogin)

	s.router.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := s.router.Group("/admin")
	admin.Use(s.adminAuth())
	{
		admin.GET("/dashboard", s.handleAdminDashboard)
		admin.GET("/api/stats", s.handleAdminStats)
		admin.GET("/api/status-history", s.handleStatusHistory)
		admin.POST("/api/prune", s.handlePrune)
	}
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	ip := c.ClientIP()
	ctx := c.Request.Context()

	if !s.cfg.AdminEnabled() {
		c.HTML(http.StatusForbidden, "admin-login.html", gin.H{"error": "Admin login is disabled"})
		return
	}
	if s.loginLimiter.IsBlocked(ip) {
		c.HTML(http.StatusTooManyRequests, "admin-login.html", gin.H{"error": "Too many failed attempts, try again later"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(c.PostForm("username")), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.PostForm("password")), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		s.loginLimiter.BlockIP(ip)
		s.log.Warn(ctx, "failed admin login", "ip_hash", s.hashIP(ip))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
	s.log.Info(ctx, "admin login", "ip_hash", s.hashIP(ip))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) handleAdminDashboard(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context(), s.now())
	if err != nil {
		s.log.Error(c.Request.Context(), "loading admin stats", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load statistics")
		return
	}
	history, err := s.store.StatusHistory(c.Request.Context(), 20)
	if err != nil {
		s.log.Error(c.Request.Context(), "loading status history", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load status history")
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
		"stats":    stats,
		"history":  history,
		"presence": s.presence.Snapshot(),
		"repos":    s.repos.Count(),
	})
}

func (s *Server) handleAdminStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context(), s.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleStatusHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
		return
	}
	history, err := s.store.StatusHistory(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

// handlePrune drops visitor records older than the retention window.
func (s *Server) handlePrune(c *gin.Context) {
	before := s.now().Add(-s.cfg.VisitorRetention)
	n, err := s.store.PruneVisits(c.Request.Context(), before)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.log.Info(c.Request.Context(), "visitor data pruned", "deleted", n)
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

type ipHasher interface {
	HashIP(ip string) string
}

// hashIP keeps raw client IPs out of the logs.
func (s *Server) hashIP(ip string) string {
	if h, ok := s.store.(ipHasher); ok {
		return h.HashIP(ip)
	}
	return "-"
}
