package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.URL.Path == "/api/health" {
			return
		}
		s.log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

var untrackedPrefixes = []string{"/static/", "/images/", "/admin", "/api/", "/favicon", "/contact"}

// visitorTracking records page views with a hashed IP. Static assets, the
// API, the admin area and clients sending DNT are left alone.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != "GET" || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		s.queueVisit(visit{
			ip:        c.ClientIP(),
			userAgent: c.GetHeader("User-Agent"),
			path:      path,
			at:        s.now(),
		})
		c.Next()
	}
}

type visit struct {
	ip, userAgent, path string
	at                  time.Time
}

// queueVisit hands v to the writer without blocking. Visits are dropped
// while the queue is full.
func (s *Server) queueVisit(v visit) bool {
	select {
	case s.visits <- v:
		return true
	default:
		s.metrics.VisitDropped()
		return false
	}
}

func (s *Server) visitWriter() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case v := <-s.visits:
			s.recordVisit(v)
		}
	}
}

func (s *Server) recordVisit(v visit) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.RecordVisit(ctx, v.ip, v.userAgent, v.path, v.at); err != nil {
		s.log.Warn(ctx, "recording visit failed", "error", err)
		return
	}
	s.metrics.VisitRecorded()
}
