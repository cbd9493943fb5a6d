package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Krex381/krexdll/internal/contact"
	"github.com/Krex381/krexdll/internal/content"
	"github.com/Krex381/krexdll/internal/lanyard"
	"github.com/Krex381/krexdll/internal/presence"
)

type presenceResponse struct {
	Connected bool              `json:"connected"`
	Presence  *lanyard.Presence `json:"presence"`
	View      *presence.View    `json:"view"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

func (s *Server) presenceResponse(snap presence.Snapshot) presenceResponse {
	resp := presenceResponse{Connected: snap.Connected}
	if !snap.UpdatedAt.IsZero() {
		at := snap.UpdatedAt
		resp.UpdatedAt = &at
	}
	if snap.Presence != nil {
		v := presence.NewView(*snap.Presence, s.cfg.FallbackBanner, s.now())
		resp.Presence = snap.Presence
		resp.View = &v
	}
	return resp
}

func (s *Server) profile() content.Profile {
	p := s.site.Profile
	p.PublicRepos = s.repos.Count()
	return p
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"profile":   s.profile(),
		"sections":  content.Sections(),
		"skills":    s.site.Skills,
		"education": s.site.Education,
		"contact":   s.site.Contact,
		"presence":  s.presenceResponse(s.presence.Snapshot()),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	status, code, db := "ok", http.StatusOK, "ok"
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.Error(c.Request.Context(), "database ping failed", "error", err)
		status, code, db = "degraded", http.StatusServiceUnavailable, "unavailable"
	}
	c.JSON(code, gin.H{
		"status":            status,
		"database":          db,
		"gateway_connected": s.presence.Snapshot().Connected,
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.profile())
}

func (s *Server) handleSections(c *gin.Context) {
	c.JSON(http.StatusOK, content.Sections())
}

// sectionIndex resolves the :id parameter, a section id or an index.
// Indexes are clamped to the first and last section.
func sectionIndex(c *gin.Context) (int, bool) {
	id := c.Param("id")
	if i, err := strconv.Atoi(id); err == nil {
		return content.SectionAt(i).Index, true
	}
	sec, ok := content.SectionByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return 0, false
	}
	return sec.Index, true
}

func (s *Server) handleSection(c *gin.Context) {
	if i, ok := sectionIndex(c); ok {
		c.JSON(http.StatusOK, content.SectionAt(i))
	}
}

func (s *Server) handleNextSection(c *gin.Context) {
	if i, ok := sectionIndex(c); ok {
		c.JSON(http.StatusOK, content.Next(i))
	}
}

func (s *Server) handlePrevSection(c *gin.Context) {
	if i, ok := sectionIndex(c); ok {
		c.JSON(http.StatusOK, content.Prev(i))
	}
}

// handleCarousel returns the item that follows ?current= in the skills or
// education carousel. The page advances it every 10 seconds.
func (s *Server) handleCarousel(c *gin.Context) {
	var n int
	switch c.Param("name") {
	case "skills":
		n = len(s.site.Skills)
	case "education":
		n = len(s.site.Education)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "carousel not found"})
		return
	}

	current, err := strconv.Atoi(c.DefaultQuery("current", "0"))
	if err != nil || current < 0 || current >= n {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("current must be between 0 and %d", n-1)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"carousel": c.Param("name"),
		"count":    n,
		"current":  current,
		"next":     content.Rotate(current, n),
	})
}

func (s *Server) handleSkills(c *gin.Context) {
	c.JSON(http.StatusOK, s.site.Skills)
}

func (s *Server) handleEducation(c *gin.Context) {
	c.JSON(http.StatusOK, s.site.Education)
}

func (s *Server) handleContactMethods(c *gin.Context) {
	c.JSON(http.StatusOK, s.site.Contact)
}

// handleRepos reports the count and whether it came from GitHub or is the
// fallback.
func (s *Server) handleRepos(c *gin.Context) {
	resp := gin.H{"public_repos": s.repos.Count()}
	live, at := s.repos.Live()
	resp["live"] = live
	if live {
		resp["fetched_at"] = at
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePresence(c *gin.Context) {
	c.JSON(http.StatusOK, s.presenceResponse(s.presence.Snapshot()))
}

// handlePresenceStream pushes a "presence" server-sent event for the current
// state and every change after it.
func (s *Server) handlePresenceStream(c *gin.Context) {
	updates, cancel := s.presence.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("presence", s.presenceResponse(snap))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) handleContact(c *gin.Context) {
	ip := c.ClientIP()
	if s.contactLimiter.IsBlocked(ip) {
		s.metrics.ContactSubmit("rate_limited")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait a moment before sending another message."})
		return
	}

	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.metrics.ContactSubmit("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	id, err := s.mailer.Send(c.Request.Context(), form)
	switch {
	case errors.Is(err, contact.ErrInvalidForm):
		s.metrics.ContactSubmit("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.metrics.ContactSubmit("failed")
		s.log.Error(c.Request.Context(), "contact form", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	s.contactLimiter.BlockIP(ip)
	s.metrics.ContactSubmit("sent")
	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"message": "Thank you for your message! I'll get back to you soon.",
	})
}
