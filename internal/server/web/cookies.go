package web

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	userKey      = "todokeeper.user"
	sessionIDKey = "todokeeper.session_id"
	flashKey     = "todokeeper.flash"
	requestIDKey = "todokeeper.request_id"
)

func (s *Server) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.config.CookieSecure, true)
}

func (s *Server) clearCookie(c *gin.Context, name string) {
	s.setCookie(c, name, "", -1)
}

// startSession signs the session id into the session cookie.
func (s *Server) startSession(c *gin.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	token, err := auth.GenerateToken(session.ID, s.secret, ttl)
	if err != nil {
		return err
	}
	s.setCookie(c, common.SessionCookieName, token, int(ttl.Seconds()))
	c.Set(sessionIDKey, session.ID)
	return nil
}

// currentUser returns the authenticated user or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func currentSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// flash queues msg for the next rendered page. The cookie always carries every
// message queued during this request.
func (s *Server) flash(c *gin.Context, msg string) {
	pending := append(c.GetStringSlice(flashKey), msg)
	c.Set(flashKey, pending)

	token, err := auth.EncodeFlash(pending, s.secret)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "flash encode failed", "error", err)
		return
	}
	s.setCookie(c, common.FlashCookieName, token, 0)
}

// popFlashes returns the notices carried over from the previous response plus
// those queued during this request, and clears them.
func (s *Server) popFlashes(c *gin.Context) []string {
	var msgs []string
	hadCookie := false

	if token, err := c.Cookie(common.FlashCookieName); err == nil && token != "" {
		hadCookie = true
		if stored, err := auth.DecodeFlash(token, s.secret); err == nil {
			msgs = append(msgs, stored...)
		}
	}

	pending := c.GetStringSlice(flashKey)
	msgs = append(msgs, pending...)

	if hadCookie || len(pending) > 0 {
		s.clearCookie(c, common.FlashCookieName)
	}
	c.Set(flashKey, []string(nil))

	return msgs
}
