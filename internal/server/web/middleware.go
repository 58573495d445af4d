package web

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestLogger tags every request with an id, echoes it in the response
// headers and logs the outcome once the handler chain returns.
func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(common.RequestIDHeaderName)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Header(common.RequestIDHeaderName, reqID)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			l.Error(ctx, "request", args...)
		case status >= 400:
			l.Warn(ctx, "request", args...)
		default:
			l.Info(ctx, "request", args...)
		}
	}
}

// loadSession resolves the session cookie into the current user. Invalid or
// expired cookies are cleared and the request continues anonymously.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sessionID, err := auth.GetSessionIDFromToken(token, s.secret)
		if err != nil {
			s.clearCookie(c, common.SessionCookieName)
			c.Next()
			return
		}

		user, err := s.users.Resolve(c.Request.Context(), sessionID)
		switch {
		case err == nil:
			c.Set(userKey, user)
			c.Set(sessionIDKey, sessionID)
		case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrSessionExpired):
			s.clearCookie(c, common.SessionCookieName)
		default:
			s.fail(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
