package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, "index.html", nil)
}

func (s *Server) signupForm(c *gin.Context) {
	s.render(c, http.StatusOK, "signup.html", gin.H{"Form": SignupForm{}})
}

func (s *Server) signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil || !form.normalize() {
		s.flash(c, msgInvalidForm)
		form.Code = ""
		s.render(c, http.StatusBadRequest, "signup.html", gin.H{"Form": form})
		return
	}

	ctx := c.Request.Context()
	user, session, err := s.users.Register(ctx, form.Name, form.Email, form.Code)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			s.flash(c, msgDuplicateEmail)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		s.fail(c, err)
		return
	}

	s.endPreviousSession(c)
	if err := s.startSession(c, session); err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/add")
}

func (s *Server) loginForm(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{}})
}

func (s *Server) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil || !form.normalize() {
		s.flash(c, msgInvalidForm)
		form.Code = ""
		s.render(c, http.StatusBadRequest, "login.html", gin.H{"Form": form})
		return
	}

	ctx := c.Request.Context()
	user, session, err := s.users.Login(ctx, form.Email, form.Code)
	switch {
	case errors.Is(err, common.ErrUnknownEmail):
		s.flash(c, msgUnknownEmail)
		c.Redirect(http.StatusFound, "/signup")
		return
	case errors.Is(err, common.ErrBadCredential):
		s.logger.Info(ctx, "login rejected", "user_email", form.Email, "client_ip", c.ClientIP())
		s.flash(c, msgBadCredential)
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		s.fail(c, err)
		return
	}

	s.endPreviousSession(c)
	if err := s.startSession(c, session); err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/add")
}

func (s *Server) logout(c *gin.Context) {
	if err := s.users.Logout(c.Request.Context(), currentSessionID(c)); err != nil {
		s.fail(c, err)
		return
	}
	s.clearCookie(c, common.SessionCookieName)
	if currentUser(c) != nil {
		s.flash(c, msgLoggedOut)
	}
	c.Redirect(http.StatusFound, "/")
}

// endPreviousSession drops the session the browser held before a new login.
func (s *Server) endPreviousSession(c *gin.Context) {
	sessionID := currentSessionID(c)
	if sessionID == "" {
		return
	}
	if err := s.users.Logout(c.Request.Context(), sessionID); err != nil {
		s.logger.Warn(c.Request.Context(), "could not end previous session", "error", err)
	}
}
