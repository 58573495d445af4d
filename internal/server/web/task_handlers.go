package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// requireUser is the guard every protected handler calls first. Anonymous
// callers are sent to the login page.
func (s *Server) requireUser(c *gin.Context) (*models.User, bool) {
	user := currentUser(c)
	if user == nil {
		s.flash(c, msgLoginRequired)
		c.Redirect(http.StatusFound, "/login")
		return nil, false
	}
	return user, true
}

// checkName rejects a :name path parameter that is not the session user's.
func (s *Server) checkName(c *gin.Context, user *models.User) bool {
	if c.Param("name") != user.Name {
		s.logger.Warn(c.Request.Context(), "path name mismatch", "user_id", user.ID, "path", c.Request.URL.Path)
		s.flash(c, msgWrongUser)
		c.Redirect(http.StatusFound, tasksPath(user.Name))
		return false
	}
	return true
}

func (s *Server) taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil || id <= 0 {
		s.notFound(c)
		return 0, false
	}
	return id, true
}

// taskError maps a TaskService error onto a response.
func (s *Server) taskError(c *gin.Context, user *models.User, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.notFound(c)
	case errors.Is(err, common.ErrForbidden):
		s.logger.Warn(c.Request.Context(), "foreign task access", "user_id", user.ID, "path", c.Request.URL.Path)
		s.flash(c, msgForbidden)
		c.Redirect(http.StatusFound, tasksPath(user.Name))
	default:
		s.fail(c, err)
	}
}

func (s *Server) listTasks(c *gin.Context) {
	user, ok := s.requireUser(c)
	if !ok {
		return
	}
	if !s.checkName(c, user) {
		return
	}

	tasks, err := s.tasks.List(c.Request.Context(), user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.render(c, http.StatusOK, "tasks.html", gin.H{"Tasks": tasks, "Name": user.Name})
}

func (s *Server) addTask(c *gin.Context) {
	user, ok := s.requireUser(c)
	if !ok {
		return
	}

	if c.Request.Method != http.MethodPost {
		s.render(c, http.StatusOK, "add.html", gin.H{"Form": TaskForm{}})
		return
	}

	var form TaskForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil || !form.normalize() {
		s.flash(c, msgInvalidForm)
		s.render(c, http.StatusBadRequest, "add.html", gin.H{"Form": form})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), user.ID, form.Title, form.Body)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "task created", "user_id", user.ID, "task_id", task.ID)
	c.Redirect(http.StatusFound, tasksPath(user.Name))
}

func (s *Server) updateTask(c *gin.Context) {
	user, ok := s.requireUser(c)
	if !ok {
		return
	}
	if !s.checkName(c, user) {
		return
	}
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if c.Request.Method != http.MethodPost {
		task, err := s.tasks.Get(ctx, user.ID, id)
		if err != nil {
			s.taskError(c, user, err)
			return
		}
		s.render(c, http.StatusOK, "update.html", gin.H{
			"Task": task,
			"Name": user.Name,
			"Form": TaskForm{Title: task.Title, Body: task.Body},
		})
		return
	}

	var form TaskForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil || !form.normalize() {
		task, err := s.tasks.Get(ctx, user.ID, id)
		if err != nil {
			s.taskError(c, user, err)
			return
		}
		s.flash(c, msgInvalidForm)
		s.render(c, http.StatusBadRequest, "update.html", gin.H{"Task": task, "Name": user.Name, "Form": form})
		return
	}

	if _, err := s.tasks.Update(ctx, user.ID, id, form.Title, form.Body); err != nil {
		s.taskError(c, user, err)
		return
	}

	s.logger.Info(ctx, "task updated", "user_id", user.ID, "task_id", id)
	c.Redirect(http.StatusFound, tasksPath(user.Name))
}

func (s *Server) deleteTask(c *gin.Context) {
	user, ok := s.requireUser(c)
	if !ok {
		return
	}
	if !s.checkName(c, user) {
		return
	}
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), user.ID, id); err != nil {
		s.taskError(c, user, err)
		return
	}

	s.logger.Info(c.Request.Context(), "task deleted", "user_id", user.ID, "task_id", id)
	s.flash(c, msgTaskDeleted)
	c.Redirect(http.StatusFound, tasksPath(user.Name))
}
