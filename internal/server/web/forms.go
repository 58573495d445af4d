package web

import (
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// SignupForm is posted by the signup page.
type SignupForm struct {
	Name  string `form:"name" binding:"required,max=100"`
	Email string `form:"email" binding:"required,email,max=100"`
	Code  string `form:"code" binding:"required"`
}

func (f *SignupForm) normalize() bool {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return models.ValidUserName(f.Name) && f.Email != "" && strings.TrimSpace(f.Code) != ""
}

// LoginForm is posted by the login page.
type LoginForm struct {
	Email string `form:"email" binding:"required"`
	Code  string `form:"code" binding:"required"`
}

func (f *LoginForm) normalize() bool {
	f.Email = strings.TrimSpace(f.Email)
	return f.Email != "" && strings.TrimSpace(f.Code) != ""
}

// TaskForm is posted by the add and update pages.
type TaskForm struct {
	Title string `form:"task_title" binding:"required,max=100"`
	Body  string `form:"list_to_do" binding:"required"`
}

func (f *TaskForm) normalize() bool {
	f.Title = strings.TrimSpace(f.Title)
	return f.Title != "" && strings.TrimSpace(f.Body) != ""
}
