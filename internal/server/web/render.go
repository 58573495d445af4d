package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"pathEscape": escapeName,
		"formatTime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// render executes the named page with the current user and pending notices.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = currentUser(c)
	data["Flashes"] = s.popFlashes(c)
	c.HTML(status, name, data)
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	s.render(c, status, "error.html", gin.H{
		"Status":  status,
		"Title":   http.StatusText(status),
		"Message": message,
	})
}

func (s *Server) notFound(c *gin.Context) {
	s.renderError(c, http.StatusNotFound, "The page you are looking for does not exist.")
}

// fail logs err and answers 500.
func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed",
		"request_id", c.GetString(requestIDKey),
		"path", c.Request.URL.Path,
		"error", err)
	s.renderError(c, http.StatusInternalServerError, "Something went wrong on our side.")
}

func tasksPath(name string) string {
	return "/tasks/" + escapeName(name)
}

// escapeName encodes a user name as one path segment. "+" is encoded too
// because gin decodes raw path values with query semantics.
func escapeName(name string) string {
	return strings.ReplaceAll(url.PathEscape(name), "+", "%2B")
}
