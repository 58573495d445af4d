// Package web serves the todokeeper HTML interface over gin.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserService is the credential and session API used by the handlers.
type UserService interface {
	Register(ctx context.Context, name, email, code string) (*models.User, *models.Session, error)
	Login(ctx context.Context, email, code string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, sessionID string) (*models.User, error)
}

// TaskService is the owner-scoped task API used by the handlers.
type TaskService interface {
	List(ctx context.Context, userID int64) ([]models.Task, error)
	Create(ctx context.Context, userID int64, title, body string) (*models.Task, error)
	Get(ctx context.Context, userID, taskID int64) (*models.Task, error)
	Update(ctx context.Context, userID, taskID int64, title, body string) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

type Server struct {
	config  *config.Config
	logger  logging.Logger
	users   UserService
	tasks   TaskService
	secret  []byte
	limiter *ipLimiter
	engine  *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, ts TaskService) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	s := &Server{
		config:  cfg,
		logger:  l.With("module", "web_server"),
		users:   us,
		tasks:   ts,
		secret:  []byte(cfg.SecretKey),
		limiter: newIPLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst, 10*time.Minute),
	}

	engine := gin.New()
	engine.UseRawPath = true
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)
	engine.Use(requestLogger(s.logger), gin.Recovery(), s.loadSession())
	engine.NoRoute(s.notFound)

	s.engine = engine
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	getPost := []string{http.MethodGet, http.MethodPost}

	s.engine.GET("/", s.index)

	s.engine.GET("/signup", s.signupForm)
	s.engine.POST("/signup", s.rateLimit(), s.signup)
	s.engine.GET("/login", s.loginForm)
	s.engine.POST("/login", s.rateLimit(), s.login)
	s.engine.GET("/logout", s.logout)

	s.engine.Match(getPost, "/tasks/:name", s.listTasks)
	s.engine.Match(getPost, "/add", s.addTask)
	s.engine.Match(getPost, "/update/:name/:taskId", s.updateTask)
	s.engine.Match(getPost, "/delete/:name/:taskId", s.deleteTask)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.config.HTTPAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis. Cancelling ctx shuts the server down,
// giving in-flight requests up to ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}
