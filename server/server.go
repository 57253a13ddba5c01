// Package server implements the hosted snapshot sync service: account-based
// key-value storage of calendar snapshots with last-write-wins timestamps.
package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/existflow/calendarly/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

// Server is the sync server.
type Server struct {
	db       *sql.DB
	echo     *echo.Echo
	validate *validator.Validate
	waiters  *snapshotWaiters
}

// New creates a new server against the given postgres URL.
func New(dbURL string) (*Server, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Server{
		db:       db,
		validate: validator.New(),
		waiters:  newSnapshotWaiters(),
	}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(s.requestLogger)
	e.Use(s.metricsMiddleware)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(metricsHandler()))

	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)
	protected.GET("/snapshot", s.handleSnapshotGet)
	protected.PUT("/snapshot", s.handleSnapshotPut)

	s.echo = e
}

// requestLogger logs every request and response through the module logger.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)

		res := c.Response()
		logger.Info("HTTP request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return err
	}
}

// Close closes the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
