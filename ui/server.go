package ui

import (
	"context"
	"log"
	"time"

	"brineviz/adapters/spreadsheet"
	"brineviz/internal/config"
	"brineviz/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// Server represents the JSON API server for BrineViz
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	loader   *spreadsheet.Loader
	sessions *session.Store

	// parseSem bounds concurrent spreadsheet parses: workbook parsing is the
	// one memory-heavy step, everything else is cheap in-memory work.
	parseSem *semaphore.Weighted
}

// NewServer creates the API server with all pipeline collaborators wired
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		router:   gin.Default(),
		cfg:      cfg,
		loader:   spreadsheet.NewLoader(spreadsheet.DefaultConfig()),
		sessions: session.NewStore(cfg.Session.TTL),
		parseSem: semaphore.NewWeighted(cfg.Upload.MaxConcurrency),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/sessions/upload", s.handleFileUpload)
	api.GET("/sessions/:id", s.handleSessionInfo)
	api.POST("/sessions/:id/sheet", s.handleSelectSheet)
	api.POST("/sessions/:id/options", s.handleSetOptions)
	api.GET("/sessions/:id/table", s.handleCleanedTable)
	api.GET("/sessions/:id/summary", s.handleSummary)

	api.GET("/sessions/:id/views/scatter", s.handleScatterView)
	api.GET("/sessions/:id/views/timeseries", s.handleTimeSeriesView)
	api.GET("/sessions/:id/views/ratio", s.handleRatioView)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the session expiry sweeper and serves HTTP until the listener fails
func (s *Server) Start() error {
	go s.sweepSessions(context.Background())

	addr := ":" + s.cfg.Server.Port
	log.Printf("Starting BrineViz API server on %s", addr)
	return s.router.Run(addr)
}

// sweepSessions periodically drops expired sessions
func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Session.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessions.CleanupExpired()
		}
	}
}
