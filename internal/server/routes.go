package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"rankcheck/internal/handlers"
	"rankcheck/internal/handlers/api"
	"rankcheck/internal/metrics"
	"rankcheck/internal/middleware"
	"rankcheck/internal/snapshot"
	"rankcheck/internal/workspace"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Analyzer     handlers.Analyzer
	Snapshots    *snapshot.Repository
	Workspaces   *workspace.Registry
	Metrics      *metrics.Recorder
	DefaultDepth int
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	if deps.Workspaces == nil {
		deps.Workspaces = workspace.NewRegistry()
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(deps.Analyzer, deps.Snapshots, deps.Workspaces, s.Cfg, deps.DefaultDepth)
	probeHandler := handlers.NewProbeHandler(deps.Snapshots)
	apiAnalysisHandler := api.NewAnalysisHandler(deps.Analyzer, deps.Workspaces)
	apiSnapshotHandler := api.NewSnapshotHandler(deps.Snapshots)

	// Probes and metrics are never behind auth
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	if deps.Metrics != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Auth routes - only when OIDC is configured
	if s.Cfg.IsOIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else if !s.Cfg.IsMTLSEnabled() {
		log.Println("OIDC not configured, the analyzer is open to anyone who can reach it")
	}

	analyzeLimit := s.analysisLimiter()

	// Frontend routes
	s.App.Get("/", authMiddleware.RequireAuth, analysisHandler.Index)
	s.App.Post("/draft", authMiddleware.RequireAuth, analysisHandler.Draft)
	s.App.Post("/analyze", authMiddleware.RequireAuth, analyzeLimit, analysisHandler.Analyze)
	s.App.Post("/analysis/save", authMiddleware.RequireAuth, analysisHandler.Save)
	s.App.Post("/analysis/load", authMiddleware.RequireAuth, analysisHandler.Load)

	// JSON API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)
	apiGroup.Post("/analyze", analyzeLimit, apiAnalysisHandler.Analyze)
	apiGroup.Post("/aggregate", apiAnalysisHandler.Aggregate)
	apiGroup.Get("/snapshot", apiSnapshotHandler.Get)
	apiGroup.Put("/snapshot", apiSnapshotHandler.Put)

	return nil
}
