package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints; every one accepts the filter query parameters
	s.mux.HandleFunc("GET /api/options", s.apiHandlers.HandleOptions)
	s.mux.HandleFunc("GET /api/metrics", s.apiHandlers.HandleMetrics)
	s.mux.HandleFunc("GET /api/aggregates/{dimension}", s.apiHandlers.HandleAggregates)
	s.mux.HandleFunc("GET /api/timeline", s.apiHandlers.HandleTimeline)
	s.mux.HandleFunc("GET /api/top-sellers", s.apiHandlers.HandleTopSellers)
	s.mux.HandleFunc("GET /api/trend", s.apiHandlers.HandleTrend)
	s.mux.HandleFunc("GET /api/status", s.apiHandlers.HandleStatus)
	s.mux.HandleFunc("GET /api/describe", s.apiHandlers.HandleDescribe)
	s.mux.HandleFunc("GET /api/heatmap", s.apiHandlers.HandleHeatmap)
	s.mux.HandleFunc("GET /api/transactions", s.apiHandlers.HandleTransactions)
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
	s.mux.HandleFunc("GET /sse/reset", s.sseHandlers.HandleReset)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
