package http

import (
	"hebeos_todo/internal/config"
	"hebeos_todo/internal/db"
	"hebeos_todo/internal/http/handlers"
	"hebeos_todo/internal/http/middleware"
	"hebeos_todo/internal/service"
	"hebeos_todo/internal/ws"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, manager *db.Manager, cfg *config.Config, version string) {
	gate := service.NewGate(cfg.AccessCode)
	hub := ws.NewHub()
	h := handlers.NewHandler(manager, gate, hub)
	healthHandler := handlers.NewHealthHandler(manager, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Change-event feed
	r.GET("/ws", h.WS())

	rl := middleware.RedisRateLimit(manager, cfg.APIRateLimit, cfg.APIRateWindow)

	// Primary routes at the root
	root := r.Group("", rl)
	registerAPIRoutes(root, h)

	// Legacy /api prefix kept for the existing front end
	api := r.Group("/api", rl)
	registerAPIRoutes(api, h)
}

func registerAPIRoutes(g *gin.RouterGroup, h *handlers.Handler) {
	g.POST("/auth", h.Auth)

	g.GET("/todos", h.ListTodos)
	g.POST("/todos", h.CreateTodo)
	g.PUT("/todos", h.UpdateTodo)
	g.DELETE("/todos", h.DeleteTodo)
}
