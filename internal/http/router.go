package http

import (
	"net/http"

	"gitranks/backend-go/internal/config"
	"gitranks/backend-go/internal/handlers"
	"gitranks/backend-go/internal/services"
)

func NewRouter(cfg config.Config, cache services.Cache, gh *services.GitHubClient) http.Handler {
	api := handlers.New(cfg, cache, gh)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", api.Health)
	mux.HandleFunc("/api/v1/leaderboard", api.Leaderboard)
	mux.HandleFunc("/api/v1/rank", api.Rank)

	h := http.Handler(mux)
	h = withRecovery(h)
	h = withLogging(h)
	h = withRateLimit(cfg.RateLimitPerMin)(h)
	h = withCORS(h)
	return h
}
