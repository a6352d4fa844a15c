package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gitranks/backend-go/internal/config"
	"gitranks/backend-go/internal/services"
)

type API struct {
	cfg         config.Config
	cache       services.Cache
	gh          *services.GitHubClient
	leaderboard *services.LeaderboardService
	rank        *services.RankService
}

func New(cfg config.Config, cache services.Cache, gh *services.GitHubClient) *API {
	fetcher := services.NewUserFetcher(cfg, gh)
	repos := services.NewRepoAggregator(cfg, gh)
	rank := services.NewRankService(cfg, cache, gh, repos)
	return &API{
		cfg:         cfg,
		cache:       cache,
		gh:          gh,
		leaderboard: services.NewLeaderboardService(cfg, cache, gh, fetcher, repos, rank),
		rank:        rank,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntParam(v string, def int, min int, max int) int {
	if v == "" {
		return def
	}
	var out int
	_, err := fmt.Sscanf(v, "%d", &out)
	if err != nil {
		return def
	}
	if out < min {
		return min
	}
	if out > max {
		return max
	}
	return out
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
