package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	GitHubBaseURL      string
	GitHubGraphQLURL   string
	GitHubToken        string
	RedisURL           string
	RequestTimeout     time.Duration
	CacheTTLSearchPage time.Duration
	CacheTTLSearchTerm time.Duration
	CacheTTLUser       time.Duration
	RateLimitPerMin    int
	DetailBatchSize    int
	RepoWorkers        int
	RepoPageCap        int
}

func Load() Config {
	return Config{
		Port:               getEnv("PORT", "8080"),
		GitHubBaseURL:      getEnv("GITHUB_API_BASE", "https://api.github.com"),
		GitHubGraphQLURL:   getEnv("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql"),
		GitHubToken:        getEnv("GITHUB_TOKEN", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 12*time.Second),
		CacheTTLSearchPage: getEnvDuration("CACHE_TTL_SEARCH_PAGE", 2*time.Hour),
		CacheTTLSearchTerm: getEnvDuration("CACHE_TTL_SEARCH_TERM", 5*time.Minute),
		CacheTTLUser:       getEnvDuration("CACHE_TTL_USER", 6*time.Hour),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MIN", 120),
		DetailBatchSize:    getEnvInt("DETAIL_BATCH_SIZE", 5),
		RepoWorkers:        getEnvInt("REPO_WORKERS", 3),
		RepoPageCap:        getEnvInt("REPO_PAGE_CAP", 5),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}
