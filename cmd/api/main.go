package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"gitranks/backend-go/internal/config"
	internalhttp "gitranks/backend-go/internal/http"
	"gitranks/backend-go/internal/services"
)

func main() {
	_ = godotenv.Load(
		".env",
		".env.local",
		"backend-go/.env",
		"backend-go/.env.local",
	)
	cfg := config.Load()
	cache := services.NewCache(cfg)
	gh := services.NewGitHubClient(cfg)

	h := internalhttp.NewRouter(cfg, cache, gh)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("gitranks backend listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
