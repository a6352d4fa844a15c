package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"gitranks/backend-go/internal/models"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := []string{}
	missing := []string{}
	depsStatus := map[string]models.DepStatus{}
	if err := a.gh.Health(ctx); err != nil {
		missing = append(missing, "github_unreachable")
		depsStatus["github"] = models.DepStatus{Ok: false, Error: err.Error()}
	} else {
		deps = append(deps, "github")
		depsStatus["github"] = models.DepStatus{Ok: true}
	}

	resp := models.HealthResponse{
		Ok:          len(missing) == 0,
		TsISO:       nowISO(),
		Service:     "backend-go",
		Version:     os.Getenv("SERVICE_VERSION"),
		Deps:        deps,
		DepsStatus:  depsStatus,
		DataMissing: missing,
		Env: map[string]bool{
			"GITHUB_TOKEN":    os.Getenv("GITHUB_TOKEN") != "",
			"GITHUB_API_BASE": os.Getenv("GITHUB_API_BASE") != "",
			"REDIS_URL":       os.Getenv("REDIS_URL") != "",
		},
	}
	writeJSON(w, http.StatusOK, resp)
}
