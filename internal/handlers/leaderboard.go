package handlers

import (
	"net/http"
	"strings"

	"gitranks/backend-go/internal/services"
)

var leaderboardSortKeys = map[string]bool{
	"followers":   true,
	"publicRepos": true,
	"contribs":    true,
	"stars":       true,
	"forks":       true,
}

func (a *API) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := q.Get("sortBy")
	if !leaderboardSortKeys[sortBy] {
		sortBy = "followers"
	}
	order := strings.ToLower(q.Get("order"))
	if order != "asc" {
		order = "desc"
	}

	p := services.LeaderboardParams{
		// Pages beyond 10 fall outside the upstream 1000-result window.
		Page:              parseIntParam(q.Get("page"), 1, 1, 10),
		SortBy:            sortBy,
		Order:             order,
		IncludeRepoTotals: q.Get("includeRepoTotals") == "1",
		MinRepos:          parseIntParam(q.Get("minRepos"), 0, 0, 1_000_000_000),
		MinFollowers:      parseIntParam(q.Get("minFollowers"), 0, 0, 1_000_000_000),
		MinContribs:       parseIntParam(q.Get("minContribs"), 0, 0, 1_000_000_000),
		MinStars:          parseIntParam(q.Get("minStars"), 0, 0, 1_000_000_000),
		MinForks:          parseIntParam(q.Get("minForks"), 0, 0, 1_000_000_000),
		Search:            strings.TrimSpace(q.Get("search")),
	}

	resp, err := a.leaderboard.Get(r.Context(), p)
	if err != nil {
		writeGitHubError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
