package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gitranks/backend-go/internal/models"
)

func (a *API) Rank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
		return
	}

	var req models.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON body"})
		return
	}

	usernames := dedupeUsernames(req.Usernames)
	if len(usernames) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Provide usernames: string[]"})
		return
	}

	results := a.rank.RankUsernames(r.Context(), usernames)
	writeJSON(w, http.StatusOK, models.RankResponse{Results: results})
}

// dedupeUsernames trims entries, drops blanks and keeps the first occurrence
// of each name in input order.
func dedupeUsernames(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
