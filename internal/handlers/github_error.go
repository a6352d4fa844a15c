package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gitranks/backend-go/internal/models"
	"gitranks/backend-go/internal/services"
)

// writeGitHubError maps an orchestration-level failure to the HTTP boundary.
// Rate limits are the one retryable class and get their own status plus a
// flag the caller can branch on without parsing the message.
func writeGitHubError(w http.ResponseWriter, err error) {
	var ghErr *services.GitHubError
	if errors.As(err, &ghErr) && ghErr.Kind == services.KindRateLimited {
		retryAfter := "60"
		if !ghErr.Reset.IsZero() {
			if wait := time.Until(ghErr.Reset); wait > 0 {
				retryAfter = strconv.Itoa(int(wait.Seconds()) + 1)
			}
		}
		w.Header().Set("Retry-After", retryAfter)
		writeJSON(w, http.StatusTooManyRequests, models.ErrorResponse{Error: err.Error(), RateLimited: true})
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error(), RateLimited: false})
}
