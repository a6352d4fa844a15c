package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitranks/backend-go/internal/models"
)

func leaderboardUpstream() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count":250,"items":[{"login":"a"},{"login":"b"}]}`)
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		login := strings.TrimPrefix(r.URL.Path, "/users/")
		followers := 10
		if login == "b" {
			followers = 90
		}
		fmt.Fprintf(w, `{"login":%q,"followers":%d,"public_repos":1,"html_url":"https://github.com/%s"}`, login, followers, login)
	})
	return mux
}

func TestLeaderboardHandlerPageTwo(t *testing.T) {
	upstream := httptest.NewServer(leaderboardUpstream())
	defer upstream.Close()

	api := testAPI(upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?page=2", nil)
	rec := httptest.NewRecorder()
	api.Leaderboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.LeaderboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Page != 2 || !resp.HasPrev {
		t.Fatalf("expected page 2 with hasPrev, got %+v", resp)
	}
	for _, u := range resp.Users {
		if u.Rank < 101 || u.Rank > 200 {
			t.Fatalf("page 2 rank out of range: %+v", u)
		}
	}
}

func TestLeaderboardHandlerDefaultsBadParams(t *testing.T) {
	upstream := httptest.NewServer(leaderboardUpstream())
	defer upstream.Close()

	api := testAPI(upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?page=zero&sortBy=bogus&order=sideways", nil)
	rec := httptest.NewRecorder()
	api.Leaderboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected defaults to apply, got %d", rec.Code)
	}
	var resp models.LeaderboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Page != 1 {
		t.Fatalf("expected default page 1, got %d", resp.Page)
	}
	// Default sort is followers descending.
	if len(resp.Users) != 2 || resp.Users[0].Username != "b" {
		t.Fatalf("expected followers desc default, got %+v", resp.Users)
	}
}

func TestLeaderboardHandlerRateLimitedResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count":10,"items":[{"login":"a"}]}`)
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	api := testAPI(upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	rec := httptest.NewRecorder()
	api.Leaderboard(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.RateLimited || resp.Error == "" {
		t.Fatalf("expected rate limited error payload, got %+v", resp)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestLeaderboardHandlerUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	api := testAPI(upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	rec := httptest.NewRecorder()
	api.Leaderboard(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.RateLimited {
		t.Fatalf("generic failure must not be flagged rate limited: %+v", resp)
	}
}
