package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitranks/backend-go/internal/config"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		GitHubBaseURL:      baseURL,
		GitHubGraphQLURL:   baseURL + "/graphql",
		RequestTimeout:     5 * time.Second,
		CacheTTLSearchPage: time.Hour,
		CacheTTLSearchTerm: time.Minute,
		CacheTTLUser:       time.Hour,
		DetailBatchSize:    5,
		RepoWorkers:        3,
		RepoPageCap:        5,
	}
}

func TestFetchUserPlaceholderOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	gh := NewGitHubClient(testConfig(srv.URL))
	u, err := gh.FetchUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("expected placeholder, got error: %v", err)
	}
	if u.Login != "ghost" {
		t.Fatalf("expected login preserved, got %q", u.Login)
	}
	if u.Followers != 0 || u.PublicRepos != 0 {
		t.Fatalf("expected zero-valued placeholder, got %+v", u)
	}
	if u.HTMLURL != "https://github.com/ghost" {
		t.Fatalf("expected synthesized profile URL, got %q", u.HTMLURL)
	}
}

func TestFetchUserRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	gh := NewGitHubClient(testConfig(srv.URL))
	_, err := gh.FetchUser(context.Background(), "octocat")
	var ghErr *GitHubError
	if !errors.As(err, &ghErr) {
		t.Fatalf("expected GitHubError, got %v", err)
	}
	if ghErr.Kind != KindRateLimited {
		t.Fatalf("expected rate limit kind, got %v", ghErr.Kind)
	}
	if ghErr.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", ghErr.Remaining)
	}
	if ghErr.Reset.Unix() != 1700000000 {
		t.Fatalf("expected reset from header, got %v", ghErr.Reset)
	}
}

func TestFetchUserCoreErrorCarriesStatusAndURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gh := NewGitHubClient(testConfig(srv.URL))
	_, err := gh.FetchUserCore(context.Background(), "octocat")
	if err == nil {
		t.Fatal("expected error on non-2xx")
	}
	msg := err.Error()
	if !strings.Contains(msg, "502") || !strings.Contains(msg, "/users/octocat") {
		t.Fatalf("expected status and URL in error, got %q", msg)
	}
}

func TestGraphQLUnavailableWithoutToken(t *testing.T) {
	gh := NewGitHubClient(testConfig("http://127.0.0.1:0"))
	if _, ok := gh.FetchUsersGraphQL(context.Background(), []string{"a"}); ok {
		t.Fatal("expected graphql unavailable without token")
	}
}

func TestGraphQLBatchSubstitutesPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"u0":{"login":"alice","name":"Alice","avatarUrl":"https://a/img","url":"https://github.com/alice","followers":{"totalCount":12},"repositories":{"totalCount":4},"contributionsCollection":{"contributionCalendar":{"totalContributions":250}}},"u1":null}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.GitHubToken = "tok"
	gh := NewGitHubClient(cfg)

	details, ok := gh.FetchUsersGraphQL(context.Background(), []string{"alice", "missing"})
	if !ok {
		t.Fatal("expected graphql batch to succeed")
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	if details[0].Login != "alice" || details[0].Followers != 12 {
		t.Fatalf("unexpected first detail: %+v", details[0])
	}
	if details[0].Contributions == nil || *details[0].Contributions != 250 {
		t.Fatalf("expected contributions filled by graphql, got %+v", details[0].Contributions)
	}
	if details[1].Login != "missing" || details[1].HTMLURL != "https://github.com/missing" {
		t.Fatalf("expected placeholder for unresolved login, got %+v", details[1])
	}
}

func TestGraphQLUnavailableOnErrorsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"bad"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.GitHubToken = "tok"
	gh := NewGitHubClient(cfg)
	if _, ok := gh.FetchUsersGraphQL(context.Background(), []string{"a"}); ok {
		t.Fatal("expected unavailable on errors payload")
	}
}
