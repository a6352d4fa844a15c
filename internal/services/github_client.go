package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gitranks/backend-go/internal/config"
)

const userAgent = "gitranks-app"

type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindRateLimited
)

// GitHubError carries the upstream failure class alongside the raw HTTP
// details so callers can branch on Kind instead of matching message text.
type GitHubError struct {
	Kind      ErrorKind
	Status    int
	URL       string
	Remaining int
	Reset     time.Time
}

func (e *GitHubError) Error() string {
	if e.Kind == KindRateLimited {
		reset := ""
		if !e.Reset.IsZero() {
			reset = e.Reset.UTC().Format(time.RFC3339)
		}
		return fmt.Sprintf("github rate limit reached: remaining=%d reset=%s", e.Remaining, reset)
	}
	return fmt.Sprintf("github: %d %s for %s", e.Status, http.StatusText(e.Status), e.URL)
}

// UserDetail is the canonical per-user record both transports produce.
// Contributions stays nil on the REST path; only GraphQL fills it.
type UserDetail struct {
	Login         string  `json:"login"`
	Name          *string `json:"name"`
	AvatarURL     *string `json:"avatar_url"`
	Followers     int     `json:"followers"`
	PublicRepos   int     `json:"public_repos"`
	Contributions *int    `json:"contributions,omitempty"`
	HTMLURL       string  `json:"html_url"`
}

type SearchUserItem struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

type UserSearchResult struct {
	TotalCount int              `json:"total_count"`
	Items      []SearchUserItem `json:"items"`
}

type RepoStat struct {
	StargazersCount int `json:"stargazers_count"`
	ForksCount      int `json:"forks_count"`
}

type GitHubClient struct {
	hc         *http.Client
	baseURL    string
	graphqlURL string
	token      string
}

func NewGitHubClient(cfg config.Config) *GitHubClient {
	return &GitHubClient{
		hc: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:    strings.TrimRight(cfg.GitHubBaseURL, "/"),
		graphqlURL: cfg.GitHubGraphQLURL,
		token:      cfg.GitHubToken,
	}
}

func (c *GitHubClient) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// fetchJSON is the strict GET helper: any non-2xx status is an error carrying
// status, reason phrase and the request URL.
func (c *GitHubClient) fetchJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(req)
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &GitHubError{Kind: KindUpstream, Status: res.StatusCode, URL: rawURL}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// FetchUser is the REST detail transport. HTTP 403/429 surfaces the rate
// limit with whatever quota headers are present; any other non-2xx yields a
// zero-valued placeholder rather than failing the batch.
func (c *GitHubClient) FetchUser(ctx context.Context, login string) (UserDetail, error) {
	rawURL := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return UserDetail{}, err
	}
	c.applyHeaders(req)
	res, err := c.hc.Do(req)
	if err != nil {
		return UserDetail{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusForbidden || res.StatusCode == http.StatusTooManyRequests {
		return UserDetail{}, rateLimitError(res, rawURL)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return PlaceholderUser(login), nil
	}

	var u UserDetail
	if err := json.NewDecoder(res.Body).Decode(&u); err != nil {
		return UserDetail{}, err
	}
	if u.HTMLURL == "" {
		u.HTMLURL = profileURL(login)
	}
	return u, nil
}

// FetchUserCore fetches one user strictly: every non-2xx is an error. The
// ranking path wants the failure so it can substitute a stub for the user.
func (c *GitHubClient) FetchUserCore(ctx context.Context, login string) (UserDetail, error) {
	var u UserDetail
	rawURL := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(login))
	if err := c.fetchJSON(ctx, rawURL, &u); err != nil {
		return UserDetail{}, err
	}
	return u, nil
}

// FetchUsersGraphQL batches every login into a single aliased query. It fails
// soft: missing token, a non-2xx status or a response with errors all return
// ok=false so the caller falls back to REST.
func (c *GitHubClient) FetchUsersGraphQL(ctx context.Context, logins []string) ([]UserDetail, bool) {
	if c.token == "" || len(logins) == 0 {
		return nil, false
	}

	var b strings.Builder
	b.WriteString("{ ")
	for i, login := range logins {
		safe := strings.ReplaceAll(login, `"`, "")
		fmt.Fprintf(&b, `u%d: user(login: "%s") { login name avatarUrl url followers { totalCount } repositories(privacy: PUBLIC) { totalCount } contributionsCollection { contributionCalendar { totalContributions } } } `, i, safe)
	}
	b.WriteString("}")

	payload, err := json.Marshal(map[string]string{"query": b.String()})
	if err != nil {
		return nil, false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, false
	}
	c.applyHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, false
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, false
	}

	var raw struct {
		Data   map[string]*graphqlUser `json:"data"`
		Errors []json.RawMessage       `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, false
	}
	if len(raw.Errors) > 0 || raw.Data == nil {
		return nil, false
	}

	out := make([]UserDetail, 0, len(logins))
	for i, login := range logins {
		node := raw.Data[fmt.Sprintf("u%d", i)]
		if node == nil || node.Login == "" {
			out = append(out, PlaceholderUser(login))
			continue
		}
		contribs := node.ContributionsCollection.ContributionCalendar.TotalContributions
		out = append(out, UserDetail{
			Login:         node.Login,
			Name:          node.Name,
			AvatarURL:     node.AvatarURL,
			Followers:     node.Followers.TotalCount,
			PublicRepos:   node.Repositories.TotalCount,
			Contributions: &contribs,
			HTMLURL:       node.URL,
		})
	}
	return out, true
}

type graphqlUser struct {
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	URL       string  `json:"url"`
	Followers struct {
		TotalCount int `json:"totalCount"`
	} `json:"followers"`
	Repositories struct {
		TotalCount int `json:"totalCount"`
	} `json:"repositories"`
	ContributionsCollection struct {
		ContributionCalendar struct {
			TotalContributions int `json:"totalContributions"`
		} `json:"contributionCalendar"`
	} `json:"contributionsCollection"`
}

// SearchUsers queries the user search index. GitHub exposes at most the first
// 1000 results through this endpoint.
func (c *GitHubClient) SearchUsers(ctx context.Context, query, sort, order string, perPage, page int) (UserSearchResult, error) {
	var out UserSearchResult
	rawURL := fmt.Sprintf("%s/search/users?q=%s&per_page=%d&page=%d", c.baseURL, url.QueryEscape(query), perPage, page)
	if sort != "" {
		rawURL += "&sort=" + url.QueryEscape(sort) + "&order=" + url.QueryEscape(order)
	}
	if err := c.fetchJSON(ctx, rawURL, &out); err != nil {
		return UserSearchResult{}, err
	}
	return out, nil
}

// SearchUserCount returns only the total_count of a user search query.
func (c *GitHubClient) SearchUserCount(ctx context.Context, query string) (int, error) {
	res, err := c.SearchUsers(ctx, query, "", "", 1, 1)
	if err != nil {
		return 0, err
	}
	return res.TotalCount, nil
}

// SearchIssueCount returns the total_count of an issue search query. The
// query string is passed through verbatim; GitHub accepts "+" as the
// qualifier separator.
func (c *GitHubClient) SearchIssueCount(ctx context.Context, query string) (int, error) {
	var out struct {
		TotalCount int `json:"total_count"`
	}
	rawURL := fmt.Sprintf("%s/search/issues?q=%s&per_page=1", c.baseURL, url.QueryEscape(query))
	if err := c.fetchJSON(ctx, rawURL, &out); err != nil {
		return 0, err
	}
	return out.TotalCount, nil
}

// ListUserRepos fetches one page of a user's owned repositories, most
// recently updated first.
func (c *GitHubClient) ListUserRepos(ctx context.Context, login string, page, perPage int) ([]RepoStat, error) {
	var out []RepoStat
	rawURL := fmt.Sprintf("%s/users/%s/repos?per_page=%d&page=%d&type=owner&sort=updated", c.baseURL, url.PathEscape(login), perPage, page)
	if err := c.fetchJSON(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health probes the rate limit endpoint, which is free and always available.
func (c *GitHubClient) Health(ctx context.Context) error {
	var out struct {
		Resources map[string]any `json:"resources"`
	}
	return c.fetchJSON(ctx, c.baseURL+"/rate_limit", &out)
}

func rateLimitError(res *http.Response, rawURL string) *GitHubError {
	e := &GitHubError{Kind: KindRateLimited, Status: res.StatusCode, URL: rawURL}
	if v := res.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			e.Remaining = n
		}
	}
	if v := res.Header.Get("X-RateLimit-Reset"); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			e.Reset = time.Unix(sec, 0)
		}
	}
	return e
}

// PlaceholderUser stands in for a login the upstream could not resolve.
func PlaceholderUser(login string) UserDetail {
	return UserDetail{
		Login:   login,
		HTMLURL: profileURL(login),
	}
}

func profileURL(login string) string {
	return "https://github.com/" + login
}
