package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gitranks/backend-go/internal/config"
	"gitranks/backend-go/internal/models"
)

const (
	leaderboardPerPage = 100
	// The user search endpoint only exposes its first 1000 results.
	searchResultWindow = 1000
)

type LeaderboardParams struct {
	Page              int
	SortBy            string
	Order             string
	IncludeRepoTotals bool
	MinRepos          int
	MinFollowers      int
	MinContribs       int
	MinStars          int
	MinForks          int
	Search            string
}

type LeaderboardService struct {
	cache   Cache
	gh      *GitHubClient
	fetcher *UserFetcher
	repos   *RepoAggregator
	ranker  *RankService
	ttlPage time.Duration
	ttlTerm time.Duration
}

func NewLeaderboardService(cfg config.Config, cache Cache, gh *GitHubClient, fetcher *UserFetcher, repos *RepoAggregator, ranker *RankService) *LeaderboardService {
	return &LeaderboardService{
		cache:   cache,
		gh:      gh,
		fetcher: fetcher,
		repos:   repos,
		ranker:  ranker,
		ttlPage: cfg.CacheTTLSearchPage,
		ttlTerm: cfg.CacheTTLSearchTerm,
	}
}

func (s *LeaderboardService) Get(ctx context.Context, p LeaderboardParams) (models.LeaderboardResponse, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Search != "" {
		return s.getNamed(ctx, p)
	}
	return s.getPage(ctx, p)
}

// getNamed resolves a single named user: search the term, fetch details and
// estimate the global rank from follower counts. Always a single-row page.
func (s *LeaderboardService) getNamed(ctx context.Context, p LeaderboardParams) (models.LeaderboardResponse, error) {
	term := strings.ToLower(strings.TrimSpace(p.Search))
	search, err := GetOrSet(ctx, s.cache, "search:term:"+term, s.ttlTerm, func(ctx context.Context) (UserSearchResult, error) {
		return s.gh.SearchUsers(ctx, term, "", "", 1, 1)
	})
	if err != nil {
		return models.LeaderboardResponse{}, err
	}
	if len(search.Items) == 0 {
		return models.LeaderboardResponse{Page: 1, PerPage: 1, Users: []models.LeaderboardUser{}}, nil
	}

	details, err := s.fetcher.FetchDetails(ctx, []string{search.Items[0].Login})
	if err != nil {
		return models.LeaderboardResponse{}, err
	}
	u := details[0]

	row := models.LeaderboardUser{
		Username:      u.Login,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		Followers:     u.Followers,
		PublicRepos:   u.PublicRepos,
		Contributions: u.Contributions,
		HTMLURL:       u.HTMLURL,
		Rank:          s.ranker.EstimateRank(ctx, u.Followers),
	}
	if p.IncludeRepoTotals {
		totals := s.repos.Totals(ctx, u.Login)
		row.TotalStars = &totals.Stars
		row.TotalForks = &totals.Forks
	}

	return models.LeaderboardResponse{
		Page:    1,
		PerPage: 1,
		Total:   1,
		Users:   []models.LeaderboardUser{row},
	}, nil
}

func (s *LeaderboardService) getPage(ctx context.Context, p LeaderboardParams) (models.LeaderboardResponse, error) {
	key := fmt.Sprintf("search:followers:page:%d", p.Page)
	search, err := GetOrSet(ctx, s.cache, key, s.ttlPage, func(ctx context.Context) (UserSearchResult, error) {
		return s.gh.SearchUsers(ctx, "followers:>0", "followers", "desc", leaderboardPerPage, p.Page)
	})
	if err != nil {
		return models.LeaderboardResponse{}, err
	}

	totalAvailable := search.TotalCount
	if totalAvailable > searchResultWindow {
		totalAvailable = searchResultWindow
	}

	logins := make([]string, 0, len(search.Items))
	for _, it := range search.Items {
		logins = append(logins, it.Login)
	}

	details, err := s.fetcher.FetchDetails(ctx, logins)
	if err != nil {
		return models.LeaderboardResponse{}, err
	}

	var totals map[string]RepoTotals
	if p.IncludeRepoTotals {
		totals = s.repos.TotalsForAll(ctx, logins)
	}

	// Upstream rank is assigned by page position before any filtering.
	offset := (p.Page - 1) * leaderboardPerPage
	users := make([]models.LeaderboardUser, 0, len(details))
	for i, u := range details {
		row := models.LeaderboardUser{
			Username:      u.Login,
			Name:          u.Name,
			AvatarURL:     u.AvatarURL,
			Followers:     u.Followers,
			PublicRepos:   u.PublicRepos,
			Contributions: u.Contributions,
			HTMLURL:       u.HTMLURL,
			Rank:          offset + i + 1,
		}
		if p.IncludeRepoTotals {
			if t, ok := totals[u.Login]; ok {
				stars, forks := t.Stars, t.Forks
				row.TotalStars = &stars
				row.TotalForks = &forks
			}
		}
		users = append(users, row)
	}

	users = filterUsers(users, p)
	sortUsers(users, p.SortBy, p.Order)

	return models.LeaderboardResponse{
		Page:    p.Page,
		PerPage: leaderboardPerPage,
		Total:   totalAvailable,
		HasNext: p.Page*leaderboardPerPage < totalAvailable,
		HasPrev: p.Page > 1,
		Users:   users,
	}, nil
}

// filterUsers applies the minimum thresholds. The deep-total thresholds only
// bind when repo totals were actually computed.
func filterUsers(users []models.LeaderboardUser, p LeaderboardParams) []models.LeaderboardUser {
	out := users[:0]
	for _, u := range users {
		if u.PublicRepos < p.MinRepos || u.Followers < p.MinFollowers {
			continue
		}
		if intOrZero(u.Contributions) < p.MinContribs {
			continue
		}
		if p.IncludeRepoTotals && (intOrZero(u.TotalStars) < p.MinStars || intOrZero(u.TotalForks) < p.MinForks) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// sortUsers orders by the requested key. Absent repo totals compare as
// negative infinity, so rows without totals sink in descending order; equal
// keys keep no particular order.
func sortUsers(users []models.LeaderboardUser, sortBy, order string) {
	val := func(u models.LeaderboardUser) float64 {
		switch sortBy {
		case "publicRepos":
			return float64(u.PublicRepos)
		case "contribs":
			return float64(intOrZero(u.Contributions))
		case "stars":
			if u.TotalStars == nil {
				return math.Inf(-1)
			}
			return float64(*u.TotalStars)
		case "forks":
			if u.TotalForks == nil {
				return math.Inf(-1)
			}
			return float64(*u.TotalForks)
		default:
			return float64(u.Followers)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if order == "asc" {
			return val(users[i]) < val(users[j])
		}
		return val(users[i]) > val(users[j])
	})
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
