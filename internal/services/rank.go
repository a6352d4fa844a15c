package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gitranks/backend-go/internal/config"
	"gitranks/backend-go/internal/models"
)

// GitHub has no "rank of user X" endpoint, so a global rank can only be
// inferred from search index counts. Each step of the fallback chain trades
// precision for availability, ending in this fixed conservative estimate.
const fallbackRank = 1000

type RankService struct {
	cache   Cache
	gh      *GitHubClient
	repos   *RepoAggregator
	ttlUser time.Duration
	ttlTerm time.Duration
}

func NewRankService(cfg config.Config, cache Cache, gh *GitHubClient, repos *RepoAggregator) *RankService {
	return &RankService{
		cache:   cache,
		gh:      gh,
		repos:   repos,
		ttlUser: cfg.CacheTTLUser,
		ttlTerm: cfg.CacheTTLSearchTerm,
	}
}

// EstimateRank infers a user's global rank from their follower count F.
// F>0: count of users with strictly more followers, plus one (exact); on
// failure the >= variant without the +1 (off by the user itself); then the
// fixed estimate. F=0: everyone with followers at all ranks above.
func (s *RankService) EstimateRank(ctx context.Context, followers int) int {
	if followers <= 0 {
		total, err := s.searchCount(ctx, "followers:>0")
		if err != nil {
			return fallbackRank
		}
		return total + 1
	}

	total, err := s.searchCount(ctx, fmt.Sprintf("followers:>%d", followers))
	if err == nil {
		return total + 1
	}
	total, err = s.searchCount(ctx, fmt.Sprintf("followers:>=%d", followers))
	if err == nil {
		return total
	}
	return fallbackRank
}

func (s *RankService) searchCount(ctx context.Context, query string) (int, error) {
	return GetOrSet(ctx, s.cache, "search:count:"+query, s.ttlTerm, func(ctx context.Context) (int, error) {
		return s.gh.SearchUserCount(ctx, query)
	})
}

// RankUsernames computes an influence score per username and returns the set
// sorted by descending score with ranks assigned 1..N. Ties keep input order.
// A failed user never fails the batch; it contributes a zero-valued stub. The
// expensive per-user lookups are each cached independently.
func (s *RankService) RankUsernames(ctx context.Context, usernames []string) []models.RankedUser {
	ranked := make([]models.RankedUser, 0, len(usernames))
	for _, username := range usernames {
		ranked = append(ranked, s.rankOne(ctx, username))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func (s *RankService) rankOne(ctx context.Context, username string) models.RankedUser {
	user, err := GetOrSet(ctx, s.cache, "user:"+username, s.ttlUser, func(ctx context.Context) (UserDetail, error) {
		return s.gh.FetchUserCore(ctx, username)
	})
	if err != nil {
		return models.RankedUser{Username: username}
	}

	totals, _ := GetOrSet(ctx, s.cache, "repos:"+username, s.ttlUser, func(ctx context.Context) (RepoTotals, error) {
		return s.repos.Totals(ctx, username), nil
	})
	prCount := s.countOrZero(ctx, "prCount:"+username, fmt.Sprintf("type:pr author:%s is:public", username))
	issueCount := s.countOrZero(ctx, "issueCount:"+username, fmt.Sprintf("type:issue author:%s is:public", username))

	score := ComputeScore(totals.Stars, totals.Forks, prCount, issueCount, user.PublicRepos, user.Followers)
	return models.RankedUser{
		Username:    user.Login,
		Name:        user.Name,
		AvatarURL:   user.AvatarURL,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		TotalStars:  totals.Stars,
		TotalForks:  totals.Forks,
		PRCount:     prCount,
		IssueCount:  issueCount,
		Score:       Round2(score),
	}
}

// countOrZero swallows search failures: a count the index cannot answer is
// simply zero for scoring purposes.
func (s *RankService) countOrZero(ctx context.Context, key, query string) int {
	n, _ := GetOrSet(ctx, s.cache, key, s.ttlUser, func(ctx context.Context) (int, error) {
		count, err := s.gh.SearchIssueCount(ctx, query)
		if err != nil {
			return 0, nil
		}
		return count, nil
	})
	return n
}
