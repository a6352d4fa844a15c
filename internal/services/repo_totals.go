package services

import (
	"context"
	"sync"

	"gitranks/backend-go/internal/config"
)

const reposPerPage = 100

type RepoTotals struct {
	Stars int `json:"stars"`
	Forks int `json:"forks"`
}

// RepoAggregator sums stars and forks across a user's owned repositories by
// walking the paginated repo list, most recently updated first.
type RepoAggregator struct {
	gh      *GitHubClient
	pageCap int
	workers int
}

func NewRepoAggregator(cfg config.Config, gh *GitHubClient) *RepoAggregator {
	pageCap := cfg.RepoPageCap
	if pageCap <= 0 {
		pageCap = 5
	}
	workers := cfg.RepoWorkers
	if workers <= 0 {
		workers = 3
	}
	return &RepoAggregator{gh: gh, pageCap: pageCap, workers: workers}
}

// Totals pages through the repo list until a short page or the page cap.
// Users with more repos than the cap covers are undercounted; that bounds the
// worst-case latency per user. Any failed page stops the walk with whatever
// partial sum has accumulated.
func (a *RepoAggregator) Totals(ctx context.Context, login string) RepoTotals {
	var t RepoTotals
	for page := 1; page <= a.pageCap; page++ {
		batch, err := a.gh.ListUserRepos(ctx, login, page, reposPerPage)
		if err != nil {
			break
		}
		for _, r := range batch {
			t.Stars += r.StargazersCount
			t.Forks += r.ForksCount
		}
		if len(batch) < reposPerPage {
			break
		}
	}
	return t
}

// TotalsForAll drains the logins through a fixed pool of workers and returns
// totals keyed by login. No retry: a failed aggregation leaves the zero
// totals for that login.
func (a *RepoAggregator) TotalsForAll(ctx context.Context, logins []string) map[string]RepoTotals {
	out := make(map[string]RepoTotals, len(logins))
	if len(logins) == 0 {
		return out
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for login := range jobs {
				t := a.Totals(ctx, login)
				mu.Lock()
				out[login] = t
				mu.Unlock()
			}
		}()
	}
	for _, login := range logins {
		jobs <- login
	}
	close(jobs)
	wg.Wait()
	return out
}
