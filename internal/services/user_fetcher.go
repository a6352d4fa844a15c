package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gitranks/backend-go/internal/config"
)

// UserFetcher resolves a set of logins into user details. It prefers one
// batched GraphQL call; without a token (or on any GraphQL failure) it falls
// back to per-user REST calls issued in fixed-size concurrent batches.
type UserFetcher struct {
	gh        *GitHubClient
	batchSize int
}

func NewUserFetcher(cfg config.Config, gh *GitHubClient) *UserFetcher {
	batch := cfg.DetailBatchSize
	if batch <= 0 {
		batch = 5
	}
	return &UserFetcher{gh: gh, batchSize: batch}
}

// FetchDetails returns exactly one UserDetail per input login, in input
// order. Unresolvable logins come back as placeholders, never omitted. A rate
// limit on the REST path aborts the remaining batches and propagates so the
// caller can report it distinctly.
func (f *UserFetcher) FetchDetails(ctx context.Context, logins []string) ([]UserDetail, error) {
	if len(logins) == 0 {
		return []UserDetail{}, nil
	}

	if details, ok := f.gh.FetchUsersGraphQL(ctx, logins); ok {
		return details, nil
	}

	out := make([]UserDetail, len(logins))
	for start := 0; start < len(logins); start += f.batchSize {
		end := start + f.batchSize
		if end > len(logins) {
			end = len(logins)
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				u, err := f.gh.FetchUser(gctx, logins[i])
				if err != nil {
					return err
				}
				out[i] = u
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
