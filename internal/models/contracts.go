package models

// LeaderboardUser is one row of the leaderboard page. Contributions is only
// populated by the GraphQL transport; TotalStars/TotalForks only when repo
// totals were requested.
type LeaderboardUser struct {
	Username      string  `json:"username"`
	Name          *string `json:"name"`
	AvatarURL     *string `json:"avatarUrl"`
	Followers     int     `json:"followers"`
	PublicRepos   int     `json:"publicRepos"`
	Contributions *int    `json:"contributions,omitempty"`
	TotalStars    *int    `json:"totalStars,omitempty"`
	TotalForks    *int    `json:"totalForks,omitempty"`
	HTMLURL       string  `json:"htmlUrl"`
	Rank          int     `json:"rank"`
}

type LeaderboardResponse struct {
	Page    int               `json:"page"`
	PerPage int               `json:"perPage"`
	Total   int               `json:"total"`
	HasNext bool              `json:"hasNext"`
	HasPrev bool              `json:"hasPrev"`
	Users   []LeaderboardUser `json:"users"`
}

type RankRequest struct {
	Usernames []string `json:"usernames"`
}

type RankedUser struct {
	Username    string  `json:"username"`
	Name        *string `json:"name"`
	AvatarURL   *string `json:"avatarUrl"`
	PublicRepos int     `json:"publicRepos"`
	Followers   int     `json:"followers"`
	TotalStars  int     `json:"totalStars"`
	TotalForks  int     `json:"totalForks"`
	PRCount     int     `json:"prCount"`
	IssueCount  int     `json:"issueCount"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
}

type RankResponse struct {
	Results []RankedUser `json:"results"`
}

type ErrorResponse struct {
	Error       string `json:"error"`
	RateLimited bool   `json:"rateLimited"`
}

type DepStatus struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type HealthResponse struct {
	Ok          bool                 `json:"ok"`
	TsISO       string               `json:"tsISO"`
	Service     string               `json:"service"`
	Version     string               `json:"version,omitempty"`
	Deps        []string             `json:"deps"`
	DepsStatus  map[string]DepStatus `json:"deps_status,omitempty"`
	DataMissing []string             `json:"data_missing"`
	Env         map[string]bool      `json:"env"`
}
