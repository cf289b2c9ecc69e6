package github

import "time"

// @Description GitHub account summary
type User struct {
	Login       string  `json:"login"`
	Name        string  `json:"name"`
	AvatarURL   string  `json:"avatarUrl"`
	ProfileURL  string  `json:"profileUrl"`
	PublicRepos int     `json:"publicRepos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	Bio         *string `json:"bio"`
}

// @Description Recently updated repository
type Repo struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    *string   `json:"language"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

type Stats struct {
	TotalStars   int             `json:"totalStars"`
	TotalForks   int             `json:"totalForks"`
	TopLanguages []LanguageCount `json:"topLanguages"`
}

// Snapshot is the payload served by GET /api/github.
// @Description GitHub profile snapshot
type Snapshot struct {
	User      User      `json:"user"`
	Repos     []Repo    `json:"repos"`
	Stats     Stats     `json:"stats"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale,omitempty"`
}

// wire shapes from api.github.com
type apiUser struct {
	Login       string  `json:"login"`
	Name        string  `json:"name"`
	AvatarURL   string  `json:"avatar_url"`
	HTMLURL     string  `json:"html_url"`
	PublicRepos int     `json:"public_repos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	Bio         *string `json:"bio"`
}

type apiRepo struct {
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Language        *string   `json:"language"`
	UpdatedAt       time.Time `json:"updated_at"`
}
