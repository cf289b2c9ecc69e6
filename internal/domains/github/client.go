package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	repoCount    = 6
	topLanguages = 5
)

// Client talks to the GitHub REST API.
type Client struct {
	baseURL  string
	username string
	token    string
	http     *http.Client
}

func NewClient(baseURL, username, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		token:    token,
		http:     hc,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "Portfolio-Website")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	return nil
}

// Fetch pulls the profile and most recently updated repos and derives the
// aggregate stats.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	var user apiUser
	if err := c.get(ctx, "/users/"+url.PathEscape(c.username), nil, &user); err != nil {
		return nil, err
	}

	var repos []apiRepo
	q := url.Values{"sort": {"updated"}, "per_page": {fmt.Sprint(repoCount)}}
	if err := c.get(ctx, "/users/"+url.PathEscape(c.username)+"/repos", q, &repos); err != nil {
		return nil, err
	}

	return buildSnapshot(user, repos), nil
}

func buildSnapshot(user apiUser, repos []apiRepo) *Snapshot {
	snap := &Snapshot{
		User: User{
			Login:       user.Login,
			Name:        user.Name,
			AvatarURL:   user.AvatarURL,
			ProfileURL:  user.HTMLURL,
			PublicRepos: user.PublicRepos,
			Followers:   user.Followers,
			Following:   user.Following,
			Bio:         user.Bio,
		},
		Repos: make([]Repo, 0, len(repos)),
	}

	var order []string
	counts := map[string]int{}
	for _, r := range repos {
		snap.Repos = append(snap.Repos, Repo{
			Name:        r.Name,
			Description: r.Description,
			URL:         r.HTMLURL,
			Stars:       r.StargazersCount,
			Forks:       r.ForksCount,
			Language:    r.Language,
			UpdatedAt:   r.UpdatedAt,
		})
		snap.Stats.TotalStars += r.StargazersCount
		snap.Stats.TotalForks += r.ForksCount
		if r.Language != nil && *r.Language != "" {
			if counts[*r.Language] == 0 {
				order = append(order, *r.Language)
			}
			counts[*r.Language]++
		}
	}
	snap.Stats.TopLanguages = rankLanguages(order, counts, topLanguages)
	return snap
}

// rankLanguages sorts by count descending; ties keep first-seen order.
func rankLanguages(order []string, counts map[string]int, limit int) []LanguageCount {
	out := make([]LanguageCount, 0, len(order))
	for _, lang := range order {
		out = append(out, LanguageCount{Language: lang, Count: counts[lang]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
