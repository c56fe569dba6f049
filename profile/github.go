package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/user/devconnect-go/apperror"
)

// Repo is the subset of a GitHub repository record exposed to clients.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description,omitempty"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// GithubClient fetches a user's latest public repositories from the GitHub
// API. The base URL is injectable for tests.
type GithubClient struct {
	http    *http.Client
	baseURL string
}

// NewGithubClient creates a GithubClient against the public GitHub API.
func NewGithubClient() *GithubClient {
	return &GithubClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.github.com",
	}
}

// NewGithubClientWithBase creates a GithubClient against an arbitrary base
// URL. Used by tests to point at a stub server.
func NewGithubClientWithBase(client *http.Client, baseURL string) *GithubClient {
	return &GithubClient{http: client, baseURL: baseURL}
}

// LatestRepos returns the user's five most recently created public repos.
// Every upstream failure reads as "no github profile found": an unknown
// username and a rate-limited request are indistinguishable to the caller.
func (c *GithubClient) LatestRepos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewInternalError("failed to build github request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewNotFoundError("no github profile found", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewNotFoundError("no github profile found", nil)
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, apperror.NewInternalError("failed to decode github response", err)
	}
	return repos, nil
}
