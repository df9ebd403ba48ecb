package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/muurk/ghsync/internal/store"
)

const (
	// DefaultBaseURL is the GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// PerPage is the page size used for paginated endpoints.
	PerPage = 100

	// TokenEnvVar names the environment variable holding an optional
	// GitHub token. Unauthenticated requests work but are rate-limited
	// much more aggressively.
	TokenEnvVar = "GITHUB_TOKEN"

	apiVersion = "2022-11-28"
	userAgent  = "ghsync/1.0"
)

// ErrNotFound is returned when GitHub reports that a user does not exist.
var ErrNotFound = errors.New("user not found on GitHub")

// Client is a minimal GitHub REST API client covering the three endpoints
// ghsync needs: user lookup, owned repos, and followers.
type Client struct {
	// BaseURL is the API root (overridable for tests and GHE).
	BaseURL string

	// Token is the bearer token, if any.
	Token string

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client
}

// NewClient creates a client against the public GitHub API, picking up an
// optional token from the GITHUB_TOKEN environment variable.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      os.Getenv(TokenEnvVar),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// apiUser is the wire shape of a GitHub user object.
type apiUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	HTMLURL   string `json:"html_url"`
	Type      string `json:"type"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// apiRepo is the wire shape of a GitHub repository object.
type apiRepo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	HTMLURL       string `json:"html_url"`
	Description   string `json:"description"`
	Language      string `json:"language"`
	ForksCount    int    `json:"forks_count"`
	StarsCount    int    `json:"stargazers_count"`
	WatchersCount int    `json:"watchers_count"`
	OpenIssues    int    `json:"open_issues_count"`
	Fork          bool   `json:"fork"`
	DefaultBranch string `json:"default_branch"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	PushedAt      string `json:"pushed_at"`
}

// User fetches a user by login. Returns ErrNotFound for unknown logins.
func (c *Client) User(ctx context.Context, login string) (*store.User, error) {
	var u apiUser
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(login), nil, &u); err != nil {
		return nil, err
	}
	return &store.User{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.Name,
		HTMLURL:   u.HTMLURL,
		Type:      u.Type,
		Company:   u.Company,
		Location:  u.Location,
		CreatedAt: parseTime(u.CreatedAt),
		UpdatedAt: parseTime(u.UpdatedAt),
	}, nil
}

// Repos fetches all repositories owned by login, following pagination.
func (c *Client) Repos(ctx context.Context, login string) ([]store.Repo, error) {
	params := url.Values{"type": {"owner"}, "sort": {"full_name"}}

	var repos []store.Repo
	err := c.paginate(ctx, "/users/"+url.PathEscape(login)+"/repos", params, func(data []byte) (int, error) {
		var page []apiRepo
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, err
		}
		for _, r := range page {
			repos = append(repos, store.Repo{
				ID:            r.ID,
				Name:          r.Name,
				FullName:      r.FullName,
				Private:       r.Private,
				HTMLURL:       r.HTMLURL,
				Description:   r.Description,
				Language:      r.Language,
				ForksCount:    r.ForksCount,
				StarsCount:    r.StarsCount,
				WatchersCount: r.WatchersCount,
				OpenIssues:    r.OpenIssues,
				Fork:          r.Fork,
				DefaultBranch: r.DefaultBranch,
				CreatedAt:     parseTime(r.CreatedAt),
				UpdatedAt:     parseTime(r.UpdatedAt),
				PushedAt:      parseTime(r.PushedAt),
			})
		}
		return len(page), nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// Followers fetches all followers of login, following pagination.
func (c *Client) Followers(ctx context.Context, login string) ([]store.Follower, error) {
	var followers []store.Follower
	err := c.paginate(ctx, "/users/"+url.PathEscape(login)+"/followers", nil, func(data []byte) (int, error) {
		var page []apiUser
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, err
		}
		for _, f := range page {
			followers = append(followers, store.Follower{
				ID:      f.ID,
				Login:   f.Login,
				HTMLURL: f.HTMLURL,
			})
		}
		return len(page), nil
	})
	if err != nil {
		return nil, err
	}
	return followers, nil
}

// paginate fetches path page by page until a short or empty page, handing
// each raw page body to consume, which reports how many items it held.
func (c *Client) paginate(ctx context.Context, path string, params url.Values, consume func([]byte) (int, error)) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("per_page", strconv.Itoa(PerPage))

	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))

		data, err := c.get(ctx, path, params)
		if err != nil {
			return err
		}

		n, err := consume(data)
		if err != nil {
			return fmt.Errorf("failed to decode page %d of %s: %w", page, path, err)
		}
		if n < PerPage {
			return nil
		}
	}
}

// getJSON performs a GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	data, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// get performs a single GET request with the standard GitHub headers.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	return data, nil
}

// parseTime converts a GitHub ISO8601 timestamp to a time.Time. Missing or
// malformed values become the zero time (stored as NULL).
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
