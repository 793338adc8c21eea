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
	"strings"
	"time"

	"github.com/3leaps/repostore/internal/model"
)

const (
	DefaultAPIBase = "https://api.github.com"

	maxErrorBody = 2048
)

// ErrNotFound is returned when the repository or release does not exist.
var ErrNotFound = errors.New("release not found")

func TokenFromEnv() string {
	if tok := strings.TrimSpace(os.Getenv("REPOSTORE_GITHUB_TOKEN")); tok != "" {
		return tok
	}
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

func UserAgent(version string) string {
	return fmt.Sprintf("repostore/%s", version)
}

// Client talks to the GitHub REST API.
type Client struct {
	APIBase   string
	UserAgent string
	Token     string
	HTTP      *http.Client
}

// NewClient returns a Client for apiBase (DefaultAPIBase when empty) using
// the token from the environment.
func NewClient(apiBase, userAgent string) *Client {
	base := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if base == "" {
		base = DefaultAPIBase
	}
	return &Client{
		APIBase:   base,
		UserAgent: userAgent,
		Token:     TokenFromEnv(),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Get issues an authenticated GET. The token is only sent to GitHub hosts and
// to the configured API base.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.Token != "" && c.trustedHost(req.URL) {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTP.Do(req)
}

// trustedHost reports whether u points at github.com, one of its subdomains,
// or the host of the configured API base.
func (c *Client) trustedHost(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host == "github.com" || strings.HasSuffix(host, ".github.com") {
		return true
	}
	base, err := url.Parse(c.APIBase)
	if err != nil || base.Host == "" {
		return false
	}
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// FetchRelease loads a release of repo ("owner/name"). An empty tag means the
// latest release.
func (c *Client) FetchRelease(ctx context.Context, repo, tag string) (*model.Release, error) {
	releaseID := "latest"
	if tag != "" {
		releaseID = "tags/" + tag
	}
	endpoint := fmt.Sprintf("%s/repos/%s/releases/%s", c.APIBase, repo, releaseID)

	resp, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s@%s: %w", repo, releaseID, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("API request failed %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rel model.Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &rel, nil
}

// Download writes the body of rawURL to path.
func (c *Client) Download(ctx context.Context, rawURL, path string) (int64, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, fmt.Errorf("status %d from %s: %s", resp.StatusCode, rawURL, string(body))
	}

	// #nosec G304 -- path caller controlled
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
