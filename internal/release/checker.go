// Package release checks GitHub for a newer published version.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// githubRelease represents the minimal response from GitHub releases API.
type githubRelease struct {
	TagName string `json:"tag_name"`
}

// Checker queries the latest release of one repository.
type Checker struct {
	BaseURL string
	Owner   string
	Repo    string
	Client  *http.Client
}

// NewChecker creates a Checker against the public GitHub API.
func NewChecker(owner, repo string) *Checker {
	return &Checker{
		BaseURL: DefaultBaseURL,
		Owner:   owner,
		Repo:    repo,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Latest fetches the latest release tag.
// Returns the tag if newer than currentVersion, empty string if current.
func (c *Checker) Latest(ctx context.Context, currentVersion string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(c.BaseURL, "/"), c.Owner, c.Repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", nil
	}
	if isNewer(release.TagName, currentVersion) {
		return release.TagName, nil
	}
	return "", nil
}

// isNewer reports whether version a is greater than b. Versions compare
// numerically per dot-separated part; a dev or empty b is always older.
func isNewer(a, b string) bool {
	a = strings.TrimPrefix(a, "v")
	b = strings.TrimPrefix(b, "v")
	if b == "" || b == "dev" {
		return true
	}

	as, bs := versionParts(a), versionParts(b)
	for i := 0; i < max(len(as), len(bs)); i++ {
		var x, y int
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if x != y {
			return x > y
		}
	}
	return false
}

// versionParts splits "1.10.2-rc1" into [1 10 2]. Pre-release suffixes
// are ignored.
func versionParts(v string) []int {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	return parts
}
