package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Release endpoints
const (
	ReleaseEndpoint    = "https://api.github.com/repos/czteam/czdownloader/releases/latest"
	ReleasePageURL     = "https://github.com/czteam/czdownloader/releases/latest"
	UpdateCheckTimeout = 10 * time.Second
)

// UpdateInfo is the outcome of an update check. Checked is false when the
// check could not be completed.
type UpdateInfo struct {
	Checked   bool
	Current   string
	Latest    string
	Available bool
	URL       string
}

type releaseJSON struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdate fetches the latest release from endpoint and compares it with
// current. Any failure is logged and reported as an unchecked result.
func CheckForUpdate(ctx context.Context, client *http.Client, endpoint, current string) UpdateInfo {
	info := UpdateInfo{Current: current}

	latest, url, err := fetchLatestRelease(ctx, client, endpoint)
	if err != nil {
		log.Printf("Update check failed: %v", err)
		return info
	}

	info.Checked = true
	info.Latest = latest
	info.URL = url
	info.Available = IsNewerVersion(latest, current)
	return info
}

func fetchLatestRelease(ctx context.Context, client *http.Client, endpoint string) (string, string, error) {
	if client == nil {
		client = &http.Client{Timeout: UpdateCheckTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var rel releaseJSON
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("failed to decode release: %w", err)
	}
	if !semver.IsValid(canonicalVersion(rel.TagName)) {
		return "", "", fmt.Errorf("invalid release tag %q", rel.TagName)
	}

	url := rel.HTMLURL
	if url == "" {
		url = ReleasePageURL
	}
	return strings.TrimPrefix(rel.TagName, "v"), url, nil
}

// IsNewerVersion reports whether latest is a higher semantic version than
// current. Invalid versions are never newer.
func IsNewerVersion(latest, current string) bool {
	l, c := canonicalVersion(latest), canonicalVersion(current)
	if !semver.IsValid(l) || !semver.IsValid(c) {
		return false
	}
	return semver.Compare(l, c) > 0
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
