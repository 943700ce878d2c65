// ABOUTME: Multi-source README resolution with branch and filename fallback
// ABOUTME: Tries the repository content API first, then raw-content candidates in order

package readme

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound is returned when every resolution candidate has been exhausted.
var ErrNotFound = errors.New("readme not found")

// Fallback candidates, tried in order: every filename on main, then on master.
var (
	candidateBranches  = []string{"main", "master"}
	candidateFilenames = []string{"README.md", "Readme.md", "readme.md", "README.MD", "README"}
)

// maxReadmeBytes caps how much raw content is read from any source.
const maxReadmeBytes = 2 << 20 // 2 MiB

// Resolved is the outcome of a successful resolution: the raw markdown and
// the base URL for resolving relative image/asset links in it.
type Resolved struct {
	Content      string
	AssetBaseURL string
}

// Resolver locates README content for an owner/repo pair. A per-candidate
// timeout bounds every outbound fetch; a timed-out candidate is skipped, not
// fatal.
type Resolver struct {
	apiBase    string
	rawBase    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewResolver creates a resolver against the public GitHub endpoints.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		apiBase:    "https://api.github.com",
		rawBase:    "https://raw.githubusercontent.com",
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "readme"),
	}
}

// contentAPIResponse is the subset of the content API payload we consume.
type contentAPIResponse struct {
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	DownloadURL string `json:"download_url"`
}

// Resolve walks the resolution order: the content API for the default README,
// then raw fetches across branch and filename candidates. The first source
// that yields non-empty content wins.
func (r *Resolver) Resolve(ctx context.Context, owner, repo string) (*Resolved, error) {
	if resolved := r.tryContentAPI(ctx, owner, repo); resolved != nil {
		return resolved, nil
	}

	for _, branch := range candidateBranches {
		for _, filename := range candidateFilenames {
			url := fmt.Sprintf("%s/%s/%s/%s/%s", r.rawBase, owner, repo, branch, filename)
			content, ok := r.fetchText(ctx, url)
			if !ok {
				continue
			}
			return &Resolved{
				Content:      content,
				AssetBaseURL: baseURLOf(url),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, repo)
}

// tryContentAPI queries the repository content API for the default README.
// Inline base64 content is decoded; otherwise the download pointer is fetched.
// Returns nil when this source yields nothing usable.
func (r *Resolver) tryContentAPI(ctx context.Context, owner, repo string) *Resolved {
	url := fmt.Sprintf("%s/repos/%s/%s/readme", r.apiBase, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("content API unreachable", "repo", owner+"/"+repo, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var data contentAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReadmeBytes)).Decode(&data); err != nil {
		r.logger.Debug("content API payload not decodable", "repo", owner+"/"+repo, "error", err)
		return nil
	}

	var content string
	if data.Encoding == "base64" && data.Content != "" {
		// The API wraps base64 lines; strip whitespace before decoding.
		cleaned := strings.Map(func(c rune) rune {
			if c == '\n' || c == '\r' || c == ' ' {
				return -1
			}
			return c
		}, data.Content)
		if decoded, err := base64.StdEncoding.DecodeString(cleaned); err == nil {
			content = string(decoded)
		}
	} else if data.Content != "" {
		content = data.Content
	}

	if content == "" && data.DownloadURL != "" {
		content, _ = r.fetchText(ctx, data.DownloadURL)
	}

	if content == "" {
		return nil
	}

	resolved := &Resolved{Content: content}
	if data.DownloadURL != "" {
		resolved.AssetBaseURL = baseURLOf(data.DownloadURL)
	}
	return resolved
}

// fetchText GETs a raw content URL, returning ok=false for any failure so the
// caller moves on to the next candidate.
func (r *Resolver) fetchText(ctx context.Context, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("candidate fetch failed", "url", url, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil || len(body) == 0 {
		return "", false
	}
	return string(body), true
}

// baseURLOf truncates a content URL just past its last slash, yielding the
// directory URL relative asset links resolve against.
func baseURLOf(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 {
		return ""
	}
	return url[:idx+1]
}

// SplitRepoPath extracts the trailing owner/repo pair from a repository URL
// or path. Returns ok=false when fewer than two segments are present.
func SplitRepoPath(repoURL string) (owner, repo string, ok bool) {
	trimmed := repoURL
	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		trimmed = trimmed[idx+3:]
	}

	segments := make([]string, 0, 4)
	for _, s := range strings.Split(trimmed, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", "", false
	}

	return segments[len(segments)-2], segments[len(segments)-1], true
}
