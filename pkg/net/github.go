package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v83/github"
)

const gitHubScheme = "github://"

// gitHubBaseURL overrides the API endpoint, used in tests.
var gitHubBaseURL = ""

// GitHubSource points to a file in a GitHub repository:
// github://owner/repo/path/to/file.csv[@ref]
type GitHubSource struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

func (s *GitHubSource) String() string {
	v := gitHubScheme + s.Owner + "/" + s.Repo + "/" + s.Path
	if s.Ref != "" {
		v += "@" + s.Ref
	}
	return v
}

// IsGitHubSource reports whether source uses the github:// scheme.
func IsGitHubSource(source string) bool {
	return strings.HasPrefix(source, gitHubScheme)
}

// ParseGitHubSource parses a github://owner/repo/path[@ref] reference.
func ParseGitHubSource(source string) (*GitHubSource, error) {
	if !IsGitHubSource(source) {
		return nil, fmt.Errorf("not a GitHub source: %s", source)
	}
	v := strings.TrimPrefix(source, gitHubScheme)

	var ref string
	if i := strings.LastIndex(v, "@"); i >= 0 {
		v, ref = v[:i], v[i+1:]
		if ref == "" {
			return nil, fmt.Errorf("empty ref in GitHub source: %s", source)
		}
	}

	parts := strings.SplitN(v, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || strings.Trim(parts[2], "/") == "" {
		return nil, fmt.Errorf("invalid GitHub source, expected github://owner/repo/path[@ref]: %s", source)
	}

	return &GitHubSource{
		Owner: parts[0],
		Repo:  parts[1],
		Path:  strings.Trim(parts[2], "/"),
		Ref:   ref,
	}, nil
}

func openGitHub(ctx context.Context, src *GitHubSource, token string) (io.ReadCloser, error) {
	var hc *http.Client
	if token != "" {
		hc = GetOAuthClient(ctx, token)
	} else {
		var err error
		if hc, err = GetHTTPClient(); err != nil {
			return nil, fmt.Errorf("error creating HTTP client: %w", err)
		}
	}

	client := github.NewClient(hc)
	if gitHubBaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(gitHubBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}

	opts := &github.RepositoryContentGetOptions{Ref: src.Ref}
	rc, resp, err := client.Repositories.DownloadContents(ctx, src.Owner, src.Repo, src.Path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrorURLNotFound
		}
		return nil, fmt.Errorf("error downloading %s: %w", src, err)
	}
	return rc, nil
}
