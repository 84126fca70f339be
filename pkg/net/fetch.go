package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
)

var ErrorURLNotFound = errors.New("URL not found")

// IsURL reports whether source is an http(s) URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open returns a reader for source: an http(s) URL, a github:// reference
// or a local file path. The token, when set, authenticates GitHub requests.
// Callers must close the reader.
func Open(ctx context.Context, source, token string) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, errors.New("source required")
	case IsGitHubSource(source):
		src, err := ParseGitHubSource(source)
		if err != nil {
			return nil, err
		}
		return openGitHub(ctx, src, token)
	case IsURL(source):
		return openURL(ctx, source, token)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("error opening file %s: %w", source, err)
		}
		return f, nil
	}
}

func openURL(ctx context.Context, source, token string) (io.ReadCloser, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", source, err)
	}

	var c *http.Client
	if token != "" && isGitHubHost(u.Hostname()) {
		c = GetOAuthClient(ctx, token)
	} else {
		if c, err = GetHTTPClient(); err != nil {
			return nil, fmt.Errorf("error creating HTTP client: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	req.Header.Set("User-Agent", clientAgent)

	slog.Debug("fetching", "url", source)
	resp, err := c.Do(req) //nolint:gosec // URL comes from local config
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", source, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrorURLNotFound
	}

	if resp.StatusCode != http.StatusOK {
		PrintHTTPResponse(resp)
		resp.Body.Close()
		return nil, fmt.Errorf("error downloading file (status: %d - %s): %s", resp.StatusCode, resp.Status, source)
	}

	return resp.Body, nil
}

func isGitHubHost(host string) bool {
	return host == "github.com" || host == "githubusercontent.com" ||
		strings.HasSuffix(host, ".github.com") || strings.HasSuffix(host, ".githubusercontent.com")
}
