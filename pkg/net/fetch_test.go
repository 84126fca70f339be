package net

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "review_score,review_comment_message\n5,bom\n1,ruim\n"

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOpen_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reviews.csv":
			assert.Equal(t, clientAgent, r.Header.Get("User-Agent"))
			fmt.Fprint(w, testCSV)
		case "/broken.csv":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	rc, err := Open(ctx, srv.URL+"/reviews.csv", "")
	require.NoError(t, err)
	assert.Equal(t, testCSV, readAll(t, rc))

	_, err = Open(ctx, srv.URL+"/missing.csv", "")
	assert.ErrorIs(t, err, ErrorURLNotFound)

	_, err = Open(ctx, srv.URL+"/broken.csv", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOpen_URLCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testCSV)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, srv.URL, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0600))

	rc, err := Open(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, testCSV, readAll(t, rc))

	_, err = Open(context.Background(), path+".missing", "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(context.Background(), "", "")
	assert.Error(t, err)
}

func TestParseGitHubSource(t *testing.T) {
	src, err := ParseGitHubSource("github://Jessicamsza/reviews/data/olist.csv@main")
	require.NoError(t, err)
	assert.Equal(t, &GitHubSource{Owner: "Jessicamsza", Repo: "reviews", Path: "data/olist.csv", Ref: "main"}, src)
	assert.Equal(t, "github://Jessicamsza/reviews/data/olist.csv@main", src.String())

	src, err = ParseGitHubSource("github://o/r/file.csv")
	require.NoError(t, err)
	assert.Empty(t, src.Ref)

	for _, bad := range []string{
		"https://github.com/o/r",
		"github://o/r",
		"github://o//file.csv",
		"github://o/r/",
		"github://o/r/file.csv@",
	} {
		_, err := ParseGitHubSource(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsGitHubHost(t *testing.T) {
	assert.True(t, isGitHubHost("github.com"))
	assert.True(t, isGitHubHost("raw.githubusercontent.com"))
	assert.False(t, isGitHubHost("example.com"))
	assert.False(t, isGitHubHost("notgithub.com"))
}

func TestOpen_GitHub(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/o/r/contents/data/reviews.csv":
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			fmt.Fprintf(w, `{"type":"file","name":"reviews.csv","path":"data/reviews.csv","encoding":"base64","content":%q,"download_url":"%s/raw/reviews.csv"}`,
				base64.StdEncoding.EncodeToString([]byte(testCSV)), srvURL)
		case "/repos/o/r/contents/data":
			fmt.Fprintf(w, `[{"type":"file","name":"reviews.csv","path":"data/reviews.csv","download_url":"%s/raw/reviews.csv"}]`, srvURL)
		case "/raw/reviews.csv":
			w.Header().Set("Content-Type", "text/csv")
			fmt.Fprint(w, testCSV)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	gitHubBaseURL = srv.URL
	t.Cleanup(func() { gitHubBaseURL = "" })

	rc, err := Open(context.Background(), "github://o/r/data/reviews.csv@main", "test-token")
	require.NoError(t, err)
	assert.Equal(t, testCSV, readAll(t, rc))
}
