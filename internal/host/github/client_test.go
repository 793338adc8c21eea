package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestFetchRelease(t *testing.T) {
	var (
		mu             sync.Mutex
		gotAuth, gotUA string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/app/releases/latest":
			mu.Lock()
			gotAuth = r.Header.Get("Authorization")
			gotUA = r.Header.Get("User-Agent")
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"tag_name":"v1.2.0","name":"1.2.0","assets":[{"name":"app-arm64-v8a.apk","browser_download_url":"http://x/a","size":42}]}`))
		case "/repos/owner/app/releases/tags/v0.9.0":
			_, _ = w.Write([]byte(`{"tag_name":"v0.9.0","assets":[]}`))
		case "/repos/owner/broken/releases/latest":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("rate limited"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", UserAgent("test"))
	c.Token = "secret"

	rel, err := c.FetchRelease(context.Background(), "owner/app", "")
	if err != nil {
		t.Fatalf("FetchRelease latest: %v", err)
	}
	if rel.TagName != "v1.2.0" || len(rel.Assets) != 1 || rel.Assets[0].Size != 42 {
		t.Fatalf("unexpected release: %+v", rel)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization header: got %q", gotAuth)
	}
	if gotUA != "repostore/test" {
		t.Fatalf("user agent: got %q", gotUA)
	}

	rel, err = c.FetchRelease(context.Background(), "owner/app", "v0.9.0")
	if err != nil {
		t.Fatalf("FetchRelease tag: %v", err)
	}
	if rel.TagName != "v0.9.0" {
		t.Fatalf("tag: got %q", rel.TagName)
	}

	_, err = c.FetchRelease(context.Background(), "owner/missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = c.FetchRelease(context.Background(), "owner/broken", "")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/asset" {
			_, _ = w.Write([]byte("apk-bytes"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, UserAgent("test"))
	dest := filepath.Join(t.TempDir(), "app.apk")

	n, err := c.Download(context.Background(), ts.URL+"/asset", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len("apk-bytes")) {
		t.Fatalf("bytes: got %d", n)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "apk-bytes" {
		t.Fatalf("content: got %q", data)
	}

	if _, err := c.Download(context.Background(), ts.URL+"/missing", dest+".2"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestTokenFromEnv(t *testing.T) {
	t.Setenv("REPOSTORE_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", " gh ")
	if got := TokenFromEnv(); got != "gh" {
		t.Fatalf("fallback token: got %q", got)
	}
	t.Setenv("REPOSTORE_GITHUB_TOKEN", "rs")
	if got := TokenFromEnv(); got != "rs" {
		t.Fatalf("preferred token: got %q", got)
	}
}

func TestNewClientDefaultsAPIBase(t *testing.T) {
	t.Parallel()

	if c := NewClient("  ", "ua"); c.APIBase != DefaultAPIBase {
		t.Fatalf("APIBase: got %q", c.APIBase)
	}
}

func TestTokenOnlySentToTrustedHosts(t *testing.T) {
	t.Parallel()

	c := NewClient("https://ghe.example.com/api/v3", "ua")
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/owner/app/releases/download/v1/app.apk", true},
		{"https://api.github.com/repos/owner/app/releases/latest", true},
		{"https://objects.GitHub.com/asset", true},
		{"https://ghe.example.com/api/v3/repos/owner/app/releases/latest", true},
		{"https://ghe.example.com/owner/app/releases/download/v1/app.apk", true},
		{"http://ghe.example.com/api/v3/repos", false},
		{"https://evil.example/?github.com", false},
		{"https://github.com.evil.example/app.apk", false},
		{"https://notgithub.com/app.apk", false},
		{"https://ghe.example.com.evil.example/api/v3", false},
	}

	for _, tc := range tests {
		u, err := url.Parse(tc.url)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.url, err)
		}
		if got := c.trustedHost(u); got != tc.want {
			t.Fatalf("trustedHost(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestDownloadDoesNotLeakTokenToOtherHosts(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotAuth = "unset"
	)
	assets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()
		_, _ = w.Write([]byte("apk"))
	}))
	defer assets.Close()
	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	c := NewClient(api.URL, "ua")
	c.Token = "secret"
	if _, err := c.Download(context.Background(), assets.URL+"/app.apk?mirror=github.com", filepath.Join(t.TempDir(), "app.apk")); err != nil {
		t.Fatalf("Download: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "" {
		t.Fatalf("token sent to foreign host: %q", gotAuth)
	}
}
