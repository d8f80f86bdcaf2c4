package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/ctf-writeups/internal/config"
	"github.com/taigrr/ctf-writeups/internal/pathfilter"
	"github.com/taigrr/ctf-writeups/internal/types"
)

const rootListing = `[
  {"name": "htb", "path": "htb", "sha": "a1", "size": 0, "url": "u", "html_url": "h", "git_url": "g", "download_url": null, "type": "dir"},
  {"name": "LICENSE", "path": "LICENSE", "sha": "a2", "size": 1067, "url": "u", "html_url": "h", "git_url": "g", "download_url": "https://raw.example/LICENSE", "type": "file"},
  {"name": "README.md", "path": "README.md", "sha": "a3", "size": 120, "url": "u", "html_url": "h", "git_url": "g", "download_url": "https://raw.example/README.md", "type": "file"}
]`

const singleFile = `{"name": "lame.md", "path": "htb/lame.md", "sha": "b1", "size": 42, "url": "u", "html_url": "h", "git_url": "g", "download_url": "https://raw.example/htb/lame.md", "type": "file", "content": "IyBMYW1l", "encoding": "base64"}`

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo := config.Repository{
		Owner:      "octo",
		Repo:       "ctf",
		Branch:     "main",
		APIBaseURL: server.URL,
		RawBaseURL: server.URL + "/raw",
	}
	return New(repo, opts...)
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestListDirectory_Root(t *testing.T) {
	var gotPath, gotUA, gotAccept string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		jsonHandler(rootListing)(w, r)
	}))

	entries, err := client.ListDirectory(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "/repos/octo/ctf/contents/", gotPath)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, acceptContents, gotAccept)

	assert.Equal(t, "htb", entries[0].Name)
	assert.Equal(t, types.EntryDirectory, entries[0].Type)
	assert.Nil(t, entries[0].DownloadURL)
	assert.Equal(t, int64(1067), entries[1].Size)
	require.NotNil(t, entries[1].DownloadURL)
	assert.Equal(t, "https://raw.example/LICENSE", *entries[1].DownloadURL)
}

func TestListDirectory_SingleFileBecomesSlice(t *testing.T) {
	client := newTestClient(t, jsonHandler(singleFile))

	entries, err := client.ListDirectory(context.Background(), "htb/lame.md")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "htb/lame.md", entries[0].Path)
	assert.Equal(t, types.EntryFile, entries[0].Type)
}

func TestListDirectory_DirectoryDropsDownloadURL(t *testing.T) {
	client := newTestClient(t, jsonHandler(`[{"name":"x","path":"x","type":"dir","download_url":"https://raw.example/x"}]`))

	entries, err := client.ListDirectory(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].DownloadURL)
}

func TestListDirectory_NotFoundIsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))

	entries, err := client.ListDirectory(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestListDirectory_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListDirectory(context.Background(), "htb")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Equal(t, "Internal Server Error", remoteErr.Status)
	assert.Equal(t, OpList, remoteErr.Op)
	assert.Equal(t, "GitHub API error: 500 Internal Server Error", err.Error())
	assert.False(t, IsNotFound(err))
}

func TestListDirectory_RateLimitedIsPlainRemoteError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.ListDirectory(context.Background(), "")
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusForbidden, remoteErr.StatusCode)
}

func TestListDirectory_MalformedJSON(t *testing.T) {
	client := newTestClient(t, jsonHandler(`{not json`))

	_, err := client.ListDirectory(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode listing")
}

func TestListPlatformsAndWriteups_Filtering(t *testing.T) {
	listing := `[
  {"name": "htb", "path": "htb", "type": "dir"},
  {"name": "notes.txt", "path": "notes.txt", "type": "file", "download_url": "x"},
  {"name": "lame.md", "path": "lame.md", "type": "file", "download_url": "y"}
]`
	client := newTestClient(t, jsonHandler(listing))
	ctx := context.Background()

	platforms, err := client.ListPlatforms(ctx)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, "htb", platforms[0].Name)

	writeups, err := client.ListWriteups(ctx, "anything")
	require.NoError(t, err)
	require.Len(t, writeups, 1)
	assert.Equal(t, "lame.md", writeups[0].Name)
}

func TestListWriteups_RequestsPlatformPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		jsonHandler(`[]`)(w, r)
	}))

	writeups, err := client.ListWriteups(context.Background(), "try hack me")
	require.NoError(t, err)
	assert.Empty(t, writeups)
	assert.Equal(t, "/repos/octo/ctf/contents/try%20hack%20me", gotPath)
}

func TestListWriteups_MissingPlatformIsEmpty(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	writeups, err := client.ListWriteups(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, writeups)
}

func TestListWriteups_IgnoredPatterns(t *testing.T) {
	listing := `[
  {"name": "README.md", "path": "htb/README.md", "type": "file"},
  {"name": "lame.md", "path": "htb/lame.md", "type": "file"}
]`
	pf := pathfilter.New(&types.PathFilterConfig{IgnoredPatterns: []string{"*/README.md"}})
	client := newTestClient(t, jsonHandler(listing), WithPathFilter(pf))

	writeups, err := client.ListWriteups(context.Background(), "htb")
	require.NoError(t, err)
	require.Len(t, writeups, 1)
	assert.Equal(t, "lame.md", writeups[0].Name)
}

func TestFetchFileBytes(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("# Lame\n\nbody"))
	}))

	content, err := client.FetchFileBytes(context.Background(), "htb/lame.md")
	require.NoError(t, err)
	assert.Equal(t, "# Lame\n\nbody", content)
	assert.Equal(t, "/raw/octo/ctf/main/htb/lame.md", gotPath)
}

func TestFetchFileBytes_NotFoundIsError(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.FetchFileBytes(context.Background(), "htb/missing.md")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, OpFetch, remoteErr.Op)
	assert.Equal(t, "failed to fetch file: 404 Not Found", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestFetchWriteup_AppendsExtension(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("content"))
	}))

	content, err := client.FetchWriteup(context.Background(), "htb", "lame")
	require.NoError(t, err)
	assert.Equal(t, "content", content)
	assert.Equal(t, "/raw/octo/ctf/main/htb/lame.md", gotPath)
}

func TestFetchWriteup_TriesAllowedExtensions(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path != "/raw/octo/ctf/main/htb/blue.markdown" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# Blue"))
	}), WithPathFilter(pathfilter.New(&types.PathFilterConfig{
		AllowedExtensions: []string{".md", ".markdown"},
	})))

	content, err := client.FetchWriteup(context.Background(), "htb", "blue")
	require.NoError(t, err)
	assert.Equal(t, "# Blue", content)
	assert.Equal(t, []string{
		"/raw/octo/ctf/main/htb/blue.md",
		"/raw/octo/ctf/main/htb/blue.markdown",
	}, paths)
}

func TestFetchWriteup_MissingUnderEveryExtension(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), WithPathFilter(pathfilter.New(&types.PathFilterConfig{
		AllowedExtensions: []string{".md", ".markdown"},
	})))

	_, err := client.FetchWriteup(context.Background(), "htb", "ghost")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestFetchWriteup_StopsOnServerError(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), WithPathFilter(pathfilter.New(&types.PathFilterConfig{
		AllowedExtensions: []string{".md", ".markdown"},
	})))

	_, err := client.FetchWriteup(context.Background(), "htb", "lame")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_CachesSuccessfulResponses(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		jsonHandler(rootListing)(w, r)
	}))
	ctx := context.Background()

	for range 3 {
		_, err := client.ListPlatforms(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, client.cache.size())
}

func TestClient_CacheExpires(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("body"))
	}), WithCacheTTL(time.Hour))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client.cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := client.FetchFileBytes(ctx, "a.md")
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = client.FetchFileBytes(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	now = now.Add(2 * time.Minute)
	_, err = client.FetchFileBytes(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	ctx := context.Background()

	_, err := client.FetchFileBytes(ctx, "a.md")
	require.Error(t, err)

	content, err := client.FetchFileBytes(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "recovered", content)
}

func TestClient_ZeroTTLDisablesCache(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("body"))
	}), WithCacheTTL(0))

	for range 2 {
		_, err := client.FetchFileBytes(context.Background(), "a.md")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_ContextCanceled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchFileBytes(ctx, "a.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := client.ListDirectory(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request to")
}

func TestRemoteError_Messages(t *testing.T) {
	tests := []struct {
		err  *RemoteError
		want string
	}{
		{&RemoteError{Op: OpList, StatusCode: 502, Status: "Bad Gateway"}, "GitHub API error: 502 Bad Gateway"},
		{&RemoteError{Op: OpFetch, StatusCode: 403, Status: "Forbidden"}, "failed to fetch file: 403 Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	wrapped := fmt.Errorf("loading page: %w", &RemoteError{Op: OpFetch, StatusCode: http.StatusNotFound})
	assert.True(t, IsNotFound(wrapped))
}
