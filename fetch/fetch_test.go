package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccollins476ad/imgfetch/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFetcher returns a fetcher whose output directory does not exist yet,
// so tests also exercise directory creation.
func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()

	f := New(filepath.Join(t.TempDir(), "out"), dedup.New())
	f.now = func() time.Time { return time.Unix(1700000000, 0) }
	return f
}

func imageServer(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSuccess(t *testing.T) {
	body := []byte("png-bytes")
	srv := imageServer(t, "image/png", body)
	f := newTestFetcher(t)

	out := f.Fetch(context.Background(), srv.URL+"/pics/photo.png")
	require.True(t, out.Success, out.Detail)
	assert.Equal(t, filepath.Join(f.DestDir(), "photo.png"), out.SavedPath)
	assert.Equal(t, len(body), out.SizeBytes)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, KindNone, out.Kind)

	saved, err := os.ReadFile(out.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, body, saved)
}

func TestFetchSynthesizedFilename(t *testing.T) {
	srv := imageServer(t, "image/png", []byte("png-bytes"))
	f := newTestFetcher(t)

	out := f.Fetch(context.Background(), srv.URL+"/")
	require.True(t, out.Success, out.Detail)
	assert.True(t, len(out.SavedPath) > 0)
	assert.Contains(t, filepath.Base(out.SavedPath), "_1700000000.png")
}

func TestFetchInvalidURL(t *testing.T) {
	f := newTestFetcher(t)
	f.hc = nil // Any network use would panic; validation must come first.

	out := f.Fetch(context.Background(), "ftp://example.com/img.png")
	require.False(t, out.Success)
	assert.Equal(t, KindInvalidURL, out.Kind)
	assert.NotEmpty(t, out.Detail)
}

func TestFetchConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()

	f := newTestFetcher(t)
	out := f.Fetch(context.Background(), u+"/img.png")
	require.False(t, out.Success)
	assert.Equal(t, KindConnection, out.Kind)
}

func TestFetchTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	t.Cleanup(func() {
		close(blocked)
		srv.Close()
	})

	f := newTestFetcher(t)
	f.timeout = 50 * time.Millisecond

	out := f.Fetch(context.Background(), srv.URL+"/slow.png")
	require.False(t, out.Success)
	assert.Equal(t, KindTimeout, out.Kind)
}

func TestFetchPermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks don't apply to root")
	}

	srv := imageServer(t, "image/png", []byte("png-bytes"))

	// The destination directory can't be created inside a read-only parent.
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0500))
	t.Cleanup(func() { os.Chmod(parent, 0755) })

	f := New(filepath.Join(parent, "out"), dedup.New())
	out := f.Fetch(context.Background(), srv.URL+"/img.png")
	require.False(t, out.Success)
	assert.Equal(t, KindFilesystem, out.Kind)
	assert.Contains(t, out.Detail, "permission denied")
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t)
	out := f.Fetch(context.Background(), srv.URL+"/img.png")
	require.False(t, out.Success)
	assert.Equal(t, KindHTTPStatus, out.Kind)
	assert.Equal(t, http.StatusNotFound, out.Status)
}

func TestFetchNotAnImage(t *testing.T) {
	srv := imageServer(t, "text/html", []byte("<html></html>"))
	f := newTestFetcher(t)

	out := f.Fetch(context.Background(), srv.URL+"/page.html")
	require.False(t, out.Success)
	assert.Equal(t, KindNotAnImage, out.Kind)
	assert.Contains(t, out.Detail, "text/html")

	// The advisory content-type warning still made it into the outcome.
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "text/html")

	// Nothing was written; the output directory was never even created.
	entries, _ := os.ReadDir(f.DestDir())
	assert.Empty(t, entries)
}

func TestFetchDuplicate(t *testing.T) {
	srv := imageServer(t, "image/png", []byte("same-bytes"))
	f := newTestFetcher(t)
	u := srv.URL + "/img.png"

	first := f.Fetch(context.Background(), u)
	require.True(t, first.Success, first.Detail)

	second := f.Fetch(context.Background(), u)
	require.False(t, second.Success)
	assert.Equal(t, KindDuplicate, second.Kind)

	entries, err := os.ReadDir(f.DestDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFetchSeededDuplicate(t *testing.T) {
	body := []byte("previously-saved")
	srv := imageServer(t, "image/png", body)

	f := newTestFetcher(t)
	f.index.Seed(body)

	out := f.Fetch(context.Background(), srv.URL+"/img.png")
	require.False(t, out.Success)
	assert.Equal(t, KindDuplicate, out.Kind)
}

func TestFetchNameCollision(t *testing.T) {
	// Same path, different content each time: the second save must not
	// overwrite the first.
	bodies := [][]byte{[]byte("first-bytes"), []byte("second-bytes")}
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(bodies[calls])
		calls++
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t)
	u := srv.URL + "/img.png"

	first := f.Fetch(context.Background(), u)
	require.True(t, first.Success, first.Detail)
	assert.Equal(t, "img.png", filepath.Base(first.SavedPath))

	second := f.Fetch(context.Background(), u)
	require.True(t, second.Success, second.Detail)
	assert.Equal(t, "img_1.png", filepath.Base(second.SavedPath))

	saved, err := os.ReadFile(first.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, bodies[0], saved)
}

func TestFetchLargeFileWarning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", "62914560") // 60MB
		w.Write(make([]byte, 62914560))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t)
	out := f.Fetch(context.Background(), srv.URL+"/big.png")
	require.True(t, out.Success, out.Detail)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "60.0MB")
}
