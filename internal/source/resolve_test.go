package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveLocal(t *testing.T) {
	r := NewResolver(time.Second, S3Options{})

	l, err := r.Resolve(context.Background(), "docs/a.pdf")
	require.NoError(t, err)
	require.Equal(t, "docs/a.pdf", l.Path)
	require.False(t, l.Remote)
	require.NoError(t, l.Close())

	l, err = r.Resolve(context.Background(), "file:///tmp/b.pdf")
	require.NoError(t, err)
	require.Equal(t, "/tmp/b.pdf", l.Path)
	require.Equal(t, "b.pdf", l.Name())
}

func TestResolveHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/report.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4\n"))
	}))
	defer srv.Close()

	r := NewResolver(5*time.Second, S3Options{})
	r.TempDir = t.TempDir()

	l, err := r.Resolve(context.Background(), srv.URL+"/files/report.pdf?v=2")
	require.NoError(t, err)
	require.True(t, l.Remote)
	require.Equal(t, "report.pdf", l.Name())
	data, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4\n", string(data))

	require.NoError(t, l.Close())
	_, err = os.Stat(l.Path)
	require.True(t, os.IsNotExist(err))
}

func TestResolveHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewResolver(5*time.Second, S3Options{})
	r.TempDir = t.TempDir()
	_, err := r.Resolve(context.Background(), srv.URL+"/x.pdf")
	require.ErrorContains(t, err, "http 403")

	entries, err := os.ReadDir(r.TempDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestParseS3URL(t *testing.T) {
	b, k, err := ParseS3URL("s3://docs/2024/q1/report.pdf")
	require.NoError(t, err)
	require.Equal(t, "docs", b)
	require.Equal(t, "2024/q1/report.pdf", k)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := ParseS3URL(bad)
		require.Error(t, err, bad)
	}
}

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("https://x/y.pdf"))
	require.True(t, IsRemote("s3://b/k.pdf"))
	require.False(t, IsRemote("file:///a.pdf"))
	require.False(t, IsRemote("./a.pdf"))
}

func TestCleanupTemps(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"pdfdl-1.pdf", "s3pdf-2.pdf", "pdfdec-3.pdf", "keep.pdf", "pdfdl-4.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, nil, 0o644))
		require.NoError(t, os.Chtimes(p, old, old))
	}
	fresh := filepath.Join(dir, "pdfdl-fresh.pdf")
	require.NoError(t, os.WriteFile(fresh, nil, 0o644))

	require.Equal(t, 3, CleanupTemps(dir, time.Hour))

	var left []string
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		left = append(left, e.Name())
	}
	require.ElementsMatch(t, []string{"keep.pdf", "pdfdl-4.txt", "pdfdl-fresh.pdf"}, left)
}
