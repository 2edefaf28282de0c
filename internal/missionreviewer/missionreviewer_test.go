package missionreviewer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v71/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionci/internal/gh"
)

type fakeSource struct {
	releases   []*github.RepositoryRelease
	downloaded []int64
}

func (f *fakeSource) ListReleases(context.Context, string, string) ([]*github.RepositoryRelease, error) {
	return f.releases, nil
}

func (f *fakeSource) DownloadReleaseAsset(_ context.Context, _, _ string, id int64) (io.ReadCloser, error) {
	f.downloaded = append(f.downloaded, id)
	return io.NopCloser(strings.NewReader("#!/bin/sh\necho ok\n")), nil
}

func release(tag string, pre bool, assets ...*github.ReleaseAsset) *github.RepositoryRelease {
	return &github.RepositoryRelease{TagName: github.Ptr(tag), Prerelease: github.Ptr(pre), Assets: assets}
}

func asset(id int64, name string) *github.ReleaseAsset {
	return &github.ReleaseAsset{ID: github.Ptr(id), Name: github.Ptr(name)}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestAssetName(t *testing.T) {
	assert.Equal(t, "missionreviewer.exe", AssetName("windows"))
	assert.Equal(t, "missionreviewer", AssetName("linux"))
	assert.Equal(t, "missionreviewer", AssetName("darwin"))
}

func TestFetch_SkipsPrereleases(t *testing.T) {
	src := &fakeSource{releases: []*github.RepositoryRelease{
		release("v2.0.0-rc1", true, asset(1, "missionreviewer")),
		release("v1.9.0", false, asset(2, "missionreviewer.exe")),
		release("v1.8.0", false, asset(3, "missionreviewer.exe"), asset(4, "missionreviewer")),
	}}
	dir := filepath.Join(t.TempDir(), "missionreviewer")

	path, err := Fetch(context.Background(), src, "o", "r", dir, "linux", quiet())
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, src.downloaded)
	assert.Equal(t, filepath.Join(dir, "missionreviewer"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestFetch_Windows(t *testing.T) {
	src := &fakeSource{releases: []*github.RepositoryRelease{
		release("v1.9.0", false, asset(2, "missionreviewer.exe")),
	}}
	path, err := Fetch(context.Background(), src, "o", "r", t.TempDir(), "windows", quiet())
	require.NoError(t, err)
	assert.Equal(t, "missionreviewer.exe", filepath.Base(path))
}

func TestFetch_NoRelease(t *testing.T) {
	src := &fakeSource{releases: []*github.RepositoryRelease{release("v1", true, asset(1, "missionreviewer"))}}
	_, err := Fetch(context.Background(), src, "o", "r", t.TempDir(), "linux", quiet())
	assert.True(t, errors.Is(err, ErrNoRelease))
	assert.Empty(t, src.downloaded)
}

func TestFetch_RepositoryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	t.Cleanup(server.Close)
	client, err := gh.New("", gh.WithHTTPClient(server.Client()), gh.WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = Fetch(context.Background(), client, "synixe", "missing", t.TempDir(), "linux", quiet())
	require.Error(t, err)
	assert.True(t, gh.IsNotFound(err))
	assert.Contains(t, err.Error(), "synixe/missing not found")
	assert.Contains(t, err.Error(), "reviewer.owner")
}

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	res, err := Run(context.Background(), "/bin/sh", []string{"-c", "echo checked; echo careful >&2"}, t.TempDir(), logger)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "checked\n", res.Stdout)
	assert.Equal(t, "careful\n", res.Stderr)
	assert.Contains(t, logs.String(), "msg=checked")
	assert.Contains(t, logs.String(), "level=WARN msg=careful")
}

func TestRun_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	res, err := Run(context.Background(), "/bin/sh", []string{"-c", "exit 3"}, "", quiet())
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRun_LongLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	script := "head -c 100000 /dev/zero | tr '\\0' a; echo; head -c 200000 /dev/zero | tr '\\0' b; echo; exit 0"
	res, err := Run(ctx, "/bin/sh", []string{"-c", script}, "", quiet())
	require.NoError(t, err, "a long line must not stall the run")
	require.NoError(t, ctx.Err())

	lines := strings.Split(strings.TrimSuffix(res.Stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 100000)
	assert.Len(t, lines[1], 200000)
}

func TestRun_WritesInDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	dir := t.TempDir()
	_, err := Run(context.Background(), "/bin/sh", []string{"-c", "echo '1||1||0||0||notice||t||m||p' > missionreviewer.log"}, dir, quiet())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "missionreviewer.log"))
}
