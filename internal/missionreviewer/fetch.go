// Package missionreviewer downloads the missionreviewer release binary and
// runs it as a subprocess.
package missionreviewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/go-github/v71/github"

	"missionci/internal/gh"
)

const binaryName = "missionreviewer"

// ErrNoRelease is returned when no stable release carries the platform asset.
var ErrNoRelease = errors.New("no release with a matching asset")

// ReleaseSource lists releases and streams their assets.
type ReleaseSource interface {
	ListReleases(ctx context.Context, owner, repo string) ([]*github.RepositoryRelease, error)
	DownloadReleaseAsset(ctx context.Context, owner, repo string, id int64) (io.ReadCloser, error)
}

// AssetName returns the release asset name for goos.
func AssetName(goos string) string {
	if goos == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// Fetch downloads the binary from the newest non-prerelease release carrying
// the platform asset into dir, and returns its path. On non-Windows systems
// the file is made executable.
func Fetch(ctx context.Context, src ReleaseSource, owner, repo, dir, goos string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name := AssetName(goos)

	releases, err := src.ListReleases(ctx, owner, repo)
	if gh.IsNotFound(err) {
		return "", fmt.Errorf("fetch %s: release repository %s/%s not found, check reviewer.owner and reviewer.repo: %w",
			name, owner, repo, err)
	}
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	release, asset := pick(releases, name)
	if asset == nil {
		return "", fmt.Errorf("fetch %s from %s/%s: %w", name, owner, repo, ErrNoRelease)
	}
	logger.InfoContext(ctx, "downloading release asset",
		"release", release.GetTagName(), "asset", name, "size", asset.GetSize())

	rc, err := src.DownloadReleaseAsset(ctx, owner, repo, asset.GetID())
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return "", fmt.Errorf("fetch %s: write: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("fetch %s: write: %w", name, err)
	}
	if goos != "windows" {
		if err := os.Chmod(tmp.Name(), 0o755); err != nil {
			return "", fmt.Errorf("fetch %s: chmod: %w", name, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return path, nil
}

// pick returns the first non-prerelease release, in API order, that has an
// asset called name.
func pick(releases []*github.RepositoryRelease, name string) (*github.RepositoryRelease, *github.ReleaseAsset) {
	for _, r := range releases {
		if r.GetPrerelease() || r.GetDraft() {
			continue
		}
		for _, a := range r.Assets {
			if a.GetName() == name {
				return r, a
			}
		}
	}
	return nil, nil
}
