package action

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/ports"
	"github.com/rigger-dev/rigger/internal/validation"
)

// DownloadAndExtract fetches an archive and unpacks it into a directory.
type DownloadAndExtract struct {
	url    string
	dest   string
	strip  int
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewDownloadAndExtract creates a DownloadAndExtract action.
func NewDownloadAndExtract(rawURL, dest string, runner ports.CommandRunner, fs ports.FileSystem) *DownloadAndExtract {
	return &DownloadAndExtract{url: rawURL, dest: dest, runner: runner, fs: fs}
}

// WithStrip returns a copy that drops n leading path components while
// extracting, matching tar's --strip-components.
func (a *DownloadAndExtract) WithStrip(n int) *DownloadAndExtract {
	copied := *a
	copied.strip = n
	return &copied
}

// Name returns the action description.
func (a *DownloadAndExtract) Name() string {
	return "download " + a.url
}

// Check treats a non-empty destination directory as satisfied.
func (a *DownloadAndExtract) Check(_ context.Context, _ facts.Facts) (bool, string, error) {
	dest := ports.ExpandPath(a.dest)
	if !a.fs.IsDir(dest) {
		return false, dest + " missing", nil
	}
	entries, err := a.fs.ListDir(dest)
	if err != nil {
		return false, "", err
	}
	if len(entries) == 0 {
		return false, dest + " empty", nil
	}
	return true, dest + " populated", nil
}

// Apply downloads the archive to a temp file and extracts it into dest.
func (a *DownloadAndExtract) Apply(ctx context.Context, _ facts.Facts) (string, error) {
	if err := validation.ValidateURL(a.url); err != nil {
		return "", err
	}

	dest := ports.ExpandPath(a.dest)
	if err := a.fs.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	tmp := tempPath(a.url)

	result, err := a.runner.Run(ctx, "curl", "-fsSL", "-o", tmp, a.url)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("download %s failed: %s", a.url, result.Stderr)
	}

	tarArgs := []string{"-xf", tmp, "-C", dest}
	if a.strip > 0 {
		tarArgs = append(tarArgs, fmt.Sprintf("--strip-components=%d", a.strip))
	}
	result, err = a.runner.Run(ctx, "tar", tarArgs...)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("extract %s failed: %s", tmp, result.Stderr)
	}

	_ = a.fs.Remove(tmp)
	return "extracted to " + dest, nil
}

// tempPath gives each URL its own temp file, so concurrent runs fetching
// different archives that share a base name cannot clobber each other.
func tempPath(rawURL string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rawURL))
	return filepath.Join(os.TempDir(), fmt.Sprintf("rigger-%08x-%s", h.Sum32(), archiveName(rawURL)))
}

// archiveName derives a temp file name from the URL path.
func archiveName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "rigger.download"
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "rigger.download"
	}
	return base
}
