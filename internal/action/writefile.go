package action

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/ports"
)

// WriteFile writes fixed content to a path (dotfiles, config files).
type WriteFile struct {
	path    string
	content []byte
	mode    os.FileMode
	fs      ports.FileSystem
}

// NewWriteFile creates a WriteFile action with mode 0644.
func NewWriteFile(path, content string, fs ports.FileSystem) *WriteFile {
	return &WriteFile{
		path:    path,
		content: []byte(content),
		mode:    0o644,
		fs:      fs,
	}
}

// WithMode returns a copy using the given file mode.
func (a *WriteFile) WithMode(mode os.FileMode) *WriteFile {
	copied := *a
	copied.mode = mode
	return &copied
}

// Name returns the action description.
func (a *WriteFile) Name() string {
	return "write " + a.path
}

// Check reports satisfied when the file already holds the desired content.
func (a *WriteFile) Check(_ context.Context, _ facts.Facts) (bool, string, error) {
	target := ports.ExpandPath(a.path)
	if !a.fs.Exists(target) {
		return false, target + " missing", nil
	}
	current, err := a.fs.ReadFile(target)
	if err != nil {
		return false, "", err
	}
	if !bytes.Equal(current, a.content) {
		return false, target + " content differs", nil
	}
	return true, target + " up to date", nil
}

// Apply writes the content, creating parent directories as needed.
func (a *WriteFile) Apply(_ context.Context, _ facts.Facts) (string, error) {
	target := ports.ExpandPath(a.path)
	if err := a.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := a.fs.WriteFile(target, a.content, a.mode); err != nil {
		return "", err
	}
	return "wrote " + target, nil
}
