package profile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rigger-dev/rigger/internal/ports"
)

// Loader loads profiles from the filesystem.
type Loader struct {
	fs ports.FileSystem
}

// NewLoader creates a new Loader.
func NewLoader(fs ports.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads and parses the profile at path. The format is chosen by file
// extension: .yaml/.yml or .toml.
func (l *Loader) Load(path string) (*Profile, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, &UserError{
			Code:       ErrCodeProfileNotFound,
			Message:    "profile file could not be read",
			Context:    path,
			Suggestion: "check the path, or run 'rigger profiles' for built-in profiles",
			Underlying: err,
		}
	}
	return Parse(data, filepath.Ext(path), path)
}

// List returns the profile files (by bare name) found in dir.
func (l *Loader) List(dir string) []string {
	entries, err := l.fs.ListDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, name := range entries {
		switch filepath.Ext(name) {
		case ".yaml", ".yml", ".toml":
			names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
		}
	}
	sort.Strings(names)
	return names
}

// Parse decodes profile data in the format indicated by ext and validates it.
func Parse(data []byte, ext, source string) (*Profile, error) {
	var p Profile

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, NewParseError(source, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, NewParseError(source, err)
		}
	default:
		return nil, NewInvalidError(source, fmt.Sprintf("unsupported profile format %q (want .yaml, .yml, or .toml)", ext))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
