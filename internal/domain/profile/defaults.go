package profile

import (
	"embed"
	"sort"
	"strings"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// DefaultNames returns the names of the built-in profiles, sorted.
func DefaultNames() []string {
	entries, err := defaultsFS.ReadDir("defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadDefault loads a built-in profile by name.
func LoadDefault(name string) (*Profile, error) {
	data, err := defaultsFS.ReadFile("defaults/" + name + ".yaml")
	if err != nil {
		return nil, NewNotFoundError(name, DefaultNames())
	}
	return Parse(data, ".yaml", "builtin:"+name)
}
