package profile

import (
	"errors"
	"testing"

	"github.com/rigger-dev/rigger/internal/testutil/mocks"
)

func TestDefaultNames(t *testing.T) {
	names := DefaultNames()
	if len(names) == 0 {
		t.Fatal("no built-in profiles embedded")
	}

	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["workstation"] || !found["server"] {
		t.Errorf("DefaultNames() = %v, want workstation and server", names)
	}

	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("DefaultNames() not sorted: %v", names)
		}
	}
}

func TestLoadDefault_AllBuiltinsAreValidAndBuildable(t *testing.T) {
	builder := NewBuilder(mocks.NewCommandRunner(), mocks.NewFileSystem())

	for _, name := range DefaultNames() {
		p, err := LoadDefault(name)
		if err != nil {
			t.Errorf("LoadDefault(%s) error = %v", name, err)
			continue
		}
		if p.Name != name {
			t.Errorf("LoadDefault(%s).Name = %q", name, p.Name)
		}

		reg, err := builder.Build(p)
		if err != nil {
			t.Errorf("Build(%s) error = %v", name, err)
			continue
		}
		if _, err := reg.ResolveOrder(); err != nil {
			t.Errorf("ResolveOrder(%s) error = %v", name, err)
		}
	}
}

func TestLoadDefault_Unknown(t *testing.T) {
	_, err := LoadDefault("ghost")
	if !errors.Is(err, &UserError{Code: ErrCodeProfileNotFound}) {
		t.Errorf("LoadDefault() error = %v, want PROFILE_NOT_FOUND", err)
	}
}
