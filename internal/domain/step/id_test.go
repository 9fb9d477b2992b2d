package step

import (
	"errors"
	"testing"
)

func TestNewID_Valid(t *testing.T) {
	valid := []string{
		"pkg:git",
		"pkg:build-essential",
		"write:zshrc",
		"toggle:fail2ban",
		"download:nvm",
		"run:post-install",
		"a",
		"cap:res:sub",
		"files/dotfiles:gitconfig",
		"step_1",
		"v1.2:thing",
	}

	for _, value := range valid {
		id, err := NewID(value)
		if err != nil {
			t.Errorf("NewID(%q) error = %v, want nil", value, err)
			continue
		}
		if id.String() != value {
			t.Errorf("NewID(%q).String() = %q", value, id.String())
		}
	}
}

func TestNewID_TrimsWhitespace(t *testing.T) {
	id, err := NewID("  pkg:git  ")
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	if id.String() != "pkg:git" {
		t.Errorf("String() = %q, want pkg:git", id.String())
	}
}

func TestNewID_Empty(t *testing.T) {
	for _, value := range []string{"", "   "} {
		if _, err := NewID(value); !errors.Is(err, ErrEmptyID) {
			t.Errorf("NewID(%q) error = %v, want ErrEmptyID", value, err)
		}
	}
}

func TestNewID_Invalid(t *testing.T) {
	invalid := []string{
		":leading",
		"trailing:",
		"two words",
		"pkg::double",
		"-leading-hyphen",
		"pkg:!bang",
	}

	for _, value := range invalid {
		if _, err := NewID(value); !errors.Is(err, ErrInvalidID) {
			t.Errorf("NewID(%q) error = %v, want ErrInvalidID", value, err)
		}
	}
}

func TestMustNewID_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewID should panic on invalid input")
		}
	}()
	MustNewID(":bad")
}

func TestID_EqualsAndIsZero(t *testing.T) {
	a := MustNewID("pkg:git")
	b := MustNewID("pkg:git")
	c := MustNewID("pkg:zsh")

	if !a.Equals(b) {
		t.Error("identical IDs should be equal")
	}
	if a.Equals(c) {
		t.Error("different IDs should not be equal")
	}
	if a.IsZero() {
		t.Error("constructed ID should not be zero")
	}
	if !(ID{}).IsZero() {
		t.Error("zero-value ID should report IsZero")
	}
}
