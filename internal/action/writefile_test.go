package action

import (
	"context"
	"testing"

	"github.com/rigger-dev/rigger/internal/testutil/mocks"
)

func TestWriteFile_Check_Missing(t *testing.T) {
	a := NewWriteFile("/home/u/.gitconfig", "[user]\n\tname = u\n", mocks.NewFileSystem())

	ok, _, err := a.Check(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if ok {
		t.Error("Check() = true for missing file")
	}
}

func TestWriteFile_Check_ContentMatches(t *testing.T) {
	fs := mocks.NewFileSystem()
	content := "[user]\n\tname = u\n"
	if err := fs.WriteFile("/home/u/.gitconfig", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, _, err := NewWriteFile("/home/u/.gitconfig", content, fs).Check(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !ok {
		t.Error("Check() = false for identical content")
	}
}

func TestWriteFile_Check_ContentDiffers(t *testing.T) {
	fs := mocks.NewFileSystem()
	if err := fs.WriteFile("/home/u/.gitconfig", []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, detail, err := NewWriteFile("/home/u/.gitconfig", "fresh", fs).Check(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if ok {
		t.Errorf("Check() = true for differing content; detail: %s", detail)
	}
}

func TestWriteFile_Apply_CreatesParentDirs(t *testing.T) {
	fs := mocks.NewFileSystem()
	a := NewWriteFile("/home/u/.config/rigger/init", "content", fs)

	detail, err := a.Apply(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if detail != "wrote /home/u/.config/rigger/init" {
		t.Errorf("detail = %q", detail)
	}

	data, err := fs.ReadFile("/home/u/.config/rigger/init")
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("written content = %q", data)
	}
	if !fs.IsDir("/home/u/.config/rigger") {
		t.Error("parent directory should have been created")
	}
}

func TestWriteFile_ApplyThenCheckIsSatisfied(t *testing.T) {
	fs := mocks.NewFileSystem()
	a := NewWriteFile("/etc/motd", "welcome\n", fs).WithMode(0o600)

	if _, err := a.Apply(context.Background(), debianFacts); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	ok, _, err := a.Check(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !ok {
		t.Error("Check() after Apply() should be satisfied")
	}
}
