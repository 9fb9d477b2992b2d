package action

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rigger-dev/rigger/internal/domain/step"
	"github.com/rigger-dev/rigger/internal/ports"
	"github.com/rigger-dev/rigger/internal/testutil/mocks"
)

func dpkgStatus(runner *mocks.CommandRunner, pkg, status string, exit int) {
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", pkg},
		ports.CommandResult{ExitCode: exit, Stdout: status})
}

func aptInstall(runner *mocks.CommandRunner, pkg string, exit int) {
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", pkg},
		ports.CommandResult{ExitCode: exit})
}

func TestPackageGroup_Check_AllInstalled(t *testing.T) {
	runner := mocks.NewCommandRunner()
	dpkgStatus(runner, "curl", "installed", 0)
	dpkgStatus(runner, "htop", "installed", 0)

	g := NewPackageGroup("essentials", []string{"curl", "htop"}, runner)
	ok, detail, err := g.Check(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !ok {
		t.Error("Check() = false, want satisfied")
	}
	if detail != "2/2 installed" {
		t.Errorf("detail = %q, want 2/2 installed", detail)
	}
}

func TestPackageGroup_Check_PartiallyInstalled(t *testing.T) {
	runner := mocks.NewCommandRunner()
	dpkgStatus(runner, "curl", "installed", 0)
	dpkgStatus(runner, "htop", "", 1)

	g := NewPackageGroup("essentials", []string{"curl", "htop"}, runner)
	ok, detail, err := g.Check(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if ok {
		t.Error("Check() = true, want unsatisfied")
	}
	if detail != "1/2 installed" {
		t.Errorf("detail = %q, want 1/2 installed", detail)
	}
}

func TestPackageGroup_Apply_SkipsInstalledMembers(t *testing.T) {
	runner := mocks.NewCommandRunner()
	dpkgStatus(runner, "curl", "installed", 0)
	dpkgStatus(runner, "htop", "", 1)
	aptInstall(runner, "htop", 0)

	g := NewPackageGroup("essentials", []string{"curl", "htop"}, runner)
	detail, err := g.Apply(context.Background(), debianFacts)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if detail != "installed 2/2 packages" {
		t.Errorf("detail = %q", detail)
	}
	if runner.CalledWith("sudo", "apt-get", "install", "-y", "curl") {
		t.Error("already-installed member must not be reinstalled")
	}
}

func TestPackageGroup_Apply_PartialFailure(t *testing.T) {
	runner := mocks.NewCommandRunner()
	dpkgStatus(runner, "curl", "", 1)
	dpkgStatus(runner, "ghost-pkg", "", 1)
	aptInstall(runner, "curl", 0)
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "ghost-pkg"},
		ports.CommandResult{ExitCode: 100, Stderr: "E: Unable to locate package ghost-pkg"})

	g := NewPackageGroup("essentials", []string{"curl", "ghost-pkg"}, runner)
	detail, err := g.Apply(context.Background(), debianFacts)

	if !errors.Is(err, step.ErrPartial) {
		t.Fatalf("Apply() error = %v, want ErrPartial", err)
	}
	if !strings.Contains(err.Error(), "ghost-pkg") {
		t.Errorf("error should name the failed member: %v", err)
	}
	if detail != "installed 1/2 packages" {
		t.Errorf("detail = %q, want installed 1/2 packages", detail)
	}
}

func TestPackageGroup_Name(t *testing.T) {
	g := NewPackageGroup("essentials", []string{"a", "b", "c"}, mocks.NewCommandRunner())
	if got := g.Name(); got != "install group essentials (3 packages)" {
		t.Errorf("Name() = %q", got)
	}
}
