package ports

import "testing"

func TestCommandResult_Success(t *testing.T) {
	result := CommandResult{ExitCode: 0, Stdout: "output"}
	if !result.Success() {
		t.Error("Success() should be true for exit code 0")
	}
}

func TestCommandResult_Failure(t *testing.T) {
	result := CommandResult{ExitCode: 1, Stderr: "error"}
	if result.Success() {
		t.Error("Success() should be false for non-zero exit code")
	}
}

func TestCommandResult_Output_TrimsWhitespace(t *testing.T) {
	result := CommandResult{ExitCode: 0, Stdout: "  enabled\n"}
	if got := result.Output(); got != "enabled" {
		t.Errorf("Output() = %q, want %q", got, "enabled")
	}
}
