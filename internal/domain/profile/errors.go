package profile

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeProfileNotFound = "PROFILE_NOT_FOUND"
	ErrCodeProfileParse    = "PROFILE_PARSE"
	ErrCodeProfileInvalid  = "PROFILE_INVALID"
	ErrCodeStepInvalid     = "STEP_INVALID"
)

// UserError represents a user-facing error with an actionable suggestion.
type UserError struct {
	Code       string // Error code for categorization (e.g., "PROFILE_NOT_FOUND")
	Message    string // User-friendly error message
	Context    string // File path or step ID
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() comparison by error code.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewNotFoundError creates a profile-not-found error.
func NewNotFoundError(name string, known []string) *UserError {
	suggestion := "run 'rigger profiles' to list available profiles"
	if len(known) > 0 {
		suggestion = "available profiles: " + strings.Join(known, ", ")
	}
	return &UserError{
		Code:       ErrCodeProfileNotFound,
		Message:    fmt.Sprintf("profile %q not found", name),
		Suggestion: suggestion,
	}
}

// NewParseError creates a profile parse error.
func NewParseError(source string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeProfileParse,
		Message:    "profile could not be parsed",
		Context:    source,
		Suggestion: "check the file for syntax errors",
		Underlying: err,
	}
}

// NewInvalidError creates a profile validation error.
func NewInvalidError(source, msg string) *UserError {
	return &UserError{
		Code:    ErrCodeProfileInvalid,
		Message: msg,
		Context: source,
	}
}

// NewStepError creates a step spec validation error.
func NewStepError(stepID, msg string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeStepInvalid,
		Message:    msg,
		Context:    "step " + stepID,
		Underlying: err,
	}
}
