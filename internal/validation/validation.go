// Package validation provides input validation to prevent command injection
// through profile-supplied values.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidUnitName    = errors.New("invalid systemd unit name")
	ErrInvalidURL         = errors.New("invalid URL")
)

var (
	// packageNameRegex matches valid package names: alphanumeric with
	// hyphens, underscores, dots, plus. Examples: "git", "python3.11", "g++".
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// unitNameRegex matches systemd unit names, with or without a type
	// suffix. Examples: "ufw", "docker.service", "fstrim.timer".
	unitNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.@\\-]*$`)
)

// ValidatePackageName checks that name is a safe package name.
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyInput
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// ValidateUnitName checks that name is a safe systemd unit name.
func ValidateUnitName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyInput
	}
	if !unitNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidUnitName, name)
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyInput
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
