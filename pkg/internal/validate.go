package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// FallbackTemplate is used whenever a requested template name cannot be
	// trusted or resolved.
	FallbackTemplate = "base"

	maxProjectNameLength = 50
)

var (
	templateNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	projectNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// NormalizeTemplateName trims and lower-cases raw and checks it against the
// template name character class. A name that does not survive the check is
// replaced with FallbackTemplate; substituted reports whether that happened.
// The check is purely syntactic and never touches the filesystem.
func NormalizeTemplateName(raw string) (name string, substituted bool) {
	name = strings.ToLower(strings.TrimSpace(raw))
	if name == "" || !templateNamePattern.MatchString(name) {
		return FallbackTemplate, true
	}
	return name, false
}

// ValidateProjectName rejects names that cannot be used as a single path
// segment. The returned error is shown to the user as-is.
func ValidateProjectName(raw string) error {
	if raw == "" {
		return errors.New("project name must not be empty")
	}
	if len(raw) > maxProjectNameLength {
		return fmt.Errorf("project name must be at most %d characters", maxProjectNameLength)
	}
	if !projectNamePattern.MatchString(raw) {
		return errors.New("project name may only contain letters, digits, '-' and '_'")
	}
	return nil
}
