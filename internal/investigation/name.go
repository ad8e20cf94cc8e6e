package investigation

import (
	"fmt"
	"regexp"
	"strings"

	"casework/internal/failures"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateName reports whether name is usable as a case directory name.
// Empty names, characters outside [A-Za-z0-9_.-], and any ".." sequence are
// rejected, each with its own message.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: case name cannot be empty", failures.ErrInvalidCaseName)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: case name %q contains invalid characters; use only letters, digits, underscores, hyphens, and periods",
			failures.ErrInvalidCaseName, name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%w: case name %q cannot contain '..'", failures.ErrInvalidCaseName, name)
	}
	return nil
}
