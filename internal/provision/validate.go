package provision

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const maxIdentifierLength = 64

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateIdentifier whitelists every externally-influenced name before it
// reaches a SQL statement, command argument or file path. Anything outside
// [A-Za-z0-9_-] or over 64 characters is rejected outright.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier is empty")
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("identifier %q exceeds %d characters", name, maxIdentifierLength)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("identifier %q contains characters outside [A-Za-z0-9_-]", name)
	}

	return nil
}

// ContainedPath joins sanitized segments under base and re-validates that
// the resolved path stays inside it.
func ContainedPath(base string, segments ...string) (string, error) {
	for _, seg := range segments {
		if err := ValidateIdentifier(strings.TrimSuffix(seg, filepath.Ext(seg))); err != nil {
			return "", err
		}
	}

	joined := filepath.Join(append([]string{base}, segments...)...)
	cleanBase := filepath.Clean(base)

	rel, err := filepath.Rel(cleanBase, joined)
	if err != nil {
		return "", fmt.Errorf("resolve path failed: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes base directory", joined)
	}

	return joined, nil
}
