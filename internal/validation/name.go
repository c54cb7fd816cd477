package validation

import (
	"errors"
	"strings"
)

// ValidateName validates a display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateNickname validates a unique handle. Nicknames are stored
// lowercased, so uniqueness is case-insensitive.
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)

	if trimmed == "" {
		return errors.New("nickname is required")
	}

	if len(trimmed) > 50 {
		return errors.New("nickname is too long (max 50 characters)")
	}

	if strings.ContainsAny(trimmed, " \t\n") {
		return errors.New("nickname must not contain whitespace")
	}

	return nil
}
