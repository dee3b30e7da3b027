package utils

import (
	"regexp"
	"strings"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

var (
	// UUIDRegex validates UUID strings
	UUIDRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

	// LanguageRegex validates a language name, a single word of letters in any script
	LanguageRegex = regexp.MustCompile(`^\p{L}{2,32}$`)
)

// ValidateUUID validates a UUID string
func ValidateUUID(uuid string) error {
	if !UUIDRegex.MatchString(uuid) {
		return errors.NewValidationError("invalid UUID format")
	}
	return nil
}

// ValidateLanguage validates a requested conversation language. The name is
// embedded in the instruction text, so it must be a single plain word.
func ValidateLanguage(language string) error {
	if !LanguageRegex.MatchString(language) {
		return errors.NewInvalidInputError("language must be a single word of letters, e.g. Polish or English", nil)
	}
	return nil
}

// ValidateRequiredString validates that a string is not empty
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(fieldName + " is required")
	}
	return nil
}
