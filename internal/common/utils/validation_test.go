package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("7f8a3c1e-0000-4000-8000-000000000001"))
	assert.Error(t, ValidateUUID("7f8a3c1e"))
	assert.Error(t, ValidateUUID("../../etc/passwd"))
}

func TestValidateLanguage(t *testing.T) {
	for _, ok := range []string{"Polish", "English", "de", "Español", "Français", "Українська"} {
		assert.NoError(t, ValidateLanguage(ok), ok)
	}
	for _, bad := range []string{"", "P", "Polish please", "Polish.", "Polish2", "English_UK"} {
		err := ValidateLanguage(bad)
		assert.True(t, errors.Is(err, commonErrors.ErrInvalidInput), bad)
	}
}

func TestValidateRequiredString(t *testing.T) {
	assert.NoError(t, ValidateRequiredString("x", "question"))
	assert.True(t, errors.Is(ValidateRequiredString("  ", "question"), commonErrors.ErrValidation))
}
