package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("declaration not found"))

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrValidation))

	var appErr AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewUpstreamError("answer failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, "UPSTREAM_ERROR: answer failed: connection reset", err.Error())
}

func TestWithDetailCopies(t *testing.T) {
	base := NewValidationError("bad")
	first := base.WithDetail("a", 1)
	second := first.WithDetail("b", 2)

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]interface{}{"a": 1}, first.Details)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, second.Details)
}

func TestMissingFieldsKeepsOrder(t *testing.T) {
	err := NewMissingFieldsError([]string{"city", "tax_rate"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"city", "tax_rate"}, err.Details["missingFields"])
	assert.Equal(t, "missing required fields: city, tax_rate", err.Message)
}

func TestNumericFormatError(t *testing.T) {
	err := NewNumericFormatError([]string{"tax_base"})

	assert.ErrorIs(t, err, ErrNumericFormat)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, []string{"tax_base"}, err.Details["fields"])
}
