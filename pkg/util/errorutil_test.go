package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("ctx: %w", NewNotFound("ticket", nil))
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ticket not found", de.Message)

	de = ToDomainError(fiber.NewError(http.StatusMethodNotAllowed, "nope"))
	assert.Equal(t, "METHOD_NOT_ALLOWED", de.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)

	cause := errors.New("boom")
	de = ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.ErrorIs(t, de, cause)
}

func TestSessionExpired(t *testing.T) {
	err := NewSessionExpired()
	assert.True(t, IsCode(err, CodeSessionExpired))
	de := ToDomainError(err)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.Equal(t, LoginPath, de.Details["redirect"])
	assert.Equal(t, MsgSessionExpired, de.Message)
}

func TestFieldValidationError(t *testing.T) {
	err := NewFieldValidationError("invalid", map[string]any{"title": "Title is required"}, "title")
	de := ToDomainError(err)
	assert.Equal(t, CodeValidationFailed, de.Code)
	assert.Equal(t, "title", de.Details["first_invalid"])
	assert.False(t, IsCode(err, CodeConflict))
}
