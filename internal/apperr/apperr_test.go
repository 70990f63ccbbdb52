package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{BadRequest, fiber.StatusBadRequest},
		{Unauthorized, fiber.StatusUnauthorized},
		{Forbidden, fiber.StatusForbidden},
		{NotFound, fiber.StatusNotFound},
		{Conflict, fiber.StatusConflict},
		{Internal, fiber.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusCode(New(tc.kind, "boom")))
	}
}

func TestStatusCodeUnclassified(t *testing.T) {
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(errors.New("plain error")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(nil))
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(NotFound, "user not found"))
	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, NotFound))
	assert.False(t, IsKind(wrapped, Conflict))
}

func TestErrorMessage(t *testing.T) {
	err := Newf(Conflict, "email %s already registered", "a@x.com")
	assert.Equal(t, "email a@x.com already registered", err.Error())
	assert.Equal(t, Conflict, err.Kind)
}
