package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		err := NewForbidden("nope")
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
		assert.Equal(t, CodeForbidden, de.Code)
	})

	t.Run("unknown errors become generic 500", func(t *testing.T) {
		cause := errors.New("connection reset by peer")
		de := ToDomainError(cause)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.Equal(t, "internal server error", de.Message)
		assert.ErrorIs(t, de, cause)
	})
}

func TestNotFoundFlavours(t *testing.T) {
	lookup := ToDomainError(NewNotFound("role", nil))
	write := ToDomainError(NewNotFoundOnWrite("role"))

	assert.Equal(t, http.StatusNotFound, lookup.HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, write.HTTPStatus)
	assert.Equal(t, lookup.Code, write.Code)
	assert.True(t, HasCode(write, CodeNotFound))
}

func TestWrapUnauthorizedKeepsCause(t *testing.T) {
	cause := errors.New("token expired")
	err := WrapUnauthorized("invalid token", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(err).HTTPStatus)
}
