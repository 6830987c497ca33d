package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	assert.EqualError(t, err, "test error")
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("Success_WrapNonNilError", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		assert.EqualError(t, wrapped, "wrapped: base error")
		assert.True(t, errors.Is(wrapped, baseErr))
	})

	t.Run("Success_WrapNilError", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "wrapped"))
	})
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("Success_WrapfNonNilError", func(t *testing.T) {
		wrapped := Wrapf(baseErr, "wrapped %d", 123)
		assert.EqualError(t, wrapped, "wrapped 123: base error")
		assert.True(t, Is(wrapped, baseErr))
	})

	t.Run("Success_WrapfNilError", func(t *testing.T) {
		assert.Nil(t, Wrapf(nil, "wrapped %d", 1))
	})
}

func TestIs_DomainKinds(t *testing.T) {
	tests := []struct {
		kind error
		msg  string
	}{
		{ErrNotFound, "not found"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid input"},
		{ErrUnauthorized, "unauthorized"},
		{ErrForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.EqualError(t, tt.kind, tt.msg)
			assert.True(t, Is(Wrap(tt.kind, "context"), tt.kind))
		})
	}
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "custom"}, "outer")

	var target customError
	assert.True(t, As(err, &target))
	assert.Equal(t, "custom", target.Msg)
}
