package journal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{invalid("symbol", "is required"), "validation_failed"},
		{fmt.Errorf("wrapped: %w", invalid("size", "must be greater than 0")), "validation_failed"},
		{ErrNotFound, "not_found"},
		{ErrForbidden, "forbidden"},
		{ErrAlreadyClosed, "already_closed"},
		{invalidState("order %d is %s", 7, "CANCELLED"), "invalid_state"},
		{errors.New("connection reset"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "%v", tt.err)
	}
}

func TestAlreadyClosedIsInvalidState(t *testing.T) {
	assert.ErrorIs(t, ErrAlreadyClosed, ErrInvalidState)
	assert.NotErrorIs(t, ErrInvalidState, ErrAlreadyClosed)
	assert.NotErrorIs(t, invalidState("x"), ErrAlreadyClosed)
}

func TestValidationError(t *testing.T) {
	err := invalid("exit_size", "exceeds remaining size")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "exit_size", verr.Field)
	assert.EqualError(t, err, "validation failed: exit_size exceeds remaining size")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrInvalidState)
}
