package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("order with id 7 not found")

	assert.Equal(t, "order with id 7 not found", err.Error())

	var asErr error = err
	nf, ok := IsNotFoundError(asErr)
	assert.True(t, ok)
	assert.Equal(t, err, nf)

	_, ok = IsNotFoundError(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("validation failed",
		ValidationDetail{Field: "items", Message: "items must not be empty"},
	)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Len(t, ve.Details, 1)
	assert.Equal(t, "items", ve.Details[0].Field)
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(3, 5, 2)

	ise, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, uint(3), ise.ProductID)
	assert.Equal(t, 5, ise.Requested)
	assert.Equal(t, 2, ise.Available)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("DELIVERED", "SHIPPING")

	ite, ok := IsInvalidTransitionError(err)
	assert.True(t, ok)
	assert.Equal(t, "DELIVERED", ite.From)
	assert.Equal(t, "SHIPPING", ite.To)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("querying order", cause)

	assert.Equal(t, "querying order: connection reset", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestErrorTypesAreDistinct(t *testing.T) {
	forbidden := NewForbiddenError("not yours")

	_, ok := IsNotFoundError(forbidden)
	assert.False(t, ok)
	_, ok = IsInvalidStateError(forbidden)
	assert.False(t, ok)
	_, ok = IsForbiddenError(forbidden)
	assert.True(t, ok)
}
