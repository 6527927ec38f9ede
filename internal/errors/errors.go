package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nf, ok := err.(*NotFoundError); ok {
		return nf, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	if fe, ok := err.(*ForbiddenError); ok {
		return fe, true
	}
	return nil, false
}

// InsufficientStockError is returned when a reservation asks for more
// units than a product has left.
type InsufficientStockError struct {
	Message   string
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return e.Message
}

func NewInsufficientStockError(productID uint, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		Message:   fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", productID, requested, available),
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	if ise, ok := err.(*InsufficientStockError); ok {
		return ise, true
	}
	return nil, false
}

// InvalidTransitionError is returned when a status change is not listed
// in the order transition table.
type InvalidTransitionError struct {
	Message string
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Message: fmt.Sprintf("cannot transition order from %s to %s", from, to),
		From:    from,
		To:      to,
	}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	if ite, ok := err.(*InvalidTransitionError); ok {
		return ite, true
	}
	return nil, false
}

// InvalidStateError is returned when an operation is not valid for the
// entity's current status, e.g. cancelling a non-pending order.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

func IsInvalidStateError(err error) (*InvalidStateError, bool) {
	if ise, ok := err.(*InvalidStateError); ok {
		return ise, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// DeadlockError is returned after the retry budget for storage
// deadlocks or duplicate-key conflicts is exhausted.
type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	if de, ok := err.(*DeadlockError); ok {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
