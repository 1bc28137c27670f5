package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a request that failed input validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidProductData signals a product record whose fields have the wrong type,
	// e.g. a price that is not a number. It indicates a calling-layer bug.
	ErrInvalidProductData = errors.New("invalid product data")

	// ErrMarketProviderError signals a market data provider failure.
	ErrMarketProviderError = errors.New("market provider error")
	// ErrAnalystProviderError signals a generative text provider failure.
	ErrAnalystProviderError = errors.New("analyst provider error")
	// ErrPaymentProviderError signals a payment gateway failure.
	ErrPaymentProviderError = errors.New("payment provider error")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// FieldError wraps a sentinel with the name of the offending input field.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewInvalidProductData creates an ErrInvalidProductData error for a field.
func NewInvalidProductData(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidProductData}
}

// NewValidationError creates an ErrValidation error for a field.
func NewValidationError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrValidation}
}
