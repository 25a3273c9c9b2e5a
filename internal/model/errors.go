package model

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicateBarcode  = errors.New("barcode already exists")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrValidation        = errors.New("validation failed")
	ErrInvoiceCommitted  = errors.New("invoice already committed")
	ErrCartChanged       = errors.New("cart no longer matches invoice")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
