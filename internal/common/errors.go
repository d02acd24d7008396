package common

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses by the
// server layer. Wrap with fmt.Errorf("...: %w", err) to add context.
var (
	// ErrInvalidAmount indicates a non-positive or non-finite cash amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidQuantity indicates a non-positive quantity, a non-positive
	// price, or a sale quantity exceeding the held quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientFunds indicates the cash balance cannot cover a
	// withdrawal or purchase.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound indicates a missing user, asset, or document.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired indicates the operation needs an authenticated user.
	ErrAuthRequired = errors.New("authentication required")
)
