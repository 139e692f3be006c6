package ledger

import "errors"

var (
	// ErrUnauthorized rejects a caller lacking the role or custody required by
	// the operation. Checked before any state change.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateIdentity rejects registering an identity that already maps
	// to a worker.
	ErrDuplicateIdentity = errors.New("identity already registered")

	ErrInvalidRange    = errors.New("invalid temperature or humidity range")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNotFound        = errors.New("not found")

	// ErrAlreadySpoiled marks the terminal state: a spoiled product accepts no
	// further status updates or custody transfers.
	ErrAlreadySpoiled = errors.New("product already spoiled")
)
