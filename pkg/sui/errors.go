package sui

import "errors"

var (
	// ErrObjectNotFound is returned when the ledger has no object for the id.
	ErrObjectNotFound = errors.New("sui: object not found")

	// ErrUnexpectedShape is returned when object state cannot be interpreted.
	ErrUnexpectedShape = errors.New("sui: unexpected object shape")

	// ErrTxNotVisible is returned when a transaction digest is not yet
	// queryable on the read path. It is the only retryable read condition.
	ErrTxNotVisible = errors.New("sui: transaction not yet visible")

	// ErrInvalidCredential is returned when no supported secret key encoding matches.
	ErrInvalidCredential = errors.New("sui: invalid signing credential")

	// ErrInvalidLength is returned when a hex secret is not exactly 32 bytes.
	ErrInvalidLength = errors.New("sui: hex secret must be 32 bytes (64 hex chars)")
)
