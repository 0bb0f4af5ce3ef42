package common

import "errors"

// Journal errors. Callers should match them with errors.Is; the journal
// package wraps the underlying cause alongside the sentinel.
var (
	// lifecycle errors
	ErrAlreadyExists     = errors.New("journal already exists")
	ErrNotFound          = errors.New("journal not found")
	ErrNotWritable       = errors.New("journal is not writable")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrClosed            = errors.New("journal is closed")

	// entry errors
	ErrDecryption  = errors.New("decryption failed")
	ErrInvalidDate = errors.New("invalid date")

	// persistence errors
	ErrIO             = errors.New("i/o error")
	ErrSaveInProgress = errors.New("save already in progress")
)
