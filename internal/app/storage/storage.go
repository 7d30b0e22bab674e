package storage

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCodeConflict     = errors.New("short code already exist")
	ErrCorruptStore     = errors.New("links record is corrupt")
	ErrStoreUnavailable = errors.New("links record unavailable")

	// ErrRecordNotExist is returned by a Backend when no record was written yet.
	ErrRecordNotExist = errors.New("links record does not exist")
)

// Kind classifies a StoreError.
type Kind int

const (
	InvalidInput Kind = iota + 1
	CodeConflict
	CorruptStore
	StoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case CodeConflict:
		return "code conflict"
	case CorruptStore:
		return "corrupt store"
	case StoreUnavailable:
		return "store unavailable"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case InvalidInput:
		return ErrInvalidInput
	case CodeConflict:
		return ErrCodeConflict
	case CorruptStore:
		return ErrCorruptStore
	case StoreUnavailable:
		return ErrStoreUnavailable
	}
	return nil
}

// StoreError is the only error type LinkStore returns. It matches the
// sentinel of its Kind with errors.Is and unwraps to the underlying cause.
type StoreError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *StoreError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or 0 if err is not a StoreError.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// Backend holds the single persisted record of the link table.
type Backend interface {
	// Read returns the raw record, or ErrRecordNotExist.
	Read(ctx context.Context) ([]byte, error)
	// Replace swaps the whole record atomically: readers see either the
	// previous record or data, never a partial write.
	Replace(ctx context.Context, data []byte) error
	Close() error
}
