package nix

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-nix/storage"
)

// Common errors
var (
	ErrNotFound        = errors.New("entity not found")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrExtentMismatch  = errors.New("extent mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoLink          = errors.New("section has no link")
	ErrUnsupported     = errors.New("unsupported operation")
	ErrNullHandle      = errors.New("operation on null entity")
	ErrInvalidUnit     = errors.New("invalid unit")
	ErrInvalidValue    = errors.New("invalid value")
	ErrNotNIX          = errors.New("not a NIX container")
)

// translateError maps storage errors onto the package sentinels while keeping
// the original error in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, storage.ErrOutOfBounds):
		return fmt.Errorf("%w: %w", ErrExtentMismatch, err)
	case errors.Is(err, storage.ErrUnsupported):
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return err
}

func indexError(kind string, i, count int) error {
	return fmt.Errorf("%w: %s index %d, count %d", ErrIndexOutOfRange, kind, i, count)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}
