package storage

import "errors"

// Common errors
var (
	ErrNotFound    = errors.New("object not found")
	ErrExists      = errors.New("object already exists")
	ErrUnsupported = errors.New("unsupported operation")
	ErrAttrType    = errors.New("unsupported attribute type")
	ErrOutOfBounds = errors.New("selection exceeds dataset extent")
	ErrClosed      = errors.New("store is closed")
	ErrReadOnly    = errors.New("store is read-only")
)
