package nix

import (
	"github.com/robert-malhotra/go-nix/internal/ident"
	"github.com/robert-malhotra/go-nix/storage"
)

// Option configures a File.
type Option func(*fileOptions)

type fileOptions struct {
	logger *Logger
	newID  ident.Generator
	noInit bool
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{
		logger: NoopLogger(),
		newID:  ident.UUID,
	}
}

// WithLogger sets the logger used for entity lifecycle events.
func WithLogger(l *Logger) Option {
	return func(o *fileOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new entity ids.
// Generated ids only need to be unique among siblings; collisions are
// retried.
func WithIDGenerator(gen func() string) Option {
	return func(o *fileOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithoutInit makes Open leave the root untouched: a root that is not already
// a NIX container is rejected with ErrNotNIX instead of being initialized.
func WithoutInit() Option {
	return func(o *fileOptions) {
		o.noInit = true
	}
}

// DataArrayOption configures data array creation.
type DataArrayOption func(*dataArrayOptions)

type dataArrayOptions struct {
	dataset []storage.DatasetOption
}

// WithMaxExtent limits each axis of the data. Use 0 for an unlimited axis.
// Without this option every axis is unlimited.
func WithMaxExtent(dims ...uint64) DataArrayOption {
	return func(o *dataArrayOptions) {
		o.dataset = append(o.dataset, storage.WithMaxExtent(dims...))
	}
}

// WithChunks sets the chunk dimensions hint for the backend.
func WithChunks(dims ...uint64) DataArrayOption {
	return func(o *dataArrayOptions) {
		o.dataset = append(o.dataset, storage.WithChunks(dims...))
	}
}

// WithCompression requests payload compression (1-22, 0 = none) from
// backends that support it.
func WithCompression(level int) DataArrayOption {
	return func(o *dataArrayOptions) {
		o.dataset = append(o.dataset, storage.WithCompression(level))
	}
}
