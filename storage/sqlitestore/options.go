package sqlitestore

import (
	"io"
	"log/slog"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	compressionLevel int
	codec            Codec
	readOnly         bool
}

// Codec selects the compression filter for dataset payloads.
type Codec int

const (
	// CodecZstd compresses with Zstandard at levels 1-22.
	CodecZstd Codec = iota
	// CodecDeflate compresses with zlib; levels above 9 are capped.
	CodecDeflate
)

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for load and flush events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCodec selects the compression filter used for compressed datasets.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c == CodecZstd || c == CodecDeflate {
			o.codec = c
		}
	}
}

// WithCompressionLevel sets the compression level applied to datasets that were
// created without their own compression setting (0 = none, 1-22).
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		if level >= 0 && level <= 22 {
			o.compressionLevel = level
		}
	}
}

// WithReadOnly opens an existing snapshot without modifying the database:
// the schema is not created, Flush fails with storage.ErrReadOnly and Close
// does not flush. Changes made to the tree stay in memory.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}
