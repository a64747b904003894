package storage

import (
	"fmt"
)

// Unlimited marks an axis of MaxExtent without an upper bound.
const Unlimited uint64 = 0

// DatasetOption configures dataset creation.
type DatasetOption func(*DatasetConfig)

// DatasetConfig holds the resolved dataset creation options. Backends read it
// through ApplyDatasetOptions.
type DatasetConfig struct {
	// MaxExtent per axis, Unlimited for none. Nil means every axis is
	// unlimited.
	MaxExtent []uint64

	// Chunks is recorded for backends that tile their payload.
	Chunks []uint64

	// Compression level, 0 = none.
	Compression int
}

// ApplyDatasetOptions resolves opts for a dataset of the given extent.
func ApplyDatasetOptions(extent []uint64, opts ...DatasetOption) (DatasetConfig, error) {
	var cfg DatasetConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.MaxExtent == nil {
		cfg.MaxExtent = make([]uint64, len(extent))
	}
	if len(cfg.MaxExtent) != len(extent) {
		return cfg, fmt.Errorf("max extent rank %d does not match extent rank %d", len(cfg.MaxExtent), len(extent))
	}
	if err := CheckExtent(extent, cfg.MaxExtent); err != nil {
		return cfg, err
	}
	if cfg.Chunks != nil && len(cfg.Chunks) != len(extent) {
		return cfg, fmt.Errorf("chunk rank %d does not match extent rank %d", len(cfg.Chunks), len(extent))
	}
	return cfg, nil
}

// CheckExtent validates extent against maxExtent.
func CheckExtent(extent, maxExtent []uint64) error {
	if len(extent) != len(maxExtent) {
		return fmt.Errorf("%w: rank change from %d to %d", ErrUnsupported, len(maxExtent), len(extent))
	}
	for d, n := range extent {
		if maxExtent[d] != Unlimited && n > maxExtent[d] {
			return fmt.Errorf("%w: axis %d: extent %d exceeds maximum %d", ErrUnsupported, d, n, maxExtent[d])
		}
	}
	return nil
}

// WithMaxExtent limits the size of each axis. Use Unlimited for an
// unbounded axis.
func WithMaxExtent(dims ...uint64) DatasetOption {
	return func(c *DatasetConfig) {
		c.MaxExtent = append([]uint64(nil), dims...)
	}
}

// WithChunks sets the chunk dimensions.
func WithChunks(dims ...uint64) DatasetOption {
	return func(c *DatasetConfig) {
		c.Chunks = append([]uint64(nil), dims...)
	}
}

// WithCompression sets the compression level (1-22, 0 = none).
func WithCompression(level int) DatasetOption {
	return func(c *DatasetConfig) {
		if level >= 0 && level <= 22 {
			c.Compression = level
		}
	}
}
