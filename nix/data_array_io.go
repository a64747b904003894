package nix

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-nix/internal/dtype"
	"github.com/robert-malhotra/go-nix/storage"
)

// DataExtent returns the current extent of the data.
func (d DataArray) DataExtent() (NDSize, error) {
	ds, err := d.dataset()
	if err != nil {
		return nil, err
	}
	return NDSize(ds.Extent()), nil
}

// SetDataExtent resizes the data. Cells inside both the old and the new
// extent keep their values, new cells are zero. The rank cannot change
// (ErrExtentMismatch) and axes limited at creation cannot grow past their
// limit (ErrUnsupported).
func (d DataArray) SetDataExtent(extent NDSize) error {
	ds, err := d.dataset()
	if err != nil {
		return err
	}
	old := NDSize(ds.Extent())
	if len(extent) != len(old) {
		err := fmt.Errorf("%w: cannot change rank from %d to %d", ErrExtentMismatch, len(old), len(extent))
		d.logger().LogResize(d.ID(), old, extent, err)
		return err
	}
	err = translateError(ds.SetExtent(extent))
	d.logger().LogResize(d.ID(), old, extent, err)
	return err
}

// checkBlock validates a block selection against the current extent and
// the buffer and returns the number of cells it covers.
func (d DataArray) checkBlock(ds storage.Dataset, buf any, extent, offset NDSize) (int, error) {
	_, n, err := dtype.Of(buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	current := NDSize(ds.Extent())
	if !extent.Fits(offset, current) {
		return 0, fmt.Errorf("%w: block %s at %s does not fit extent %s",
			ErrExtentMismatch, extent, offset, current)
	}
	cells := extent.Elements()
	if uint64(n) < cells {
		return 0, fmt.Errorf("%w: buffer holds %d values, block needs %d", ErrExtentMismatch, n, cells)
	}
	return int(cells), nil
}

// SetData writes buf into the block of the given extent at offset. buf is a
// slice of a Go numeric type; its first extent.Elements() values are
// converted to the stored element type (truncating toward zero) and written
// without calibration. The block must lie within the current extent;
// writes never grow the data.
func (d DataArray) SetData(buf any, extent, offset NDSize) error {
	ds, err := d.dataset()
	if err != nil {
		return err
	}
	cells, err := d.checkBlock(ds, buf, extent, offset)
	if err != nil {
		return err
	}
	raw, err := dtype.Encode(ds.DataType(), head(buf, cells))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return translateError(ds.WriteBlock(raw, extent, offset))
}

// GetData reads the block of the given extent at offset into buf, a slice
// of a Go numeric type with room for extent.Elements() values.
//
// When a calibration is configured and differs from the identity, every raw
// value x is mapped to p(x - origin) in float64 before it is converted to
// the element type of buf; integer targets truncate toward zero. Otherwise
// values are converted straight from the stored type.
func (d DataArray) GetData(buf any, extent, offset NDSize) error {
	ds, err := d.dataset()
	if err != nil {
		return err
	}
	cells, err := d.checkBlock(ds, buf, extent, offset)
	if err != nil {
		return err
	}
	raw, err := ds.ReadBlock(extent, offset)
	if err != nil {
		return translateError(err)
	}

	dst := head(buf, cells)
	if p, ok := d.calibration(); ok && !p.identity() {
		vals, err := dtype.ToFloat64s(ds.DataType(), raw)
		if err != nil {
			return err
		}
		p.apply(vals)
		return dtype.FromFloat64s(vals, dst)
	}
	return dtype.Decode(ds.DataType(), raw, dst)
}

// SetDataAll resizes the data to extent and writes buf at the origin.
func (d DataArray) SetDataAll(buf any, extent NDSize) error {
	if err := d.SetDataExtent(extent); err != nil {
		return err
	}
	return d.SetData(buf, extent, Zeros(len(extent)))
}

// ReadData reads the block of the given extent at offset as a new slice.
func ReadData[T Numeric](d DataArray, extent, offset NDSize) ([]T, error) {
	out := make([]T, extent.Elements())
	if err := d.GetData(out, extent, offset); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteData writes buf into the block of the given extent at offset.
func WriteData[T Numeric](d DataArray, buf []T, extent, offset NDSize) error {
	return d.SetData(buf, extent, offset)
}

// ReadAll reads the whole data as a new slice in row-major order.
func ReadAll[T Numeric](d DataArray) ([]T, error) {
	extent, err := d.DataExtent()
	if err != nil {
		return nil, err
	}
	return ReadData[T](d, extent, Zeros(len(extent)))
}

// AppendData grows the data along axis and writes buf into the new cells.
// extent is the block being appended; on every other axis it must match
// the current extent.
func (d DataArray) AppendData(buf any, extent NDSize, axis int) error {
	current, err := d.DataExtent()
	if err != nil {
		return err
	}
	if len(extent) != len(current) {
		return fmt.Errorf("%w: block rank %d, data rank %d", ErrExtentMismatch, len(extent), len(current))
	}
	if axis < 0 || axis >= len(current) {
		return indexError("axis", axis, len(current))
	}
	for i := range current {
		if i != axis && extent[i] != current[i] {
			return fmt.Errorf("%w: axis %d is %d, block has %d", ErrExtentMismatch, i, current[i], extent[i])
		}
	}

	grown := append(NDSize(nil), current...)
	grown[axis] += extent[axis]
	offset := Zeros(len(current))
	offset[axis] = current[axis]

	if err := d.SetDataExtent(grown); err != nil {
		return err
	}
	if err := d.SetData(buf, extent, offset); err != nil {
		if rerr := d.SetDataExtent(current); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// head returns the first n elements of the slice buf.
func head(buf any, n int) any {
	v := reflect.ValueOf(buf)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Len() == n {
		return v.Interface()
	}
	return v.Slice(0, n).Interface()
}
