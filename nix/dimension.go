package nix

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/robert-malhotra/go-nix/internal/units"
)

// DimensionType tags the kind of a Dimension.
type DimensionType string

const (
	DimensionSample DimensionType = "sample"
	DimensionSet    DimensionType = "set"
	DimensionRange  DimensionType = "range"
)

// Dimension attribute keys.
const (
	attrDimensionType    = "dimension_type"
	attrIndex            = "index"
	attrSamplingInterval = "sampling_interval"
	attrOffset           = "offset"
	attrLabels           = "labels"
	attrTicks            = "ticks"
)

// Dimension describes one axis of a DataArray. It is one of
// SampledDimension, SetDimension or RangeDimension.
type Dimension interface {
	// Index returns the 1-based axis the descriptor belongs to.
	Index() int
	DimensionType() DimensionType
	isDimension()
}

type dimension struct {
	handle
}

// Index returns the 1-based axis the descriptor belongs to.
func (d dimension) Index() int {
	if d.node == nil {
		return 0
	}
	v, _ := d.node.Attr(attrIndex)
	i, _ := v.(int64)
	return int(i)
}

func (dimension) isDimension() {}

// SampledDimension describes a regularly sampled axis: position i lies at
// offset + i*interval.
type SampledDimension struct {
	dimension
}

// DimensionType returns DimensionSample.
func (SampledDimension) DimensionType() DimensionType { return DimensionSample }

// SamplingInterval returns the distance between neighbouring samples.
func (s SampledDimension) SamplingInterval() float64 {
	f, _ := s.optFloat(attrSamplingInterval)
	return f
}

// SetSamplingInterval sets the interval; it must be positive.
func (s SampledDimension) SetSamplingInterval(interval float64) error {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return fmt.Errorf("%w: sampling interval %g", ErrInvalidValue, interval)
	}
	return s.setAttr(attrSamplingInterval, interval)
}

// Offset returns the offset and whether it is set.
func (s SampledDimension) Offset() (float64, bool) {
	return s.optFloat(attrOffset)
}

// SetOffset sets the offset.
func (s SampledDimension) SetOffset(offset float64) error {
	return s.setAttr(attrOffset, offset)
}

// ClearOffset removes the offset.
func (s SampledDimension) ClearOffset() error {
	return s.removeAttr(attrOffset)
}

// Unit returns the unit and whether it is set.
func (s SampledDimension) Unit() (string, bool) {
	return s.optString(attrUnit)
}

// SetUnit sets the axis unit; it must be an atomic SI unit.
func (s SampledDimension) SetUnit(unit string) error {
	if !units.IsSI(unit) {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return s.setAttr(attrUnit, unit)
}

// ClearUnit removes the unit.
func (s SampledDimension) ClearUnit() error {
	return s.removeAttr(attrUnit)
}

// Label returns the label and whether it is set.
func (s SampledDimension) Label() (string, bool) {
	return s.optString(attrLabel)
}

// SetLabel sets the label.
func (s SampledDimension) SetLabel(label string) error {
	return s.setAttr(attrLabel, label)
}

// ClearLabel removes the label.
func (s SampledDimension) ClearLabel() error {
	return s.removeAttr(attrLabel)
}

// PositionAt returns the position of sample i.
func (s SampledDimension) PositionAt(i int) float64 {
	offset, _ := s.Offset()
	return offset + float64(i)*s.SamplingInterval()
}

// IndexOf returns the sample closest to position. Positions before the
// offset fail with ErrIndexOutOfRange.
func (s SampledDimension) IndexOf(position float64) (int, error) {
	offset, _ := s.Offset()
	interval := s.SamplingInterval()
	if interval <= 0 {
		return 0, fmt.Errorf("%w: sampling interval %g", ErrInvalidValue, interval)
	}
	i := math.Round((position - offset) / interval)
	if i < 0 {
		return 0, fmt.Errorf("%w: position %g lies before offset %g", ErrIndexOutOfRange, position, offset)
	}
	return int(i), nil
}

// IndexOfUnit is IndexOf for a position given in unit, which must scale
// into the axis unit (e.g. "ms" on an "s" axis).
func (s SampledDimension) IndexOfUnit(position float64, unit string) (int, error) {
	p, err := toAxisUnit(position, unit, s.Unit)
	if err != nil {
		return 0, err
	}
	return s.IndexOf(p)
}

// SetDimension describes an axis of unordered categories, optionally
// labelled.
type SetDimension struct {
	dimension
}

// DimensionType returns DimensionSet.
func (SetDimension) DimensionType() DimensionType { return DimensionSet }

// Labels returns the category labels, empty if none are set.
func (s SetDimension) Labels() []string {
	return s.stringsAttr(attrLabels)
}

// SetLabels replaces the category labels. A nil slice stores no labels.
func (s SetDimension) SetLabels(labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	return s.setAttr(attrLabels, labels)
}

// ClearLabels removes the category labels.
func (s SetDimension) ClearLabels() error {
	return s.removeAttr(attrLabels)
}

// RangeDimension describes an irregularly sampled axis by its ticks.
type RangeDimension struct {
	dimension
}

// DimensionType returns DimensionRange.
func (RangeDimension) DimensionType() DimensionType { return DimensionRange }

// Ticks returns the strictly ascending tick positions.
func (r RangeDimension) Ticks() []float64 {
	t, _ := r.optFloats(attrTicks)
	return t
}

// SetTicks replaces the ticks; they must be non-empty and strictly
// ascending.
func (r RangeDimension) SetTicks(ticks []float64) error {
	if err := checkTicks(ticks); err != nil {
		return err
	}
	return r.setAttr(attrTicks, ticks)
}

func checkTicks(ticks []float64) error {
	if len(ticks) == 0 {
		return fmt.Errorf("%w: range dimension needs at least one tick", ErrInvalidValue)
	}
	for i := 1; i < len(ticks); i++ {
		if !(ticks[i] > ticks[i-1]) {
			return fmt.Errorf("%w: ticks not strictly ascending at %d", ErrInvalidValue, i)
		}
	}
	return nil
}

// Unit returns the unit and whether it is set.
func (r RangeDimension) Unit() (string, bool) {
	return r.optString(attrUnit)
}

// SetUnit sets the axis unit; it must be an atomic SI unit.
func (r RangeDimension) SetUnit(unit string) error {
	if !units.IsSI(unit) {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return r.setAttr(attrUnit, unit)
}

// ClearUnit removes the unit.
func (r RangeDimension) ClearUnit() error {
	return r.removeAttr(attrUnit)
}

// Label returns the label and whether it is set.
func (r RangeDimension) Label() (string, bool) {
	return r.optString(attrLabel)
}

// SetLabel sets the label.
func (r RangeDimension) SetLabel(label string) error {
	return r.setAttr(attrLabel, label)
}

// ClearLabel removes the label.
func (r RangeDimension) ClearLabel() error {
	return r.removeAttr(attrLabel)
}

// TickAt returns the i-th tick.
func (r RangeDimension) TickAt(i int) (float64, error) {
	ticks := r.Ticks()
	if i < 0 || i >= len(ticks) {
		return 0, indexError("tick", i, len(ticks))
	}
	return ticks[i], nil
}

// IndexOf returns the index of the first tick at or after position.
// Positions past the last tick fail with ErrIndexOutOfRange.
func (r RangeDimension) IndexOf(position float64) (int, error) {
	ticks := r.Ticks()
	i := sort.SearchFloat64s(ticks, position)
	if i >= len(ticks) {
		return 0, fmt.Errorf("%w: position %g lies after the last tick", ErrIndexOutOfRange, position)
	}
	return i, nil
}

// IndexOfUnit is IndexOf for a position given in unit.
func (r RangeDimension) IndexOfUnit(position float64, unit string) (int, error) {
	p, err := toAxisUnit(position, unit, r.Unit)
	if err != nil {
		return 0, err
	}
	return r.IndexOf(p)
}

// toAxisUnit converts position from unit into the unit of an axis. An empty
// unit means the position is already in axis units.
func toAxisUnit(position float64, unit string, axisUnit func() (string, bool)) (float64, error) {
	to, ok := axisUnit()
	if unit == "" || unit == to {
		return position, nil
	}
	if !ok {
		return 0, fmt.Errorf("%w: axis has no unit to convert %q into", ErrInvalidUnit, unit)
	}
	factor, err := Scaling(unit, to)
	if err != nil {
		return 0, err
	}
	return position * factor, nil
}

// dimensionsNode returns the "dimensions" group of the DataArray.
func (d DataArray) dimensionsNode(create bool) (handle, error) {
	if err := d.check(); err != nil {
		return handle{}, err
	}
	if !create && !d.node.HasChild(groupDimensions) {
		return handle{}, nil
	}
	n, err := d.node.OpenChild(groupDimensions, create)
	if err != nil {
		return handle{}, translateError(err)
	}
	return handle{node: n, file: d.file}, nil
}

// DimensionCount returns the number of axis descriptors.
func (d DataArray) DimensionCount() int {
	g, err := d.dimensionsNode(false)
	if err != nil || g.IsNull() {
		return 0
	}
	return g.node.ChildCount()
}

func wrapDimension(h handle) (Dimension, error) {
	typ, _ := h.optString(attrDimensionType)
	switch DimensionType(typ) {
	case DimensionSample:
		return SampledDimension{dimension{h}}, nil
	case DimensionSet:
		return SetDimension{dimension{h}}, nil
	case DimensionRange:
		return RangeDimension{dimension{h}}, nil
	default:
		return nil, fmt.Errorf("%w: dimension type %q", ErrUnsupported, typ)
	}
}

// GetDimension returns the descriptor at the 1-based index. An index
// outside 1..DimensionCount() yields nil without an error.
func (d DataArray) GetDimension(index int) (Dimension, error) {
	g, err := d.dimensionsNode(false)
	if err != nil {
		return nil, err
	}
	name := strconv.Itoa(index)
	if g.IsNull() || index < 1 || !g.node.HasChild(name) {
		return nil, nil
	}
	n, err := g.node.OpenChild(name, false)
	if err != nil {
		return nil, translateError(err)
	}
	return wrapDimension(handle{node: n, file: d.file})
}

// Dimensions returns the descriptors passing filter in axis order.
func (d DataArray) Dimensions(filter Filter[Dimension]) ([]Dimension, error) {
	out := []Dimension{}
	count := d.DimensionCount()
	for i := 1; i <= count; i++ {
		dim, err := d.GetDimension(i)
		if err != nil {
			return nil, err
		}
		if dim != nil && filter.accept(dim) {
			out = append(out, dim)
		}
	}
	return out, nil
}

// createDimension puts a fresh descriptor node at index, replacing an
// existing one. Valid indices are 1..DimensionCount()+1. The descriptor is
// built under a staging name and only moved into place once complete, so a
// failure leaves the existing descriptors untouched.
func (d DataArray) createDimension(index int, typ DimensionType, init func(h handle) error) (handle, error) {
	g, err := d.dimensionsNode(true)
	if err != nil {
		return handle{}, err
	}
	count := g.node.ChildCount()
	if index < 1 || index > count+1 {
		return handle{}, indexError("dimension", index, count)
	}

	name := strconv.Itoa(index)
	staging, replaced := "new-"+name, "old-"+name
	n, err := g.node.OpenChild(staging, true)
	if err != nil {
		return handle{}, translateError(err)
	}
	h := handle{node: n, file: d.file}
	err = n.SetAttr(attrDimensionType, string(typ))
	if err == nil {
		err = n.SetAttr(attrIndex, int64(index))
	}
	if err == nil {
		err = init(h)
	}
	if err != nil {
		_, _ = g.node.RemoveChild(staging)
		return handle{}, err
	}

	replace := g.node.HasChild(name)
	if replace {
		if err := g.node.MoveChild(name, replaced); err != nil {
			_, _ = g.node.RemoveChild(staging)
			return handle{}, translateError(err)
		}
	}
	if err := g.node.MoveChild(staging, name); err != nil {
		_, _ = g.node.RemoveChild(staging)
		if replace {
			_ = g.node.MoveChild(replaced, name)
		}
		return handle{}, translateError(err)
	}
	if replace {
		if _, err := g.node.RemoveChild(replaced); err != nil {
			return handle{}, translateError(err)
		}
	}

	if err := d.touch(); err != nil {
		return handle{}, err
	}
	d.logger().LogCreate("dimension", name, string(typ))
	return h, nil
}

// CreateSampledDimension puts a SampledDimension at the 1-based index.
func (d DataArray) CreateSampledDimension(index int, interval float64) (SampledDimension, error) {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return SampledDimension{}, fmt.Errorf("%w: sampling interval %g", ErrInvalidValue, interval)
	}
	h, err := d.createDimension(index, DimensionSample, func(h handle) error {
		return h.node.SetAttr(attrSamplingInterval, interval)
	})
	if err != nil {
		return SampledDimension{}, err
	}
	return SampledDimension{dimension{h}}, nil
}

// CreateSetDimension puts a SetDimension at the 1-based index.
func (d DataArray) CreateSetDimension(index int) (SetDimension, error) {
	h, err := d.createDimension(index, DimensionSet, func(handle) error { return nil })
	if err != nil {
		return SetDimension{}, err
	}
	return SetDimension{dimension{h}}, nil
}

// CreateRangeDimension puts a RangeDimension with the given ticks at the
// 1-based index.
func (d DataArray) CreateRangeDimension(index int, ticks []float64) (RangeDimension, error) {
	if err := checkTicks(ticks); err != nil {
		return RangeDimension{}, err
	}
	h, err := d.createDimension(index, DimensionRange, func(h handle) error {
		return h.node.SetAttr(attrTicks, ticks)
	})
	if err != nil {
		return RangeDimension{}, err
	}
	return RangeDimension{dimension{h}}, nil
}

// AppendSampledDimension adds a SampledDimension after the last axis.
func (d DataArray) AppendSampledDimension(interval float64) (SampledDimension, error) {
	return d.CreateSampledDimension(d.DimensionCount()+1, interval)
}

// AppendSetDimension adds a SetDimension after the last axis.
func (d DataArray) AppendSetDimension() (SetDimension, error) {
	return d.CreateSetDimension(d.DimensionCount() + 1)
}

// AppendRangeDimension adds a RangeDimension after the last axis.
func (d DataArray) AppendRangeDimension(ticks []float64) (RangeDimension, error) {
	return d.CreateRangeDimension(d.DimensionCount()+1, ticks)
}

// DeleteDimension removes the descriptor at the 1-based index and moves
// every descriptor above it down by one, so indices stay contiguous. It
// returns false if index is out of range.
func (d DataArray) DeleteDimension(index int) (bool, error) {
	g, err := d.dimensionsNode(false)
	if err != nil {
		return false, err
	}
	if g.IsNull() {
		return false, nil
	}
	count := g.node.ChildCount()
	if index < 1 || index > count {
		return false, nil
	}

	if _, err := g.node.RemoveChild(strconv.Itoa(index)); err != nil {
		return false, translateError(err)
	}
	for i := index + 1; i <= count; i++ {
		from, to := strconv.Itoa(i), strconv.Itoa(i-1)
		if err := g.node.MoveChild(from, to); err != nil {
			return true, fmt.Errorf("renumber dimension %d: %w", i, translateError(err))
		}
		n, err := g.node.OpenChild(to, false)
		if err != nil {
			return true, translateError(err)
		}
		if err := n.SetAttr(attrIndex, int64(i-1)); err != nil {
			return true, err
		}
	}
	if err := d.touch(); err != nil {
		return true, err
	}
	d.logger().LogDelete("dimension", strconv.Itoa(index), true)
	return true, nil
}
