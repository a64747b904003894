package nix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-nix/internal/units"
	"github.com/robert-malhotra/go-nix/storage"
)

// DataArray attribute keys and the name of its dataset.
const (
	attrLabel               = "label"
	attrExpansionOrigin     = "expansion_origin"
	attrPolynomCoefficients = "polynom_coefficients"
	attrSources             = "sources"

	datasetData = "data"
)

// DataArray owns one rectangular numeric dataset together with its axis
// descriptors and an optional read-time calibration.
type DataArray struct {
	metadataEntity
	block Block
}

// Equal reports whether d and o refer to the same backing node. Two null
// DataArrays are equal.
func (d DataArray) Equal(o DataArray) bool {
	return d.same(o.handle)
}

// Swap exchanges the entities referenced by d and o.
func (d *DataArray) Swap(o *DataArray) {
	*d, *o = *o, *d
}

// Block returns the Block owning the DataArray.
func (d DataArray) Block() Block {
	return d.block
}

func (d DataArray) dataset() (storage.Dataset, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	ds, err := d.node.OpenDataset(datasetData)
	if err != nil {
		return nil, translateError(err)
	}
	return ds, nil
}

// DataType returns the element type of the stored data, fixed at creation.
func (d DataArray) DataType() DataType {
	ds, err := d.dataset()
	if err != nil {
		return Nothing
	}
	return ds.DataType()
}

// Label returns the label and whether it is set.
func (d DataArray) Label() (string, bool) {
	return d.optString(attrLabel)
}

// SetLabel sets the label.
func (d DataArray) SetLabel(label string) error {
	return d.setAttr(attrLabel, label)
}

// ClearLabel removes the label.
func (d DataArray) ClearLabel() error {
	return d.removeAttr(attrLabel)
}

// Unit returns the unit and whether it is set.
func (d DataArray) Unit() (string, bool) {
	return d.optString(attrUnit)
}

// SetUnit sets the unit of the data values. It must be an atomic or
// compound SI unit such as "mV" or "m/s^2".
func (d DataArray) SetUnit(unit string) error {
	if !units.Valid(unit) {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return d.setAttr(attrUnit, unit)
}

// ClearUnit removes the unit.
func (d DataArray) ClearUnit() error {
	return d.removeAttr(attrUnit)
}

// ExpansionOrigin returns the calibration origin and whether it is set.
// An unset origin reads as 0.
func (d DataArray) ExpansionOrigin() (float64, bool) {
	return d.optFloat(attrExpansionOrigin)
}

// SetExpansionOrigin sets the value subtracted from raw data before the
// polynomial is applied.
func (d DataArray) SetExpansionOrigin(origin float64) error {
	return d.setAttr(attrExpansionOrigin, origin)
}

// ClearExpansionOrigin removes the origin, which then reads as 0.
func (d DataArray) ClearExpansionOrigin() error {
	return d.removeAttr(attrExpansionOrigin)
}

// PolynomCoefficients returns the calibration coefficients, highest power
// first, and whether they are set. Without coefficients the calibration is
// p(x) = x.
func (d DataArray) PolynomCoefficients() ([]float64, bool) {
	return d.optFloats(attrPolynomCoefficients)
}

// SetPolynomCoefficients stores the calibration coefficients, highest power
// first: [3, 2, 1] is 3x² + 2x + 1. An empty slice is stored as such and
// calibrates every value to 0.
func (d DataArray) SetPolynomCoefficients(coefficients []float64) error {
	if coefficients == nil {
		coefficients = []float64{}
	}
	return d.setAttr(attrPolynomCoefficients, coefficients)
}

// ClearPolynomCoefficients removes the coefficients, leaving p(x) = x so a
// read returns raw - origin.
func (d DataArray) ClearPolynomCoefficients() error {
	return d.removeAttr(attrPolynomCoefficients)
}

// calibration returns the configured polynomial and whether any part of it
// is set.
func (d DataArray) calibration() (polynomial, bool) {
	p := identityPolynomial()
	coeffs, hasCoeffs := d.PolynomCoefficients()
	if hasCoeffs {
		p.coefficients, p.hasCoeffs = coeffs, true
	}
	origin, hasOrigin := d.ExpansionOrigin()
	if hasOrigin {
		p.origin = origin
	}
	return p, hasCoeffs || hasOrigin
}

// SourceIDs returns the ids of the referenced Sources, dangling ones
// included.
func (d DataArray) SourceIDs() []string {
	return d.stringsAttr(attrSources)
}

// AddSource references a Source of the owning Block by id. Adding an id
// twice is a no-op.
func (d DataArray) AddSource(id string) error {
	if err := d.check(); err != nil {
		return err
	}
	if _, err := d.block.findSource(id); err != nil {
		return err
	}
	ids := d.SourceIDs()
	if slices.Contains(ids, id) {
		return nil
	}
	return d.setAttr(attrSources, append(ids, id))
}

// RemoveSource drops a Source reference. It reports whether the id was
// referenced; the Source itself is not deleted.
func (d DataArray) RemoveSource(id string) (bool, error) {
	if err := d.check(); err != nil {
		return false, err
	}
	ids := d.SourceIDs()
	i := slices.Index(ids, id)
	if i < 0 {
		return false, nil
	}
	return true, d.setAttr(attrSources, slices.Delete(ids, i, i+1))
}

// HasSource reports whether the Source id is referenced.
func (d DataArray) HasSource(id string) bool {
	return slices.Contains(d.SourceIDs(), id)
}

// SourceCount returns the number of referenced Source ids.
func (d DataArray) SourceCount() int {
	return len(d.SourceIDs())
}

// Sources resolves the referenced Sources passing filter. References whose
// Source was deleted are skipped.
func (d DataArray) Sources(filter Filter[Source]) ([]Source, error) {
	out := []Source{}
	for _, id := range d.SourceIDs() {
		s, err := d.block.findSource(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if filter.accept(s) {
			out = append(out, s)
		}
	}
	return out, nil
}
