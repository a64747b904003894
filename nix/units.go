package nix

import (
	"fmt"

	"github.com/robert-malhotra/go-nix/internal/units"
)

// IsValidUnit reports whether s is an atomic or compound SI unit such as
// "mV" or "kg*m/s^2".
func IsValidUnit(s string) bool {
	return units.Valid(s)
}

// Scaling returns the factor converting a value in unit from into unit to,
// e.g. Scaling("mV", "V") is 0.001. Both must be atomic SI units with the
// same base and power.
func Scaling(from, to string) (float64, error) {
	f, err := units.Scaling(from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidUnit, err)
	}
	return f, nil
}
