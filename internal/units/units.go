// Package units validates and decomposes SI unit strings such as "mV",
// "s^-1" or "kg*m/s^2".
//
// An atomic unit is an optional prefix, a base unit and an optional power.
// A compound unit joins two or more atomic units with '*' or '/'.
package units

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	prefixes = `(?:Y|Z|E|P|T|G|M|k|h|da|d|c|m|u|n|p|f|a|z|y)`
	bases    = `(?:m|g|s|A|K|mol|cd|Hz|N|Pa|J|W|C|V|F|S|Wb|T|H|lm|lx|Bq|Gy|Sv|kat|l|L|Ohm|%)`
	power    = `(?:\^[+-]?[1-9]\d*)`
	atomic   = `(` + prefixes + `)?(` + bases + `)(` + power + `)?`
)

var (
	atomicRe   = regexp.MustCompile(`^` + atomic + `$`)
	compoundRe = regexp.MustCompile(`^(?:` + atomic + `[*/])+` + atomic + `$`)
	separator  = regexp.MustCompile(`[*/]`)
)

var (
	// ErrInvalid is returned for strings outside the unit grammar.
	ErrInvalid = errors.New("invalid SI unit")

	// ErrIncompatible is returned when two units cannot be scaled into each
	// other.
	ErrIncompatible = errors.New("incompatible units")
)

var prefixFactors = map[string]float64{
	"y": 1.0e-24, "z": 1.0e-21, "a": 1.0e-18, "f": 1.0e-15,
	"p": 1.0e-12, "n": 1.0e-9, "u": 1.0e-6, "m": 1.0e-3,
	"c": 1.0e-2, "d": 1.0e-1, "": 1.0, "da": 1.0e1, "h": 1.0e2,
	"k": 1.0e3, "M": 1.0e6, "G": 1.0e9, "T": 1.0e12, "P": 1.0e15,
	"E": 1.0e18, "Z": 1.0e21, "Y": 1.0e24,
}

// Unit is an atomic unit split into its parts. Power is empty or of the form
// "^n".
type Unit struct {
	Prefix string
	Base   string
	Power  string
}

func (u Unit) String() string {
	return u.Prefix + u.Base + u.Power
}

// Exponent returns the numeric power, 1 when none is given.
func (u Unit) Exponent() int {
	if u.Power == "" {
		return 1
	}
	n, err := strconv.Atoi(u.Power[1:])
	if err != nil {
		return 1
	}
	return n
}

// IsSI reports whether s is an atomic SI unit.
func IsSI(s string) bool {
	return atomicRe.MatchString(s)
}

// IsCompoundSI reports whether s is a compound SI unit.
func IsCompoundSI(s string) bool {
	return compoundRe.MatchString(s)
}

// Valid reports whether s is an atomic or compound SI unit.
func Valid(s string) bool {
	return IsSI(s) || IsCompoundSI(s)
}

// Split decomposes an atomic unit.
func Split(s string) (Unit, error) {
	m := atomicRe.FindStringSubmatch(s)
	if m == nil {
		return Unit{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Unit{Prefix: m[1], Base: m[2], Power: m[3]}, nil
}

// SplitCompound returns the atomic units of a compound unit in order. The
// separators are dropped.
func SplitCompound(s string) ([]string, error) {
	if !IsCompoundSI(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return separator.Split(s, -1), nil
}

// Scaling returns the factor that converts a value in unit from into unit to,
// e.g. Scaling("mV", "V") == 0.001. Both must be atomic units with the same
// base and power.
func Scaling(from, to string) (float64, error) {
	f, err := Split(from)
	if err != nil {
		return 0, err
	}
	t, err := Split(to)
	if err != nil {
		return 0, err
	}
	if f.Base != t.Base || f.Exponent() != t.Exponent() {
		return 0, fmt.Errorf("%w: %q and %q", ErrIncompatible, from, to)
	}
	ratio := prefixFactors[f.Prefix] / prefixFactors[t.Prefix]
	return math.Pow(ratio, float64(f.Exponent())), nil
}
