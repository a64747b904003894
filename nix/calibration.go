package nix

// polynomial is the read-time calibration of a DataArray:
// value = p(raw - origin) with coefficients ordered from the highest power
// down, so [3, 2, 1] is 3x² + 2x + 1. Without coefficients p(x) = x.
type polynomial struct {
	coefficients []float64
	hasCoeffs    bool
	origin       float64
}

func identityPolynomial() polynomial {
	return polynomial{}
}

// identity reports whether applying p leaves every value unchanged.
func (p polynomial) identity() bool {
	if p.origin != 0 {
		return false
	}
	if !p.hasCoeffs {
		return true
	}
	return len(p.coefficients) == 2 && p.coefficients[0] == 1 && p.coefficients[1] == 0
}

// eval evaluates p at raw with Horner's method.
func (p polynomial) eval(raw float64) float64 {
	x := raw - p.origin
	if !p.hasCoeffs {
		return x
	}
	var y float64
	for _, c := range p.coefficients {
		y = y*x + c
	}
	return y
}

// apply calibrates vals in place.
func (p polynomial) apply(vals []float64) {
	for i, v := range vals {
		vals[i] = p.eval(v)
	}
}
