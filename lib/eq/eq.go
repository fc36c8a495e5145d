/*package eq is a simple package for telling whether two arrays are equal to
one another.*/
package eq

import (
	"math"
)

// Strings returns true if two []string arrays are the same and false otherwise.
// Header lines are compared with this.
func Strings(x, y []string) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise. NaN values compare equal to one another, since missing peaks and
// electron fractions are written as NaN.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if math.IsNaN(x[i]) && math.IsNaN(y[i]) {
			continue
		}
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i]+eps < y[i] || x[i]-eps > y[i] {
			return false
		}
	}
	return true
}

// Float64sRel is Float64sEps, but eps is relative to the magnitude of the
// larger element. CGS values span ~50 orders of magnitude, so absolute
// tolerances are useless after unit conversion.
func Float64sRel(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		scale := math.Max(math.Abs(x[i]), math.Abs(y[i]))
		if math.Abs(x[i]-y[i]) > eps*scale {
			return false
		}
	}
	return true
}
