/*package units converts SNSPH code units to CGS. Every conversion is a pure
linear scale by a fixed factor, so the factors are derived once from the three
base units and stored in an immutable Units value.
*/
package units

import (
	"fmt"
	"strconv"
)

const (
	// SolarMass is 1 Msun in grams.
	SolarMass = 1.9889e33
	// SolarRadius is 1 Rsun in centimeters.
	SolarRadius = 6.955e10
)

// Units holds the CGS values of SNSPH's base units.
type Units struct {
	Mass, Length, Time float64
}

// SNSPH contains the "exact" values taken from an initial.ctl file used by
// SNSPH: 1e-6 Msun, 1 Rsun and 100 seconds.
var SNSPH = Units{
	Mass:   1e-6 * SolarMass,
	Length: SolarRadius,
	Time:   100.0,
}

// Velocity returns the CGS value of the code velocity unit.
func (u Units) Velocity() float64 { return u.Length / u.Time }

// Density returns the CGS value of the code density unit.
func (u Units) Density() float64 {
	return u.Mass / (u.Length * u.Length * u.Length)
}

// Acceleration returns the CGS value of the code acceleration unit.
func (u Units) Acceleration() float64 { return u.Length / (u.Time * u.Time) }

// Validate returns an error if any of the base units are non-positive.
func (u Units) Validate() error {
	if !(u.Mass > 0) || !(u.Length > 0) || !(u.Time > 0) {
		return fmt.Errorf("unit values must be positive, but Mass = %g, "+
			"Length = %g, and Time = %g", u.Mass, u.Length, u.Time)
	}
	return nil
}

// Scale multiplies v by factor.
func Scale(v, factor float64) float64 { return v * factor }

// FormatFloat prints a float the way every output column is printed.
func FormatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ConvertStrings parses each value, scales it by factor, and writes the
// formatted result back into values.
func ConvertStrings(factor float64, values ...*string) error {
	if len(values) == 0 {
		return fmt.Errorf("no values passed to ConvertStrings")
	}
	for _, s := range values {
		x, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return err
		}
		*s = FormatFloat(Scale(x, factor))
	}
	return nil
}

// ConvertLength converts lengths from SNSPH units to centimeters.
func (u Units) ConvertLength(values ...*string) error {
	return ConvertStrings(u.Length, values...)
}

// ConvertMass converts masses from SNSPH units to grams.
func (u Units) ConvertMass(values ...*string) error {
	return ConvertStrings(u.Mass, values...)
}

// ConvertTime converts times from SNSPH units to seconds.
func (u Units) ConvertTime(values ...*string) error {
	return ConvertStrings(u.Time, values...)
}

// ConvertVelocity converts velocities from SNSPH units to cm/s.
func (u Units) ConvertVelocity(values ...*string) error {
	return ConvertStrings(u.Velocity(), values...)
}

// ConvertDensity converts densities from SNSPH units to g/cm^3.
func (u Units) ConvertDensity(values ...*string) error {
	return ConvertStrings(u.Density(), values...)
}

// ConvertAcceleration converts accelerations from SNSPH units to cm/s^2.
func (u Units) ConvertAcceleration(values ...*string) error {
	return ConvertStrings(u.Acceleration(), values...)
}
