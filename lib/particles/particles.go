/*package particles decodes the per-particle lines written by the entropy
executables. Values are kept as the strings that appeared in the file so that
columns which are passed through untouched are written back byte-for-byte.
*/
package particles

import (
	"fmt"

	"github.com/phil-mansfield/snpost/lib/units"
)

// TerminalFields names the positional fields of an entropy output line.
var TerminalFields = []string{
	"id", "x", "y", "z", "temp", "u", "udot", "density",
	"vx", "vy", "vz", "h", "mass", "Y_e",
}

// Terminal is one particle from the entropy output of the final timestep.
type Terminal struct {
	ID            string
	X, Y, Z       string
	Temp, U, Udot string
	Density       string
	Vx, Vy, Vz    string
	H, Mass, Ye   string
}

// LayoutError is returned when a line does not have the number of fields
// required by its layout.
type LayoutError struct {
	Name      string
	ID        int64
	Got, Want int
}

func (err *LayoutError) Error() string {
	return fmt.Sprintf("Line for particle ID %d in file %s has %d fields, "+
		"but %d are required.", err.ID, err.Name, err.Got, err.Want)
}

// DecodeTerminal decodes the fields of a single entropy output line. name and
// id are only used for error messages.
func DecodeTerminal(name string, id int64, fields []string) (Terminal, error) {
	if len(fields) != len(TerminalFields) {
		return Terminal{}, &LayoutError{name, id, len(fields), len(TerminalFields)}
	}

	f := fields
	return Terminal{
		ID: f[0], X: f[1], Y: f[2], Z: f[3],
		Temp: f[4], U: f[5], Udot: f[6], Density: f[7],
		Vx: f[8], Vy: f[9], Vz: f[10],
		H: f[11], Mass: f[12], Ye: f[13],
	}, nil
}

// ToCGS converts every dimensionful field that is written to the merged table
// from code units to CGS.
func (t *Terminal) ToCGS(u units.Units) error {
	if err := u.ConvertLength(&t.X, &t.Y, &t.Z, &t.H); err != nil {
		return fmt.Errorf("particle %s: %s", t.ID, err.Error())
	}
	if err := u.ConvertVelocity(&t.Vx, &t.Vy, &t.Vz); err != nil {
		return fmt.Errorf("particle %s: %s", t.ID, err.Error())
	}
	if err := u.ConvertMass(&t.Mass); err != nil {
		return fmt.Errorf("particle %s: %s", t.ID, err.Error())
	}
	if err := u.ConvertDensity(&t.Density); err != nil {
		return fmt.Errorf("particle %s: %s", t.ID, err.Error())
	}
	return nil
}
