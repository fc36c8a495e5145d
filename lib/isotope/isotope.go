/*package isotope parses and names the elements and isotopes that burn_query
is asked about. Isotopes are written as a mass number followed by an element
symbol, e.g. "26Al", "7Be", or "1n" for a free neutron. Targets in the
abundances list may also be bare element symbols, e.g. "Ti".
*/
package isotope

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// Symbols lists element symbols by atomic number. Index 0 is the neutron.
var Symbols = []string{
	"n",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = map[string]int{}

func init() {
	for z, sym := range Symbols {
		atomicNumbers[sym] = z
	}
}

// Z returns the atomic number of an element symbol.
func Z(symbol string) (int, bool) {
	z, ok := atomicNumbers[symbol]
	return z, ok
}

// IsElement returns true if target is a bare element symbol rather than an
// isotope.
func IsElement(target string) bool {
	if target == "" {
		return false
	}
	for _, c := range target {
		if !unicode.IsLetter(c) {
			return false
		}
	}
	return true
}

// NNNZ returns the neutron and proton counts of an isotope. The mass number
// may come before or after the symbol ("22Na" or "Na22").
func NNNZ(iso string) (nn, nz int, err error) {
	digits, letters := &strings.Builder{}, &strings.Builder{}
	for _, c := range iso {
		switch {
		case c >= '0' && c <= '9':
			digits.WriteRune(c)
		case unicode.IsLetter(c):
			letters.WriteRune(c)
		default:
			return 0, 0, fmt.Errorf("Isotope '%s' contains the character "+
				"'%c'.", iso, c)
		}
	}

	if digits.Len() == 0 {
		return 0, 0, fmt.Errorf("Isotope '%s' has no mass number.", iso)
	}
	nz, ok := Z(letters.String())
	if !ok {
		return 0, 0, fmt.Errorf("Isotope '%s' has unknown element symbol "+
			"'%s'.", iso, letters.String())
	}
	mass, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, 0, err
	}
	if mass < nz {
		return 0, 0, fmt.Errorf("Isotope '%s' has mass number %d, which "+
			"is smaller than its atomic number, %d.", iso, mass, nz)
	}
	return mass - nz, nz, nil
}

// Name returns the standard name of the isotope with nn neutrons and nz
// protons, e.g. Name(13, 13) is "26Al".
func Name(nn, nz int) (string, error) {
	if nz < 0 || nz >= len(Symbols) {
		return "", fmt.Errorf("There is no element with Z = %d.", nz)
	} else if nn < 0 {
		return "", fmt.Errorf("An isotope can't have %d neutrons.", nn)
	}
	return strconv.Itoa(nn+nz) + Symbols[nz], nil
}

// Pad prefixes single-digit mass numbers with a zero, so "7Be" becomes
// "07Be". Query outfiles are named with padded isotopes so that every isotope
// of an element matches a two-digit glob.
func Pad(iso string) string {
	if len(iso) > 1 && iso[0] >= '0' && iso[0] <= '9' &&
		unicode.IsLetter(rune(iso[1])) {
		return "0" + iso
	}
	return iso
}

// QueryGlob returns the glob pattern in dir matching the sorted query files
// of an abundance target: every isotope of an element, or one isotope.
func QueryGlob(dir, target string) string {
	if IsElement(target) {
		return filepath.Join(dir, "[0-9][0-9]"+target+".out")
	}
	return filepath.Join(dir, "*"+target+".out")
}

// QueryFiles returns the query files in dir which match target.
func QueryFiles(dir, target string) ([]string, error) {
	return filepath.Glob(QueryGlob(dir, target))
}

// ReadList reads a whitespace-separated list of isotopes or elements.
func ReadList(fname string) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list := []string{}
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		list = append(list, sc.Text())
	}
	return list, sc.Err()
}
