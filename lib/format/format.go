/*package format handles the miniature sequence language used to list SDF file
extensions in configuration files, e.g:

   Skip = 0..100 - 63

Sequence formats are a generic way to specify non-contiguous sets of natural
numbers. They consist of a series of tokens separated by "+" or "-". Each
token can be either a number or two numbers separated by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

All "+" tokens are applied before any "-" tokens, so 1, 2, 3, 15, 16, 17 can be
written as 1..17 - 4..14. Adding a number twice or removing a number that was
never added is an error, since it's almost always a typo.

All spaces around "-" and "+" symbols are ignored. An empty format is the
empty set.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any sets which would have more than BigNumber elements are assumed to
	// be bugs.
	BigNumber = 1 << 20
)

// Set is a set of integers specified by a sequence format.
type Set map[int]struct{}

// Contains returns true if n is in the set.
func (s Set) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members of the set in ascending order.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ParseSet parses a sequence format string.
func ParseSet(format string) (Set, error) {
	tok := tokenize(format)
	if len(tok) == 0 {
		return Set{}, nil
	}
	adds, subs, err := splitOperations(tok)
	if err != nil {
		return nil, fmt.Errorf("The sequence '%s' is not valid. %s",
			format, err.Error())
	}

	s := Set{}
	for _, r := range adds {
		if r.hi-r.lo+1 > BigNumber-len(s) {
			return nil, fmt.Errorf("The sequence '%s' would have more than "+
				"%d elements, which is almost certainly a bug.", format, BigNumber)
		}
		for n := r.lo; n <= r.hi; n++ {
			if s.Contains(n) {
				return nil, fmt.Errorf("The number %d is added to the "+
					"sequence '%s' more than once.", n, format)
			}
			s[n] = struct{}{}
		}
	}

	for _, r := range subs {
		for n := r.lo; n <= r.hi; n++ {
			if !s.Contains(n) {
				return nil, fmt.Errorf("The number %d is removed from the "+
					"sequence '%s' more times than it was added.", n, format)
			}
			delete(s, n)
		}
	}

	return s, nil
}

// ExpandSequence expands a sequence format into a sorted list of integers.
func ExpandSequence(format string) ([]int, error) {
	s, err := ParseSet(format)
	if err != nil {
		return nil, err
	}
	return s.Sorted(), nil
}

// span is an inclusive range of integers.
type span struct{ lo, hi int }

// tokenize splits a format into numbers, ranges, and operators.
func tokenize(format string) []string {
	format = strings.ReplaceAll(format, "+", " + ")
	format = strings.ReplaceAll(format, "-", " - ")
	return strings.Fields(format)
}

// splitOperations sorts tokens into the spans being added and the spans being
// removed. The leading "+" may be dropped.
func splitOperations(tok []string) (adds, subs []span, err error) {
	if tok[0] != "+" && tok[0] != "-" {
		tok = append([]string{"+"}, tok...)
	}

	for i := 0; i < len(tok); i += 2 {
		op := tok[i]
		if op != "+" && op != "-" {
			return nil, nil, fmt.Errorf(
				"Element '%s' should be a '-' or '+', but isn't.", op)
		}
		if i+1 >= len(tok) {
			return nil, nil, fmt.Errorf("It ends in a trailing '%s'.", op)
		}

		r, err := parseSpan(tok[i+1])
		if err != nil {
			return nil, nil, fmt.Errorf(
				"Element '%s' cannot be parsed because %s", tok[i+1], err.Error())
		}

		if op == "+" {
			adds = append(adds, r)
		} else {
			subs = append(subs, r)
		}
	}

	return adds, subs, nil
}

// parseSpan parses a single number or range token. The error message assumes
// it is printed after a trailing "because".
func parseSpan(tok string) (span, error) {
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		n, err := strconv.Atoi(bounds[0])
		if err != nil {
			return span{}, fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return span{n, n}, nil
	case 2:
		lo, err := strconv.Atoi(bounds[0])
		if err != nil {
			return span{}, fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		hi, err := strconv.Atoi(bounds[1])
		if err != nil {
			return span{}, fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if hi < lo {
			return span{}, fmt.Errorf(
				"lower bound %d is larger than upper bound %d.", lo, hi)
		}
		return span{lo, hi}, nil
	}
	return span{}, fmt.Errorf("it has more than one '..'.")
}
