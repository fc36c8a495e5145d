package catio

import (
	"fmt"
	"strconv"
)

// ReadFloat64s reads the named columns from every remaining record in r and
// interprets them as float64s. The columns are returned in the order they
// were requested. r must have a header.
func ReadFloat64s(r *Reader, columns []string) ([][]float64, error) {
	idxs := make([]int, len(columns))
	for i := range columns {
		idx, err := r.FindColumn(columns[i])
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}

	out := make([][]float64, len(columns))
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return nil, err
		} else if !ok {
			break
		}

		for i, idx := range idxs {
			if idx >= len(rec.Fields) {
				return nil, fmt.Errorf("particle %d in file %s has %d "+
					"fields, but column '%s' is field %d", rec.ID, r.Name(),
					len(rec.Fields), columns[i], idx)
			}
			x, err := strconv.ParseFloat(rec.Fields[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("particle %d in file %s: column "+
					"'%s': %w", rec.ID, r.Name(), columns[i], err)
			}
			out[i] = append(out[i], x)
		}
	}

	return out, nil
}

// ReadFileFloat64s opens a file, reads the named columns with ReadFloat64s,
// and closes it.
func ReadFileFloat64s(
	fname string, columns []string, config ...TextConfig,
) ([][]float64, error) {
	r, err := Open(fname, config...)
	if r != nil {
		defer r.Close()
	}
	if err != nil {
		return nil, err
	}
	return ReadFloat64s(r, columns)
}
