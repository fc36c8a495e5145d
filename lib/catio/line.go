package catio

import (
	"strconv"
	"strings"
)

// LineKind tags the result of classifying one line of a particle file.
type LineKind int

const (
	// Blank lines contain nothing but whitespace and are skipped.
	Blank LineKind = iota
	// DataRecord lines start with a non-negative integer particle ID.
	DataRecord
	// HeaderLine lines start with anything else and hold column names.
	HeaderLine
)

func (k LineKind) String() string {
	switch k {
	case Blank:
		return "blank"
	case DataRecord:
		return "data"
	case HeaderLine:
		return "header"
	}
	return "unknown"
}

// Line is a classified line. ID is only meaningful for DataRecord lines.
type Line struct {
	Kind   LineKind
	ID     int64
	Fields []string
}

// Record is a single particle's row from a data file. Fields includes the ID
// as its first element, so header indices can be used directly.
type Record struct {
	ID     int64
	Fields []string
}

// ClassifyLine splits a line with the given separator and decides whether it
// is a data record or a header. Trailing whitespace (including "\r") is
// removed first.
func ClassifyLine(text, sep string) Line {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return Line{Kind: Blank}
	}

	fields := strings.Split(text, sep)
	id, ok := parseID(fields[0])
	if !ok {
		return Line{Kind: HeaderLine, Fields: fields}
	}
	return Line{Kind: DataRecord, ID: id, Fields: fields}
}

// parseID returns the non-negative integer in tok. Leading signs are not
// accepted, so "-1" is a column name as far as this package is concerned.
func parseID(tok string) (int64, bool) {
	if len(tok) == 0 {
		return 0, false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
