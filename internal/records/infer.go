package records

import (
	"math"
	"strconv"
	"strings"

	"examstats/pkg/contracts/domain"
)

// missingMarkers load as nil
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
	"#NA":  {},
}

type columnKind int

const (
	kindEmpty columnKind = iota
	kindBool
	kindInt
	kindFloat
	kindString
)

func isMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

func parseBool(cell string) (bool, bool) {
	switch strings.TrimSpace(cell) {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// inferKind picks the narrowest kind every non-missing cell parses as
func inferKind(cells []string) columnKind {
	kind := kindEmpty
	for _, cell := range cells {
		if isMissing(cell) {
			continue
		}
		kind = widen(kind, cellKind(cell))
		if kind == kindString {
			return kind
		}
	}
	return kind
}

func cellKind(cell string) columnKind {
	s := strings.TrimSpace(cell)
	if _, ok := parseBool(s); ok {
		return kindBool
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return kindInt
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return kindFloat
	}
	return kindString
}

func widen(current, next columnKind) columnKind {
	if current == kindEmpty {
		return next
	}
	if current == next {
		return current
	}
	// int and float mix to float; anything mixed with bool becomes string
	if (current == kindInt && next == kindFloat) || (current == kindFloat && next == kindInt) {
		return kindFloat
	}
	return kindString
}

func convertCell(cell string, kind columnKind) interface{} {
	if isMissing(cell) {
		return nil
	}
	s := strings.TrimSpace(cell)
	switch kind {
	case kindBool:
		b, _ := parseBool(s)
		return b
	case kindInt:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		if math.IsNaN(f) {
			return nil
		}
		return f
	}
	return cell
}

// typedRecords converts a rectangular grid of cells into typed records
func typedRecords(fields []string, cells [][]string) []domain.Record {
	kinds := make([]columnKind, len(fields))
	column := make([]string, len(cells))
	for c := range fields {
		for r, row := range cells {
			column[r] = row[c]
		}
		kinds[c] = inferKind(column)
	}

	out := make([]domain.Record, len(cells))
	for r, row := range cells {
		rec := make(domain.Record, len(fields))
		for c, name := range fields {
			rec[name] = convertCell(row[c], kinds[c])
		}
		out[r] = rec
	}
	return out
}

// headerNames fills blank header cells and renames repeated ones the way
// dataframe readers do
func headerNames(header []string) []string {
	names := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		// repeated names get .1, .2, ... skipping suffixes already in use
		n := counts[h]
		for n > 0 {
			counts[h] = n + 1
			h = h + "." + strconv.Itoa(n)
			n = counts[h]
		}
		counts[h] = n + 1
		names[i] = h
	}
	return names
}

// splitIndex separates the leading index column from a header and its rows
func splitIndex(header []string, cells [][]string, indexColumn bool) ([]string, [][]string, []string) {
	if !indexColumn || len(header) == 0 {
		return header, cells, nil
	}
	labels := make([]string, len(cells))
	body := make([][]string, len(cells))
	for i, row := range cells {
		labels[i] = strings.TrimSpace(row[0])
		body[i] = row[1:]
	}
	return header[1:], body, labels
}
