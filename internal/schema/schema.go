// Package schema infers column kinds for raw tabular data and converts cell
// text into typed values accepted by every storage backend.
//
// Inference mirrors how a data-frame loader would type a freshly read chunk:
// a column is INTEGER when every present cell parses as a 64-bit integer, REAL
// when every present cell parses as a finite float, TEXT otherwise. A column
// with no present cells at all is REAL (an all-null numeric column).
package schema

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the logical type of a column. Backends map it to SQL types.
type Kind string

const (
	KindInteger Kind = "integer"
	KindReal    Kind = "real"
	KindText    Kind = "text"
)

// Column is one named, typed column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Names returns the column names in order.
func Names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// missingMarkers are cell values read as NULL.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a raw cell represents a missing value.
func IsMissing(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

// Infer derives column kinds from the header and a sample of raw rows. Rows
// shorter than the header leave the remaining cells missing.
func Infer(header []string, rows [][]string) []Column {
	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Kind: inferColumn(rows, i)}
	}
	return cols
}

func inferColumn(rows [][]string, idx int) Kind {
	seen := false
	kind := KindInteger
	for _, row := range rows {
		if idx >= len(row) || IsMissing(row[idx]) {
			continue
		}
		seen = true
		s := strings.TrimSpace(row[idx])
		switch kind {
		case KindInteger:
			if _, ok := parseInt(s); ok {
				continue
			}
			if _, ok := parseFloat(s); ok {
				kind = KindReal
				continue
			}
			return KindText
		case KindReal:
			if _, ok := parseFloat(s); !ok {
				return KindText
			}
		}
	}
	if !seen {
		return KindReal
	}
	return kind
}

// Convert turns a raw cell into nil, int64, float64 or string according to
// kind. A value that does not fit its column kind is converted by the widest
// parse that succeeds, so later chunks never lose data to an early guess.
func Convert(kind Kind, s string) any {
	if IsMissing(s) {
		return nil
	}
	switch kind {
	case KindInteger:
		if v, ok := parseInt(strings.TrimSpace(s)); ok {
			return v
		}
	case KindReal:
		if v, ok := parseFloat(strings.TrimSpace(s)); ok {
			return v
		}
	case KindText:
		return s
	}
	return ParseValue(s)
}

// ParseValue converts a raw cell without a kind hint.
func ParseValue(s string) any {
	if IsMissing(s) {
		return nil
	}
	t := strings.TrimSpace(s)
	if v, ok := parseInt(t); ok {
		return v
	}
	if v, ok := parseFloat(t); ok {
		return v
	}
	return s
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
