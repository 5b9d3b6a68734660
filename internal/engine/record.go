// Package engine is the record segmentation and field extraction core.
//
// It turns one block of noisy OCR text into an ordered list of Records, each
// mapping the fixed 24-field catalog to string values. The engine is pure and
// synchronous: no shared state, no I/O, and malformed input degrades to empty
// or placeholder fields rather than errors.
package engine

import (
	"strings"

	"github.com/joseph-ayodele/formscan/constants"
)

// Record maps every field in the catalog to a string value. A Record always
// carries all 24 keys; absent data is the empty string, never a missing key.
type Record map[constants.FieldName]string

// NewRecord returns a fresh Record with every catalog field set to "".
func NewRecord() Record {
	r := make(Record, len(constants.AllFields))
	for _, f := range constants.AllFields {
		r[f] = ""
	}
	return r
}

// IsEmpty reports whether every value is empty after trimming.
func (r Record) IsEmpty() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Pair is one (field, value) cell in display order.
type Pair struct {
	Field constants.FieldName
	Value string
}

// Pairs returns the record as ordered (field, value) pairs, following the
// catalog order relied on by the UI and the XLSX exporter.
func (r Record) Pairs() []Pair {
	out := make([]Pair, 0, len(constants.AllFields))
	for _, f := range constants.AllFields {
		out = append(out, Pair{Field: f, Value: r[f]})
	}
	return out
}

// LineSpan is a half-open range [Start, End) of line indices belonging to one
// physical record.
type LineSpan struct {
	Start int
	End   int
}

// SplitLines derives the cleaned line sequence the detector and extractor
// operate on: split on line breaks, trim each line, drop empties. Original
// line numbering is not retained.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
