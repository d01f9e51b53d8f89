package dataset

import (
	"strconv"
	"strings"
	"time"
)

// ValueKind discriminates the closed cell variant.
type ValueKind int

const (
	// KindNull marks an absent or missing cell.
	KindNull ValueKind = iota
	// KindNumber marks a numeric cell.
	KindNumber
	// KindText marks a textual cell.
	KindText
)

// Value is a single cell: a number, a text, or null. The variant is closed so
// null handling and type inference are exhaustive operations. The zero Value
// is null.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number creates a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text creates a textual Value. Empty text is treated as null, matching how
// missing cells arrive from delimited sources.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Null creates a null Value.
func Null() Value {
	return Value{}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the cell is absent.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric content. Numeric text is coerced, so "42" behaves
// like 42 in any numeric context.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal reports whether two cells hold the same content. Numeric text equals
// its numeric counterpart, so join keys match across loosely typed sources.
func (v Value) Equal(o Value) bool {
	return v.canonical() == o.canonical()
}

// canonical folds numeric text into the number variant so Value works as a
// comparable map key for joins and grouping.
func (v Value) canonical() Value {
	if v.kind == KindText {
		if f, ok := v.Float(); ok {
			return Value{kind: KindNumber, num: f}
		}
	}
	return v
}

// String renders the cell for display. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// dateLayouts are tried in order when interpreting text as a calendar date.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01",
	"Jan 2006",
}

// ParseDate interprets a cell as a calendar date.
func ParseDate(v Value) (time.Time, bool) {
	if v.kind != KindText {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
