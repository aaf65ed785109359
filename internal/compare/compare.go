// Package compare holds the field-level equality rules used by the match
// determination. Each comparator tolerates representational differences
// (string vs structured date, surrounding whitespace, absent values) for
// one semantic type.
package compare

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// dateLayout is the only accepted textual date form.
const dateLayout = "2006-01-02"

// DatesEqual compares two calendar dates. Each side may be a string in
// YYYY-MM-DD form, a time.Time, or a pointer to either; time-of-day is
// ignored. A side that is nil or fails to parse yields false: absence of
// proof of equality, not an error.
func DatesEqual(a, b any) bool {
	da, ok := coerceDate(a)
	if !ok {
		return false
	}
	db, ok := coerceDate(b)
	if !ok {
		return false
	}
	ay, am, ad := da.Date()
	by, bm, bd := db.Date()
	return ay == by && am == bm && ad == bd
}

func coerceDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return parseDate(t)
	case *string:
		if t == nil {
			return time.Time{}, false
		}
		return parseDate(*t)
	case nil:
		return time.Time{}, false
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TextEqual compares two optional strings with leading/trailing whitespace
// trimmed, case-sensitive. Both absent is a match; exactly one absent is
// not.
func TextEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return strings.TrimSpace(*a) == strings.TrimSpace(*b)
}

// NamedInsuredEqual compares insured names case-insensitively. Names are
// NFC-normalized first so composed and decomposed accents compare equal;
// no trim tolerance beyond the strip applied during normalization.
func NamedInsuredEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(norm.NFC.String(*a), norm.NFC.String(*b))
}

// CodesEqual compares two optional numeric agent codes. Both absent is a
// match, mirroring the text comparator's both-absent rule.
func CodesEqual(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
