package records

import (
	"errors"
	"fmt"
)

// Kind identifies one of the two record kinds healthlog tracks.
type Kind string

const (
	KindDiary Kind = "diary"
	KindPain  Kind = "pain"
)

var ErrUnknownKind = errors.New("unknown record kind")

// Kinds lists every supported record kind.
var Kinds = []Kind{KindDiary, KindPain}

// ParseKind validates a kind name coming from flags or tool arguments.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDiary:
		return KindDiary, nil
	case KindPain:
		return KindPain, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string { return string(k) }

// BlobName is the document name the kind is persisted under.
func (k Kind) BlobName() string { return string(k) + ".json" }

// requiredFields holds the canonical schema per kind, in display order.
// Every column accepted from any input source maps onto one of these
// (or rides along as an explicit extra column).
var requiredFields = map[Kind][]string{
	KindDiary: {
		"date",
		"hour",
		"mood level",
		"depression",
		"anxiety",
		"description",
		"gratitude",
		"reflection",
	},
	KindPain: {
		"date",
		"hour",
		"pain level",
		"fatigue level",
		"symptoms",
		"area",
		"activities",
		"habits",
		"coffee",
		"other",
		"medicines",
		"note",
	},
}

// fieldAliases maps a canonical field to the column names historical
// exports used for it. Comparison is always on normalized headers.
// Canonical fields without an entry accept only their own name.
var fieldAliases = map[Kind]map[string][]string{
	KindDiary: {
		"date": {"date", "file name"},
		"hour": {"hour", "time"},
	},
	KindPain: {
		"date":          {"date", "file name"},
		"hour":          {"hour", "time"},
		"pain level":    {"pain level", "pain"},
		"fatigue level": {"fatigue level", "fatigue"},
		"habits":        {"habits", "good sleep", "healthy food", "sleep"},
		"other":         {"other", ">6h screen time", "alcohol", "smoking", "late meal"},
		"coffee":        {"coffee"},
		"medicines":     {"medicines"},
	},
}

// legacyFlagColumns are boolean-ish columns old pain exports carried.
// A truthy cell turns into the column's own label inside the
// consolidated "other" field.
var legacyFlagColumns = []string{">6h screen time", "alcohol", "smoking", "late meal"}

// legacyTimestampColumns supplied the entry timestamp before the
// date/hour pair became canonical.
var legacyTimestampColumns = []string{"file name", "created time"}

// TagFields are the pain fields whose values are comma-joined label
// lists managed through the tag catalog.
var TagFields = []string{"area", "symptoms", "activities", "medicines", "habits", "other"}

// Schema returns a copy of the kind's canonical field list.
func Schema(kind Kind) []string {
	fields := requiredFields[kind]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Aliases returns the accepted source names for a canonical field.
func Aliases(kind Kind, field string) []string {
	if m := fieldAliases[kind]; m != nil {
		if a, ok := m[field]; ok {
			return a
		}
	}
	return []string{field}
}
