package records

import (
	"sort"
	"strings"
	"time"
)

// DefaultHour is assumed when a source row has a date but no usable time.
const DefaultHour = "21:00"

// Row is a single canonical record: canonical field name to string value.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TagOptions is the persisted tag catalog payload carried on the pain
// document: per tag field the known values plus the tombstoned ones.
type TagOptions struct {
	Options map[string][]string `json:"options"`
	Removed map[string][]string `json:"removed"`
}

// Dataset is the single persisted collection of canonical rows for one
// record kind. Rows are kept sorted descending by timestamp key.
type Dataset struct {
	Headers    []string    `json:"headers"`
	Rows       []Row       `json:"rows"`
	Source     string      `json:"source,omitempty"`
	ImportedAt string      `json:"imported_at,omitempty"`
	Options    *TagOptions `json:"options,omitempty"`
}

// NewDataset returns an empty dataset carrying the kind's canonical headers.
func NewDataset(kind Kind) *Dataset {
	return &Dataset{Headers: Schema(kind), Rows: []Row{}}
}

// TimestampKey derives the merge/dedup/sort identity of a row:
// date + "T" + hour truncated to the minute. Empty when the row has no
// date and therefore cannot be keyed.
func TimestampKey(row Row, headers []string) string {
	dateKey := FindHeader(headers, "date")
	if dateKey == "" {
		dateKey = "date"
	}
	hourKey := FindHeader(headers, "hour")
	if hourKey == "" {
		hourKey = "hour"
	}
	date := strings.TrimSpace(row[dateKey])
	if date == "" {
		return ""
	}
	hour := strings.TrimSpace(row[hourKey])
	if hour == "" {
		hour = DefaultHour
	}
	if len(hour) > 5 {
		hour = hour[:5]
	}
	return date + "T" + hour
}

// rowTime parses a timestamp key for ordering. Unparseable keys sort as
// the zero time, i.e. after every real entry in descending order.
func rowTime(row Row, headers []string) time.Time {
	key := TimestampKey(row, headers)
	if key == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02T15:04", key)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SortRows orders rows descending by timestamp key, keeping the
// original relative order for ties and unkeyable rows.
func SortRows(rows []Row, headers []string) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return rowTime(out[i], headers).After(rowTime(out[j], headers))
	})
	return out
}

// EntryTime returns the wall-clock moment a row describes, or false for
// rows with no parseable date.
func EntryTime(row Row, headers []string) (time.Time, bool) {
	t := rowTime(row, headers)
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
