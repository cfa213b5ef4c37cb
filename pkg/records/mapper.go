package records

import (
	"strings"
)

// MapResult is the outcome of a schema-reconciliation pass.
// Changed signals that the source used an outdated shape (legacy
// timestamp columns, boolean flag columns, re-derived values) and the
// caller should re-persist the canonical form.
type MapResult struct {
	Headers []string
	Rows    []Row
	Changed bool
}

// MapRows reconciles raw rows from any input source (form, CSV, XLSX,
// backup, or an old persisted document) into canonical rows for kind.
//
// Timestamp derivation prefers an explicit date column, then the legacy
// "file name" / "created time" columns (treated as an ISO-ish timestamp
// and split on "T"), then the row's own hour/time column, and finally
// falls back to DefaultHour. A row whose date cannot be derived keeps
// date="" and is dropped later by Merge.
//
// For pain rows the legacy habit booleans ("good sleep", "healthy
// food") and free-text habits are consolidated into one habits tag
// string, and the legacy flag columns plus the free-text "other" column
// into one other tag string. Boolean markers are consumed, never
// emitted verbatim.
//
// Columns outside the canonical schema are kept as an explicit extras
// passthrough; legacy source columns are dropped.
func MapRows(kind Kind, rawHeaders []string, rawRows []Row) MapResult {
	dateCol := FindHeader(rawHeaders, "date")
	hourCol := FindHeader(rawHeaders, "hour")
	if hourCol == "" {
		hourCol = FindHeader(rawHeaders, "time")
	}
	fileCol := FindHeader(rawHeaders, "file name")
	createdCol := FindHeader(rawHeaders, "created time")
	habitsCol := FindHeader(rawHeaders, "habits")
	goodSleepCol := FindHeader(rawHeaders, "good sleep")
	healthyFoodCol := FindHeader(rawHeaders, "healthy food")
	otherCol := FindHeader(rawHeaders, "other")

	type flagCol struct{ col, label string }
	var flagCols []flagCol
	for _, label := range legacyFlagColumns {
		flagCols = append(flagCols, flagCol{col: FindHeader(rawHeaders, label), label: label})
	}

	schema := Schema(kind)
	headers, extras := mapHeaders(kind, schema, rawHeaders)

	changed := fileCol != "" || createdCol != ""

	rows := make([]Row, 0, len(rawRows))
	for _, raw := range rawRows {
		rawDate := ""
		if dateCol != "" {
			rawDate = raw[dateCol]
		}
		rawFile := ""
		if fileCol != "" {
			rawFile = raw[fileCol]
		}
		rawCreated := ""
		if createdCol != "" {
			rawCreated = raw[createdCol]
		}
		rawHour := ""
		if hourCol != "" {
			rawHour = raw[hourCol]
		}

		preferred := firstNonEmpty(rawDate, rawFile, rawCreated)
		datePart, hourPart := splitTimestamp(preferred)
		if hourPart == "" && strings.TrimSpace(rawHour) != "" {
			hourPart = clipMinute(strings.TrimSpace(rawHour))
		}
		if hourPart == "" {
			hourPart = DefaultHour
		}

		row := Row{"date": datePart, "hour": hourPart}

		// Scalar canonical fields copy over via their alias columns.
		for _, field := range schema {
			switch field {
			case "date", "hour":
				continue
			}
			if kind == KindPain && (field == "habits" || field == "other") {
				continue
			}
			if col := findAliasColumn(kind, field, rawHeaders); col != "" {
				row[field] = raw[col]
			} else {
				row[field] = ""
			}
		}

		if kind == KindPain {
			rawHabits := ""
			if habitsCol != "" {
				rawHabits = raw[habitsCol]
			}
			rawGood := ""
			if goodSleepCol != "" {
				rawGood = raw[goodSleepCol]
			}
			rawHealthy := ""
			if healthyFoodCol != "" {
				rawHealthy = raw[healthyFoodCol]
			}
			row["habits"] = consolidateHabits(rawHabits, rawGood, rawHealthy)

			rawOther := ""
			if otherCol != "" {
				rawOther = raw[otherCol]
			}
			var flags []flagValue
			for _, f := range flagCols {
				v := ""
				if f.col != "" {
					v = raw[f.col]
				}
				flags = append(flags, flagValue{label: f.label, value: v})
			}
			row["other"] = consolidateOther(flags, rawOther)

			if row["habits"] != rawHabits || row["other"] != rawOther {
				changed = true
			}
		}

		for _, extra := range extras {
			row[extra] = raw[extra]
		}

		if row["date"] != rawDate || row["hour"] != rawHour {
			changed = true
		}
		rows = append(rows, row)
	}

	return MapResult{Headers: headers, Rows: rows, Changed: changed}
}

// CanonicalizeDataset runs a mapping pass over a dataset that may have
// been persisted in an older shape, re-sorting its rows. Changed tells
// the caller a silent re-persist is warranted.
func CanonicalizeDataset(kind Kind, ds *Dataset) (*Dataset, bool) {
	if ds == nil {
		return NewDataset(kind), false
	}
	res := MapRows(kind, ds.Headers, ds.Rows)
	out := &Dataset{
		Headers:    res.Headers,
		Rows:       SortRows(res.Rows, res.Headers),
		Source:     ds.Source,
		ImportedAt: ds.ImportedAt,
		Options:    ds.Options,
	}
	return out, res.Changed
}

// mapHeaders builds the output header list: canonical schema order
// first, then extra non-legacy columns once each under normalized-name
// identity.
func mapHeaders(kind Kind, schema, rawHeaders []string) (headers, extras []string) {
	legacy := make(map[string]bool)
	for _, l := range legacyTimestampColumns {
		legacy[NormalizeHeader(l)] = true
	}
	legacy[NormalizeHeader("time")] = true
	if kind == KindPain {
		legacy[NormalizeHeader("good sleep")] = true
		legacy[NormalizeHeader("healthy food")] = true
		for _, l := range legacyFlagColumns {
			legacy[NormalizeHeader(l)] = true
		}
	}

	canonical := make(map[string]bool, len(schema))
	for _, f := range schema {
		canonical[NormalizeHeader(f)] = true
	}
	// Alias spellings of canonical fields are absorbed, not extras.
	for _, f := range schema {
		for _, a := range Aliases(kind, f) {
			canonical[NormalizeHeader(a)] = true
		}
	}

	headers = append(headers, schema...)
	seen := make(map[string]bool, len(schema))
	for _, f := range schema {
		seen[NormalizeHeader(f)] = true
	}
	for _, h := range rawHeaders {
		norm := NormalizeHeader(h)
		if seen[norm] || canonical[norm] || legacy[norm] {
			continue
		}
		seen[norm] = true
		headers = append(headers, h)
		extras = append(extras, h)
	}
	return headers, extras
}

func findAliasColumn(kind Kind, field string, rawHeaders []string) string {
	for _, alias := range Aliases(kind, field) {
		if col := FindHeader(rawHeaders, alias); col != "" {
			return col
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// splitTimestamp interprets a raw date cell. Cells carrying a time
// component ("2023-05-01T10:00" or "2023-05-01 10:00") split into date
// and minute-precision hour; plain dates keep hour empty.
func splitTimestamp(val string) (date, hour string) {
	raw := strings.TrimSpace(val)
	if raw == "" {
		return "", ""
	}
	raw = strings.Replace(raw, " ", "T", 1)
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		return raw[:i], clipMinute(raw[i+1:])
	}
	return raw, ""
}

func clipMinute(hour string) string {
	if len(hour) > 5 {
		return hour[:5]
	}
	return hour
}

type flagValue struct{ label, value string }

// consolidateHabits folds the free-text habits column and the two
// legacy booleans into one deduplicated tag string. The literal
// "good sleep" / "healthy food" labels come first when their indicator
// is set, then the remaining free-text tokens in encounter order.
func consolidateHabits(rawHabits, rawGood, rawHealthy string) string {
	tokens := make([]string, 0, 4)
	seen := make(map[string]bool)
	addTokens := func(val string) {
		for _, part := range strings.Split(val, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" || booleanTokens[part] {
				continue
			}
			if !seen[part] {
				seen[part] = true
				tokens = append(tokens, part)
			}
		}
	}
	addTokens(rawHabits)
	addTokens(rawGood)
	addTokens(rawHealthy)

	goodYes := seen["good sleep"] || IsTruthy(rawGood)
	healthyYes := seen["healthy food"] || IsTruthy(rawHealthy)

	var out []string
	if goodYes {
		out = append(out, "good sleep")
	}
	if healthyYes {
		out = append(out, "healthy food")
	}
	for _, t := range tokens {
		if t == "good sleep" || t == "healthy food" {
			continue
		}
		out = append(out, t)
	}
	return JoinTags(out)
}

// consolidateOther folds the legacy flag columns and the free-text
// "other" column into one tag string. A truthy flag cell contributes
// the flag's canonical label; non-boolean free text passes through
// verbatim; boolean markers are never emitted.
func consolidateOther(flags []flagValue, rawOther string) string {
	var out []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for _, f := range flags {
		v := strings.TrimSpace(f.value)
		if v == "" {
			continue
		}
		if IsTruthy(v) {
			add(f.label)
		} else if !IsBooleanToken(v) {
			add(v)
		}
	}
	for _, part := range strings.Split(rawOther, ",") {
		part = strings.TrimSpace(part)
		if part == "" || IsBooleanToken(part) {
			continue
		}
		add(part)
	}
	return JoinTags(out)
}
