package records

import (
	"regexp"
	"strings"
)

var (
	dashRuns       = regexp.MustCompile("[-_–—]+")
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// NormalizeHeader folds a raw column label into its comparison form:
// BOM stripped, lowercased, NBSP mapped to space, runs of
// hyphen/underscore/dash collapsed to a single space, whitespace runs
// collapsed, trimmed. Two labels name the same field iff their
// normalized forms are equal.
func NormalizeHeader(label string) string {
	s := strings.TrimPrefix(label, "\ufeff")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = dashRuns.ReplaceAllString(s, " ")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FindHeader returns the header from headers that normalizes to the
// same form as target, or "" when absent.
func FindHeader(headers []string, target string) string {
	wanted := NormalizeHeader(target)
	for _, h := range headers {
		if NormalizeHeader(h) == wanted {
			return h
		}
	}
	return ""
}

// booleanTokens are cell values that mean yes/no rather than a label.
// They are consumed during consolidation and never written out verbatim.
var booleanTokens = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true, "1": true, "0": true,
}

// IsBooleanToken reports whether a trimmed value is a yes/no marker.
func IsBooleanToken(s string) bool {
	return booleanTokens[strings.ToLower(strings.TrimSpace(s))]
}

// IsTruthy reports whether a cell value marks a flag as set.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// SplitTags splits a comma-joined tag value into trimmed labels,
// dropping empties and boolean markers.
func SplitTags(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" || IsBooleanToken(part) {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinTags renders labels back into the canonical comma+space form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
