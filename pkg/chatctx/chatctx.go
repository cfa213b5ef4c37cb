// Package chatctx renders recent log entries as flat text for a
// chat assistant to consume alongside a conversation.
package chatctx

import (
	"strings"
	"time"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// EmptyContextPlaceholder is returned when no entries fall in range.
const EmptyContextPlaceholder = "No health log entries recorded yet."

// FilterByTrailingDays keeps rows whose date falls within the last
// rangeDays calendar days. rangeDays <= 0 returns the dataset unchanged.
// Rows with an unparseable date are dropped from the filtered copy.
func FilterByTrailingDays(ds *records.Dataset, rangeDays int, now time.Time) *records.Dataset {
	if ds == nil || rangeDays <= 0 {
		return ds
	}
	cutoff := now.AddDate(0, 0, -rangeDays)

	filtered := &records.Dataset{
		Headers:    append([]string(nil), ds.Headers...),
		Source:     ds.Source,
		ImportedAt: ds.ImportedAt,
		Options:    ds.Options,
	}
	for _, row := range ds.Rows {
		ts, ok := records.EntryTime(row, ds.Headers)
		if !ok {
			continue
		}
		if !ts.Before(cutoff) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}

// RenderAsText renders a dataset one line per row under a label heading.
// Rows come out newest first. limit <= 0 means no row cap. An empty
// dataset renders as an empty string.
func RenderAsText(ds *records.Dataset, label string, limit int) string {
	if ds == nil || len(ds.Rows) == 0 {
		return ""
	}

	rows := records.SortRows(append([]records.Row(nil), ds.Rows...), ds.Headers)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	var sb strings.Builder
	sb.WriteString(strings.ToUpper(label))
	sb.WriteString(":\n")
	for _, row := range rows {
		sb.WriteString("- ")
		first := true
		for _, h := range ds.Headers {
			val := strings.TrimSpace(row[h])
			if val == "" {
				continue
			}
			if !first {
				sb.WriteString("; ")
			}
			sb.WriteString(h)
			sb.WriteString(": ")
			sb.WriteString(val)
			first = false
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildContext combines the diary and pain datasets into one text block
// covering the trailing rangeDays window. rangeDays <= 0 includes
// everything. Returns a fixed placeholder when both datasets are empty.
func BuildContext(diary, pain *records.Dataset, rangeDays, limit int) string {
	now := time.Now()
	parts := make([]string, 0, 2)
	if text := RenderAsText(FilterByTrailingDays(diary, rangeDays, now), "diary", limit); text != "" {
		parts = append(parts, text)
	}
	if text := RenderAsText(FilterByTrailingDays(pain, rangeDays, now), "pain", limit); text != "" {
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return EmptyContextPlaceholder
	}
	return strings.Join(parts, "\n")
}
