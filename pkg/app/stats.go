package app

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/healthlog-app/healthlog/pkg/chatctx"
	"github.com/healthlog-app/healthlog/pkg/records"
)

// numericFields lists the canonical fields averaged in the summary view.
var numericFields = map[records.Kind][]string{
	records.KindDiary: {"mood level", "depression", "anxiety"},
	records.KindPain:  {"pain level", "fatigue level", "coffee"},
}

// KindStats summarizes one dataset: entry count, covered date range, and
// per-field averages over rows that carry a numeric value.
type KindStats struct {
	Entries  int                `json:"entries"`
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
	Averages map[string]float64 `json:"averages,omitempty"`
}

// Stats computes summaries for every loaded dataset.
func (a *App) Stats() map[records.Kind]KindStats {
	return a.StatsWindow(0)
}

// StatsWindow computes summaries over the trailing rangeDays window.
// rangeDays <= 0 covers everything.
func (a *App) StatsWindow(rangeDays int) map[records.Kind]KindStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	out := make(map[records.Kind]KindStats, len(records.Kinds))
	for _, kind := range records.Kinds {
		out[kind] = summarize(kind, chatctx.FilterByTrailingDays(a.datasets[kind], rangeDays, now))
	}
	return out
}

func summarize(kind records.Kind, ds *records.Dataset) KindStats {
	stats := KindStats{}
	if ds == nil || len(ds.Rows) == 0 {
		return stats
	}
	stats.Entries = len(ds.Rows)

	// Rows are sorted descending, so the range is last..first.
	stats.To = ds.Rows[0]["date"]
	stats.From = ds.Rows[len(ds.Rows)-1]["date"]

	averages := make(map[string]float64)
	for _, field := range numericFields[kind] {
		if avg, ok := avgField(ds.Rows, field); ok {
			averages[field] = avg
		}
	}
	if len(averages) > 0 {
		stats.Averages = averages
	}
	return stats
}

// avgField averages the numeric values of field across rows, skipping
// blanks and values that do not parse. Returns false when no row carried
// a usable number.
func avgField(rows []records.Row, field string) (float64, bool) {
	var sum float64
	var n int
	for _, row := range rows {
		val := strings.TrimSpace(row[field])
		if val == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(val, ",", "."), 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(sum/float64(n)*100) / 100, true
}
