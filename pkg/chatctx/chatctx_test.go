package chatctx

import (
	"strings"
	"testing"
	"time"

	"github.com/healthlog-app/healthlog/pkg/records"
)

func datasetWithDates(kind records.Kind, dates ...string) *records.Dataset {
	ds := records.NewDataset(kind)
	for _, d := range dates {
		ds.Rows = append(ds.Rows, records.Row{"date": d, "hour": "09:00", "pain level": "3"})
	}
	ds.Rows = records.SortRows(ds.Rows, ds.Headers)
	return ds
}

func TestFilterByTrailingDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ds := datasetWithDates(records.KindPain,
		now.AddDate(0, 0, -40).Format("2006-01-02"),
		now.AddDate(0, 0, -10).Format("2006-01-02"),
	)

	filtered := FilterByTrailingDays(ds, 30, now)
	if len(filtered.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(filtered.Rows))
	}
	want := now.AddDate(0, 0, -10).Format("2006-01-02")
	if filtered.Rows[0]["date"] != want {
		t.Errorf("kept row date = %s, want %s", filtered.Rows[0]["date"], want)
	}
}

func TestFilterByTrailingDaysZeroIsPassthrough(t *testing.T) {
	ds := datasetWithDates(records.KindPain, "2020-01-01", "2024-01-01")
	if got := FilterByTrailingDays(ds, 0, time.Now()); got != ds {
		t.Error("rangeDays 0 should return the dataset unchanged")
	}
}

func TestFilterByTrailingDaysDropsUnparseableDates(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ds := datasetWithDates(records.KindPain, "2024-05-30")
	ds.Rows = append(ds.Rows, records.Row{"date": "sometime in May", "hour": "09:00"})

	filtered := FilterByTrailingDays(ds, 30, now)
	if len(filtered.Rows) != 1 {
		t.Errorf("got %d rows, want 1 (unparseable date dropped)", len(filtered.Rows))
	}
}

func TestRenderAsTextFormat(t *testing.T) {
	ds := records.NewDataset(records.KindDiary)
	ds.Rows = []records.Row{{
		"date": "2024-05-01", "hour": "21:00", "mood level": "4",
		"description": "quiet evening",
	}}

	text := RenderAsText(ds, "diary", 0)
	if !strings.HasPrefix(text, "DIARY:\n") {
		t.Errorf("missing label heading: %q", text)
	}
	if !strings.Contains(text, "- date: 2024-05-01; hour: 21:00; mood level: 4; description: quiet evening") {
		t.Errorf("unexpected row rendering: %q", text)
	}
}

func TestRenderAsTextSkipsEmptyFields(t *testing.T) {
	ds := records.NewDataset(records.KindPain)
	ds.Rows = []records.Row{{"date": "2024-05-01", "hour": "08:00", "pain level": "2", "note": ""}}

	text := RenderAsText(ds, "pain", 0)
	if strings.Contains(text, "note:") {
		t.Errorf("empty fields should be omitted: %q", text)
	}
}

func TestRenderAsTextLimit(t *testing.T) {
	ds := datasetWithDates(records.KindPain, "2024-05-01", "2024-05-02", "2024-05-03")

	text := RenderAsText(ds, "pain", 2)
	if lines := strings.Count(text, "- "); lines != 2 {
		t.Errorf("got %d row lines, want 2: %q", lines, text)
	}
	// Newest first after the implicit sort.
	if !strings.Contains(strings.SplitN(text, "\n", 3)[1], "2024-05-03") {
		t.Errorf("expected newest row first: %q", text)
	}
}

func TestRenderAsTextEmpty(t *testing.T) {
	if got := RenderAsText(records.NewDataset(records.KindDiary), "diary", 0); got != "" {
		t.Errorf("empty dataset should render as empty string, got %q", got)
	}
}

func TestBuildContextPlaceholder(t *testing.T) {
	got := BuildContext(records.NewDataset(records.KindDiary), records.NewDataset(records.KindPain), 30, 0)
	if got != EmptyContextPlaceholder {
		t.Errorf("BuildContext = %q, want placeholder", got)
	}
}

func TestBuildContextCombinesKinds(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	diary := records.NewDataset(records.KindDiary)
	diary.Rows = []records.Row{{"date": today, "hour": "21:00", "mood level": "4"}}
	pain := records.NewDataset(records.KindPain)
	pain.Rows = []records.Row{{"date": today, "hour": "21:00", "pain level": "2"}}

	text := BuildContext(diary, pain, 30, 0)
	if !strings.Contains(text, "DIARY:") || !strings.Contains(text, "PAIN:") {
		t.Errorf("expected both sections: %q", text)
	}
	if strings.Index(text, "DIARY:") > strings.Index(text, "PAIN:") {
		t.Errorf("diary section should come first: %q", text)
	}
}
