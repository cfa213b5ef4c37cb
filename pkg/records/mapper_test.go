package records

import (
	"reflect"
	"testing"
)

func TestMapRowsLegacyTimestamp(t *testing.T) {
	headers := []string{"file name", "good sleep"}
	rows := []Row{{"file name": "2023-05-01T10:00", "good sleep": "yes"}}

	res := MapRows(KindPain, headers, rows)
	if !res.Changed {
		t.Error("legacy columns should mark the batch as changed")
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	row := res.Rows[0]
	if row["date"] != "2023-05-01" {
		t.Errorf("date = %q, want 2023-05-01", row["date"])
	}
	if row["hour"] != "10:00" {
		t.Errorf("hour = %q, want 10:00", row["hour"])
	}
	if row["habits"] != "good sleep" {
		t.Errorf("habits = %q, want \"good sleep\"", row["habits"])
	}
}

func TestMapRowsDefaultHour(t *testing.T) {
	res := MapRows(KindDiary, []string{"date"}, []Row{{"date": "2024-02-10"}})
	if got := res.Rows[0]["hour"]; got != DefaultHour {
		t.Errorf("hour = %q, want %q", got, DefaultHour)
	}
}

func TestMapRowsSpaceSeparatedTimestamp(t *testing.T) {
	res := MapRows(KindDiary, []string{"created time"}, []Row{{"created time": "2024-02-10 08:30:00"}})
	row := res.Rows[0]
	if row["date"] != "2024-02-10" || row["hour"] != "08:30" {
		t.Errorf("got date=%q hour=%q", row["date"], row["hour"])
	}
	if !res.Changed {
		t.Error("created time column should mark the batch as changed")
	}
}

func TestMapRowsUnparseableDateStaysEmpty(t *testing.T) {
	res := MapRows(KindDiary, []string{"date", "hour"}, []Row{{"date": "", "hour": "09:00"}})
	if res.Rows[0]["date"] != "" {
		t.Errorf("expected empty date, got %q", res.Rows[0]["date"])
	}
}

func TestMapRowsConsolidatesOther(t *testing.T) {
	headers := []string{"date", ">6h screen time", "alcohol", "other"}
	rows := []Row{{
		"date":            "2024-01-05",
		">6h screen time": "yes",
		"alcohol":         "no",
		"other":           "headache trigger, TRUE",
	}}
	res := MapRows(KindPain, headers, rows)
	if got := res.Rows[0]["other"]; got != ">6h screen time, headache trigger" {
		t.Errorf("other = %q", got)
	}
}

func TestMapRowsHabitsTokenOrder(t *testing.T) {
	headers := []string{"date", "habits", "healthy food"}
	rows := []Row{{"date": "2024-01-05", "habits": "stretching, good sleep", "healthy food": "1"}}
	res := MapRows(KindPain, headers, rows)
	if got := res.Rows[0]["habits"]; got != "good sleep, healthy food, stretching" {
		t.Errorf("habits = %q", got)
	}
}

func TestMapRowsRoundTripNoop(t *testing.T) {
	headers := Schema(KindPain)
	rows := []Row{{
		"date": "2024-03-01", "hour": "07:45", "pain level": "4", "fatigue level": "6",
		"symptoms": "stiffness", "area": "lower back", "activities": "walking",
		"habits": "good sleep", "coffee": "2", "other": "", "medicines": "ibuprofen",
		"note": "slept badly",
	}}

	res := MapRows(KindPain, headers, rows)
	if res.Changed {
		t.Error("canonical input should not report changed")
	}
	if !reflect.DeepEqual(res.Headers, headers) {
		t.Errorf("headers changed: %v", res.Headers)
	}
	if !reflect.DeepEqual(res.Rows[0], rows[0]) {
		t.Errorf("rows changed: %v", res.Rows[0])
	}
}

func TestMapRowsExtraColumnPassthrough(t *testing.T) {
	headers := append(Schema(KindDiary), "weather")
	rows := []Row{func() Row {
		r := Row{"weather": "rainy"}
		for _, f := range Schema(KindDiary) {
			r[f] = ""
		}
		r["date"] = "2024-03-02"
		r["hour"] = "10:00"
		return r
	}()}

	res := MapRows(KindDiary, headers, rows)
	if FindHeader(res.Headers, "weather") == "" {
		t.Error("extra column should survive in headers")
	}
	if res.Rows[0]["weather"] != "rainy" {
		t.Errorf("extra value lost: %q", res.Rows[0]["weather"])
	}
}

func TestMapRowsDropsLegacyColumns(t *testing.T) {
	headers := []string{"date", "good sleep", "healthy food", ">6h screen time"}
	res := MapRows(KindPain, headers, []Row{{"date": "2024-01-01", "good sleep": "yes"}})
	for _, legacy := range []string{"good sleep", "healthy food", ">6h screen time", "file name", "created time"} {
		for _, h := range res.Headers {
			if NormalizeHeader(h) == NormalizeHeader(legacy) && h != "date" {
				t.Errorf("legacy column %q leaked into headers", legacy)
			}
		}
	}
}

func TestCanonicalizeDatasetNil(t *testing.T) {
	ds, changed := CanonicalizeDataset(KindDiary, nil)
	if changed {
		t.Error("nil dataset should not be changed")
	}
	if len(ds.Headers) != len(Schema(KindDiary)) {
		t.Errorf("expected canonical headers, got %v", ds.Headers)
	}
}
