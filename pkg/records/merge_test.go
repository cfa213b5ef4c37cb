package records

import (
	"testing"
)

func painRow(date, hour, level string) Row {
	r := Row{}
	for _, f := range Schema(KindPain) {
		r[f] = ""
	}
	r["date"] = date
	r["hour"] = hour
	r["pain level"] = level
	return r
}

func TestMergeIntoEmptyDataset(t *testing.T) {
	ds := NewDataset(KindPain)
	incoming := []Row{painRow("2024-01-01", "08:00", "5")}

	res := Merge(ds, incoming, Schema(KindPain), "import.csv")
	if res.Added != 1 || res.Skipped != 0 {
		t.Errorf("added=%d skipped=%d, want 1/0", res.Added, res.Skipped)
	}
	if res.Dataset.Source != "import.csv" {
		t.Errorf("source = %q", res.Dataset.Source)
	}
	if res.Dataset.ImportedAt == "" {
		t.Error("imported_at should be set")
	}

	again := Merge(res.Dataset, incoming, Schema(KindPain), "import.csv")
	if again.Added != 0 || again.Skipped != 1 {
		t.Errorf("re-import: added=%d skipped=%d, want 0/1", again.Added, again.Skipped)
	}
}

func TestMergeIdempotent(t *testing.T) {
	batch := []Row{
		painRow("2024-01-01", "08:00", "5"),
		painRow("2024-01-02", "21:00", "3"),
		painRow("2024-01-03", "09:30", "7"),
	}
	first := Merge(NewDataset(KindPain), batch, Schema(KindPain), "batch")
	second := Merge(first.Dataset, batch, Schema(KindPain), "batch")

	if second.Added != 0 {
		t.Errorf("second merge added %d rows", second.Added)
	}
	if len(second.Dataset.Rows) != len(first.Dataset.Rows) {
		t.Errorf("row count changed: %d -> %d", len(first.Dataset.Rows), len(second.Dataset.Rows))
	}
}

func TestMergeKeyUniquenessAndSortInvariant(t *testing.T) {
	existing := Merge(NewDataset(KindPain), []Row{
		painRow("2024-01-05", "10:00", "2"),
		painRow("2024-01-01", "08:00", "5"),
	}, Schema(KindPain), "seed").Dataset

	res := Merge(existing, []Row{
		painRow("2024-01-03", "12:00", "4"),
		painRow("2024-01-05", "10:00", "9"), // duplicate key
		painRow("2024-01-07", "07:15", "1"),
	}, Schema(KindPain), "more")

	if res.Added != 2 || res.Skipped != 1 {
		t.Errorf("added=%d skipped=%d, want 2/1", res.Added, res.Skipped)
	}

	seen := make(map[string]bool)
	for _, row := range res.Dataset.Rows {
		key := TimestampKey(row, res.Dataset.Headers)
		if seen[key] {
			t.Errorf("duplicate timestamp key %q", key)
		}
		seen[key] = true
	}

	rows := res.Dataset.Rows
	for i := 0; i+1 < len(rows); i++ {
		a := TimestampKey(rows[i], res.Dataset.Headers)
		b := TimestampKey(rows[i+1], res.Dataset.Headers)
		if a < b {
			t.Errorf("sort invariant violated: %q before %q", a, b)
		}
	}
}

func TestMergeDropsUnkeyableRows(t *testing.T) {
	res := Merge(NewDataset(KindPain), []Row{
		painRow("", "08:00", "5"),
		painRow("   ", "", "2"),
	}, Schema(KindPain), "bad batch")
	if res.Added != 0 || res.Skipped != 0 {
		t.Errorf("unkeyable rows should count nowhere, got added=%d skipped=%d", res.Added, res.Skipped)
	}
	if len(res.Dataset.Rows) != 0 {
		t.Errorf("unkeyable rows leaked into dataset: %d", len(res.Dataset.Rows))
	}
}

func TestMergeDefaultsHourInKey(t *testing.T) {
	r := painRow("2024-01-01", "", "5")
	if key := TimestampKey(r, Schema(KindPain)); key != "2024-01-01T21:00" {
		t.Errorf("key = %q", key)
	}
}

func TestMergePreservesOptionsPayload(t *testing.T) {
	ds := NewDataset(KindPain)
	ds.Options = &TagOptions{
		Options: map[string][]string{"area": {"lower back"}},
		Removed: map[string][]string{"area": {"neck"}},
	}
	res := Merge(ds, []Row{painRow("2024-01-01", "08:00", "5")}, Schema(KindPain), "import")
	if res.Dataset.Options == nil || len(res.Dataset.Options.Options["area"]) != 1 {
		t.Error("options payload lost during merge")
	}
}

func TestSortRowsStableForTies(t *testing.T) {
	a := painRow("2024-01-01", "08:00", "first")
	b := painRow("2024-01-01", "08:00", "second")
	sorted := SortRows([]Row{a, b}, Schema(KindPain))
	if sorted[0]["pain level"] != "first" || sorted[1]["pain level"] != "second" {
		t.Error("tie order not preserved")
	}
}
