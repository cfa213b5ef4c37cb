package records

import (
	"time"
)

// MergeResult reports what a merge did. Rows with no derivable
// timestamp key are counted in neither Added nor Skipped.
type MergeResult struct {
	Dataset *Dataset
	Added   int
	Skipped int
}

// Merge folds a batch of canonical rows into an existing dataset,
// keyed by timestamp. Rows whose key is already present are skipped,
// so merging the same batch twice is a no-op. The merged row list is
// re-sorted descending by timestamp key; ties keep their original
// relative order. The result carries the batch provenance and a fresh
// imported_at stamp.
//
// A one-row batch is how manual form entry lands; bulk CSV/XLSX import
// and backup restore use the same path.
func Merge(existing *Dataset, incoming []Row, incomingHeaders []string, source string) MergeResult {
	headers := mergeHeaders(existing.Headers, incomingHeaders)

	seen := make(map[string]bool, len(existing.Rows))
	for _, row := range existing.Rows {
		if key := TimestampKey(row, headers); key != "" {
			seen[key] = true
		}
	}

	merged := make([]Row, len(existing.Rows), len(existing.Rows)+len(incoming))
	copy(merged, existing.Rows)

	added, skipped := 0, 0
	for _, row := range incoming {
		key := TimestampKey(row, headers)
		if key == "" {
			continue // unkeyable, silently dropped
		}
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		merged = append(merged, row)
		added++
	}

	ds := &Dataset{
		Headers:    headers,
		Rows:       SortRows(merged, headers),
		Source:     source,
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
		Options:    existing.Options,
	}
	return MergeResult{Dataset: ds, Added: added, Skipped: skipped}
}

// mergeHeaders unions two header lists, existing first, deduplicated
// under normalized-name identity.
func mergeHeaders(existing, incoming []string) []string {
	var out []string
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, h := range existing {
		norm := NormalizeHeader(h)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, h)
	}
	for _, h := range incoming {
		norm := NormalizeHeader(h)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, h)
	}
	return out
}
