package records

import (
	"fmt"
	"strings"
)

// MissingColumns reports the canonical required fields of kind for which
// no accepted alias appears among rawHeaders. An empty result means the
// batch may be mapped.
func MissingColumns(kind Kind, rawHeaders []string) []string {
	present := make(map[string]bool, len(rawHeaders))
	for _, h := range rawHeaders {
		present[NormalizeHeader(h)] = true
	}
	var missing []string
	for _, field := range requiredFields[kind] {
		found := false
		for _, alias := range Aliases(kind, field) {
			if present[NormalizeHeader(alias)] {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}
	return missing
}

// ValidateHeaders is the import-time gate: it rejects a batch whose
// headers cannot satisfy the kind's schema, before any mutation happens.
func ValidateHeaders(kind Kind, rawHeaders []string) error {
	if missing := MissingColumns(kind, rawHeaders); len(missing) > 0 {
		return fmt.Errorf("missing columns for %s: %s", kind, strings.Join(missing, ", "))
	}
	return nil
}
