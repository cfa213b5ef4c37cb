// Package catalog maintains the evolving set of known tag values per
// pain tag field, plus a tombstone set of values the user explicitly
// removed or renamed away. Tombstoned values never come back through
// passive derivation; only an explicit add clears them.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/healthlog-app/healthlog/pkg/records"
)

var ErrUnknownField = errors.New("unknown tag field")

// Catalog holds, per tag field, the ordered known values and the
// tombstoned ones. The two sets stay disjoint.
type Catalog struct {
	known   map[string][]string
	removed map[string][]string
}

// New returns an empty catalog covering every tag field.
func New() *Catalog {
	c := &Catalog{
		known:   make(map[string][]string, len(records.TagFields)),
		removed: make(map[string][]string, len(records.TagFields)),
	}
	for _, f := range records.TagFields {
		c.known[f] = []string{}
		c.removed[f] = []string{}
	}
	return c
}

// Load builds the catalog for a pain dataset. When the dataset carries
// a persisted options payload that payload wins; otherwise the known
// values are derived once by scanning the historical rows. The branch
// is chosen here, at load time, and never re-evaluated: after the first
// persist the catalog is authoritative and a tombstoned value cannot be
// rescued by re-derivation.
func Load(ds *records.Dataset) *Catalog {
	if ds != nil && ds.Options != nil {
		return fromPayload(ds.Options)
	}
	c := New()
	if ds == nil || len(ds.Rows) == 0 {
		return c
	}
	for _, field := range records.TagFields {
		c.known[field] = deriveField(ds, field)
	}
	return c
}

func fromPayload(payload *records.TagOptions) *Catalog {
	c := New()
	for _, field := range records.TagFields {
		c.known[field] = cleanValues(payload.Options[field])
		c.removed[field] = cleanValues(payload.Removed[field])
	}
	return c
}

// deriveField collects the distinct labels used in one tag field across
// all historical rows, in encounter order.
func deriveField(ds *records.Dataset, field string) []string {
	col := records.FindHeader(ds.Headers, field)
	if col == "" {
		col = field
	}
	var out []string
	seen := make(map[string]bool)
	for _, row := range ds.Rows {
		for _, label := range records.SplitTags(row[col]) {
			if !seen[label] {
				seen[label] = true
				out = append(out, label)
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// cleanValues trims, deduplicates, and drops boolean-ish tokens.
func cleanValues(vals []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || records.IsBooleanToken(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Fields lists the tag fields the catalog manages.
func (c *Catalog) Fields() []string {
	out := make([]string, len(records.TagFields))
	copy(out, records.TagFields)
	return out
}

func (c *Catalog) checkField(field string) error {
	if _, ok := c.known[field]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Values returns the known labels for a tag field, in order.
func (c *Catalog) Values(field string) []string {
	vals := c.known[field]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Tombstones returns the removed labels for a tag field.
func (c *Catalog) Tombstones(field string) []string {
	vals := c.removed[field]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Add inserts a label into a field's known set and clears any tombstone
// for it. Empty values are a no-op.
func (c *Catalog) Add(field, value string) error {
	if err := c.checkField(field); err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if !contains(c.known[field], value) {
		c.known[field] = append(c.known[field], value)
	}
	c.removed[field] = without(c.removed[field], value)
	return nil
}

// Delete drops a label from the known set and tombstones it so the next
// derivation-free load keeps it gone.
func (c *Catalog) Delete(field, value string) error {
	if err := c.checkField(field); err != nil {
		return err
	}
	c.known[field] = without(c.known[field], value)
	if !contains(c.removed[field], value) {
		c.removed[field] = append(c.removed[field], value)
	}
	return nil
}

// Rename replaces oldValue with newValue in the known set, tombstones
// oldValue, and makes sure newValue is not left tombstoned.
func (c *Catalog) Rename(field, oldValue, newValue string) error {
	if err := c.checkField(field); err != nil {
		return err
	}
	newValue = strings.TrimSpace(newValue)
	if newValue == "" {
		return nil
	}
	replaced := make([]string, 0, len(c.known[field]))
	seen := make(map[string]bool)
	for _, v := range c.known[field] {
		if v == oldValue {
			v = newValue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		replaced = append(replaced, v)
	}
	c.known[field] = replaced
	if !contains(c.removed[field], oldValue) {
		c.removed[field] = append(c.removed[field], oldValue)
	}
	c.removed[field] = without(c.removed[field], newValue)
	return nil
}

// Payload serializes the catalog into the shape persisted on the pain
// document.
func (c *Catalog) Payload() *records.TagOptions {
	payload := &records.TagOptions{
		Options: make(map[string][]string, len(c.known)),
		Removed: make(map[string][]string, len(c.removed)),
	}
	for _, field := range records.TagFields {
		payload.Options[field] = c.Values(field)
		payload.Removed[field] = c.Tombstones(field)
	}
	return payload
}

// Attach stamps the catalog payload onto a pain dataset before persistence.
func (c *Catalog) Attach(ds *records.Dataset) {
	if ds != nil {
		ds.Options = c.Payload()
	}
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

func without(vals []string, v string) []string {
	out := vals[:0]
	for _, x := range vals {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
