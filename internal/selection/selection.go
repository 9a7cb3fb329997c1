// Package selection resolves the effective exported-field set from persisted
// configuration and decides whether an order qualifies for export.
package selection

import (
	"encoding/json"
	"strings"

	"sheets-bridge/internal/catalog"
	"sheets-bridge/internal/model"
)

// === Field Selection ===

// Normalize parses a persisted field selection into a clean ordered list.
// Stored values drifted across plugin generations: a JSON array, a
// comma-joined string, or a single bare ID all occur in the wild.
// Blank entries and IDs the catalog no longer knows are dropped;
// duplicates keep their first position.
func Normalize(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			return NormalizeList(ids)
		}
		// Malformed JSON falls through to comma splitting
	}

	return NormalizeList(strings.Split(raw, ","))
}

// NormalizeList trims, deduplicates and drops unknown IDs, preserving the
// first-seen order of the rest.
func NormalizeList(ids []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, ok := catalog.Lookup(id); !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Heal appends any always-include field missing from the selection, in
// catalog order. Returns the healed list and whether anything changed so
// the caller can persist the repaired selection. The result is always a
// fresh slice; the input is never written to.
func Heal(selected []string) ([]string, bool) {
	present := make(map[string]bool, len(selected))
	for _, id := range selected {
		present[id] = true
	}

	changed := false
	out := make([]string, len(selected), len(selected)+len(catalog.AlwaysInclude()))
	copy(out, selected)
	for _, id := range catalog.AlwaysInclude() {
		if !present[id] {
			out = append(out, id)
			present[id] = true
			changed = true
		}
	}
	return out, changed
}

// GateProFields strips pro-tier IDs when no pro license is active.
// The stored selection is left alone; gating applies to the effective set
// only, so upgrading later restores the fields without reconfiguration.
func GateProFields(selected []string, proActive bool) []string {
	if proActive {
		return selected
	}
	var out []string
	for _, id := range selected {
		if !catalog.IsPro(id) {
			out = append(out, id)
		}
	}
	return out
}

// Effective runs the full pipeline on a raw persisted value:
// normalize, heal, gate. An empty or unusable stored value falls back to
// the catalog defaults before healing.
func Effective(raw string, proActive bool) []string {
	ids := Normalize(raw)
	if len(ids) == 0 {
		ids = catalog.Defaults()
	}
	ids, _ = Heal(ids)
	return GateProFields(ids, proActive)
}

// === Order Eligibility ===

// Engine decides whether an order qualifies for export.
type Engine struct {
	// Statuses an order must be in to export. Empty means export nothing.
	Statuses []string
	// CategoryIDs restricts export to orders containing at least one item
	// in one of these product categories. Empty means no category filter.
	CategoryIDs []int
}

// Eligible reports whether the order should be exported, with a short
// reason when it should not. Ineligibility is a normal outcome, not an
// error: callers skip the order silently.
func (e *Engine) Eligible(o *model.Order) (bool, string) {
	if !e.statusAllowed(o.Status) {
		return false, "status not selected for export"
	}
	if len(e.CategoryIDs) > 0 && !e.categoryMatch(o) {
		return false, "no item in a selected category"
	}
	return true, ""
}

func (e *Engine) statusAllowed(status string) bool {
	for _, s := range e.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// categoryMatch reports whether any line item carries an allowed category.
// Items whose product could not be resolved have no category IDs and never
// match.
func (e *Engine) categoryMatch(o *model.Order) bool {
	allowed := make(map[int]bool, len(e.CategoryIDs))
	for _, id := range e.CategoryIDs {
		allowed[id] = true
	}
	for _, item := range o.Items {
		for _, catID := range item.CategoryIDs {
			if allowed[catID] {
				return true
			}
		}
	}
	return false
}
