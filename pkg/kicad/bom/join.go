package bom

import (
	"sort"
	"strings"
)

// JoinValues forms one combined row for refs: each field's value is the
// "; "-joined set of distinct non-empty originals seen across refs'
// existing rows (fields absent from a row and empty values are both
// skipped). The combined row replaces each named ref's existing row in
// b.Refs; refs with no row contribute nothing and gain none, and
// joining a set with no rows at all returns nil. The
// returned set names every field whose values actually diverged across
// refs, excluding Reference itself (joining references back together
// is not a divergence worth flagging).
func JoinValues(b *BOM, refs []string) (map[ColumnID]string, map[ColumnID]bool) {
	rows := make([]map[ColumnID]string, 0, len(refs))
	for _, ref := range refs {
		if row, ok := b.Refs[ref]; ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	joined, changed := joinRows(rows, "; ")
	delete(changed, Reference)

	for _, ref := range refs {
		if _, ok := b.Refs[ref]; ok {
			b.Refs[ref] = joined
		}
	}
	return joined, changed
}

func joinRows(rows []map[ColumnID]string, sep string) (map[ColumnID]string, map[ColumnID]bool) {
	keys := make(map[ColumnID]bool)
	for _, row := range rows {
		for k := range row {
			keys[k] = true
		}
	}

	out := make(map[ColumnID]string, len(keys))
	changed := make(map[ColumnID]bool)

	for key := range keys {
		seen := make(map[string]bool)
		var vals []string
		for _, row := range rows {
			if v, ok := row[key]; ok && v != "" && !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		if len(vals) > 1 {
			changed[key] = true
		}
		sort.Strings(vals)
		out[key] = strings.Join(vals, sep)
	}

	return out, changed
}
