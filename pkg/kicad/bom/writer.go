package bom

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// columnHeaderText overrides a handful of canonical columns' display
// text in exported tables.
var columnHeaderText = map[ColumnID]string{
	Item:        "Item",
	Quantity:    "Qty",
	Populate:    "POP",
	Reference:   "Reference(s)",
	SupplierNum: "Supplier Number",
	Price:       "Supplier Price",
	Symbol:      "LibPart",
}

// WriteOptions controls which BOM tables WriteCSV emits and the
// informational header rows that precede them.
type WriteOptions struct {
	Individual    bool // emit one row per reference
	Grouped       bool // emit one row per group of identical components
	SchematicFile string
	Date          string
	Tool          string
}

// WriteCSV renders b as a CSV BOM export, in the same general shape
// the schematic editor's own BOM plugins produce: a small informational
// header, then an "Individual Components" table, a "Grouped Style"
// table, or both.
func WriteCSV(w io.Writer, b *BOM, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false

	colIDs := columnOrder(b.Header)
	columns := headerTexts(b.Header, colIDs)

	write := func(vals ...string) {
		if err := cw.Write(vals); err != nil {
			_ = err // captured via cw.Error() below
		}
	}

	write("Source:", opts.SchematicFile)
	if opts.Date != "" {
		write("Date:", opts.Date)
	}
	if opts.Tool != "" {
		write("Tool:", opts.Tool)
	}
	write("Component Count:", strconv.Itoa(len(b.Refs)))
	write()

	if opts.Individual {
		write("Individual Components:")
		write()
		write(columns...)
		for _, ref := range sortedNatural(refKeys(b.Refs)) {
			data := b.Refs[ref]
			row := make([]string, len(colIDs))
			for i, id := range colIDs {
				row[i] = data[id]
			}
			write(row...)
		}
		write()
		write()
		write()
	}

	if opts.Grouped {
		write("Grouped Style:")
		write()
		write(columns...)
		writeGrouped(write, b, colIDs)
		write()
		write()
		write()
	}

	cw.Flush()
	return cw.Error()
}

func writeGrouped(write func(...string), b *BOM, colIDs []ColumnID) {
	groups := make(map[string][]string)
	var order []string
	for ref := range b.Refs {
		key := groupIdentity(b.Refs[ref])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], ref)
	}
	for _, key := range order {
		groups[key] = sortedNatural(groups[key])
	}
	sort.Slice(order, func(i, j int) bool {
		return naturalKey(groups[order[i]][0]) < naturalKey(groups[order[j]][0])
	})

	for i, key := range order {
		group := groups[key]
		row := []string{strconv.Itoa(i + 1), strconv.Itoa(len(group))}
		for _, id := range colIDs[2:] {
			row = append(row, joinDistinct(b.Refs, group, id))
		}
		write(row...)
	}
}

// groupIdentity returns the equivalency key the grouped table
// uses: components with the same value, manufacturer, part number,
// datasheet, footprint and populate flag are the same group.
func groupIdentity(data map[ColumnID]string) string {
	var b strings.Builder
	for _, id := range [...]ColumnID{Value, Manufacturer, PartNum, Datasheet, Footprint, Populate} {
		b.WriteString(data[id])
		b.WriteByte(0)
	}
	return b.String()
}

func joinDistinct(refs map[string]map[ColumnID]string, group []string, id ColumnID) string {
	seen := make(map[string]bool)
	var vals []string
	for _, ref := range group {
		v := refs[ref][id]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return naturalKey(vals[i]) < naturalKey(vals[j]) })
	return strings.Join(vals, ", ")
}

func refKeys(refs map[string]map[ColumnID]string) []string {
	out := make([]string, 0, len(refs))
	for ref := range refs {
		out = append(out, ref)
	}
	return out
}

func sortedNatural(refs []string) []string {
	out := append([]string(nil), refs...)
	sort.Slice(out, func(i, j int) bool { return naturalKey(out[i]) < naturalKey(out[j]) })
	return out
}

var numericRunPattern = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)

// naturalKey zero-pads every numeric run in s so lexicographic
// comparison sorts references like "R2" before "R10".
func naturalKey(s string) string {
	return numericRunPattern.ReplaceAllStringFunc(s, func(m string) string {
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return m
		}
		return fmt.Sprintf("%016.8f", f)
	})
}

func columnOrder(header map[ColumnID]ColumnRef) []ColumnID {
	prefix := []ColumnID{Item, Quantity}

	order := []ColumnID{}
	if _, ok := header[Populate]; ok {
		order = append(order, Populate)
	}
	order = append(order, Reference, Value, Manufacturer, PartNum)

	var supplier []ColumnID
	if _, ok := header[Supplier]; ok {
		supplier = []ColumnID{Supplier, SupplierNum, Price}
	}

	postfix := []ColumnID{Symbol, Footprint, Datasheet}

	excluded := make(map[ColumnID]bool)
	for _, id := range prefix {
		excluded[id] = true
	}
	for _, id := range order {
		excluded[id] = true
	}
	for _, id := range supplier {
		excluded[id] = true
	}
	for _, id := range postfix {
		excluded[id] = true
	}

	var rest []string
	for id := range header {
		if !excluded[id] {
			rest = append(rest, string(id))
		}
	}
	sort.Strings(rest)

	out := append([]ColumnID{}, prefix...)
	out = append(out, order...)
	out = append(out, supplier...)
	for _, s := range rest {
		out = append(out, ColumnID(s))
	}
	out = append(out, postfix...)
	return out
}

func headerTexts(header map[ColumnID]ColumnRef, colIDs []ColumnID) []string {
	out := make([]string, len(colIDs))
	for i, id := range colIDs {
		if text, ok := columnHeaderText[id]; ok {
			out[i] = text
			continue
		}
		if ref, ok := header[id]; ok {
			out[i] = ref.Name
			continue
		}
		out[i] = string(id)
	}
	return out
}
