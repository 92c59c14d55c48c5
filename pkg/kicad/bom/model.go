package bom

import "regexp"

// ColumnID is a canonicalised BOM column identifier. Two different
// spreadsheets may spell "Quantity" as "Qty" or "Qnty"; once
// canonicalised both become Quantity.
type ColumnID string

// The canonical column set.
const (
	Item         ColumnID = "item"
	Quantity     ColumnID = "quantity"
	Populate     ColumnID = "populate"
	Reference    ColumnID = "reference"
	Value        ColumnID = "value"
	Symbol       ColumnID = "symbol"
	Footprint    ColumnID = "footprint"
	Datasheet    ColumnID = "datasheet"
	Manufacturer ColumnID = "manufacturer"
	PartNum      ColumnID = "partnum"
	Supplier     ColumnID = "supplier"
	SupplierNum  ColumnID = "suppliernum"
	Price        ColumnID = "price"
)

// MetaSchFile is the meta key a "source: ..." row populates.
const MetaSchFile = "schfile"

// headerPatterns canonicalises a raw column header; the first pattern
// that matches wins. Every pattern is anchored at both ends, so a
// "Partnumber" or "Mfr#" column resolves to PartNum and never to
// Manufacturer.
var headerPatterns = []struct {
	id ColumnID
	re *regexp.Regexp
}{
	{Item, regexp.MustCompile(`(?i)^Item#?$`)},
	{Quantity, regexp.MustCompile(`(?i)^(Qty|Qnty|Quantity)$`)},
	{Populate, regexp.MustCompile(`(?i)^Pop(ulate|ulation)?$`)},
	{Reference, regexp.MustCompile(`(?i)^(Ref|Reference.*)$`)},
	{Value, regexp.MustCompile(`(?i)^Value$`)},
	{Symbol, regexp.MustCompile(`(?i)^(Libpart|Part|Library.*)$`)},
	{Footprint, regexp.MustCompile(`(?i)^Footprint$`)},
	{Datasheet, regexp.MustCompile(`(?i)^Datasheet$`)},
	{PartNum, regexp.MustCompile(`(?i)^(M(anu?)?f(actu)?r?(er)?|P(art)?)(#| ?number)$`)},
	{Manufacturer, regexp.MustCompile(`(?i)^M(anu?)?f(actu)?r?(er)?$`)},
	{SupplierNum, regexp.MustCompile(`(?i)^(Sup(plier)?|Vendor|Dist(ributor)?)(#| ?number)$`)},
	{Supplier, regexp.MustCompile(`(?i)^(Sup(plier)?|Vendor|Dist(ributor)?)$`)},
	{Price, regexp.MustCompile(`(?i)^(Sup(plier)?|Vendor|Dist(ributor)?)?(\$| ?Price)$`)},
}

var metaSourcePattern = regexp.MustCompile(`(?i)^source:$`)

// headerMinCombos is the set of "at least this much" header shapes a
// row must satisfy to be recognised as the header row.
var headerMinCombos = [][]ColumnID{
	{Reference, Value},
	{Reference, Footprint},
	{Reference, Datasheet},
}

// excludedColumns are dropped from the recognised header once found, so
// their cells are not read into any row: they are not themselves BOM
// fields.
var excludedColumns = map[ColumnID]bool{
	Item:     true,
	Quantity: true,
}

func canonicalizeHeader(cell string) (ColumnID, bool) {
	for _, p := range headerPatterns {
		if p.re.MatchString(cell) {
			return p.id, true
		}
	}
	return "", false
}

func matchMeta(cell string) (string, bool) {
	if metaSourcePattern.MatchString(cell) {
		return MetaSchFile, true
	}
	return "", false
}

func headerSatisfiesMin(h map[ColumnID]ColumnRef) bool {
	for _, combo := range headerMinCombos {
		ok := true
		for _, id := range combo {
			if _, present := h[id]; !present {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// ColumnRef records where a recognised column lives in a data row.
type ColumnRef struct {
	Index   int
	Name    string // the raw header cell text
	Special bool   // true if canonicalised via headerPatterns
}

// BOM is a parsed bill of materials: meta fields discovered before the
// header row, the recognised header, and per-reference field values.
type BOM struct {
	Meta        map[string][]string
	Header      map[ColumnID]ColumnRef
	Refs        map[string]map[ColumnID]string
	LineCount   int
	Diagnostics []string // non-fatal issues encountered while reading (duplicate refs, early truncation)
}

// SchematicFile returns the "source: ..." meta value, if any.
func (b *BOM) SchematicFile() (string, bool) {
	v, ok := b.Meta[MetaSchFile]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
