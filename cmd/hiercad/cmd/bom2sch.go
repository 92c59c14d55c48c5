package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/bom"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/hierarchy"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/sch"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/stage"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/units"
)

var bom2schCmd = &cobra.Command{
	Use:   "bom2sch <bom.csv> [root.sch]",
	Short: "Rewrite schematic component fields from a CSV BOM",
	Long: `Reads a CSV bill of materials and rewrites the matching component
fields across the whole sheet hierarchy. Only the edited field values
change; every other byte of every schematic file is preserved.

If root.sch is omitted it is taken from the BOM's "Source:" meta row.
Each rewritten file is staged as "<file>.new" and renamed into place,
keeping the previous content as "<file>.bak".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBOM2SCH,
}

func init() {
	rootCmd.AddCommand(bom2schCmd)
}

func runBOM2SCH(cmd *cobra.Command, args []string) error {
	bomPath := args[0]

	detail("reading BOM %s", bomPath)
	f, err := os.Open(bomPath)
	if err != nil {
		return fmt.Errorf("bom2sch: %w", err)
	}
	b, err := bom.ReadCSV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("bom2sch: reading %s: %w", bomPath, err)
	}
	for _, d := range b.Diagnostics {
		logger.Printf("%s", d)
	}

	schPath := ""
	if len(args) == 2 {
		schPath = args[1]
	} else if src, ok := b.SchematicFile(); ok {
		schPath = src
	} else {
		return fmt.Errorf("bom2sch: no schematic given and %s carries no \"Source:\" meta row", bomPath)
	}
	schPath = units.NormalizePath(schPath, dirOf(bomPath))

	detail("loading sheet graph from %s", schPath)
	graph, err := hierarchy.Load(schPath, nil)
	if err != nil {
		return fmt.Errorf("bom2sch: %w", err)
	}

	up := &bomUpdater{
		bom:       b,
		nameToCol: fieldNameToColumn(b),
		applied:   make(map[string]bool),
	}

	for _, fr := range graph.Files {
		detail("rewriting %s", fr.Path)
		if err := up.rewriteFile(fr.Path); err != nil {
			return fmt.Errorf("bom2sch: %w", err)
		}
	}

	for ref := range b.Refs {
		if !up.applied[ref] {
			logger.Printf("reference %s not found in any sheet, row skipped", ref)
		}
	}

	fmt.Fprintf(os.Stdout, "updated %d component(s) across %d file(s)\n", up.updated, len(graph.Files))
	return nil
}

// fieldNameToColumn maps a component field's display name to the BOM
// column feeding it: the raw header texts of every recognised column,
// plus the four legacy field names that always map to the same columns.
// Reference maps to "" so the designator itself is never rewritten from
// a BOM cell.
func fieldNameToColumn(b *bom.BOM) map[string]bom.ColumnID {
	m := make(map[string]bom.ColumnID)
	for id, ref := range b.Header {
		if ref.Name != "" {
			m[ref.Name] = id
		}
	}
	m["Reference"] = ""
	m["Value"] = bom.Value
	m["Footprint"] = bom.Footprint
	m["Datasheet"] = bom.Datasheet
	return m
}

// bomUpdater carries the state of one bom2sch run across every file of
// the hierarchy.
type bomUpdater struct {
	bom       *bom.BOM
	nameToCol map[string]bom.ColumnID
	applied   map[string]bool
	updated   int
}

// rewriteFile streams path through a Mapper, updating each component's
// fields from the BOM at its closing event, and stages the result over
// the original.
func (u *bomUpdater) rewriteFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	var out bytes.Buffer
	m := sch.NewMapper(src, &out)
	for m.Next() {
		ev := m.Event()
		if ev.State == sch.CompExit {
			u.updateComponent(ev.Comp)
		}
	}
	if err := m.Err(); err != nil {
		return err
	}

	return stage.WriteFile(context.Background(), path, out.Bytes())
}

// effectiveRefs returns every reference a component answers to: its AR
// override references when the hierarchy instantiates it more than
// once, else its default designator.
func effectiveRefs(c *sch.ComponentRecord) []string {
	if len(c.AR) == 0 {
		if c.Ref == nil {
			return nil
		}
		return []string{c.Ref.Get()}
	}
	seen := make(map[string]bool, len(c.AR))
	var refs []string
	for _, e := range c.AR {
		if e.Ref == nil {
			continue
		}
		r := e.Ref.Get()
		if !seen[r] {
			seen[r] = true
			refs = append(refs, r)
		}
	}
	return refs
}

func (u *bomUpdater) updateComponent(c *sch.ComponentRecord) {
	refs := effectiveRefs(c)
	if len(refs) == 0 {
		return
	}

	u.bom.TransformToSch(refs)
	values, divergent := bom.JoinValues(u.bom, refs)
	if len(values) == 0 {
		return
	}
	if len(divergent) > 0 {
		logger.Printf("%s: field values were combined across references", strings.Join(refs, ","))
	}
	for _, r := range refs {
		if _, ok := u.bom.Refs[r]; ok {
			u.applied[r] = true
		}
	}

	byColumn := make(map[bom.ColumnID]*sch.Field)
	for _, f := range c.Fields() {
		name := f.Name.Get()
		col, ok := u.nameToCol[name]
		if !ok {
			col = bom.ColumnID(name)
		}
		if col == "" || f.Number == 0 {
			continue
		}
		if v, ok := values[col]; ok {
			setFieldValue(f, v)
		}
		byColumn[col] = f
	}

	u.insertPopulate(c, values, byColumn)
	u.updateSymbol(c, values)
	u.updated++
}

// insertPopulate gives the component a Populate field when the BOM says
// it needs one, and swaps the visibility of the value and populate
// fields when they sit at the same position: a DNP part shows "DNP"
// where its value would be, a populated part shows its value.
func (u *bomUpdater) insertPopulate(c *sch.ComponentRecord, values map[bom.ColumnID]string, byColumn map[bom.ColumnID]*sch.Field) {
	popVal := strings.TrimSpace(values[bom.Populate])
	popField := byColumn[bom.Populate]
	valField, _ := c.Field(1)

	if popVal != "" && popField == nil {
		name := "Populate"
		if ref, ok := u.bom.Header[bom.Populate]; ok && ref.Name != "" {
			name = ref.Name
		}
		popField = c.AddField(c.NextFieldNumber(), name, popVal, "0000", recordTerminator(c))
	}
	if popField == nil || valField == nil {
		return
	}
	if popField.X.Get() != valField.X.Get() || popField.Y.Get() != valField.Y.Get() {
		return
	}
	if popVal == "DNP" {
		valField.Flags.Set("0001")
		popField.Flags.Set("0000")
	} else {
		valField.Flags.Set("0000")
		popField.Flags.Set("0001")
	}
}

// updateSymbol rewrites the component's library symbol from the BOM's
// Symbol column, stripping the "lib:" prefix when the component was not
// using the lib-qualified style (or the new value's lib name is empty).
func (u *bomUpdater) updateSymbol(c *sch.ComponentRecord, values map[bom.ColumnID]string) {
	newValue, ok := values[bom.Symbol]
	if !ok || c.Lib == nil {
		return
	}
	newValue = strings.TrimSpace(newValue)
	newValue = strings.TrimPrefix(newValue, ":")
	i := strings.Index(newValue, ":") + 1
	if i == 1 || !strings.Contains(c.Lib.Get(), ":") {
		newValue = newValue[i:]
	}
	if newValue != "" {
		c.Lib.Set(newValue)
	}
}

// setFieldValue replaces the inside of a quoted field value, escaping
// any double quotes the new text carries.
func setFieldValue(f *sch.Field, v string) {
	f.Value.Set(strings.ReplaceAll(strings.TrimSpace(v), `"`, `\"`))
}

// recordTerminator returns the line ending the record's own lines use,
// so inserted lines match the rest of the file.
func recordTerminator(c *sch.ComponentRecord) string {
	if len(c.Lines) > 0 && strings.HasSuffix(c.Lines[0].String(), "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func dirOf(p string) string {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return ""
	}
	return p[:i]
}
