package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/bom"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/hierarchy"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/stage"
)

var (
	bom2csvUTF8       bool
	bom2csvGrouped    bool
	bom2csvIndividual bool
	bom2csvNoOpen     bool
)

var bom2csvCmd = &cobra.Command{
	Use:   "bom2csv <root.sch> [out.csv]",
	Short: "Export a schematic hierarchy's components to a CSV BOM",
	Long: `Walks the sheet graph rooted at root.sch and emits one row per
component record, under the default reference on its L line, in the
same table shape as the schematic editor's own BOM export plugins.
Per-instance AR references of a sheet used more than once are not
listed; a later record with an already-seen reference is skipped.

If out.csv is omitted, the CSV is written next to root.sch with a
".csv" extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBOM2CSV,
}

func init() {
	rootCmd.AddCommand(bom2csvCmd)

	bom2csvCmd.Flags().BoolVar(&bom2csvUTF8, "utf8", false, "write a UTF-8 byte-order mark")
	bom2csvCmd.Flags().BoolVarP(&bom2csvGrouped, "grouped", "g", false, "emit the grouped-style table")
	bom2csvCmd.Flags().BoolVarP(&bom2csvIndividual, "individual", "i", false, "emit the individual-components table")
	bom2csvCmd.Flags().BoolVar(&bom2csvNoOpen, "noopen", false, "do not open the result afterwards (accepted for compatibility; never opens)")
}

func runBOM2CSV(cmd *cobra.Command, args []string) error {
	rootPath := args[0]
	outPath := args[1:]

	detail("loading sheet graph from %s", rootPath)
	graph, err := hierarchy.Load(rootPath, nil)
	if err != nil {
		return fmt.Errorf("bom2csv: %w", err)
	}

	b := collectBOM(graph, rootPath)

	opts := bom.WriteOptions{
		Individual:    bom2csvIndividual || !bom2csvGrouped,
		Grouped:       bom2csvGrouped,
		SchematicFile: rootPath,
		Tool:          "hiercad bom2csv",
	}

	var sb strings.Builder
	if bom2csvUTF8 {
		sb.WriteString("\ufeff")
	}
	if err := bom.WriteCSV(&sb, b, opts); err != nil {
		return fmt.Errorf("bom2csv: rendering CSV: %w", err)
	}

	dest := rootPath + ".csv"
	if len(outPath) == 1 {
		dest = outPath[0]
	}

	detail("writing %s", dest)
	if err := stage.WriteFile(context.Background(), dest, []byte(sb.String())); err != nil {
		return fmt.Errorf("bom2csv: %w", err)
	}

	fmt.Fprintf(os.Stdout, "wrote %d component(s) to %s\n", len(b.Refs), dest)
	if bom2csvNoOpen {
		detail("--noopen set, nothing to open")
	}
	return nil
}

// collectBOM walks every file in graph and builds a BOM whose header
// covers the columns the legacy component fields always carry
// (Reference, Value, Footprint, Datasheet, Symbol).
func collectBOM(graph *hierarchy.Graph, rootPath string) *bom.BOM {
	b := &bom.BOM{
		Meta: map[string][]string{bom.MetaSchFile: {rootPath}},
		Header: map[bom.ColumnID]bom.ColumnRef{
			bom.Reference: {Name: "Reference(s)"},
			bom.Value:     {Name: "Value"},
			bom.Footprint: {Name: "Footprint"},
			bom.Datasheet: {Name: "Datasheet"},
			bom.Symbol:    {Name: "LibPart"},
		},
		Refs: make(map[string]map[bom.ColumnID]string),
	}

	for _, fr := range graph.Files {
		for _, comp := range fr.Components {
			ref := comp.Ref.Get()
			if _, exists := b.Refs[ref]; exists {
				b.Diagnostics = append(b.Diagnostics, fmt.Sprintf("duplicate reference %s in %s, keeping first", ref, fr.Path))
				continue
			}

			row := map[bom.ColumnID]string{
				bom.Reference: ref,
				bom.Symbol:    comp.Lib.Get(),
			}
			if f, ok := comp.Field(1); ok {
				row[bom.Value] = f.Value.Get()
			}
			if f, ok := comp.Field(2); ok {
				row[bom.Footprint] = f.Value.Get()
			}
			if f, ok := comp.Field(3); ok {
				row[bom.Datasheet] = f.Value.Get()
			}
			b.Refs[ref] = row
			b.LineCount++
		}
	}
	return b
}
