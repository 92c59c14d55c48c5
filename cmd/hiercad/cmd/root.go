package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hiercad",
	Short: "hiercad - KiCad hierarchy, BOM and PCB clone toolkit",
	Long: `hiercad provides a scriptable interface for working with:
  - KiCad legacy schematic hierarchies and bill-of-materials round-trips
  - Channel discovery across repeated sub-circuit instantiations
  - KiCad PCB files, including the region clone engine

Examples:
  hiercad bom2csv root.sch bom.csv      # export the components to CSV
  hiercad bom2sch bom.csv root.sch      # rewrite schematic fields from a BOM
  hiercad pcbclone board.kicad_pcb --sch root.sch --anchor U2 --out cloned.kicad_pcb`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
