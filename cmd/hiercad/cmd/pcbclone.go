package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/channel"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/hierarchy"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/pcb"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/pcbclone"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/stage"
)

var (
	pcbcloneSch       string
	pcbcloneOut       string
	pcbcloneRefs      []string
	pcbcloneChannels  []string
	pcbcloneAnchor    string
	pcbcloneGrid      string
	pcbcloneStart     string
	pcbcloneMirror    string
	pcbcloneZoneLayer string
	pcbcloneCleanup   bool
	pcbcloneRefsOnly  bool
)

var pcbcloneCmd = &cobra.Command{
	Use:   "pcbclone <board.kicad_pcb> --sch <root.sch>",
	Short: "Clone the marker-zone region of a board onto every channel",
	Long: `Selects the board region covered by the marker zone (a zone drawn on
the Cmts.User layer by default), discovers the repeated sub-circuit
channels of the schematic hierarchy seeded by the footprints inside
that region, and replicates components, tracks, zones and drawings onto
each channel with an equivalent-net remap.

Placement comes from --anchor (each channel lands where its equivalent
of the anchor footprint already sits) or from --grid with --start.`,
	Args: cobra.ExactArgs(1),
	RunE: runPCBClone,
}

func init() {
	rootCmd.AddCommand(pcbcloneCmd)

	pcbcloneCmd.Flags().StringVar(&pcbcloneSch, "sch", "", "root schematic of the board (required)")
	pcbcloneCmd.Flags().StringVar(&pcbcloneOut, "out", "", "output board file (default: rewrite the input)")
	pcbcloneCmd.Flags().StringSliceVar(&pcbcloneRefs, "refs", nil, "seed references (default: footprints inside the marker zone)")
	pcbcloneCmd.Flags().StringSliceVar(&pcbcloneChannels, "channels", nil, "clone only these channel paths")
	pcbcloneCmd.Flags().StringVar(&pcbcloneAnchor, "anchor", "", "anchor reference for per-channel placement")
	pcbcloneCmd.Flags().StringVar(&pcbcloneGrid, "grid", "", "grid placement as WIDTH,DX,DY (used when --anchor is empty)")
	pcbcloneCmd.Flags().StringVar(&pcbcloneStart, "start", "0,0", "grid origin as X,Y")
	pcbcloneCmd.Flags().StringVar(&pcbcloneMirror, "mirror", "none", "geometry transform: none, v, h or d(iagonal)")
	pcbcloneCmd.Flags().StringVar(&pcbcloneZoneLayer, "zone-layer", "", "marker zone layer (default Cmts.User)")
	pcbcloneCmd.Flags().BoolVar(&pcbcloneCleanup, "cleanup", false, "remove existing tracks/zones/drawings in each target area first")
	pcbcloneCmd.Flags().BoolVar(&pcbcloneRefsOnly, "refs-only", false, "only check each channel's reference map and report missing equivalents; nothing on the board is changed")

	_ = pcbcloneCmd.MarkFlagRequired("sch")
}

func runPCBClone(cmd *cobra.Command, args []string) error {
	boardPath := args[0]

	opts, err := pcbcloneOptions()
	if err != nil {
		return fmt.Errorf("pcbclone: %w", err)
	}

	detail("loading board %s", boardPath)
	board, err := pcb.ParseFile(boardPath)
	if err != nil {
		return fmt.Errorf("pcbclone: %w", err)
	}

	seeds := pcbcloneRefs
	if len(seeds) == 0 {
		if seeds, err = pcbclone.SourceRefs(board, opts); err != nil {
			return fmt.Errorf("pcbclone: %w", err)
		}
		detail("seed references from marker zone: %s", strings.Join(seeds, ","))
	}
	if len(seeds) == 0 {
		return fmt.Errorf("pcbclone: no seed references inside the marker zone")
	}

	detail("loading sheet graph from %s", pcbcloneSch)
	graph, err := hierarchy.Load(pcbcloneSch, nil)
	if err != nil {
		return fmt.Errorf("pcbclone: %w", err)
	}
	idx := hierarchy.BuildIndex(graph)

	tree := channel.BuildTree(idx, seeds)
	res := channel.GroupByChannel(tree, seeds)
	for _, path := range res.Paths {
		if msg, ok := res.Warnings[path]; ok {
			logger.Printf("channel %s: %s", path, msg)
		}
	}
	if len(res.Complete) == 0 {
		return fmt.Errorf("pcbclone: no complete channel found for seeds %s", strings.Join(seeds, ","))
	}

	var report pcbclone.Report
	if pcbcloneRefsOnly {
		report, err = pcbclone.ReplicateReferences(board, res, pcbcloneChannels, opts)
	} else {
		report, err = pcbclone.Clone(board, res, pcbcloneChannels, opts)
	}
	if err != nil {
		return fmt.Errorf("pcbclone: %w", err)
	}
	for _, w := range report.Warnings {
		logger.Printf("%s", w)
	}

	dest := pcbcloneOut
	if dest == "" {
		dest = boardPath
	}
	var out bytes.Buffer
	if err := pcb.Write(&out, board); err != nil {
		return fmt.Errorf("pcbclone: rendering board: %w", err)
	}
	detail("writing %s", dest)
	if err := stage.WriteFile(context.Background(), dest, out.Bytes()); err != nil {
		return fmt.Errorf("pcbclone: %w", err)
	}

	fmt.Fprintf(os.Stdout, "cloned %d channel(s) onto %s\n", len(report.ClonedPaths), dest)
	return nil
}

// pcbcloneOptions folds the command's flags into clone engine options.
func pcbcloneOptions() (pcbclone.Options, error) {
	opts := pcbclone.Options{
		ZoneLayer:     pcbcloneZoneLayer,
		AnchorRef:     pcbcloneAnchor,
		CleanupTarget: pcbcloneCleanup,
	}

	switch strings.ToLower(pcbcloneMirror) {
	case "", "none", "n":
		opts.Mirror = pcbclone.Normal
	case "v", "vertical":
		opts.Mirror = pcbclone.VMirror
	case "h", "horizontal":
		opts.Mirror = pcbclone.HMirror
	case "d", "diagonal":
		opts.Mirror = pcbclone.Diagonal
	default:
		return opts, fmt.Errorf("unknown --mirror mode %q", pcbcloneMirror)
	}

	if pcbcloneAnchor == "" {
		if pcbcloneGrid == "" {
			return opts, fmt.Errorf("either --anchor or --grid is required")
		}
		parts := strings.Split(pcbcloneGrid, ",")
		if len(parts) != 3 {
			return opts, fmt.Errorf("--grid wants WIDTH,DX,DY, got %q", pcbcloneGrid)
		}
		w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || w < 1 {
			return opts, fmt.Errorf("--grid width %q is not a positive integer", parts[0])
		}
		opts.GridXdim = w
		if opts.GridDX, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
			return opts, fmt.Errorf("--grid dx %q is not a number", parts[1])
		}
		if opts.GridDY, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err != nil {
			return opts, fmt.Errorf("--grid dy %q is not a number", parts[2])
		}

		start := strings.Split(pcbcloneStart, ",")
		if len(start) != 2 {
			return opts, fmt.Errorf("--start wants X,Y, got %q", pcbcloneStart)
		}
		var err2 error
		if opts.StartX, err2 = strconv.ParseFloat(strings.TrimSpace(start[0]), 64); err2 != nil {
			return opts, fmt.Errorf("--start x %q is not a number", start[0])
		}
		if opts.StartY, err2 = strconv.ParseFloat(strings.TrimSpace(start[1]), 64); err2 != nil {
			return opts, fmt.Errorf("--start y %q is not a number", start[1])
		}
	}

	return opts, nil
}
