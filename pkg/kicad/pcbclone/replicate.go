package pcbclone

import (
	"sort"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/channel"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/pcb"
)

// ReplicateReferences walks each channel's source footprints as Clone
// does and looks up each one's equivalent footprint on the board by the
// channel's mapped reference, without touching position, tracks, zones
// or nets. The footprint model carries only the reference string, which
// already equals the mapped reference it was found by, so no footprint
// is changed: the run reports the channels walked and warns about
// source footprints with no equivalent, or whose equivalent is missing
// from the board.
func ReplicateReferences(b *pcb.Board, res channel.Result, paths []string, opts Options) (Report, error) {
	var report Report

	if opts.ZoneLayer == "" {
		opts.ZoneLayer = defaultZoneLayer
	}

	markerZone, err := selectMarkerZone(b, opts)
	if err != nil {
		return report, err
	}

	srcRect := pcb.NewBoundingBox()
	for _, p := range markerZone.Outline {
		srcRect.Expand(p)
	}
	srcModules := b.FootprintsInRect(srcRect)

	targets := paths
	if len(targets) == 0 {
		targets = append([]string(nil), res.Paths...)
		sort.Strings(targets)
	}

	for _, path := range targets {
		refToRef, ok := res.Complete[path]
		if !ok {
			report.warnf("channel %s: no complete equivalent-reference map, skipped", path)
			continue
		}

		for _, src := range srcModules {
			cloneRef, ok := refToRef[src.Reference]
			if !ok {
				report.warnf("channel %s: %s has no equivalent component, skipped", path, src.Reference)
				continue
			}
			clone := b.FootprintByReference(cloneRef)
			if clone == nil {
				report.warnf("channel %s: equivalent %s for %s not found on board", path, cloneRef, src.Reference)
				continue
			}
			clone.Reference = cloneRef
		}

		report.ClonedPaths = append(report.ClonedPaths, path)
	}

	return report, nil
}
