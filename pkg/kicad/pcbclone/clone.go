package pcbclone

import (
	"fmt"
	"sort"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/channel"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/pcb"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/units"
)

// defaultZoneLayer is the marker layer a designer draws the source
// rectangle on.
const defaultZoneLayer = "Cmts.User"

// Options configures one Clone run.
type Options struct {
	// ZoneLayer is the layer holding the marker zone that selects the
	// source rectangle. Defaults to "Cmts.User".
	ZoneLayer string
	// ZoneLoc, if non-nil, picks the marker zone whose outline contains
	// this point when more than one marker zone exists.
	ZoneLoc *pcb.Position
	// ZoneIndex picks among multiple marker zones when ZoneLoc is nil.
	ZoneIndex int

	// AnchorRef, if set, derives each channel's offset and rotation from
	// the position of this reference's equivalent footprint. Otherwise
	// placement falls back to the grid parameters below.
	AnchorRef string

	// Grid placement, used when AnchorRef is empty.
	GridXdim int
	GridDX   float64
	GridDY   float64
	StartX   float64
	StartY   float64

	Mirror Mirror

	// CleanupTarget removes existing tracks/zones/drawings inside each
	// target rectangle before cloning onto it.
	CleanupTarget bool
	// CleanupOnly performs the cleanup pass without cloning anything.
	CleanupOnly bool
}

// Report summarizes one Clone run: which channels were cloned and any
// warnings raised along the way (a missing equivalent net or reference
// skips the item, never the run).
type Report struct {
	ClonedPaths []string
	Warnings    []string
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Clone runs the PCB clone engine against b, propagating the region
// selected by a marker zone onto every channel in res (or only those
// named in paths, if non-empty).
func Clone(b *pcb.Board, res channel.Result, paths []string, opts Options) (Report, error) {
	var report Report

	if opts.ZoneLayer == "" {
		opts.ZoneLayer = defaultZoneLayer
	}
	if opts.GridXdim <= 0 {
		opts.GridXdim = 1
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
	srcModuleByRef := make(map[string]*pcb.Footprint, len(srcModules))
	for _, fp := range srcModules {
		srcModuleByRef[fp.Reference] = fp
	}

	srcTracks := b.TracksInRect(srcRect)
	srcDrawings := b.DrawingsInRect(srcRect)
	srcZones := zonesExcluding(b.ZonesInRect(srcRect), markerZone)

	targets := paths
	if len(targets) == 0 {
		targets = append([]string(nil), res.Paths...)
		sort.Strings(targets)
	}

	xCount := 0
	for _, path := range targets {
		refToRef, ok := res.Complete[path]
		if !ok {
			report.warnf("channel %s: no complete equivalent-reference map, skipped", path)
			continue
		}

		place, err := resolvePlacement(b, srcRect, srcModuleByRef, refToRef, opts, xCount)
		xCount++
		if err != nil {
			report.warnf("channel %s: %v", path, err)
			continue
		}

		if opts.CleanupTarget || opts.CleanupOnly {
			targetRect := transformedRect(srcRect, place)
			b.RemoveTracksInRect(targetRect)
			b.RemoveZonesInRect(targetRect)
			b.RemoveDrawingsInRect(targetRect)
		}
		if opts.CleanupOnly {
			report.ClonedPaths = append(report.ClonedPaths, path)
			continue
		}

		pairs := cloneFootprints(b, srcModules, refToRef, place, &report, path)
		eqNets := newEquivalentNets(pairs)

		cloneTracks(b, srcTracks, place, eqNets, &report, path)
		cloneZones(b, srcZones, place, eqNets, &report, path)
		cloneDrawings(b, srcDrawings, place)

		report.ClonedPaths = append(report.ClonedPaths, path)
	}

	return report, nil
}

// SourceRefs returns the reference designators of every footprint
// inside the marker zone's rectangle, the natural seed set for channel
// discovery when the caller has not named one.
func SourceRefs(b *pcb.Board, opts Options) ([]string, error) {
	if opts.ZoneLayer == "" {
		opts.ZoneLayer = defaultZoneLayer
	}
	markerZone, err := selectMarkerZone(b, opts)
	if err != nil {
		return nil, err
	}
	srcRect := pcb.NewBoundingBox()
	for _, p := range markerZone.Outline {
		srcRect.Expand(p)
	}
	var refs []string
	for _, fp := range b.FootprintsInRect(srcRect) {
		if fp.Reference != "" {
			refs = append(refs, fp.Reference)
		}
	}
	sort.Strings(refs)
	return refs, nil
}

func selectMarkerZone(b *pcb.Board, opts Options) (*pcb.Zone, error) {
	var candidates []*pcb.Zone
	for i := range b.Zones {
		z := &b.Zones[i]
		if z.Layer == opts.ZoneLayer {
			candidates = append(candidates, z)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("pcbclone: no zone found on marker layer %q", opts.ZoneLayer)
	}
	if opts.ZoneLoc != nil {
		for _, z := range candidates {
			bbox := pcb.NewBoundingBox()
			for _, p := range z.Outline {
				bbox.Expand(p)
			}
			if bbox.Contains(*opts.ZoneLoc) {
				return z, nil
			}
		}
		return nil, fmt.Errorf("pcbclone: no marker zone on layer %q contains the given location", opts.ZoneLayer)
	}
	idx := opts.ZoneIndex
	if idx < 0 || idx >= len(candidates) {
		idx = 0
	}
	return candidates[idx], nil
}

func zonesExcluding(zones []*pcb.Zone, exclude *pcb.Zone) []*pcb.Zone {
	out := make([]*pcb.Zone, 0, len(zones))
	for _, z := range zones {
		if z == exclude {
			continue
		}
		out = append(out, z)
	}
	return out
}

// resolvePlacement computes one channel's offset/rotation/pivot, either
// from the anchor reference's equivalent footprint or from the next
// slot of the grid layout.
func resolvePlacement(b *pcb.Board, srcRect pcb.BoundingBox, srcModuleByRef map[string]*pcb.Footprint,
	refToRef map[string]string, opts Options, gridIdx int) (placement, error) {

	if opts.AnchorRef != "" {
		srcAnchor, ok := srcModuleByRef[opts.AnchorRef]
		if !ok {
			return placement{}, fmt.Errorf("anchor reference %s is not in the source rectangle", opts.AnchorRef)
		}
		cloneRef, ok := refToRef[opts.AnchorRef]
		if !ok {
			return placement{}, fmt.Errorf("no equivalent for anchor reference %s", opts.AnchorRef)
		}
		cloneAnchor := b.FootprintByReference(cloneRef)
		if cloneAnchor == nil {
			return placement{}, fmt.Errorf("equivalent anchor %s not found on board", cloneRef)
		}

		rotation := units.NormalizeAngle(float64(cloneAnchor.Position.Angle) - float64(srcAnchor.Position.Angle))
		return placement{
			offset:   pcb.Position{X: cloneAnchor.Position.X - srcAnchor.Position.X, Y: cloneAnchor.Position.Y - srcAnchor.Position.Y},
			rotation: rotation,
			pivot:    cloneAnchor.Position.Position,
			rect:     srcRect,
			mirror:   opts.Mirror,
		}, nil
	}

	ix := gridIdx % opts.GridXdim
	iy := gridIdx / opts.GridXdim
	return placement{
		offset: pcb.Position{
			X: opts.StartX + float64(ix)*opts.GridDX - srcRect.Min.X,
			Y: opts.StartY + float64(iy)*opts.GridDY - srcRect.Min.Y,
		},
		rotation: 0,
		pivot:    srcRect.Min,
		rect:     srcRect,
		mirror:   opts.Mirror,
	}, nil
}

func transformedRect(rect pcb.BoundingBox, place placement) pcb.BoundingBox {
	out := pcb.NewBoundingBox()
	corners := []pcb.Position{
		{X: rect.Min.X, Y: rect.Min.Y},
		{X: rect.Max.X, Y: rect.Min.Y},
		{X: rect.Min.X, Y: rect.Max.Y},
		{X: rect.Max.X, Y: rect.Max.Y},
	}
	for _, c := range corners {
		out.Expand(place.transformPoint(c))
	}
	return out
}

func cloneFootprints(b *pcb.Board, srcModules []*pcb.Footprint, refToRef map[string]string,
	place placement, report *Report, path string) []footprintPair {

	var pairs []footprintPair
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

		// normalize the clone to the source's layer first, whatever side
		// it was placed on, so the transform starts from equal footing
		if clone.Layer != src.Layer {
			clone.FlipLayer()
		}

		newPos := place.transformPoint(src.Position.Position)
		rotationDelta := 0.0
		if place.mirror == Normal {
			rotationDelta = place.rotation
		}
		newAngle := pcb.Angle(float64(src.Position.Angle) + rotationDelta + place.orientationDelta())
		clone.Position = pcb.PositionAngle{Position: newPos, Angle: newAngle}
		if place.flipsLayer() {
			clone.FlipLayer()
		}

		pairs = append(pairs, footprintPair{src: src, clone: clone})
	}
	return pairs
}

func cloneTracks(b *pcb.Board, srcTracks []*pcb.Track, place placement, eqNets *equivalentNets, report *Report, path string) {
	for _, t := range srcTracks {
		newTrack := pcb.Track{
			Start:  place.transformPoint(t.Start),
			End:    place.transformPoint(t.End),
			Width:  t.Width,
			Layer:  t.Layer,
			Locked: t.Locked,
		}
		if t.Net != nil {
			cloneCode, ok := eqNets.get(t.Net.Number)
			if !ok {
				report.warnf("channel %s: no equivalent net for track on %s net %s, skipped", path, t.Layer, t.Net.Name)
				continue
			}
			newTrack.Net = b.NetByCode(cloneCode)
		}
		b.AddTrack(newTrack)
	}
}

func cloneZones(b *pcb.Board, srcZones []*pcb.Zone, place placement, eqNets *equivalentNets, report *Report, path string) {
	for _, z := range srcZones {
		newZone := pcb.Zone{
			Layer:        z.Layer,
			MinThickness: z.MinThickness,
		}
		newZone.Outline = mapPositionsPublic(z.Outline, place.transformPoint)
		newZone.Fills = make([][]pcb.Position, len(z.Fills))
		for i, fill := range z.Fills {
			newZone.Fills[i] = mapPositionsPublic(fill, place.transformPoint)
		}

		if z.Net != nil {
			cloneCode, ok := eqNets.get(z.Net.Number)
			if !ok {
				report.warnf("channel %s: no equivalent net for zone on %s net %s, skipped", path, z.Layer, z.Net.Name)
				continue
			}
			newZone.Net = b.NetByCode(cloneCode)
		}

		b.AddZone(newZone)
	}
}

func cloneDrawings(b *pcb.Board, srcDrawings []pcb.Drawing, place placement) {
	for _, d := range srcDrawings {
		b.AddDrawing(d.MapPoints(place.transformPoint))
	}
}

func mapPositionsPublic(in []pcb.Position, f func(pcb.Position) pcb.Position) []pcb.Position {
	out := make([]pcb.Position, len(in))
	for i, p := range in {
		out[i] = f(p)
	}
	return out
}
