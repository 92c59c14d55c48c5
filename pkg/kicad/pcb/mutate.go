package pcb

import (
	"math"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/units"
)

// FootprintIndex returns the index into b.Footprints of the footprint
// with the given reference designator, or -1 if none matches.
func (b *Board) FootprintIndex(ref string) int {
	for i := range b.Footprints {
		if b.Footprints[i].Reference == ref {
			return i
		}
	}
	return -1
}

// FootprintByReference returns a pointer to the footprint with the given
// reference, so callers can mutate it in place, or nil if not found.
func (b *Board) FootprintByReference(ref string) *Footprint {
	if i := b.FootprintIndex(ref); i >= 0 {
		return &b.Footprints[i]
	}
	return nil
}

// FootprintsInRect returns pointers to every footprint whose bounding box
// intersects bbox.
func (b *Board) FootprintsInRect(bbox BoundingBox) []*Footprint {
	var out []*Footprint
	for i := range b.Footprints {
		if b.Footprints[i].BoundingBox().Intersects(bbox) {
			out = append(out, &b.Footprints[i])
		}
	}
	return out
}

// TracksInRect returns pointers to every track whose endpoints both fall
// inside bbox.
func (b *Board) TracksInRect(bbox BoundingBox) []*Track {
	var out []*Track
	for i := range b.Tracks {
		t := &b.Tracks[i]
		if bbox.Contains(t.Start) && bbox.Contains(t.End) {
			out = append(out, t)
		}
	}
	return out
}

// ViasInRect returns pointers to every via whose position falls inside
// bbox.
func (b *Board) ViasInRect(bbox BoundingBox) []*Via {
	var out []*Via
	for i := range b.Vias {
		if bbox.Contains(b.Vias[i].Position) {
			out = append(out, &b.Vias[i])
		}
	}
	return out
}

// ZonesInRect returns pointers to every zone whose outline lies entirely
// inside bbox.
func (b *Board) ZonesInRect(bbox BoundingBox) []*Zone {
	var out []*Zone
	for i := range b.Zones {
		z := &b.Zones[i]
		inside := true
		for _, p := range z.Outline {
			if !bbox.Contains(p) {
				inside = false
				break
			}
		}
		if inside && len(z.Outline) > 0 {
			out = append(out, z)
		}
	}
	return out
}

// RemoveTracksInRect deletes every track inside bbox and returns how many
// were removed (used by the clone engine's optional target-area cleanup).
func (b *Board) RemoveTracksInRect(bbox BoundingBox) int {
	kept := b.Tracks[:0]
	removed := 0
	for _, t := range b.Tracks {
		if bbox.Contains(t.Start) && bbox.Contains(t.End) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	b.Tracks = kept
	return removed
}

// RemoveZonesInRect deletes every zone whose outline lies entirely inside
// bbox and returns how many were removed.
func (b *Board) RemoveZonesInRect(bbox BoundingBox) int {
	kept := b.Zones[:0]
	removed := 0
	for _, z := range b.Zones {
		inside := len(z.Outline) > 0
		for _, p := range z.Outline {
			if !bbox.Contains(p) {
				inside = false
				break
			}
		}
		if inside {
			removed++
			continue
		}
		kept = append(kept, z)
	}
	b.Zones = kept
	return removed
}

// AddTrack appends a new track to the board and returns a pointer to it.
func (b *Board) AddTrack(t Track) *Track {
	b.Tracks = append(b.Tracks, t)
	return &b.Tracks[len(b.Tracks)-1]
}

// AddZone appends a new zone to the board and returns a pointer to it.
func (b *Board) AddZone(z Zone) *Zone {
	b.Zones = append(b.Zones, z)
	return &b.Zones[len(b.Zones)-1]
}

// Move translates the footprint's anchor position by (dx, dy). Pad and
// graphic positions are stored relative to the footprint and need no
// adjustment.
func (fp *Footprint) Move(dx, dy float64) {
	fp.Position.X += dx
	fp.Position.Y += dy
}

// RotateAbout rotates the footprint's anchor position by deltaDeg degrees
// around origin and adds deltaDeg to its own orientation.
func (fp *Footprint) RotateAbout(origin Position, deltaDeg float64) {
	fp.Position.Position = rotatePoint(fp.Position.Position, origin, deltaDeg)
	fp.Position.Angle = Angle(units.NormalizeAngle(float64(fp.Position.Angle) + deltaDeg))
}

// FlipLayer swaps the footprint between the front and back copper layers.
func (fp *Footprint) FlipLayer() {
	switch fp.Layer {
	case "F.Cu":
		fp.Layer = "B.Cu"
	case "B.Cu":
		fp.Layer = "F.Cu"
	}
}

func rotatePoint(p, origin Position, deltaDeg float64) Position {
	rad := deltaDeg * math.Pi / 180.0
	dx, dy := p.X-origin.X, p.Y-origin.Y
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Position{
		X: origin.X + dx*cos - dy*sin,
		Y: origin.Y + dx*sin + dy*cos,
	}
}

// Translate returns a copy of t shifted by (dx, dy).
func (t Track) Translate(dx, dy float64) Track {
	t.Start = Position{X: t.Start.X + dx, Y: t.Start.Y + dy}
	t.End = Position{X: t.End.X + dx, Y: t.End.Y + dy}
	return t
}

// MapPoints returns a copy of t with both endpoints replaced by f(point).
func (t Track) MapPoints(f func(Position) Position) Track {
	t.Start, t.End = f(t.Start), f(t.End)
	return t
}

// Translate returns a copy of v shifted by (dx, dy).
func (v Via) Translate(dx, dy float64) Via {
	v.Position = Position{X: v.Position.X + dx, Y: v.Position.Y + dy}
	return v
}

// MapPoints returns a copy of v with its position replaced by f(point).
func (v Via) MapPoints(f func(Position) Position) Via {
	v.Position = f(v.Position)
	return v
}

// Translate returns a copy of z with its outline and every fill polygon
// shifted by (dx, dy).
func (z Zone) Translate(dx, dy float64) Zone {
	shift := func(p Position) Position { return Position{X: p.X + dx, Y: p.Y + dy} }
	return z.MapPoints(shift)
}

// MapPoints returns a copy of z with every outline and fill-polygon
// vertex replaced by f(point). The mirror transforms reflect each corner
// per axis through this.
func (z Zone) MapPoints(f func(Position) Position) Zone {
	out := z
	out.Outline = mapPositions(z.Outline, f)
	out.Fills = make([][]Position, len(z.Fills))
	for i, fill := range z.Fills {
		out.Fills[i] = mapPositions(fill, f)
	}
	return out
}

func mapPositions(in []Position, f func(Position) Position) []Position {
	out := make([]Position, len(in))
	for i, p := range in {
		out[i] = f(p)
	}
	return out
}
