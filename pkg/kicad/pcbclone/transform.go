package pcbclone

import (
	"math"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/pcb"
)

// Mirror selects one of the four geometry transforms that carry a
// source item's position onto a cloned target.
type Mirror int

const (
	// Normal translates by an offset and optionally rotates about a pivot.
	Normal Mirror = iota
	// VMirror reflects the X axis about the source rectangle's horizontal
	// extent, then offsets, and adds 180 degrees of orientation.
	VMirror
	// HMirror reflects the Y axis about the source rectangle's vertical
	// extent, then offsets. Orientation is left unchanged.
	HMirror
	// Diagonal reflects both axes and adds 180 degrees of orientation; the
	// only mode that also flips the footprint's copper layer side.
	Diagonal
)

// placement is the per-channel geometry the caller computed once
// (either from an anchor reference or a grid position) and every
// footprint/track/via/zone/drawing in that channel is transformed by.
type placement struct {
	offset   pcb.Position
	rotation float64 // degrees, only used by Normal
	pivot    pcb.Position
	rect     pcb.BoundingBox // source rectangle, used by the mirror modes
	mirror   Mirror
}

// transformPoint carries one absolute point from the source rectangle
// into the clone's coordinate space.
func (p placement) transformPoint(pt pcb.Position) pcb.Position {
	switch p.mirror {
	case VMirror:
		return pcb.Position{
			X: p.offset.X + p.rect.Min.X + p.rect.Max.X - pt.X,
			Y: p.offset.Y + pt.Y,
		}
	case HMirror:
		return pcb.Position{
			X: p.offset.X + pt.X,
			Y: p.offset.Y + p.rect.Min.Y + p.rect.Max.Y - pt.Y,
		}
	case Diagonal:
		return pcb.Position{
			X: p.offset.X + p.rect.Min.X + p.rect.Max.X - pt.X,
			Y: p.offset.Y + p.rect.Min.Y + p.rect.Max.Y - pt.Y,
		}
	default: // Normal
		out := pcb.Position{X: pt.X + p.offset.X, Y: pt.Y + p.offset.Y}
		if p.rotation != 0 {
			out = rotateAbout(out, p.pivot, p.rotation)
		}
		return out
	}
}

// orientationDelta is the degrees added to an item's own orientation by
// this placement's mirror mode (on top of any Normal-mode rotation,
// which transformPoint already folds into the point itself via pivot
// rotation and which the caller adds separately for footprints).
func (p placement) orientationDelta() float64 {
	switch p.mirror {
	case VMirror, Diagonal:
		return 180
	default:
		return 0
	}
}

// flipsLayer reports whether this mirror mode flips a footprint to the
// opposite copper side. Only Diagonal does; a plain horizontal mirror
// keeps the part on its original layer.
func (p placement) flipsLayer() bool {
	return p.mirror == Diagonal
}

func rotateAbout(pt, origin pcb.Position, deltaDeg float64) pcb.Position {
	rad := deltaDeg * math.Pi / 180.0
	dx, dy := pt.X-origin.X, pt.Y-origin.Y
	cos, sin := math.Cos(rad), math.Sin(rad)
	return pcb.Position{
		X: origin.X + dx*cos - dy*sin,
		Y: origin.Y + dx*sin + dy*cos,
	}
}
