package pcb

// Position is a 2D point in millimetres, Y growing downwards as on a
// KiCad board.
type Position struct {
	X float64
	Y float64
}

// Angle is a rotation in degrees, counter-clockwise.
type Angle float64

// PositionAngle is a position with an orientation, the placement of a
// footprint or pad.
type PositionAngle struct {
	Position
	Angle Angle
}

// Size is a width/height pair in millimetres.
type Size struct {
	Width  float64
	Height float64
}

// Stroke is the drawn outline of a graphic element.
type Stroke struct {
	Width float64
	Type  string
}

// BoundingBox is an axis-aligned rectangle. A freshly constructed box is
// empty (Min > Max) and grows as points are folded in with Expand.
type BoundingBox struct {
	Min Position
	Max Position
}

// NewBoundingBox returns an empty bounding box that any first Expand
// will snap to.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e18, Y: 1e18},
		Max: Position{X: -1e18, Y: -1e18},
	}
}

// IsEmpty reports whether the box has never been expanded.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand grows the box to include pos.
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// ExpandBox grows the box to include another box.
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if other.IsEmpty() {
		return
	}
	bb.Expand(other.Min)
	bb.Expand(other.Max)
}

// Contains reports whether pos lies inside the box, borders included.
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// Intersects reports whether the two boxes overlap at all.
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Center returns the midpoint of the box.
func (bb BoundingBox) Center() Position {
	return Position{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
	}
}

// Width returns the horizontal extent of the box.
func (bb BoundingBox) Width() float64 { return bb.Max.X - bb.Min.X }

// Height returns the vertical extent of the box.
func (bb BoundingBox) Height() float64 { return bb.Max.Y - bb.Min.Y }
