package pcb

import "math"

// BoundingBox returns the footprint's extent on the board: every pad
// rectangle carried through the footprint's own rotation and
// translation. A footprint with no pads degenerates to its anchor
// point.
func (fp *Footprint) BoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, pad := range fp.Pads {
		center := fp.padPosition(pad)
		bbox.Expand(Position{X: center.X - pad.Size.Width/2, Y: center.Y - pad.Size.Height/2})
		bbox.Expand(Position{X: center.X + pad.Size.Width/2, Y: center.Y + pad.Size.Height/2})
	}
	if bbox.IsEmpty() {
		bbox.Expand(fp.Position.Position)
	}
	return bbox
}

// padPosition converts a pad's footprint-relative position to board
// coordinates. The rotation is negated: footprint angles turn
// counter-clockwise while board Y grows downwards.
func (fp *Footprint) padPosition(pad Pad) Position {
	x, y := pad.Position.X, pad.Position.Y
	if fp.Position.Angle != 0 {
		rad := -float64(fp.Position.Angle) * math.Pi / 180
		x, y = x*math.Cos(rad)-y*math.Sin(rad), x*math.Sin(rad)+y*math.Cos(rad)
	}
	return Position{X: x + fp.Position.X, Y: y + fp.Position.Y}
}
