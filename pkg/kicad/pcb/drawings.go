package pcb

// DrawingKind identifies which of Board.Graphics' typed slices a Drawing
// came from, since GrLine/GrCircle/GrArc/GrRect/GrPoly share no common
// interface.
type DrawingKind int

const (
	DrawingLine DrawingKind = iota
	DrawingCircle
	DrawingArc
	DrawingRect
	DrawingPoly
)

// Drawing is a board-level graphic element (line, circle, arc, rectangle
// or polygon) addressed uniformly so the clone engine can enumerate,
// transform and duplicate drawings without a type switch at every call
// site. Only the field matching Kind is populated.
type Drawing struct {
	Kind   DrawingKind
	Line   GrLine
	Circle GrCircle
	Arc    GrArc
	Rect   GrRect
	Poly   GrPoly
}

// referencePoints returns every coordinate that must fall inside a
// rectangle for the drawing to count as "inside" it.
func (d Drawing) referencePoints() []Position {
	switch d.Kind {
	case DrawingLine:
		return []Position{d.Line.Start, d.Line.End}
	case DrawingCircle:
		return []Position{d.Circle.Center, d.Circle.End}
	case DrawingArc:
		return []Position{d.Arc.Start, d.Arc.Mid, d.Arc.End}
	case DrawingRect:
		return []Position{d.Rect.Start, d.Rect.End}
	case DrawingPoly:
		return d.Poly.Points
	default:
		return nil
	}
}

func insideAll(bbox BoundingBox, pts []Position) bool {
	if len(pts) == 0 {
		return false
	}
	for _, p := range pts {
		if !bbox.Contains(p) {
			return false
		}
	}
	return true
}

// DrawingsInRect returns every line/circle/arc/rect/polygon drawing whose
// defining points all lie inside bbox. Text elements are excluded: the
// clone engine treats silkscreen/fab drawings, not labels, as cloneable
// region content.
func (b *Board) DrawingsInRect(bbox BoundingBox) []Drawing {
	var out []Drawing
	for _, l := range b.Graphics.Lines {
		d := Drawing{Kind: DrawingLine, Line: l}
		if insideAll(bbox, d.referencePoints()) {
			out = append(out, d)
		}
	}
	for _, c := range b.Graphics.Circles {
		d := Drawing{Kind: DrawingCircle, Circle: c}
		if insideAll(bbox, d.referencePoints()) {
			out = append(out, d)
		}
	}
	for _, a := range b.Graphics.Arcs {
		d := Drawing{Kind: DrawingArc, Arc: a}
		if insideAll(bbox, d.referencePoints()) {
			out = append(out, d)
		}
	}
	for _, r := range b.Graphics.Rects {
		d := Drawing{Kind: DrawingRect, Rect: r}
		if insideAll(bbox, d.referencePoints()) {
			out = append(out, d)
		}
	}
	for _, p := range b.Graphics.Polys {
		d := Drawing{Kind: DrawingPoly, Poly: p}
		if insideAll(bbox, d.referencePoints()) {
			out = append(out, d)
		}
	}
	return out
}

// RemoveDrawingsInRect deletes every drawing entirely inside bbox across
// all five typed slices and returns how many were removed.
func (b *Board) RemoveDrawingsInRect(bbox BoundingBox) int {
	removed := 0

	keptLines := b.Graphics.Lines[:0]
	for _, l := range b.Graphics.Lines {
		if insideAll(bbox, (Drawing{Kind: DrawingLine, Line: l}).referencePoints()) {
			removed++
			continue
		}
		keptLines = append(keptLines, l)
	}
	b.Graphics.Lines = keptLines

	keptCircles := b.Graphics.Circles[:0]
	for _, c := range b.Graphics.Circles {
		if insideAll(bbox, (Drawing{Kind: DrawingCircle, Circle: c}).referencePoints()) {
			removed++
			continue
		}
		keptCircles = append(keptCircles, c)
	}
	b.Graphics.Circles = keptCircles

	keptArcs := b.Graphics.Arcs[:0]
	for _, a := range b.Graphics.Arcs {
		if insideAll(bbox, (Drawing{Kind: DrawingArc, Arc: a}).referencePoints()) {
			removed++
			continue
		}
		keptArcs = append(keptArcs, a)
	}
	b.Graphics.Arcs = keptArcs

	keptRects := b.Graphics.Rects[:0]
	for _, r := range b.Graphics.Rects {
		if insideAll(bbox, (Drawing{Kind: DrawingRect, Rect: r}).referencePoints()) {
			removed++
			continue
		}
		keptRects = append(keptRects, r)
	}
	b.Graphics.Rects = keptRects

	keptPolys := b.Graphics.Polys[:0]
	for _, p := range b.Graphics.Polys {
		if insideAll(bbox, (Drawing{Kind: DrawingPoly, Poly: p}).referencePoints()) {
			removed++
			continue
		}
		keptPolys = append(keptPolys, p)
	}
	b.Graphics.Polys = keptPolys

	return removed
}

// AddDrawing appends d to the board's matching typed slice.
func (b *Board) AddDrawing(d Drawing) {
	switch d.Kind {
	case DrawingLine:
		b.Graphics.Lines = append(b.Graphics.Lines, d.Line)
	case DrawingCircle:
		b.Graphics.Circles = append(b.Graphics.Circles, d.Circle)
	case DrawingArc:
		b.Graphics.Arcs = append(b.Graphics.Arcs, d.Arc)
	case DrawingRect:
		b.Graphics.Rects = append(b.Graphics.Rects, d.Rect)
	case DrawingPoly:
		b.Graphics.Polys = append(b.Graphics.Polys, d.Poly)
	}
}

// Translate returns a copy of d with every point shifted by (dx, dy).
func (d Drawing) Translate(dx, dy float64) Drawing {
	shift := func(p Position) Position { return Position{X: p.X + dx, Y: p.Y + dy} }
	out := d
	switch d.Kind {
	case DrawingLine:
		out.Line.Start, out.Line.End = shift(d.Line.Start), shift(d.Line.End)
	case DrawingCircle:
		out.Circle.Center, out.Circle.End = shift(d.Circle.Center), shift(d.Circle.End)
	case DrawingArc:
		out.Arc.Start, out.Arc.Mid, out.Arc.End = shift(d.Arc.Start), shift(d.Arc.Mid), shift(d.Arc.End)
	case DrawingRect:
		out.Rect.Start, out.Rect.End = shift(d.Rect.Start), shift(d.Rect.End)
	case DrawingPoly:
		pts := make([]Position, len(d.Poly.Points))
		for i, p := range d.Poly.Points {
			pts[i] = shift(p)
		}
		out.Poly.Points = pts
	}
	return out
}

// MapPoints returns a copy of d with every defining point replaced by
// f(point), used by the clone engine's mirror transforms where each axis
// reflects independently rather than by a uniform offset.
func (d Drawing) MapPoints(f func(Position) Position) Drawing {
	out := d
	switch d.Kind {
	case DrawingLine:
		out.Line.Start, out.Line.End = f(d.Line.Start), f(d.Line.End)
	case DrawingCircle:
		out.Circle.Center, out.Circle.End = f(d.Circle.Center), f(d.Circle.End)
	case DrawingArc:
		out.Arc.Start, out.Arc.Mid, out.Arc.End = f(d.Arc.Start), f(d.Arc.Mid), f(d.Arc.End)
	case DrawingRect:
		out.Rect.Start, out.Rect.End = f(d.Rect.Start), f(d.Rect.End)
	case DrawingPoly:
		pts := make([]Position, len(d.Poly.Points))
		for i, p := range d.Poly.Points {
			pts[i] = f(p)
		}
		out.Poly.Points = pts
	}
	return out
}
