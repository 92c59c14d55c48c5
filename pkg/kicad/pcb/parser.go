package pcb

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseFile reads and parses a kicad_pcb file.
func ParseFile(filename string) (*Board, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open board: %w", err)
	}
	defer f.Close()
	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return b, nil
}

// ParseString parses a board from S-expression text, mostly for tests.
func ParseString(src string) (*Board, error) {
	return Parse(strings.NewReader(src))
}

// Parse reads one kicad_pcb S-expression from r and builds the board
// model. Sections this toolkit does not model (stackup details, plot
// parameters) are skipped rather than rejected, so boards written by
// newer KiCad versions still load.
func Parse(r io.Reader) (*Board, error) {
	root, err := parseSexpr(r)
	if err != nil {
		return nil, err
	}
	if root.key() != "kicad_pcb" {
		return nil, fmt.Errorf("line %d: expected (kicad_pcb ...), got (%s ...)", root.line, root.key())
	}

	b := &Board{}
	for _, n := range root.kids[1:] {
		if !n.isList() {
			continue
		}
		var err error
		switch n.key() {
		case "version":
			b.Version, err = n.intArg(0)
		case "generator":
			b.Generator = n.arg(0)
		case "general":
			err = parseGeneral(n, &b.General)
		case "title_block":
			parseTitleBlock(n, &b.General)
		case "layers":
			b.Layers, err = parseLayers(n)
		case "setup":
			err = parseSetup(n, &b.Setup)
		case "net":
			err = parseNet(n, b)
		case "footprint", "module":
			err = parseFootprint(n, b)
		case "segment":
			err = parseSegment(n, b)
		case "via":
			err = parseVia(n, b)
		case "zone":
			err = parseZone(n, b)
		case "gr_line", "gr_circle", "gr_arc", "gr_rect", "gr_poly", "gr_text":
			err = parseBoardGraphic(n, b)
		case "group":
			b.Groups = append(b.Groups, parseGroup(n))
		}
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func parseGeneral(n *node, g *General) error {
	if t := n.child("thickness"); t != nil {
		v, err := t.floatArg(0)
		if err != nil {
			return err
		}
		g.Thickness = v
	}
	return nil
}

func parseTitleBlock(n *node, g *General) {
	if t := n.child("title"); t != nil {
		g.Title = t.arg(0)
	}
	if t := n.child("date"); t != nil {
		g.Date = t.arg(0)
	}
	if t := n.child("rev"); t != nil {
		g.Revision = t.arg(0)
	}
	if t := n.child("company"); t != nil {
		g.Company = t.arg(0)
	}
}

func parseLayers(n *node) ([]Layer, error) {
	var layers []Layer
	for _, entry := range n.kids[1:] {
		if !entry.isList() || len(entry.kids) < 3 {
			continue
		}
		num, err := entry.kids[0].asInt()
		if err != nil {
			return nil, fmt.Errorf("line %d: layer table: %w", entry.line, err)
		}
		layers = append(layers, Layer{
			Number: num,
			Name:   entry.kids[1].val,
			Type:   entry.kids[2].val,
		})
	}
	return layers, nil
}

func (n *node) asInt() (int, error) {
	v, err := strconv.Atoi(n.val)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", n.val)
	}
	return v, nil
}

func parseSetup(n *node, s *Setup) error {
	if c := n.child("pad_to_mask_clearance"); c != nil {
		v, err := c.floatArg(0)
		if err != nil {
			return err
		}
		s.Pad2MaskClearance = v
	}
	if c := n.child("aux_axis_origin"); c != nil {
		p, err := parseXY(c)
		if err != nil {
			return err
		}
		s.AuxAxisOrigin = p
	}
	if c := n.child("grid_origin"); c != nil {
		p, err := parseXY(c)
		if err != nil {
			return err
		}
		s.GridOrigin = p
	}
	return nil
}

func parseNet(n *node, b *Board) error {
	num, err := n.intArg(0)
	if err != nil {
		return err
	}
	b.Nets = append(b.Nets, Net{Number: num, Name: n.arg(1)})
	return nil
}

// netRef resolves a (net <code> [<name>]) child into a pointer to the
// board's net table, so every item carrying a net shares one Net value.
// Items parsed before the table is complete (KiCad writes nets first, so
// this does not happen in practice) get a detached Net.
func netRef(n *node, b *Board) (*Net, error) {
	c := n.child("net")
	if c == nil {
		return nil, nil
	}
	code, err := c.intArg(0)
	if err != nil {
		return nil, err
	}
	if net := b.NetByCode(code); net != nil {
		return net, nil
	}
	return &Net{Number: code, Name: c.arg(1)}, nil
}

func parseXY(n *node) (Position, error) {
	x, err := n.floatArg(0)
	if err != nil {
		return Position{}, err
	}
	y, err := n.floatArg(1)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

// parseAt reads an (at x y [angle]) child of n.
func parseAt(n *node) (PositionAngle, error) {
	c := n.child("at")
	if c == nil {
		return PositionAngle{}, nil
	}
	p, err := parseXY(c)
	if err != nil {
		return PositionAngle{}, err
	}
	pa := PositionAngle{Position: p}
	if c.nargs() >= 3 {
		deg, err := c.floatArg(2)
		if err != nil {
			return PositionAngle{}, err
		}
		pa.Angle = Angle(deg)
	}
	return pa, nil
}

func parsePoints(n *node) ([]Position, error) {
	pts := n.child("pts")
	if pts == nil {
		return nil, nil
	}
	var out []Position
	for _, xy := range pts.children("xy") {
		p, err := parseXY(xy)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func childArg(n *node, name string) string {
	if c := n.child(name); c != nil {
		return c.arg(0)
	}
	return ""
}

func childFloat(n *node, name string) (float64, error) {
	c := n.child(name)
	if c == nil {
		return 0, nil
	}
	return c.floatArg(0)
}

func strokeOf(n *node) (Stroke, error) {
	var s Stroke
	if c := n.child("stroke"); c != nil {
		w, err := childFloat(c, "width")
		if err != nil {
			return s, err
		}
		s.Width = w
		s.Type = childArg(c, "type")
		return s, nil
	}
	// pre-v6 files carry a bare (width ...) instead of a stroke block
	w, err := childFloat(n, "width")
	if err != nil {
		return s, err
	}
	s.Width = w
	return s, nil
}

func parseFootprint(n *node, b *Board) error {
	fp := Footprint{}
	if lib := n.arg(0); lib != "" {
		if i := strings.Index(lib, ":"); i >= 0 {
			fp.Library, fp.Name = lib[:i], lib[i+1:]
		} else {
			fp.Name = lib
		}
	}
	fp.Layer = childArg(n, "layer")
	pos, err := parseAt(n)
	if err != nil {
		return err
	}
	fp.Position = pos

	for _, prop := range n.children("property") {
		switch prop.arg(0) {
		case "Reference":
			fp.Reference = prop.arg(1)
		case "Value":
			fp.Value = prop.arg(1)
		}
	}
	// pre-v6 files carry fp_text reference/value instead of properties
	for _, txt := range n.children("fp_text") {
		switch txt.arg(0) {
		case "reference":
			fp.Reference = txt.arg(1)
		case "value":
			fp.Value = txt.arg(1)
		}
	}

	for _, pn := range n.children("pad") {
		pad, err := parsePad(pn, b)
		if err != nil {
			return err
		}
		fp.Pads = append(fp.Pads, pad)
	}

	for _, gn := range n.kids[1:] {
		if !gn.isList() {
			continue
		}
		if g, ok, err := parseFootprintGraphic(gn); err != nil {
			return err
		} else if ok {
			fp.Graphics = append(fp.Graphics, g)
		}
	}

	b.Footprints = append(b.Footprints, fp)
	return nil
}

func parsePad(n *node, b *Board) (Pad, error) {
	pad := Pad{
		Number: n.arg(0),
		Type:   n.arg(1),
		Shape:  n.arg(2),
	}
	pos, err := parseAt(n)
	if err != nil {
		return pad, err
	}
	pad.Position = pos

	if c := n.child("size"); c != nil {
		w, err := c.floatArg(0)
		if err != nil {
			return pad, err
		}
		h, err := c.floatArg(1)
		if err != nil {
			return pad, err
		}
		pad.Size = Size{Width: w, Height: h}
	}
	if c := n.child("drill"); c != nil {
		d, err := c.floatArg(0)
		if err != nil {
			return pad, err
		}
		pad.Drill = d
	}
	if c := n.child("layers"); c != nil {
		for _, l := range c.kids[1:] {
			if !l.isList() {
				pad.Layers = append(pad.Layers, l.val)
			}
		}
	}
	net, err := netRef(n, b)
	if err != nil {
		return pad, err
	}
	pad.Net = net
	return pad, nil
}

func parseFootprintGraphic(n *node) (Graphic, bool, error) {
	var typ string
	switch n.key() {
	case "fp_line":
		typ = "line"
	case "fp_circle":
		typ = "circle"
	case "fp_arc":
		typ = "arc"
	case "fp_rect":
		typ = "rect"
	case "fp_poly":
		typ = "polygon"
	case "fp_text":
		typ = "text"
	default:
		return Graphic{}, false, nil
	}

	g := Graphic{Type: typ, Layer: childArg(n, "layer")}
	var err error
	fill := func(dst *Position, name string) {
		if err != nil {
			return
		}
		if c := n.child(name); c != nil {
			*dst, err = parseXY(c)
		}
	}
	fill(&g.Start, "start")
	fill(&g.End, "end")
	fill(&g.Center, "center")
	if err != nil {
		return g, false, err
	}
	if g.Angle, err = childFloat(n, "angle"); err != nil {
		return g, false, err
	}
	if g.Points, err = parsePoints(n); err != nil {
		return g, false, err
	}
	if typ == "text" {
		g.Text = n.arg(1)
		pos, err := parseAt(n)
		if err != nil {
			return g, false, err
		}
		g.Start = pos.Position
	}
	if g.Stroke, err = strokeOf(n); err != nil {
		return g, false, err
	}
	return g, true, nil
}

func parseSegment(n *node, b *Board) error {
	t := Track{Layer: childArg(n, "layer")}
	var err error
	if c := n.child("start"); c != nil {
		if t.Start, err = parseXY(c); err != nil {
			return err
		}
	}
	if c := n.child("end"); c != nil {
		if t.End, err = parseXY(c); err != nil {
			return err
		}
	}
	if t.Width, err = childFloat(n, "width"); err != nil {
		return err
	}
	if t.Net, err = netRef(n, b); err != nil {
		return err
	}
	if c := n.child("locked"); c != nil || n.arg(0) == "locked" {
		t.Locked = true
	}
	b.Tracks = append(b.Tracks, t)
	return nil
}

func parseVia(n *node, b *Board) error {
	v := Via{}
	pos, err := parseAt(n)
	if err != nil {
		return err
	}
	v.Position = pos.Position
	if v.Size, err = childFloat(n, "size"); err != nil {
		return err
	}
	if v.Drill, err = childFloat(n, "drill"); err != nil {
		return err
	}
	if c := n.child("layers"); c != nil {
		for _, l := range c.kids[1:] {
			if !l.isList() {
				v.Layers = append(v.Layers, l.val)
			}
		}
	}
	if v.Net, err = netRef(n, b); err != nil {
		return err
	}
	b.Vias = append(b.Vias, v)
	return nil
}

func parseZone(n *node, b *Board) error {
	z := Zone{Layer: childArg(n, "layer")}
	var err error
	if z.Net, err = netRef(n, b); err != nil {
		return err
	}
	if c := n.child("polygon"); c != nil {
		if z.Outline, err = parsePoints(c); err != nil {
			return err
		}
	}
	for _, c := range n.children("filled_polygon") {
		pts, err := parsePoints(c)
		if err != nil {
			return err
		}
		z.Fills = append(z.Fills, pts)
	}
	if c := n.child("min_thickness"); c != nil {
		if z.MinThickness, err = c.floatArg(0); err != nil {
			return err
		}
	}
	b.Zones = append(b.Zones, z)
	return nil
}

func parseBoardGraphic(n *node, b *Board) error {
	stroke, err := strokeOf(n)
	if err != nil {
		return err
	}
	layer := childArg(n, "layer")

	point := func(name string) (Position, error) {
		c := n.child(name)
		if c == nil {
			return Position{}, nil
		}
		return parseXY(c)
	}

	switch n.key() {
	case "gr_line":
		start, err := point("start")
		if err != nil {
			return err
		}
		end, err := point("end")
		if err != nil {
			return err
		}
		b.Graphics.Lines = append(b.Graphics.Lines, GrLine{Start: start, End: end, Stroke: stroke, Layer: layer})
	case "gr_circle":
		center, err := point("center")
		if err != nil {
			return err
		}
		end, err := point("end")
		if err != nil {
			return err
		}
		b.Graphics.Circles = append(b.Graphics.Circles, GrCircle{Center: center, End: end, Stroke: stroke, Layer: layer})
	case "gr_arc":
		start, err := point("start")
		if err != nil {
			return err
		}
		mid, err := point("mid")
		if err != nil {
			return err
		}
		end, err := point("end")
		if err != nil {
			return err
		}
		b.Graphics.Arcs = append(b.Graphics.Arcs, GrArc{Start: start, Mid: mid, End: end, Stroke: stroke, Layer: layer})
	case "gr_rect":
		start, err := point("start")
		if err != nil {
			return err
		}
		end, err := point("end")
		if err != nil {
			return err
		}
		b.Graphics.Rects = append(b.Graphics.Rects, GrRect{Start: start, End: end, Stroke: stroke, Layer: layer})
	case "gr_poly":
		pts, err := parsePoints(n)
		if err != nil {
			return err
		}
		b.Graphics.Polys = append(b.Graphics.Polys, GrPoly{Points: pts, Stroke: stroke, Layer: layer})
	case "gr_text":
		pos, err := parseAt(n)
		if err != nil {
			return err
		}
		b.Graphics.Texts = append(b.Graphics.Texts, GrText{
			Text:     n.arg(0),
			Position: pos.Position,
			Angle:    pos.Angle,
			Layer:    layer,
		})
	}
	return nil
}

func parseGroup(n *node) Group {
	g := Group{Name: n.arg(0)}
	if c := n.child("members"); c != nil {
		for _, m := range c.kids[1:] {
			if !m.isList() {
				g.Members = append(g.Members, m.val)
			}
		}
	}
	return g
}
