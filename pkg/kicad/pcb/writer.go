package pcb

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteFile serializes b as a kicad_pcb S-expression file at filename.
func WriteFile(filename string, b *Board) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	return Write(f, b)
}

// Write serializes b to w in the same S-expression shape Parse reads:
// coordinates in millimetres, angles in degrees.
func Write(w io.Writer, b *Board) error {
	var sb strings.Builder
	sb.WriteString("(kicad_pcb\n")
	sb.WriteString(fmt.Sprintf("  (version %d)\n", b.Version))
	sb.WriteString(fmt.Sprintf("  (generator %s)\n", quote(b.Generator)))

	writeGeneral(&sb, b.General)
	writeLayers(&sb, b.Layers)
	writeSetup(&sb, b.Setup)
	writeNets(&sb, b.Nets)

	for i := range b.Footprints {
		writeFootprint(&sb, &b.Footprints[i])
	}

	writeGraphics(&sb, b.Graphics)

	for _, t := range b.Tracks {
		writeTrack(&sb, t)
	}
	for _, v := range b.Vias {
		writeVia(&sb, v)
	}
	for _, z := range b.Zones {
		writeZone(&sb, z)
	}
	for _, g := range b.Groups {
		writeGroup(&sb, g)
	}

	sb.WriteString(")\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeGeneral(sb *strings.Builder, g General) {
	sb.WriteString("  (general\n")
	sb.WriteString(fmt.Sprintf("    (thickness %s)\n", num(g.Thickness)))
	sb.WriteString("  )\n")
	sb.WriteString(fmt.Sprintf("  (title_block (title %s) (date %s) (rev %s) (company %s))\n",
		quote(g.Title), quote(g.Date), quote(g.Revision), quote(g.Company)))
}

func writeLayers(sb *strings.Builder, layers []Layer) {
	sb.WriteString("  (layers\n")
	for _, l := range layers {
		sb.WriteString(fmt.Sprintf("    (%d %s %s)\n", l.Number, quote(l.Name), l.Type))
	}
	sb.WriteString("  )\n")
}

func writeSetup(sb *strings.Builder, s Setup) {
	sb.WriteString("  (setup\n")
	sb.WriteString(fmt.Sprintf("    (pad_to_mask_clearance %s)\n", num(s.Pad2MaskClearance)))
	sb.WriteString(fmt.Sprintf("    (aux_axis_origin %s %s)\n", num(s.AuxAxisOrigin.X), num(s.AuxAxisOrigin.Y)))
	sb.WriteString(fmt.Sprintf("    (grid_origin %s %s)\n", num(s.GridOrigin.X), num(s.GridOrigin.Y)))
	sb.WriteString("  )\n")
}

func writeNets(sb *strings.Builder, nets []Net) {
	for _, n := range nets {
		sb.WriteString(fmt.Sprintf("  (net %d %s)\n", n.Number, quote(n.Name)))
	}
}

func netNumber(n *Net) int {
	if n == nil {
		return 0
	}
	return n.Number
}

func writeFootprint(sb *strings.Builder, fp *Footprint) {
	libID := fp.Name
	if fp.Library != "" {
		libID = fp.Library + ":" + fp.Name
	}
	sb.WriteString(fmt.Sprintf("  (footprint %s (layer %s)\n", quote(libID), quote(fp.Layer)))
	sb.WriteString(fmt.Sprintf("    (at %s %s%s)\n", num(fp.Position.X), num(fp.Position.Y), angleSuffix(fp.Position.Angle)))
	if fp.Reference != "" {
		sb.WriteString(fmt.Sprintf("    (property \"Reference\" %s)\n", quote(fp.Reference)))
	}
	if fp.Value != "" {
		sb.WriteString(fmt.Sprintf("    (property \"Value\" %s)\n", quote(fp.Value)))
	}
	for _, p := range fp.Pads {
		writePad(sb, p)
	}
	for _, g := range fp.Graphics {
		writeFootprintGraphic(sb, g)
	}
	sb.WriteString("  )\n")
}

func writePad(sb *strings.Builder, p Pad) {
	sb.WriteString(fmt.Sprintf("    (pad %s %s %s (at %s %s%s) (size %s %s)",
		quote(p.Number), p.Type, p.Shape,
		num(p.Position.X), num(p.Position.Y), angleSuffix(p.Position.Angle),
		num(p.Size.Width), num(p.Size.Height)))
	if p.Drill != 0 {
		sb.WriteString(fmt.Sprintf(" (drill %s)", num(p.Drill)))
	}
	sb.WriteString(" (layers")
	for _, l := range p.Layers {
		sb.WriteString(" " + quote(l))
	}
	sb.WriteString(")")
	if p.Net != nil {
		sb.WriteString(fmt.Sprintf(" (net %d %s)", p.Net.Number, quote(p.Net.Name)))
	}
	sb.WriteString(")\n")
}

func writeFootprintGraphic(sb *strings.Builder, g Graphic) {
	tag := "fp_" + g.Type
	switch g.Type {
	case "line":
		sb.WriteString(fmt.Sprintf("    (%s (start %s %s) (end %s %s) (layer %s) (width %s))\n",
			tag, num(g.Start.X), num(g.Start.Y), num(g.End.X), num(g.End.Y), quote(g.Layer), num(g.Stroke.Width)))
	case "circle":
		sb.WriteString(fmt.Sprintf("    (%s (center %s %s) (end %s %s) (layer %s) (width %s))\n",
			tag, num(g.Center.X), num(g.Center.Y), num(g.End.X), num(g.End.Y), quote(g.Layer), num(g.Stroke.Width)))
	case "arc":
		sb.WriteString(fmt.Sprintf("    (%s (start %s %s) (end %s %s) (angle %s) (layer %s) (width %s))\n",
			tag, num(g.Start.X), num(g.Start.Y), num(g.End.X), num(g.End.Y), num(g.Angle), quote(g.Layer), num(g.Stroke.Width)))
	case "rect":
		sb.WriteString(fmt.Sprintf("    (%s (start %s %s) (end %s %s) (layer %s) (width %s))\n",
			tag, num(g.Start.X), num(g.Start.Y), num(g.End.X), num(g.End.Y), quote(g.Layer), num(g.Stroke.Width)))
	case "polygon":
		sb.WriteString("    (fp_poly (pts")
		for _, pt := range g.Points {
			sb.WriteString(fmt.Sprintf(" (xy %s %s)", num(pt.X), num(pt.Y)))
		}
		sb.WriteString(fmt.Sprintf(") (layer %s) (width %s))\n", quote(g.Layer), num(g.Stroke.Width)))
	case "text":
		sb.WriteString(fmt.Sprintf("    (%s user %s (at %s %s) (layer %s))\n",
			tag, quote(g.Text), num(g.Start.X), num(g.Start.Y), quote(g.Layer)))
	}
}

func writeGraphics(sb *strings.Builder, g Graphics) {
	for _, l := range g.Lines {
		sb.WriteString(fmt.Sprintf("  (gr_line (start %s %s) (end %s %s) (layer %s) (width %s))\n",
			num(l.Start.X), num(l.Start.Y), num(l.End.X), num(l.End.Y), quote(l.Layer), num(l.Stroke.Width)))
	}
	for _, c := range g.Circles {
		sb.WriteString(fmt.Sprintf("  (gr_circle (center %s %s) (end %s %s) (layer %s) (width %s))\n",
			num(c.Center.X), num(c.Center.Y), num(c.End.X), num(c.End.Y), quote(c.Layer), num(c.Stroke.Width)))
	}
	for _, a := range g.Arcs {
		sb.WriteString(fmt.Sprintf("  (gr_arc (start %s %s) (mid %s %s) (end %s %s) (layer %s) (width %s))\n",
			num(a.Start.X), num(a.Start.Y), num(a.Mid.X), num(a.Mid.Y), num(a.End.X), num(a.End.Y), quote(a.Layer), num(a.Stroke.Width)))
	}
	for _, r := range g.Rects {
		sb.WriteString(fmt.Sprintf("  (gr_rect (start %s %s) (end %s %s) (layer %s) (width %s))\n",
			num(r.Start.X), num(r.Start.Y), num(r.End.X), num(r.End.Y), quote(r.Layer), num(r.Stroke.Width)))
	}
	for _, p := range g.Polys {
		sb.WriteString("  (gr_poly (pts")
		for _, pt := range p.Points {
			sb.WriteString(fmt.Sprintf(" (xy %s %s)", num(pt.X), num(pt.Y)))
		}
		sb.WriteString(fmt.Sprintf(") (layer %s) (width %s))\n", quote(p.Layer), num(p.Stroke.Width)))
	}
	for _, t := range g.Texts {
		sb.WriteString(fmt.Sprintf("  (gr_text %s (at %s %s%s) (layer %s))\n",
			quote(t.Text), num(t.Position.X), num(t.Position.Y), angleSuffix(t.Angle), quote(t.Layer)))
	}
}

func writeTrack(sb *strings.Builder, t Track) {
	locked := ""
	if t.Locked {
		locked = " locked"
	}
	sb.WriteString(fmt.Sprintf("  (segment%s (start %s %s) (end %s %s) (width %s) (layer %s) (net %d))\n",
		locked, num(t.Start.X), num(t.Start.Y), num(t.End.X), num(t.End.Y), num(t.Width), quote(t.Layer), netNumber(t.Net)))
}

func writeVia(sb *strings.Builder, v Via) {
	sb.WriteString(fmt.Sprintf("  (via (at %s %s) (size %s) (drill %s)",
		num(v.Position.X), num(v.Position.Y), num(v.Size), num(v.Drill)))
	if len(v.Layers) > 0 {
		sb.WriteString(" (layers")
		for _, l := range v.Layers {
			sb.WriteString(" " + quote(l))
		}
		sb.WriteString(")")
	}
	sb.WriteString(fmt.Sprintf(" (net %d))\n", netNumber(v.Net)))
}

func writeZone(sb *strings.Builder, z Zone) {
	sb.WriteString(fmt.Sprintf("  (zone (net %d) (layer %s)\n", netNumber(z.Net), quote(z.Layer)))
	if z.MinThickness != 0 {
		sb.WriteString(fmt.Sprintf("    (min_thickness %s)\n", num(z.MinThickness)))
	}
	sb.WriteString("    (polygon (pts")
	for _, p := range z.Outline {
		sb.WriteString(fmt.Sprintf(" (xy %s %s)", num(p.X), num(p.Y)))
	}
	sb.WriteString("))\n")
	for _, fill := range z.Fills {
		sb.WriteString("    (filled_polygon (pts")
		for _, p := range fill {
			sb.WriteString(fmt.Sprintf(" (xy %s %s)", num(p.X), num(p.Y)))
		}
		sb.WriteString("))\n")
	}
	sb.WriteString("  )\n")
}

func writeGroup(sb *strings.Builder, g Group) {
	sb.WriteString(fmt.Sprintf("  (group %s (members", quote(g.Name)))
	for _, m := range g.Members {
		sb.WriteString(" " + quote(m))
	}
	sb.WriteString("))\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func angleSuffix(a Angle) string {
	if a == 0 {
		return ""
	}
	return " " + num(float64(a))
}
