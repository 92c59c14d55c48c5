package pcb

import (
	"math"
	"strings"
	"testing"
)

const sampleBoard = `(kicad_pcb
  (version 20221018)
  (generator "pcbnew")
  (general
    (thickness 1.6)
  )
  (title_block (title "amp") (date "2024-03-01") (rev "B") (company "acme"))
  (layers
    (0 "F.Cu" signal)
    (31 "B.Cu" signal)
    (40 "Cmts.User" user)
  )
  (net 0 "")
  (net 1 "GND")
  (net 2 "Net-(R1-Pad2)")
  (footprint "Resistor_SMD:R_0603" (layer "F.Cu")
    (at 10 20 90)
    (property "Reference" "R1")
    (property "Value" "10k")
    (fp_line (start -1 -0.5) (end 1 -0.5) (layer "F.SilkS") (stroke (width 0.12) (type solid)))
    (pad "1" smd rect (at -0.8 0) (size 0.8 0.9) (layers "F.Cu" "F.Mask") (net 1 "GND"))
    (pad "2" smd rect (at 0.8 0) (size 0.8 0.9) (layers "F.Cu" "F.Mask") (net 2 "Net-(R1-Pad2)"))
  )
  (gr_line (start 0 0) (end 50 0) (layer "Edge.Cuts") (stroke (width 0.1) (type solid)))
  (gr_text "rev B" (at 25 -2 0) (layer "Cmts.User"))
  (segment (start 9.2 20) (end 5 20) (width 0.25) (layer "F.Cu") (net 1))
  (via (at 5 20) (size 0.8) (drill 0.4) (layers "F.Cu" "B.Cu") (net 1))
  (zone (net 1) (layer "B.Cu")
    (min_thickness 0.25)
    (polygon (pts (xy 0 0) (xy 50 0) (xy 50 30) (xy 0 30)))
    (filled_polygon (pts (xy 1 1) (xy 49 1) (xy 49 29)))
  )
)`

func TestParseBoard(t *testing.T) {
	b, err := ParseString(sampleBoard)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if b.Version != 20221018 {
		t.Errorf("Version = %d, want 20221018", b.Version)
	}
	if b.Generator != "pcbnew" {
		t.Errorf("Generator = %q, want pcbnew", b.Generator)
	}
	if b.General.Thickness != 1.6 {
		t.Errorf("Thickness = %v, want 1.6", b.General.Thickness)
	}
	if b.General.Title != "amp" || b.General.Revision != "B" {
		t.Errorf("title block = %+v", b.General)
	}
	if len(b.Layers) != 3 || b.Layers[2].Name != "Cmts.User" || b.Layers[2].Type != "user" {
		t.Errorf("Layers = %+v", b.Layers)
	}
	if len(b.Nets) != 3 {
		t.Fatalf("len(Nets) = %d, want 3", len(b.Nets))
	}
	if n := b.NetByName("GND"); n == nil || n.Number != 1 {
		t.Errorf("NetByName(GND) = %+v", n)
	}
	if n := b.NetByCode(2); n == nil || n.Name != "Net-(R1-Pad2)" {
		t.Errorf("NetByCode(2) = %+v", n)
	}
}

func TestParseFootprint(t *testing.T) {
	b, err := ParseString(sampleBoard)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(b.Footprints) != 1 {
		t.Fatalf("len(Footprints) = %d, want 1", len(b.Footprints))
	}
	fp := b.Footprints[0]

	if fp.Library != "Resistor_SMD" || fp.Name != "R_0603" {
		t.Errorf("library id = %q:%q", fp.Library, fp.Name)
	}
	if fp.Reference != "R1" || fp.Value != "10k" {
		t.Errorf("Reference/Value = %q/%q", fp.Reference, fp.Value)
	}
	if fp.Position.X != 10 || fp.Position.Y != 20 || fp.Position.Angle != 90 {
		t.Errorf("Position = %+v", fp.Position)
	}
	if len(fp.Pads) != 2 {
		t.Fatalf("len(Pads) = %d, want 2", len(fp.Pads))
	}
	p2 := fp.Pads[1]
	if p2.Number != "2" || p2.Type != "smd" || p2.Shape != "rect" {
		t.Errorf("pad 2 = %+v", p2)
	}
	if p2.Net == nil || p2.Net.Number != 2 {
		t.Errorf("pad 2 net = %+v", p2.Net)
	}
	// pad nets must alias the board's net table, not copies
	if p2.Net != b.NetByCode(2) {
		t.Error("pad net is not a pointer into the board net table")
	}
	if len(fp.Graphics) != 1 || fp.Graphics[0].Type != "line" || fp.Graphics[0].Stroke.Width != 0.12 {
		t.Errorf("Graphics = %+v", fp.Graphics)
	}
}

func TestParseTracksViasZones(t *testing.T) {
	b, err := ParseString(sampleBoard)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if len(b.Tracks) != 1 {
		t.Fatalf("len(Tracks) = %d", len(b.Tracks))
	}
	tr := b.Tracks[0]
	if tr.Start.X != 9.2 || tr.End.X != 5 || tr.Width != 0.25 || tr.Layer != "F.Cu" {
		t.Errorf("track = %+v", tr)
	}
	if tr.Net == nil || tr.Net.Name != "GND" {
		t.Errorf("track net = %+v", tr.Net)
	}

	if len(b.Vias) != 1 || b.Vias[0].Size != 0.8 || b.Vias[0].Drill != 0.4 {
		t.Errorf("vias = %+v", b.Vias)
	}

	if len(b.Zones) != 1 {
		t.Fatalf("len(Zones) = %d", len(b.Zones))
	}
	z := b.Zones[0]
	if len(z.Outline) != 4 || z.Outline[2] != (Position{X: 50, Y: 30}) {
		t.Errorf("zone outline = %+v", z.Outline)
	}
	if len(z.Fills) != 1 || len(z.Fills[0]) != 3 {
		t.Errorf("zone fills = %+v", z.Fills)
	}
	if z.MinThickness != 0.25 {
		t.Errorf("MinThickness = %v", z.MinThickness)
	}

	if len(b.Graphics.Lines) != 1 || b.Graphics.Lines[0].End.X != 50 {
		t.Errorf("gr_line = %+v", b.Graphics.Lines)
	}
	if len(b.Graphics.Texts) != 1 || b.Graphics.Texts[0].Text != "rev B" {
		t.Errorf("gr_text = %+v", b.Graphics.Texts)
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	b, err := ParseString(sampleBoard)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	var sb strings.Builder
	if err := Write(&sb, b); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b2, err := ParseString(sb.String())
	if err != nil {
		t.Fatalf("reparse written board: %v\n%s", err, sb.String())
	}

	if len(b2.Footprints) != len(b.Footprints) ||
		len(b2.Tracks) != len(b.Tracks) ||
		len(b2.Vias) != len(b.Vias) ||
		len(b2.Zones) != len(b.Zones) ||
		len(b2.Nets) != len(b.Nets) {
		t.Fatalf("item counts changed over round trip: %+v vs %+v", b2, b)
	}
	fp, fp2 := b.Footprints[0], b2.Footprints[0]
	if fp2.Reference != fp.Reference || fp2.Position != fp.Position {
		t.Errorf("footprint changed: %+v vs %+v", fp2, fp)
	}
	if b2.Tracks[0] != b.Tracks[0] && *b2.Tracks[0].Net != *b.Tracks[0].Net {
		t.Errorf("track changed: %+v vs %+v", b2.Tracks[0], b.Tracks[0])
	}
	if got, want := b2.Zones[0].Outline, b.Zones[0].Outline; len(got) != len(want) {
		t.Errorf("zone outline changed: %v vs %v", got, want)
	}
}

func TestFootprintBoundingBoxRotation(t *testing.T) {
	fp := Footprint{
		Position: PositionAngle{Position: Position{X: 10, Y: 10}, Angle: 90},
		Pads: []Pad{
			{Position: PositionAngle{Position: Position{X: 2, Y: 0}}, Size: Size{Width: 1, Height: 1}},
		},
	}
	bbox := fp.BoundingBox()
	// a pad 2mm right of the anchor, rotated 90° CCW, lands 2mm above it
	center := bbox.Center()
	if math.Abs(center.X-10) > 1e-9 || math.Abs(center.Y-8) > 1e-9 {
		t.Errorf("rotated pad center = %+v, want (10, 8)", center)
	}
	if math.Abs(bbox.Width()-1) > 1e-9 {
		t.Errorf("Width = %v, want 1", bbox.Width())
	}
}

func TestRectQueries(t *testing.T) {
	b, err := ParseString(sampleBoard)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	rect := BoundingBox{Min: Position{X: 0, Y: 15}, Max: Position{X: 20, Y: 25}}

	if fps := b.FootprintsInRect(rect); len(fps) != 1 || fps[0].Reference != "R1" {
		t.Errorf("FootprintsInRect = %+v", fps)
	}
	if tracks := b.TracksInRect(rect); len(tracks) != 1 {
		t.Errorf("TracksInRect = %+v", tracks)
	}
	if vias := b.ViasInRect(rect); len(vias) != 1 {
		t.Errorf("ViasInRect = %+v", vias)
	}
	far := BoundingBox{Min: Position{X: 100, Y: 100}, Max: Position{X: 110, Y: 110}}
	if fps := b.FootprintsInRect(far); len(fps) != 0 {
		t.Errorf("FootprintsInRect(far) = %+v", fps)
	}

	if n := b.RemoveTracksInRect(rect); n != 1 || len(b.Tracks) != 0 {
		t.Errorf("RemoveTracksInRect = %d, tracks left %d", n, len(b.Tracks))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"not a board", "(kicad_sch)"},
		{"unclosed paren", "(kicad_pcb (net 1 \"GND\")"},
		{"unterminated string", "(kicad_pcb (generator \"pcb"},
		{"bad number", "(kicad_pcb (version x))"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseString(tc.src); err == nil {
				t.Errorf("ParseString(%q) succeeded, want error", tc.src)
			}
		})
	}
}

func TestQuotedStringEscapes(t *testing.T) {
	b, err := ParseString(`(kicad_pcb (net 1 "a \"quoted\" net"))`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := b.Nets[0].Name; got != `a "quoted" net` {
		t.Errorf("net name = %q", got)
	}
}
