package pcbclone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/channel"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/pcb"
)

func mirrorPlacement(m Mirror) placement {
	return placement{
		offset: pcb.Position{X: 50, Y: 7},
		rect: pcb.BoundingBox{
			Min: pcb.Position{X: 0, Y: 0},
			Max: pcb.Position{X: 10, Y: 20},
		},
		mirror: m,
	}
}

func TestVMirrorReflectsXKeepsY(t *testing.T) {
	p := mirrorPlacement(VMirror)
	orig := pcb.Position{X: 3, Y: 4}
	clone := p.transformPoint(orig)

	// reflection law: clone.x + orig.x is constant across the rectangle
	assert.InDelta(t, p.offset.X+p.rect.Min.X+p.rect.Max.X, clone.X+orig.X, 1e-9)
	assert.InDelta(t, orig.Y+p.offset.Y, clone.Y, 1e-9)
	assert.Equal(t, 180.0, p.orientationDelta())
	assert.False(t, p.flipsLayer())
}

func TestHMirrorReflectsYKeepsX(t *testing.T) {
	p := mirrorPlacement(HMirror)
	orig := pcb.Position{X: 3, Y: 4}
	clone := p.transformPoint(orig)

	assert.InDelta(t, orig.X+p.offset.X, clone.X, 1e-9)
	assert.InDelta(t, p.offset.Y+p.rect.Min.Y+p.rect.Max.Y, clone.Y+orig.Y, 1e-9)
	assert.Equal(t, 0.0, p.orientationDelta())
	assert.False(t, p.flipsLayer())
}

func TestDiagonalReflectsBothAxes(t *testing.T) {
	p := mirrorPlacement(Diagonal)
	orig := pcb.Position{X: 3, Y: 4}
	clone := p.transformPoint(orig)

	assert.InDelta(t, p.offset.X+p.rect.Min.X+p.rect.Max.X, clone.X+orig.X, 1e-9)
	assert.InDelta(t, p.offset.Y+p.rect.Min.Y+p.rect.Max.Y, clone.Y+orig.Y, 1e-9)
	assert.Equal(t, 180.0, p.orientationDelta())
	assert.True(t, p.flipsLayer())
}

func TestNormalRotatesAboutPivot(t *testing.T) {
	p := placement{
		offset:   pcb.Position{X: 98, Y: 48},
		rotation: 90,
		pivot:    pcb.Position{X: 100, Y: 50},
		mirror:   Normal,
	}
	// the anchor itself lands on the pivot and stays there
	anchor := p.transformPoint(pcb.Position{X: 2, Y: 2})
	assert.InDelta(t, 100, anchor.X, 1e-9)
	assert.InDelta(t, 50, anchor.Y, 1e-9)

	// a point 2mm right of the anchor swings 90 degrees around it
	other := p.transformPoint(pcb.Position{X: 4, Y: 2})
	assert.InDelta(t, 100, other.X, 1e-9)
	assert.InDelta(t, 52, other.Y, 1e-9)
}

func TestCloneWithAnchorPlacesByEquivalentFootprint(t *testing.T) {
	b := &pcb.Board{Nets: []pcb.Net{{Number: 1, Name: "GND"}}}
	b.Zones = []pcb.Zone{{
		Layer: "Cmts.User",
		Outline: []pcb.Position{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		},
	}}
	b.Footprints = []pcb.Footprint{
		{Reference: "U1", Layer: "F.Cu", Position: pcb.PositionAngle{Position: pcb.Position{X: 2, Y: 2}},
			Pads: []pcb.Pad{{Number: "1", Net: &b.Nets[0]}}},
		{Reference: "C1", Layer: "F.Cu", Position: pcb.PositionAngle{Position: pcb.Position{X: 4, Y: 2}},
			Pads: []pcb.Pad{{Number: "1", Net: &b.Nets[0]}}},
		{Reference: "U2", Layer: "F.Cu", Position: pcb.PositionAngle{Position: pcb.Position{X: 100, Y: 50}, Angle: 90},
			Pads: []pcb.Pad{{Number: "1", Net: &b.Nets[0]}}},
		{Reference: "C2", Layer: "F.Cu", Position: pcb.PositionAngle{Position: pcb.Position{X: 200, Y: 0}},
			Pads: []pcb.Pad{{Number: "1", Net: &b.Nets[0]}}},
	}

	res := channel.Result{
		Complete: map[string]map[string]string{"B": {"U1": "U2", "C1": "C2"}},
		Paths:    []string{"B"},
	}

	report, err := Clone(b, res, nil, Options{AnchorRef: "U1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, report.ClonedPaths)

	// the anchor's equivalent keeps its own position and orientation
	u2 := b.FootprintByReference("U2")
	require.NotNil(t, u2)
	assert.InDelta(t, 100, u2.Position.X, 1e-9)
	assert.InDelta(t, 50, u2.Position.Y, 1e-9)
	assert.InDelta(t, 90, float64(u2.Position.Angle), 1e-9)

	// every other footprint lands offset from the target anchor and
	// rotated by the anchors' orientation difference
	c2 := b.FootprintByReference("C2")
	require.NotNil(t, c2)
	assert.InDelta(t, 100, c2.Position.X, 1e-9)
	assert.InDelta(t, 52, c2.Position.Y, 1e-9)
	assert.InDelta(t, 90, float64(c2.Position.Angle), 1e-9)
}
