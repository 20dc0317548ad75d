package waveguide

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siepic-tools/pkg/geometry"
)

func TestValidate(t *testing.T) {
	p := Strip(5, "Waveguide", 0.5)
	assert.NoError(t, p.Validate())

	bad := p
	bad.Radius = 0
	assert.Error(t, bad.Validate())

	bad = p
	bad.Wgs = nil
	assert.Error(t, bad.Validate())

	bad = p
	bad.Wgs = []LayerSpec{{Layer: "", Width: 0.5}}
	assert.Error(t, bad.Validate())

	bad = p
	bad.Adiabatic = true
	bad.Bezier = 0
	assert.Error(t, bad.Validate())
	bad.Bezier = 0.45
	assert.NoError(t, bad.Validate())
}

func TestTotalWidth(t *testing.T) {
	p := Strip(5, "Waveguide", 0.5)
	assert.InDelta(t, 0.5, p.TotalWidth(), 1e-9)

	// Derived from the widest layer extent when no explicit width
	derived := Params{Radius: 5, Wgs: []LayerSpec{
		{Layer: "Si", Width: 0.5, Offset: 0},
		{Layer: "SiN", Width: 0.2, Offset: 1.0},
	}}
	// SiN rail reaches 1.0 + 0.1 from center on each side
	assert.InDelta(t, 2.2, derived.TotalWidth(), 1e-9)
}

func TestSlotProfile(t *testing.T) {
	p := Slot(5, "Waveguide", 0.7, 0.1)
	require.Len(t, p.Wgs, 2)
	assert.InDelta(t, 0.3, p.Wgs[0].Width, 1e-9)
	assert.InDelta(t, 0.2, p.Wgs[0].Offset, 1e-9)
	assert.InDelta(t, -0.2, p.Wgs[1].Offset, 1e-9)
	// Rails span the full w1 width with a w2 slot between
	outer := p.Wgs[0].Offset + p.Wgs[0].Width/2
	inner := p.Wgs[0].Offset - p.Wgs[0].Width/2
	assert.InDelta(t, 0.35, outer, 1e-9)
	assert.InDelta(t, 0.05, inner, 1e-9)
}

func TestGenerateStraight(t *testing.T) {
	route := []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}}
	out, err := Generate(route, Strip(5, "Waveguide", 0.5))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Waveguide", out[0].Layer)
	assert.InDelta(t, 100*0.5, out[0].Polygon.Area(), 1e-6)
}

func TestGenerateBendShortensRoute(t *testing.T) {
	// 90-degree corner: the rounded centerline cuts inside the corner, so
	// its length is less than the Manhattan route but more than the chord.
	route := []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	p := Strip(5, "Waveguide", 0.5)

	l := Length(route, p)
	manhattan := 200.0
	// Arc replaces two 5 um tangents with a quarter circle of radius 5
	want := manhattan - 2*5 + 2*math.Pi*5/4
	assert.InDelta(t, want, l, 0.05)

	out, err := Generate(route, p)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Greater(t, len(out[0].Polygon), 8) // arc sampling adds vertices
}

func TestGenerateAdiabatic(t *testing.T) {
	route := []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	p := Strip(5, "Waveguide", 0.5)
	p.Adiabatic = true
	p.Bezier = 0.45

	out, err := Generate(route, p)
	require.NoError(t, err)
	require.Len(t, out, 1)

	// Bezier bend stays inside the corner
	bb := out[0].Polygon.BBox()
	assert.LessOrEqual(t, bb.X+bb.Width, 100.0+0.26)
}

func TestGenerateMultiLayer(t *testing.T) {
	route := []geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}}
	out, err := Generate(route, Rib(5, "Si", 0.5, "Slab", 2.0))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Si", out[0].Layer)
	assert.Equal(t, "Slab", out[1].Layer)
	assert.InDelta(t, 50*2.0, out[1].Polygon.Area(), 1e-6)
}

func TestGenerateOffsetLayer(t *testing.T) {
	route := []geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}}
	p := Params{Radius: 5, Wgs: []LayerSpec{{Layer: "Rail", Width: 0.3, Offset: 0.2}}}
	out, err := Generate(route, p)
	require.NoError(t, err)
	require.Len(t, out, 1)

	bb := out[0].Polygon.BBox()
	// Positive offset is left of travel (+y here)
	assert.InDelta(t, 0.05, bb.Y, 1e-9)
	assert.InDelta(t, 0.3, bb.Height, 1e-9)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate([]geometry.Point2D{{X: 0, Y: 0}}, Strip(5, "Waveguide", 0.5))
	assert.Error(t, err)

	_, err = Generate([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}, Params{})
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wg.yaml")
	content := `radius: 5
width: 0.5
adiabatic: true
bezier: 0.45
wgs:
  - {layer: Waveguide, width: 0.5, offset: 0}
  - {layer: DevRec, width: 2.5, offset: 0}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 5, p.Radius, 1e-9)
	assert.True(t, p.Adiabatic)
	require.Len(t, p.Wgs, 2)
	assert.Equal(t, "DevRec", p.Wgs[1].Layer)
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("radius: -1\nwgs: [{layer: W, width: 0.5}]\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
