package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siepic-tools/internal/layout"
	"siepic-tools/internal/models"
	"siepic-tools/internal/tech"
	"siepic-tools/pkg/geometry"
)

func TestComponentCenterDerivedFromOutline(t *testing.T) {
	outline := geometry.NewRect(1000, 2000, 4000, 2000).ToPolygon()
	c := NewComponent(3, "ebeam_y", outline, 0.001)

	assert.Equal(t, 3, c.Idx)
	assert.InDelta(t, 3000, c.Center.X, 1e-9)
	assert.InDelta(t, 3000, c.Center.Y, 1e-9)
	assert.InDelta(t, 3.0, c.DCenter.X, 1e-9)
	assert.Equal(t, 0, c.NPins())
}

func TestComponentHasModelNeverErrors(t *testing.T) {
	c := NewComponent(0, "ebeam_y", geometry.NewRect(0, 0, 10, 10).ToPolygon(), 0.001)

	// Unset technology or registry answers false, never panics.
	assert.False(t, c.HasModel(nil, nil))
	assert.False(t, c.HasModel(testTech(), nil))
	assert.False(t, c.HasModel(nil, models.NewRegistry()))

	reg := models.NewRegistry()
	reg.AddComponent("ebeam", "EBEAM_Y") // case-insensitive both ways
	assert.True(t, c.HasModel(testTech(), reg))
}

func TestComponentPinQueries(t *testing.T) {
	c := NewComponent(0, "dc", geometry.NewRect(0, 0, 100, 100).ToPolygon(), 0.001)

	p1, err := NewPin(PinSpec{Type: Optical, Name: "opt1", Path: opticalPath(50, 0, -50, 0)})
	require.NoError(t, err)
	box := geometry.NewRect(0, 0, 10, 10)
	p2, err := NewPin(PinSpec{Type: Electrical, Name: "elec1", Box: &box})
	require.NoError(t, err)
	c.Pins = []*Pin{p1, p2}

	assert.Equal(t, 2, c.NPins())
	assert.Same(t, p1, c.PinNamed("opt1"))
	assert.Nil(t, c.PinNamed("nope"))
	assert.Len(t, c.PinsOfType(Optical), 1)
	assert.Len(t, c.PinsOfType(Electrical), 1)
}

func TestComponentPolygonsPinStubExtension(t *testing.T) {
	// Waveguide 2 um long, 0.5 um wide (dbu 0.001). The pin path at the
	// right end is extended by a 1 um stub, growing the merged bounding
	// area from 2x0.5 to 3x0.5 um.
	ly := layout.New(0.001)
	c := ly.AddCell("stub_wg")
	dev := geometry.NewRect(0, -250, 2000, 500)
	c.AddShape(layout.Shape{Layer: tech.LayerDevRec, Box: &dev})
	wg := geometry.NewPath([]geometry.Point2D{{X: 0, Y: 0}, {X: 2000, Y: 0}}, 500)
	c.AddShape(layout.Shape{Layer: tech.LayerWaveguide, Path: &wg})
	pin := geometry.NewPath([]geometry.Point2D{{X: 1500, Y: 0}, {X: 2000, Y: 0}}, 500)
	c.AddShape(layout.Shape{Layer: tech.LayerPinRec, Path: &pin})

	top := ly.AddCell("top")
	ly.Top = "top"
	top.AddInst(layout.Inst{Cell: "stub_wg", Name: "wg"})

	e := &Extractor{Layout: ly, Tech: testTech()}
	x, err := e.Extract(nil)
	require.NoError(t, err)
	require.Len(t, x.Components, 1)

	polys, err := x.Components[0].Polygons(ly, e.Tech)
	require.NoError(t, err)
	require.NotEmpty(t, polys)

	var pts []geometry.Point2D
	for _, p := range polys {
		pts = append(pts, p...)
	}
	bb := geometry.BoundingBox(pts)

	unextended := wg.ToPolygon().BBox()
	assert.InDelta(t, 2000*500, unextended.Area(), 1e-6)
	// Stub adds exactly 1 um (1000 dbu) of length at the pin end.
	assert.InDelta(t, 3000*500, bb.Area(), 1e-6)
	assert.InDelta(t, unextended.Area()+1000*500, bb.Area(), 1e-6)
}

func TestComponentPolygonsMergesTouchingShapes(t *testing.T) {
	ly := layout.New(0.001)
	c := ly.AddCell("two_wg")
	dev := geometry.NewRect(0, -250, 4000, 500)
	c.AddShape(layout.Shape{Layer: tech.LayerDevRec, Box: &dev})
	wg1 := geometry.NewPath([]geometry.Point2D{{X: 0, Y: 0}, {X: 2000, Y: 0}}, 500)
	c.AddShape(layout.Shape{Layer: tech.LayerWaveguide, Path: &wg1})
	wg2 := geometry.NewPath([]geometry.Point2D{{X: 2000, Y: 0}, {X: 4000, Y: 0}}, 500)
	c.AddShape(layout.Shape{Layer: tech.LayerWaveguide, Path: &wg2})

	top := ly.AddCell("top")
	ly.Top = "top"
	top.AddInst(layout.Inst{Cell: "two_wg", Name: "wg"})

	e := &Extractor{Layout: ly, Tech: testTech()}
	x, err := e.Extract(nil)
	require.NoError(t, err)

	polys, err := x.Components[0].Polygons(ly, e.Tech)
	require.NoError(t, err)
	assert.Len(t, polys, 2) // decomposed members of one merged group
}

func TestComponentFindPinsNilScanner(t *testing.T) {
	c := NewComponent(0, "x", geometry.NewRect(0, 0, 10, 10).ToPolygon(), 0.001)
	_, err := c.FindPins(nil)
	assert.Error(t, err)
}
