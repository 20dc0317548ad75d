package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siepic-tools/pkg/geometry"
)

func TestShapeKind(t *testing.T) {
	p := geometry.NewPath([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}, 2)
	b := geometry.NewRect(0, 0, 10, 10)

	assert.Equal(t, KindPath, Shape{Path: &p}.Kind())
	assert.Equal(t, KindBox, Shape{Box: &b}.Kind())
	assert.Equal(t, KindPolygon, Shape{Polygon: b.ToPolygon()}.Kind())
}

func TestShapeToPolygonArea(t *testing.T) {
	b := geometry.NewRect(0, 0, 10, 20)
	poly := Shape{Box: &b}.ToPolygon()
	assert.InDelta(t, 200, poly.Area(), 1e-9)
}

func TestEachShapeFlattensHierarchy(t *testing.T) {
	ly := New(0.001)

	leaf := ly.AddCell("leaf")
	b := geometry.NewRect(0, 0, 100, 100)
	leaf.AddShape(Shape{Layer: "Waveguide", Box: &b})
	leaf.AddShape(Shape{Layer: "DevRec", Box: &b})

	mid := ly.AddCell("mid")
	mid.AddInst(Inst{Cell: "leaf", Trans: geometry.Translation(1000, 0)})

	top := ly.AddCell("top")
	ly.Top = "top"
	top.AddInst(Inst{Cell: "mid", Trans: geometry.Translation(0, 500)})
	top.AddInst(Inst{Cell: "leaf", Trans: geometry.Rotation(90)})

	var boxes []geometry.Rect
	err := ly.EachShape(top, "Waveguide", func(s Shape) {
		boxes = append(boxes, s.BBox())
	})
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	// Through mid: translated by (1000, 500)
	assert.Equal(t, geometry.NewRect(1000, 500, 100, 100), boxes[0])
	// Direct rotated placement: box maps to (-100..0, 0..100)
	assert.InDelta(t, -100, boxes[1].X, 1e-9)
	assert.InDelta(t, 0, boxes[1].Y, 1e-9)
}

func TestEachShapeUnknownCell(t *testing.T) {
	ly := New(0.001)
	top := ly.AddCell("top")
	top.AddInst(Inst{Cell: "missing"})
	err := ly.EachShape(top, "Waveguide", func(Shape) {})
	assert.Error(t, err)
}

func TestEachShapeCycleDetected(t *testing.T) {
	ly := New(0.001)
	a := ly.AddCell("a")
	b := ly.AddCell("b")
	a.AddInst(Inst{Cell: "b"})
	b.AddInst(Inst{Cell: "a"})
	err := ly.EachShape(a, "Waveguide", func(Shape) {})
	assert.Error(t, err)
}

func TestEachLabelTransformsPosition(t *testing.T) {
	ly := New(0.001)
	leaf := ly.AddCell("leaf")
	leaf.AddLabel(Label{Layer: "PinRec", Text: "pin1", Position: geometry.Point2D{X: 10, Y: 0}})

	top := ly.AddCell("top")
	top.AddInst(Inst{Cell: "leaf", Trans: geometry.Translation(500, 500)})

	var got []Label
	err := ly.EachLabel(top, "PinRec", func(l Label) { got = append(got, l) })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pin1", got[0].Text)
	assert.InDelta(t, 510, got[0].Position.X, 1e-9)
	assert.InDelta(t, 500, got[0].Position.Y, 1e-9)
}

func TestTopCell(t *testing.T) {
	ly := New(0.001)
	_, err := ly.TopCell()
	assert.Error(t, err)

	ly.Top = "top"
	_, err = ly.TopCell()
	assert.Error(t, err)

	ly.AddCell("top")
	c, err := ly.TopCell()
	require.NoError(t, err)
	assert.Equal(t, "top", c.Name)
}

func TestRegionMergeGroups(t *testing.T) {
	r := NewRegion()
	r.Insert(geometry.NewRect(0, 0, 10, 10).ToPolygon())
	r.Insert(geometry.NewRect(5, 5, 10, 10).ToPolygon()) // overlaps first
	r.Insert(geometry.NewRect(100, 100, 10, 10).ToPolygon())

	groups := r.Merge()
	require.Len(t, groups, 2)

	var sizes []int
	for _, g := range groups {
		sizes = append(sizes, len(g.Polys))
	}
	assert.ElementsMatch(t, []int{2, 1}, sizes)
}

func TestRegionMergeGroupBBox(t *testing.T) {
	r := NewRegion()
	r.Insert(geometry.NewRect(0, 0, 10, 10).ToPolygon())
	r.Insert(geometry.NewRect(10, 0, 10, 10).ToPolygon()) // shares an edge

	groups := r.Merge()
	require.Len(t, groups, 1)
	assert.Equal(t, geometry.NewRect(0, 0, 20, 10), groups[0].BBox())
	assert.Len(t, groups[0].Hull(), 4)
}

func TestRegionIgnoresDegenerate(t *testing.T) {
	r := NewRegion()
	r.Insert(geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.Merge())
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ly := New(0.001)
	ly.Top = "top"
	top := ly.AddCell("top")
	b := geometry.NewRect(0, -250, 10000, 500)
	top.AddShape(Shape{Layer: "DevRec", Box: &b})
	wg := geometry.NewPath([]geometry.Point2D{{X: 0, Y: 0}, {X: 10000, Y: 0}}, 500)
	top.AddShape(Shape{Layer: "Waveguide", Path: &wg})
	top.AddLabel(Label{Layer: "PinRec", Text: "pin1", Position: geometry.Point2D{X: 0, Y: 0}})

	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, ly.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ly.DBU, loaded.DBU)
	assert.Equal(t, "top", loaded.Top)
	require.Contains(t, loaded.Cells, "top")
	got := loaded.Cells["top"]
	assert.Equal(t, "top", got.Name)
	assert.Len(t, got.Shapes, 2)
	assert.Len(t, got.Labels, 1)
}

func TestLoadRejectsBadDBU(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"layout":{"dbu":0,"top":"t","cells":{}}}`), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadBackfillsCellNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"layout":{"dbu":0.001,"top":"t","cells":{"t":{}}}}`), 0644))
	ly, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "t", ly.Cells["t"].Name)
}
