package geococo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identWindow(w, h int) RasterWindow {
	return RasterWindow{
		Width:     w,
		Height:    h,
		Transform: GeoTransform{0, 1, 0, 0, 0, 1},
	}
}

func squarePoly(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}
}

func TestRasterizeSquare(t *testing.T) {
	m, err := RasterizeLabel(squarePoly(2, 2, 6, 6), identWindow(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 16, m.Area())
	assert.Equal(t, [4]int{2, 2, 4, 4}, m.BBox())
	assert.EqualValues(t, 1, m.Get(2, 2))
	assert.EqualValues(t, 1, m.Get(5, 5))
	assert.EqualValues(t, 0, m.Get(6, 6))
	assert.EqualValues(t, 0, m.Get(1, 3))
}

func TestRasterizeNorthUpTransform(t *testing.T) {
	// 北上影像，y随行号递减
	win := RasterWindow{
		Width:  10,
		Height: 10,
		// 左上角(0,10)，像元1x1
		Transform: GeoTransform{0, 1, 0, 10, 0, -1},
	}
	// 地理坐标(2,6)-(6,8)的矩形落在第2..3行、第2..5列
	m, err := RasterizeLabel(squarePoly(2, 6, 6, 8), win)
	require.NoError(t, err)
	assert.Equal(t, 8, m.Area())
	assert.Equal(t, [4]int{2, 2, 4, 2}, m.BBox())
}

func TestRasterizeClipsToWindow(t *testing.T) {
	// 要素超出窗口边界时只保留窗口内部分
	m, err := RasterizeLabel(squarePoly(-4, -4, 3, 3), identWindow(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 9, m.Area())
	assert.Equal(t, [4]int{0, 0, 3, 3}, m.BBox())
}

func TestRasterizeHole(t *testing.T) {
	outer := orb.Ring{{1, 1}, {7, 1}, {7, 7}, {1, 7}, {1, 1}}
	inner := orb.Ring{{3, 3}, {5, 3}, {5, 5}, {3, 5}, {3, 3}}
	m, err := RasterizeLabel(orb.Polygon{outer, inner}, identWindow(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 36-4, m.Area())
	assert.EqualValues(t, 0, m.Get(3, 3))
	assert.EqualValues(t, 0, m.Get(4, 4))
	assert.EqualValues(t, 1, m.Get(2, 2))
}

func TestRasterizeMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		squarePoly(0, 0, 2, 2),
		squarePoly(5, 5, 7, 7),
	}
	m, err := RasterizeLabel(mp, identWindow(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 8, m.Area())
	assert.EqualValues(t, 1, m.Get(1, 1))
	assert.EqualValues(t, 1, m.Get(6, 6))
	assert.EqualValues(t, 0, m.Get(3, 3))
}

func TestRasterizeNoIntersect(t *testing.T) {
	_, err := RasterizeLabel(squarePoly(100, 100, 110, 110), identWindow(8, 8))
	assert.ErrorIs(t, err, ErrNoIntersect)
}

func TestRasterizeWrongGeoType(t *testing.T) {
	_, err := RasterizeLabel(orb.LineString{{0, 0}, {5, 5}}, identWindow(8, 8))
	assert.ErrorIs(t, err, ErrWrongGeoType)
}

func TestRasterizeSliverDegenerate(t *testing.T) {
	// 细条不覆盖任何像素中心，掩膜退化
	m, err := RasterizeLabel(squarePoly(2.6, 0, 2.9, 8), identWindow(8, 8))
	require.NoError(t, err)
	assert.True(t, m.Degenerate())
	assert.Zero(t, m.Area())
}

func TestMaskBBoxEmpty(t *testing.T) {
	m := NewMask(5, 5)
	assert.Equal(t, [4]int{0, 0, 0, 0}, m.BBox())
	assert.True(t, m.Degenerate())
}
