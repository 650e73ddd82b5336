package geococo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var northUp = GeoTransform{500000, 2, 0, 4100000, 0, -2}

func TestGeoTransformInvert(t *testing.T) {
	inv, err := northUp.Invert()
	require.NoError(t, err)
	for _, p := range [][2]float64{{0, 0}, {100, 250}, {511.5, 12.25}} {
		x, y := northUp.Apply(p[0], p[1])
		px, py := inv.Apply(x, y)
		assert.InDelta(t, p[0], px, 1e-9)
		assert.InDelta(t, p[1], py, 1e-9)
	}
}

func TestGeoTransformInvertSingular(t *testing.T) {
	_, err := GeoTransform{0, 0, 0, 0, 0, 0}.Invert()
	assert.ErrorIs(t, err, ErrSingularGeoRef)
}

func TestGeoTransformShift(t *testing.T) {
	st := northUp.Shift(256, 128)
	x, y := st.Apply(0, 0)
	ex, ey := northUp.Apply(256, 128)
	assert.Equal(t, ex, x)
	assert.Equal(t, ey, y)
}

func TestStepSizeBounds(t *testing.T) {
	window := 512
	for _, mean := range []float64{1, 10, 100, 256, 400, 511} {
		step := stepSize(window, mean)
		assert.GreaterOrEqual(t, float64(step), mean, "mean %v", mean)
		assert.LessOrEqual(t, step, window, "mean %v", mean)
	}
	// 均值超过窗口时回落为整窗步长
	assert.Equal(t, window, stepSize(window, 600))
	// 无标注时步长为整窗
	assert.Equal(t, window, stepSize(window, 0))
}

func TestAxisOffsetsCoverage(t *testing.T) {
	cases := []struct{ total, window, step int }{
		{1000, 100, 60},
		{1024, 512, 412},
		{512, 512, 512},
		{100, 30, 1},
	}
	for _, c := range cases {
		offs := axisOffsets(c.total, c.window, c.step)
		require.NotEmpty(t, offs)
		covered := 0
		for _, off := range offs {
			assert.GreaterOrEqual(t, off, 0)
			assert.LessOrEqual(t, off+c.window, c.total)
			if off <= covered {
				if off+c.window > covered {
					covered = off + c.window
				}
			}
		}
		assert.Equal(t, c.total, covered, "union of windows must cover [0,%d)", c.total)
	}
}

func TestScannerPlacementGrid(t *testing.T) {
	s, err := NewWindowScanner(1024, 1024, 512, 512, 100, 100, northUp)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Len())

	var placements [][2]int
	for {
		w, ok := s.Next()
		if !ok {
			break
		}
		assert.Equal(t, 512, w.Width)
		assert.Equal(t, 512, w.Height)
		assert.LessOrEqual(t, w.OffX+w.Width, 1024)
		assert.LessOrEqual(t, w.OffY+w.Height, 1024)
		placements = append(placements, [2]int{w.OffX, w.OffY})
	}
	require.Len(t, placements, 9)
	assert.Contains(t, placements, [2]int{0, 0})
	assert.Contains(t, placements, [2]int{412, 0})
	assert.Contains(t, placements, [2]int{0, 412})
	assert.Contains(t, placements, [2]int{412, 412})
	assert.Contains(t, placements, [2]int{512, 512})
}

func TestScannerWindowTransform(t *testing.T) {
	s, err := NewWindowScanner(1024, 1024, 512, 512, 0, 0, northUp)
	require.NoError(t, err)
	w, ok := s.Next()
	require.True(t, ok)
	x, y := w.Transform.Apply(0, 0)
	ex, ey := northUp.Apply(float64(w.OffX), float64(w.OffY))
	assert.Equal(t, ex, x)
	assert.Equal(t, ey, y)
}

func TestScannerReset(t *testing.T) {
	s, err := NewWindowScanner(300, 200, 100, 100, 25, 25, northUp)
	require.NoError(t, err)
	var first []RasterWindow
	for {
		w, ok := s.Next()
		if !ok {
			break
		}
		first = append(first, w)
	}
	s.Reset()
	var second []RasterWindow
	for {
		w, ok := s.Next()
		if !ok {
			break
		}
		second = append(second, w)
	}
	assert.Equal(t, first, second)
}

func TestScannerConfigErrors(t *testing.T) {
	_, err := NewWindowScanner(100, 100, 0, 100, 0, 0, northUp)
	assert.ErrorIs(t, err, ErrBadWindowSize)
	_, err = NewWindowScanner(100, 100, 100, -1, 0, 0, northUp)
	assert.ErrorIs(t, err, ErrBadWindowSize)
	_, err = NewWindowScanner(100, 100, 101, 100, 0, 0, northUp)
	assert.ErrorIs(t, err, ErrWindowTooLarge)
}

func TestMeanLabelExtent(t *testing.T) {
	square := func(x, y, size float64) LabelFeature {
		return LabelFeature{Geom: orb.Polygon{{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}}
	}
	extent := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}
	labels := []LabelFeature{
		square(10, 10, 20),
		square(50, 50, 40),
		square(500, 500, 999), // 在影像范围外，不参与统计
	}
	w, h := MeanLabelExtent(labels, extent)
	assert.Equal(t, 30.0, w)
	assert.Equal(t, 30.0, h)

	w, h = MeanLabelExtent(nil, extent)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
