package geococo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// 窗口局部的二值掩膜，行优先存储
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

func (m *Mask) Get(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// 前景像素数
func (m *Mask) Area() (n int) {
	for _, p := range m.Pix {
		if p != 0 {
			n++
		}
	}
	return
}

// 前景包络[x, y, w, h]；无前景时宽高为零
func (m *Mask) BBox() (bbox [4]int) {
	minX, minY := m.Width, m.Height
	maxX, maxY := -1, -1
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x, p := range row {
			if p == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return
	}
	bbox = [4]int{minX, minY, maxX - minX + 1, maxY - minY + 1}
	return
}

// 零前景或包络宽高为零的掩膜视为退化，由调用方丢弃
func (m *Mask) Degenerate() bool {
	bbox := m.BBox()
	return bbox[2] == 0 || bbox[3] == 0
}

// 像素空间线段，仅保留跨扫描线的边
type maskEdge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

// 将地理坐标面要素栅格化为窗口局部掩膜。
// 要素包络与窗口无交时返回ErrNoIntersect；非面要素返回ErrWrongGeoType
func RasterizeLabel(geom orb.Geometry, win RasterWindow) (m *Mask, err error) {
	var polys []orb.Polygon
	switch g := geom.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{g}
	case orb.MultiPolygon:
		polys = g
	default:
		err = ErrWrongGeoType
		return
	}
	if !geom.Bound().Intersects(win.Bound()) {
		err = ErrNoIntersect
		return
	}
	inv, err := win.Transform.Invert()
	if err != nil {
		return
	}
	var edges []maskEdge
	for _, poly := range polys {
		for _, ring := range poly {
			edges = appendRingEdges(edges, ring, inv)
		}
	}
	m = NewMask(win.Width, win.Height)
	fillEvenOdd(m, edges)
	return
}

func appendRingEdges(edges []maskEdge, ring orb.Ring, inv GeoTransform) []maskEdge {
	n := len(ring)
	if n < 3 {
		return edges
	}
	px, py := inv.Apply(ring[0][0], ring[0][1])
	for i := 1; i <= n; i++ {
		p := ring[i%n]
		qx, qy := inv.Apply(p[0], p[1])
		if qy != py { // 水平边不产生交点
			edges = append(edges, maskEdge{
				x0: px, y0: py,
				x1: qx, y1: qy,
				dxdy: (qx - px) / (qy - py),
			})
		}
		px, py = qx, qy
	}
	return edges
}

// 奇偶规则扫描线填充，采样点取像素中心。窗口外的部分天然被裁掉
func fillEvenOdd(m *Mask, edges []maskEdge) {
	var xs []float64
	for y := 0; y < m.Height; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for i := range edges {
			e := &edges[i]
			yMin, yMax := e.y0, e.y1
			if yMin > yMax {
				yMin, yMax = yMax, yMin
			}
			if yc < yMin || yc >= yMax {
				continue
			}
			xs = append(xs, e.x0+e.dxdy*(yc-e.y0))
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Ceil(xs[i+1] - 0.5))
			if x0 < 0 {
				x0 = 0
			}
			if x1 > m.Width {
				x1 = m.Width
			}
			for x := x0; x < x1; x++ {
				row[x] = 1
			}
		}
	}
}
