package geococo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GDAL六参数仿射变换：像素坐标 -> 地理坐标
type GeoTransform [6]float64

func (t GeoTransform) Apply(px, py float64) (x, y float64) {
	x = t[0] + px*t[1] + py*t[2]
	y = t[3] + px*t[4] + py*t[5]
	return
}

// 求逆变换：地理坐标 -> 像素坐标
func (t GeoTransform) Invert() (inv GeoTransform, err error) {
	det := t[1]*t[5] - t[2]*t[4]
	if det == 0 {
		err = ErrSingularGeoRef
		return
	}
	inv[1] = t[5] / det
	inv[2] = -t[2] / det
	inv[4] = -t[4] / det
	inv[5] = t[1] / det
	inv[0] = -(inv[1]*t[0] + inv[2]*t[3])
	inv[3] = -(inv[4]*t[0] + inv[5]*t[3])
	return
}

// 每轴像素分辨率（地理单位）
func (t GeoTransform) Resolution() (rx, ry float64) {
	rx = math.Abs(t[1])
	ry = math.Abs(t[5])
	return
}

// 平移原点到窗口左上角，得到窗口局部变换
func (t GeoTransform) Shift(offX, offY int) (st GeoTransform) {
	st = t
	st[0], st[3] = t.Apply(float64(offX), float64(offY))
	return
}

// 一次窗口放置：像素范围 + 窗口局部仿射变换。创建后不可变
type RasterWindow struct {
	OffX      int
	OffY      int
	Width     int
	Height    int
	Transform GeoTransform
}

// 窗口的地理包络
func (w RasterWindow) Bound() (b orb.Bound) {
	x0, y0 := w.Transform.Apply(0, 0)
	x1, y1 := w.Transform.Apply(float64(w.Width), float64(w.Height))
	b.Min = orb.Point{math.Min(x0, x1), math.Min(y0, y1)}
	b.Max = orb.Point{math.Max(x0, x1), math.Max(y0, y1)}
	return
}

func (w RasterWindow) TileName(stem string) string {
	return fmt.Sprintf(TILE_NAME_TEMPLATE, stem, w.OffX, w.OffY, w.Width, w.Height)
}

// 自适应窗口扫描器：行优先枚举窗口放置，步长随平均标注尺寸收缩。
// 纯函数式，可Reset重放，不持有外部状态
type WindowScanner struct {
	xOffs []int
	yOffs []int
	winW  int
	winH  int
	base  GeoTransform
	i     int
	j     int
}

// meanW/meanH为标注包络的均值尺寸（像素）；步长 = clamp(窗口-均值, [均值,窗口])，至少1像素
func NewWindowScanner(rasterW, rasterH, winW, winH int, meanW, meanH float64, base GeoTransform) (s *WindowScanner, err error) {
	if winW <= 0 || winH <= 0 {
		err = ErrBadWindowSize
		return
	}
	if winW > rasterW || winH > rasterH {
		err = ErrWindowTooLarge
		return
	}
	s = &WindowScanner{
		xOffs: axisOffsets(rasterW, winW, stepSize(winW, meanW)),
		yOffs: axisOffsets(rasterH, winH, stepSize(winH, meanH)),
		winW:  winW,
		winH:  winH,
		base:  base,
	}
	return
}

// 窗口总数
func (s *WindowScanner) Len() int {
	return len(s.xOffs) * len(s.yOffs)
}

func (s *WindowScanner) Next() (w RasterWindow, ok bool) {
	if s.j >= len(s.yOffs) {
		return
	}
	offX, offY := s.xOffs[s.i], s.yOffs[s.j]
	w = RasterWindow{
		OffX:      offX,
		OffY:      offY,
		Width:     s.winW,
		Height:    s.winH,
		Transform: s.base.Shift(offX, offY),
	}
	ok = true
	if s.i++; s.i >= len(s.xOffs) {
		s.i = 0
		s.j++
	}
	return
}

func (s *WindowScanner) Reset() {
	s.i, s.j = 0, 0
}

func stepSize(window int, mean float64) (step int) {
	lo := int(math.Ceil(mean))
	step = window - lo
	if step < lo {
		step = lo
	}
	if step > window {
		step = window
	}
	if step < MIN_WINDOW_STEP {
		step = MIN_WINDOW_STEP
	}
	return
}

// 单轴偏移序列。末端窗口左/上移以保持全尺寸且不越界
func axisOffsets(total, window, step int) (offs []int) {
	for off := 0; ; off += step {
		if off+window >= total {
			last := total - window
			if len(offs) == 0 || offs[len(offs)-1] != last {
				offs = append(offs, last)
			}
			return
		}
		offs = append(offs, off)
	}
}

// 与影像范围相交的标注，其包络宽高的均值（地理单位）
func MeanLabelExtent(labels []LabelFeature, extent orb.Bound) (w, h float64) {
	var n float64
	for _, f := range labels {
		b := f.Bound()
		if !b.Intersects(extent) {
			continue
		}
		w += b.Max[0] - b.Min[0]
		h += b.Max[1] - b.Min[1]
		n++
	}
	if n > 0 {
		w /= n
		h /= n
	}
	return
}
