package geococo

import (
	"errors"
	"sort"

	"github.com/wgdzlh/geococo/log"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// 单个窗口的提取结果。仅当窗口保留了至少一条标注时产生
type WindowExtraction struct {
	Image       Image
	ImageExists bool // 图片记录此前已入库，无需重复落盘
	Annotations []Annotation
	Skipped     int // 栅格化失败而跳过的标注数
}

// 标注提取器：对每次窗口放置，过滤相交标注、栅格化、剔除退化结果，
// 组装标注与图片草稿。跨窗口的重复标注不去重，属于重叠覆盖策略的代价
type Extractor struct {
	reg    *Registry
	logTag string
}

func NewExtractor(reg *Registry) *Extractor {
	return &Extractor{reg: reg, logTag: "Extractor:"}
}

type draftAnnotation struct {
	categoryId int
	seg        Segmentation
	bbox       [4]int
	area       int
	iscrowd    int
}

// 提取一个窗口。无保留标注时返回nil（不产生空图片）
func (e *Extractor) ExtractWindow(win RasterWindow, labels []LabelFeature, tilePath string) (ret *WindowExtraction, err error) {
	winBound := win.Bound()
	var (
		drafts  []draftAnnotation
		skipped int
	)
	for _, label := range labels {
		if !label.Bound().Intersects(winBound) {
			continue
		}
		mask, e2 := RasterizeLabel(label.Geom, win)
		if e2 != nil {
			if !errors.Is(e2, ErrNoIntersect) {
				log.Warn(e.logTag+"label rasterize failed", zap.Int("offX", win.OffX), zap.Int("offY", win.OffY), zap.Error(e2))
				skipped++
			}
			continue
		}
		if mask.Degenerate() {
			continue
		}
		seg := EncodeRLE(mask)
		catId, e2 := e.reg.ResolveCategory(label.CategoryID, label.CategoryName, label.Supercategory)
		if e2 != nil {
			err = e2
			return
		}
		iscrowd := 0
		if _, multi := label.Geom.(orb.MultiPolygon); multi {
			iscrowd = 1
		}
		drafts = append(drafts, draftAnnotation{
			categoryId: catId,
			seg:        seg,
			bbox:       mask.BBox(),
			area:       mask.Area(),
			iscrowd:    iscrowd,
		})
	}
	if len(drafts) == 0 {
		if skipped > 0 {
			log.Info(e.logTag+"window dropped, all labels skipped", zap.Int("offX", win.OffX), zap.Int("offY", win.OffY), zap.Int("skipped", skipped))
		}
		return
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].categoryId < drafts[j].categoryId
	})
	imageId, existed := e.reg.ResolveImage(tilePath, win.Width, win.Height)
	ret = &WindowExtraction{
		Image: Image{
			Id:       imageId,
			Width:    win.Width,
			Height:   win.Height,
			FileName: tilePath,
		},
		ImageExists: existed,
		Annotations: make([]Annotation, len(drafts)),
		Skipped:     skipped,
	}
	for i, d := range drafts {
		ret.Annotations[i] = Annotation{
			Id:           e.reg.NextAnnotationId(),
			ImageId:      imageId,
			CategoryId:   d.categoryId,
			Segmentation: d.seg,
			Area:         d.area,
			Bbox:         d.bbox,
			Iscrowd:      d.iscrowd,
		}
	}
	return
}
