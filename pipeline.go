package geococo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wgdzlh/geococo/log"
	"github.com/wgdzlh/geococo/utils"

	"go.uber.org/zap"
)

// 窗口像素数据，按波段分片
type Tile struct {
	Width     int
	Height    int
	Bands     [][]byte
	Transform GeoTransform
}

// 影像数据源的窄接口：像素范围、仿射变换、窗口读取与子图落盘。
// GDAL实现见GdalRaster；测试可注入内存实现
type RasterSource interface {
	Size() (width, height int)
	Transform() GeoTransform
	Srid() (int, error)
	ReadWindow(win RasterWindow) (*Tile, error)
	WriteTile(tile *Tile, path string) error
}

type PipelineConfig struct {
	RasterPath   string
	OutputDir    string
	WindowWidth  int
	WindowHeight int
	// 单窗口读写失败时跳过该窗口而非终止
	ContinueOnError bool
}

// 扫描-栅格化流水线。单线程同步执行，全部增量在内存中组装，
// 结束时一次性合入数据集快照；中途取消或失败不产生半成品
type Pipeline struct {
	logTag string
}

func NewPipeline() *Pipeline {
	return &Pipeline{logTag: "Pipeline:"}
}

// 扫描影像，将相交标注转为COCO标注并合入数据集，返回新快照。
// 原数据集不被修改；出错时返回原快照与错误
func (p *Pipeline) AddLabels(ctx context.Context, dataset *CocoDataset, src RasterSource, labels *LabelSet, cfg PipelineConfig) (out *CocoDataset, err error) {
	out = dataset
	if err = p.validate(src, labels, cfg); err != nil {
		return
	}
	rasterW, rasterH := src.Size()
	gt := src.Transform()
	rasterBound := RasterWindow{Width: rasterW, Height: rasterH, Transform: gt}.Bound()
	meanW, meanH := MeanLabelExtent(labels.Features, rasterBound)
	rx, ry := gt.Resolution()
	scanner, err := NewWindowScanner(rasterW, rasterH, cfg.WindowWidth, cfg.WindowHeight, meanW/rx, meanH/ry, gt)
	if err != nil {
		return
	}
	if err = utils.EnsureDir(cfg.OutputDir); err != nil {
		return
	}
	reg := NewRegistry(dataset)
	ext := NewExtractor(reg)
	stem := utils.GetFilenameWithoutExt(cfg.RasterPath)
	log.Info(p.logTag+"scan started", zap.String("raster", cfg.RasterPath),
		zap.Int("windows", scanner.Len()), zap.Int("labels", len(labels.Features)),
		zap.Float64("meanW", meanW/rx), zap.Float64("meanH", meanH/ry))
	var (
		delta          Delta
		skippedLabels  int
		skippedWindows int
	)
	for {
		win, ok := scanner.Next()
		if !ok {
			break
		}
		if err = ctx.Err(); err != nil {
			return
		}
		tilePath := filepath.Join(cfg.OutputDir, win.TileName(stem))
		we, e := ext.ExtractWindow(win, labels.Features, tilePath)
		if e != nil {
			err = e
			return
		}
		if we == nil {
			continue
		}
		skippedLabels += we.Skipped
		if e = p.writeTile(src, win, tilePath, we.ImageExists); e != nil {
			if !cfg.ContinueOnError {
				err = e
				return
			}
			log.Warn(p.logTag+"window skipped", zap.String("tile", tilePath), zap.Error(e))
			skippedWindows++
			continue
		}
		if !we.ImageExists {
			delta.Images = append(delta.Images, we.Image)
		}
		delta.Annotations = append(delta.Annotations, we.Annotations...)
	}
	delta.Categories = reg.NewCategories()
	log.Info(p.logTag+"scan finished", zap.Int("images", len(delta.Images)),
		zap.Int("annotations", len(delta.Annotations)), zap.Int("skippedLabels", skippedLabels),
		zap.Int("skippedWindows", skippedWindows))
	nd, err := dataset.Append(delta, AppendContext{RasterPath: cfg.RasterPath, OutputDir: cfg.OutputDir})
	if err != nil {
		return
	}
	out = nd
	return
}

// 配置错误在扫描前一次性检出
func (p *Pipeline) validate(src RasterSource, labels *LabelSet, cfg PipelineConfig) (err error) {
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return ErrBadWindowSize
	}
	rasterW, rasterH := src.Size()
	if cfg.WindowWidth > rasterW || cfg.WindowHeight > rasterH {
		return ErrWindowTooLarge
	}
	for _, f := range labels.Features {
		if !f.HasCategoryKey() {
			return ErrNoCategoryKey
		}
	}
	srid, err := src.Srid()
	if err != nil {
		return
	}
	if labels.Srid != 0 && srid != 0 && labels.Srid != srid {
		log.Error(p.logTag+"crs mismatch", zap.Int("raster", srid), zap.Int("labels", labels.Srid))
		return ErrCrsMismatch
	}
	rasterBound := RasterWindow{Width: rasterW, Height: rasterH, Transform: src.Transform()}.Bound()
	if len(labels.Features) > 0 && !rasterBound.Intersects(labels.Bound()) {
		return ErrNoOverlap
	}
	return
}

// 子图已存在时不重写，与图片记录的复用保持一致
func (p *Pipeline) writeTile(src RasterSource, win RasterWindow, tilePath string, existed bool) (err error) {
	if existed {
		if _, e := os.Stat(tilePath); e == nil {
			return
		}
	}
	tile, err := src.ReadWindow(win)
	if err != nil {
		return
	}
	return src.WriteTile(tile, tilePath)
}
