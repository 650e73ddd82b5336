package geococo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/wgdzlh/geococo/log"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

type Info struct {
	Year        int       `json:"year,omitempty"`
	Version     string    `json:"version"`
	Description string    `json:"description,omitempty"`
	Contributor string    `json:"contributor,omitempty"`
	DateCreated time.Time `json:"date_created"`
}

// RLE压缩掩膜，size为[高,宽]
type Segmentation struct {
	Size   [2]int `json:"size"`
	Counts string `json:"counts"`
}

type Category struct {
	Id            int    `json:"id"`
	Name          string `json:"name,omitempty"`
	Supercategory string `json:"supercategory,omitempty"`
}

type Image struct {
	Id       int    `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileName string `json:"file_name"`
	SourceId int    `json:"source_id,omitempty"`
}

type Annotation struct {
	Id           int          `json:"id"`
	ImageId      int          `json:"image_id"`
	CategoryId   int          `json:"category_id"`
	Segmentation Segmentation `json:"segmentation"`
	Area         int          `json:"area"`
	Bbox         [4]int       `json:"bbox"`
	Iscrowd      int          `json:"iscrowd"`
}

// 数据来源影像记录，用于版本递增判断
type Source struct {
	Id       int    `json:"id"`
	FileName string `json:"file_name"`
}

// COCO数据集聚合根。追加操作总是返回新快照，不修改原值
type CocoDataset struct {
	Info        Info         `json:"info"`
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
	Sources     []Source     `json:"sources,omitempty"`
}

// 单次追加的增量记录
type Delta struct {
	Images      []Image
	Annotations []Annotation
	Categories  []Category
}

// 追加上下文：来源影像与输出目录标识，决定语义版本递增档位
type AppendContext struct {
	RasterPath string
	OutputDir  string
}

func NewCocoDataset(description, contributor string) *CocoDataset {
	now := time.Now()
	return &CocoDataset{
		Info: Info{
			Year:        now.Year(),
			Version:     INIT_DATASET_VERSION,
			Description: description,
			Contributor: contributor,
			DateCreated: now,
		},
	}
}

func LoadDataset(path string) (ds *CocoDataset, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	ds = &CocoDataset{}
	if err = json.Unmarshal(data, ds); err != nil {
		log.Error("dataset json unmarshal failed", zap.String("path", path), zap.Error(err))
		ds = nil
		return
	}
	if err = ds.Validate(); err != nil {
		log.Error("loaded dataset is corrupt", zap.String("path", path), zap.Error(err))
		ds = nil
	}
	return
}

func SaveDataset(ds *CocoDataset, path string) (err error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return
	}
	if err = os.WriteFile(path, data, os.ModePerm); err != nil {
		return
	}
	log.Info("dataset saved", zap.String("path", path), zap.Int("images", len(ds.Images)),
		zap.Int("annotations", len(ds.Annotations)), zap.String("version", ds.Info.Version))
	return
}

// 校验数据集完整性：版本合法、各表id唯一、标注外键有效
func (d *CocoDataset) Validate() (err error) {
	if _, err = semver.StrictNewVersion(d.Info.Version); err != nil {
		return ErrInvalidVersion
	}
	imageIds := make(map[int]struct{}, len(d.Images))
	for _, img := range d.Images {
		if _, ok := imageIds[img.Id]; ok {
			return ErrDuplicateId
		}
		imageIds[img.Id] = struct{}{}
	}
	catIds := make(map[int]struct{}, len(d.Categories))
	for _, cat := range d.Categories {
		if _, ok := catIds[cat.Id]; ok {
			return ErrDuplicateId
		}
		catIds[cat.Id] = struct{}{}
	}
	annIds := make(map[int]struct{}, len(d.Annotations))
	for _, ann := range d.Annotations {
		if _, ok := annIds[ann.Id]; ok {
			return ErrDuplicateId
		}
		annIds[ann.Id] = struct{}{}
		if _, ok := imageIds[ann.ImageId]; !ok {
			return ErrDatasetIntegrity
		}
		if _, ok := catIds[ann.CategoryId]; !ok {
			return ErrDatasetIntegrity
		}
	}
	return
}

func (d *CocoDataset) clone() *CocoDataset {
	nd := &CocoDataset{
		Info:        d.Info,
		Images:      make([]Image, len(d.Images)),
		Annotations: make([]Annotation, len(d.Annotations)),
		Categories:  make([]Category, len(d.Categories)),
		Sources:     make([]Source, len(d.Sources)),
	}
	copy(nd.Images, d.Images)
	copy(nd.Annotations, d.Annotations)
	copy(nd.Categories, d.Categories)
	copy(nd.Sources, d.Sources)
	return nd
}

// 输出目录是否出现过（由已有图片的file_name推断）
func (d *CocoDataset) hasOutputDir(dir string) bool {
	for _, img := range d.Images {
		if filepath.Dir(img.FileName) == dir {
			return true
		}
	}
	return false
}

func (d *CocoDataset) findSource(rasterPath string) (id int, ok bool) {
	for _, src := range d.Sources {
		if src.FileName == rasterPath {
			return src.Id, true
		}
	}
	return
}

// 追加增量并递增版本，返回新快照：
//
//	新输出目录 -> major；已有目录+新影像 -> minor；已有目录+已有影像 -> patch
func (d *CocoDataset) Append(delta Delta, ctx AppendContext) (nd *CocoDataset, err error) {
	ver, err := semver.StrictNewVersion(d.Info.Version)
	if err != nil {
		err = ErrInvalidVersion
		return
	}
	nd = d.clone()
	srcId, srcSeen := nd.findSource(ctx.RasterPath)
	var next semver.Version
	switch {
	case !nd.hasOutputDir(ctx.OutputDir):
		next = ver.IncMajor()
	case !srcSeen:
		next = ver.IncMinor()
	default:
		next = ver.IncPatch()
	}
	if !srcSeen {
		srcId = len(nd.Sources) + 1
		nd.Sources = append(nd.Sources, Source{Id: srcId, FileName: ctx.RasterPath})
	}
	nd.Info.Version = next.String()
	nd.Categories = append(nd.Categories, delta.Categories...)
	for i := range delta.Images {
		delta.Images[i].SourceId = srcId
	}
	nd.Images = append(nd.Images, delta.Images...)
	nd.Annotations = append(nd.Annotations, delta.Annotations...)
	if err = nd.Validate(); err != nil {
		nd = nil
		return
	}
	log.Info("dataset appended", zap.String("version", nd.Info.Version),
		zap.Int("newImages", len(delta.Images)), zap.Int("newAnnotations", len(delta.Annotations)),
		zap.Int("newCategories", len(delta.Categories)))
	return
}
