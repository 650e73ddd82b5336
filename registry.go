package geococo

import (
	"github.com/wgdzlh/geococo/log"

	"go.uber.org/zap"
)

// 标识分配器：维护图片/标注/类别的自增id，种子取自既有数据集的最大id。
// id单调递增且不复用，跨多次追加也保持稳定外键
type Registry struct {
	nextImage      int
	nextAnnotation int
	nextCategory   int

	categories []Category
	catIds     map[int]struct{}
	images     map[string]Image

	newCategories []Category
}

func NewRegistry(d *CocoDataset) *Registry {
	r := &Registry{
		nextImage:      1,
		nextAnnotation: 1,
		nextCategory:   1,
		catIds:         make(map[int]struct{}, len(d.Categories)),
		images:         make(map[string]Image, len(d.Images)),
	}
	for _, img := range d.Images {
		if img.Id >= r.nextImage {
			r.nextImage = img.Id + 1
		}
		r.images[img.FileName] = img
	}
	for _, ann := range d.Annotations {
		if ann.Id >= r.nextAnnotation {
			r.nextAnnotation = ann.Id + 1
		}
	}
	r.categories = make([]Category, len(d.Categories))
	copy(r.categories, d.Categories)
	for _, cat := range d.Categories {
		if cat.Id >= r.nextCategory {
			r.nextCategory = cat.Id + 1
		}
		r.catIds[cat.Id] = struct{}{}
	}
	return r
}

// 按提供的字段组合解析类别id。所有已提供字段都匹配才算同一类别；
// 无匹配则新建：指定且未占用的id直接沿用，否则取最大id+1
func (r *Registry) ResolveCategory(id int, name, super string) (catId int, err error) {
	if id <= 0 && name == "" && super == "" {
		err = ErrNoCategoryKey
		return
	}
	for _, cat := range r.categories {
		if id > 0 && cat.Id != id {
			continue
		}
		if name != "" && cat.Name != name {
			continue
		}
		if super != "" && cat.Supercategory != super {
			continue
		}
		catId = cat.Id
		return
	}
	catId = r.nextCategory
	if id > 0 {
		if _, taken := r.catIds[id]; !taken {
			catId = id
		}
	}
	cat := Category{Id: catId, Name: name, Supercategory: super}
	r.categories = append(r.categories, cat)
	r.newCategories = append(r.newCategories, cat)
	r.catIds[catId] = struct{}{}
	if catId >= r.nextCategory {
		r.nextCategory = catId + 1
	}
	log.Debug("new category allocated", zap.Int("id", catId), zap.String("name", name), zap.String("super", super))
	return
}

// 同名同尺寸的已有图片直接复用id，避免重复入库；否则分配新id
func (r *Registry) ResolveImage(fileName string, width, height int) (imageId int, existed bool) {
	if img, ok := r.images[fileName]; ok && img.Width == width && img.Height == height {
		return img.Id, true
	}
	imageId = r.nextImage
	r.nextImage++
	r.images[fileName] = Image{Id: imageId, Width: width, Height: height, FileName: fileName}
	return
}

func (r *Registry) NextAnnotationId() (id int) {
	id = r.nextAnnotation
	r.nextAnnotation++
	return
}

// 本次运行新增的类别（按分配顺序）
func (r *Registry) NewCategories() []Category {
	return r.newCategories
}
