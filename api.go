package geococo

import (
	"github.com/paulmach/orb"
)

// 输入标注矢量：地理坐标下的面要素，可携带类别属性（id/名称/父类名，零值表示未提供）
type LabelFeature struct {
	Geom          orb.Geometry // Polygon或MultiPolygon
	CategoryID    int
	CategoryName  string
	Supercategory string
}

// 至少要有一个类别属性，才能在数据集中解析出category_id
func (f LabelFeature) HasCategoryKey() bool {
	return f.CategoryID > 0 || f.CategoryName != "" || f.Supercategory != ""
}

func (f LabelFeature) Bound() orb.Bound {
	return f.Geom.Bound()
}

// 标注矢量集合，附带坐标系ID
type LabelSet struct {
	Features []LabelFeature
	Srid     int
}

// 所有要素的总包络
func (s *LabelSet) Bound() (b orb.Bound) {
	for i, f := range s.Features {
		if i == 0 {
			b = f.Bound()
		} else {
			b = b.Union(f.Bound())
		}
	}
	return
}

// 标注文件中类别属性的字段名映射
type ColumnMapping struct {
	CategoryID    string
	CategoryName  string
	Supercategory string
}

func (c ColumnMapping) HasAny() bool {
	return c.CategoryID != "" || c.CategoryName != "" || c.Supercategory != ""
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		CategoryID:    CATEGORY_ID_COLUMN,
		CategoryName:  CATEGORY_NAME_COLUMN,
		Supercategory: SUPERCATEGORY_COLUMN,
	}
}
