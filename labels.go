package geococo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wgdzlh/geococo/log"
	"github.com/wgdzlh/geococo/utils"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	orbwkb "github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// 读取标注文件（shp或GeoJSON），按字段名映射提取类别属性
func LoadLabels(path string, cols ColumnMapping) (ls *LabelSet, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case FILE_EXT_SHP:
		return loadShapefileLabels(path, cols)
	case FILE_EXT_JSON, FILE_EXT_GEOJSON:
		return loadGeoJSONLabels(path, cols)
	default:
		err = fmt.Errorf("unsupported label format: %s", filepath.Ext(path))
		return
	}
}

func loadShapefileLabels(shp string, cols ColumnMapping) (ls *LabelSet, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	srid, err := sridOfRef(layer.SpatialReference())
	if err != nil {
		return
	}
	def := layer.Definition()
	idIdx, nameIdx, superIdx := -1, -1, -1
	if cols.CategoryID != "" {
		idIdx = def.FieldIndex(cols.CategoryID)
	}
	if cols.CategoryName != "" {
		nameIdx = def.FieldIndex(cols.CategoryName)
	}
	if cols.Supercategory != "" {
		superIdx = def.FieldIndex(cols.Supercategory)
	}
	if idIdx < 0 && nameIdx < 0 && superIdx < 0 {
		err = fmt.Errorf(ErrColumnMissingTemplate, cols.CategoryID)
		return
	}
	var (
		utf8    = utils.ShpIsUtf8(shp)
		feature *gdal.Feature
		wkb     []byte
		geom    orb.Geometry
		dropped int
		e       error
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	ls = &LabelSet{Srid: srid}
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		if wkb, e = feature.Geometry().ToWKB(); e != nil {
			dropped++
			continue
		}
		if geom, e = orbwkb.Unmarshal(wkb); e != nil {
			dropped++
			continue
		}
		switch geom.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			dropped++
			continue
		}
		lf := LabelFeature{Geom: geom}
		if idIdx >= 0 {
			lf.CategoryID = feature.FieldAsInteger(idIdx)
		}
		if nameIdx >= 0 {
			lf.CategoryName = shpText(feature.FieldAsString(nameIdx), utf8)
		}
		if superIdx >= 0 {
			lf.Supercategory = shpText(feature.FieldAsString(superIdx), utf8)
		}
		ls.Features = append(ls.Features, lf)
	}
	log.Info("labels loaded from shp", zap.String("shp", shp), zap.Int("srid", srid),
		zap.Int("features", len(ls.Features)), zap.Int("dropped", dropped))
	return
}

// shp属性文本无cpg声明时按GBK解码
func shpText(s string, utf8 bool) string {
	if !utf8 {
		if d, e := utils.GbkStrToUtf8(s); e == nil {
			s = d
		}
	}
	return utils.PurifyForUtf8(s)
}

func loadGeoJSONLabels(path string, cols ColumnMapping) (ls *LabelSet, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		log.Error("geojson unmarshal failed", zap.String("path", path), zap.Error(err))
		return
	}
	ls = &LabelSet{Srid: GEOJSON_SRID}
	dropped := 0
	for _, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			dropped++
			continue
		}
		ls.Features = append(ls.Features, LabelFeature{
			Geom:          f.Geometry,
			CategoryID:    propInt(f.Properties, cols.CategoryID),
			CategoryName:  propString(f.Properties, cols.CategoryName),
			Supercategory: propString(f.Properties, cols.Supercategory),
		})
	}
	log.Info("labels loaded from geojson", zap.String("path", path),
		zap.Int("features", len(ls.Features)), zap.Int("dropped", dropped))
	return
}

func propInt(props geojson.Properties, key string) int {
	if key == "" {
		return 0
	}
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		return utils.StrToInt(v)
	}
	return 0
}

func propString(props geojson.Properties, key string) string {
	if key == "" {
		return ""
	}
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
