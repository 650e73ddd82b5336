package geococo

const (
	FILE_EXT_SHP     = ".shp"
	FILE_EXT_JSON    = ".json"
	FILE_EXT_GEOJSON = ".geojson"
	FILE_EXT_JPG     = ".jpg"

	SHP_DRIVER_NAME  = "ESRI Shapefile"
	MEM_DRIVER_NAME  = "MEM"
	JPEG_DRIVER_NAME = "JPEG"

	GEOJSON_SRID = 4326

	CATEGORY_ID_COLUMN   = "category_id"
	CATEGORY_NAME_COLUMN = "category_name"
	SUPERCATEGORY_COLUMN = "supercategory"

	INIT_DATASET_VERSION = "0.1.0"

	// 窗口子图命名：<影像名>_<列偏移>_<行偏移>_<宽>_<高>.jpg
	TILE_NAME_TEMPLATE = "%s_%d_%d_%d_%d" + FILE_EXT_JPG

	MIN_WINDOW_STEP = 1

	ErrColumnMissingTemplate = "missing field [%s] in label source"
)
