package geococo

import (
	"os"

	"github.com/wgdzlh/geococo/log"

	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// GDAL影像数据源。只做窗口化读取，峰值内存与窗口大小同阶，不整幅载入
type GdalRaster struct {
	ds     gdal.Dataset
	path   string
	logTag string
}

func OpenRaster(path string) (g *GdalRaster, err error) {
	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		log.Error("open tif failed", zap.String("path", path), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	g = &GdalRaster{ds: ds, path: path, logTag: "GdalRaster:"}
	log.Info(g.logTag+"raster opened", zap.String("path", path),
		zap.Int("width", ds.RasterXSize()), zap.Int("height", ds.RasterYSize()),
		zap.Int("bands", ds.RasterCount()))
	return
}

func (g *GdalRaster) Close() {
	g.ds.Close()
}

func (g *GdalRaster) Path() string {
	return g.path
}

func (g *GdalRaster) Size() (width, height int) {
	return g.ds.RasterXSize(), g.ds.RasterYSize()
}

func (g *GdalRaster) Transform() GeoTransform {
	return GeoTransform(g.ds.GeoTransform())
}

func (g *GdalRaster) Srid() (int, error) {
	return sridOfWkt(g.ds.Projection())
}

// 窗口化读取：仅物化当前窗口覆盖的像素
func (g *GdalRaster) ReadWindow(win RasterWindow) (tile *Tile, err error) {
	nb := g.ds.RasterCount()
	bands := make([][]byte, nb)
	for i := 0; i < nb; i++ {
		band := g.ds.RasterBand(i + 1)
		buf := make([]byte, win.Width*win.Height)
		if err = band.IO(gdal.Read, win.OffX, win.OffY, win.Width, win.Height, buf, win.Width, win.Height, 0, 0); err != nil {
			log.Error(g.logTag+"read window failed", zap.Int("band", i+1),
				zap.Int("offX", win.OffX), zap.Int("offY", win.OffY), zap.Error(err))
			err = ErrTifReadFailed
			return
		}
		bands[i] = buf
	}
	tile = &Tile{
		Width:     win.Width,
		Height:    win.Height,
		Bands:     bands,
		Transform: win.Transform,
	}
	return
}

// 子图落盘为JPEG：先写内存数据集，再CreateCopy到临时名后原子改名
func (g *GdalRaster) WriteTile(tile *Tile, path string) (err error) {
	memDrv, err := gdal.GetDriverByName(MEM_DRIVER_NAME)
	if err != nil {
		err = ErrGdalDriverCreate
		return
	}
	mds := memDrv.Create("", tile.Width, tile.Height, len(tile.Bands), gdal.Byte, nil)
	defer mds.Close()
	for i, buf := range tile.Bands {
		band := mds.RasterBand(i + 1)
		if err = band.IO(gdal.Write, 0, 0, tile.Width, tile.Height, buf, tile.Width, tile.Height, 0, 0); err != nil {
			log.Error(g.logTag+"fill mem band failed", zap.Int("band", i+1), zap.Error(err))
			err = ErrTileWriteFailed
			return
		}
	}
	mds.SetGeoTransform([6]float64(tile.Transform))
	mds.SetProjection(g.ds.Projection())
	jpegDrv, err := gdal.GetDriverByName(JPEG_DRIVER_NAME)
	if err != nil {
		err = ErrGdalDriverCreate
		return
	}
	tmp := path + "." + uuid.NewString() + ".tmp"
	ods := jpegDrv.CreateCopy(tmp, mds, 0, nil, nil, nil)
	ods.Close()
	if err = os.Rename(tmp, path); err != nil {
		log.Error(g.logTag+"tile rename failed", zap.String("tile", path), zap.Error(err))
		os.Remove(tmp)
		err = ErrTileWriteFailed
		return
	}
	log.Debug(g.logTag+"tile written", zap.String("tile", path))
	return
}
