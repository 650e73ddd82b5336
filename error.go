package geococo

import "errors"

var (
	ErrGdalDriverOpen   = errors.New("gdal driver open err")
	ErrGdalDriverCreate = errors.New("gdal driver create err")
	ErrInvalidTif       = errors.New("invalid tif")
	ErrTifReadFailed    = errors.New("tif read failed")
	ErrTileWriteFailed  = errors.New("tile write failed")
	ErrVoidSrid         = errors.New("void srid")

	ErrBadWindowSize  = errors.New("window size must be positive")
	ErrWindowTooLarge = errors.New("window exceeds raster extent")
	ErrSingularGeoRef = errors.New("geo transform is not invertible")

	ErrWrongGeoType = errors.New("geometry is not polygonal")
	ErrNoIntersect  = errors.New("geometry does not intersect window")

	ErrNoCategoryKey = errors.New("no category id, name or supercategory supplied")
	ErrCrsMismatch   = errors.New("raster and label crs differ")
	ErrNoOverlap     = errors.New("no overlap between raster and labels")

	ErrCorruptRle       = errors.New("corrupt rle counts")
	ErrRleSizeMismatch  = errors.New("rle size does not match run sum")
	ErrDatasetIntegrity = errors.New("dataset referential integrity violated")
	ErrDuplicateId      = errors.New("duplicate id in dataset")
	ErrInvalidVersion   = errors.New("invalid dataset version")
)
