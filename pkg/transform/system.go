package transform

import (
	"strings"

	"github.com/kass/go-geo-fence/pkg/geoerr"
)

// System identifies a coordinate reference system
type System int

const (
	WGS84 System = iota
	GCJ02
	BD09
)

func (s System) String() string {
	switch s {
	case WGS84:
		return "wgs84"
	case GCJ02:
		return "gcj02"
	case BD09:
		return "bd09"
	}
	return "unknown"
}

// ParseSystem maps a case-insensitive name to a System
func ParseSystem(name string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wgs84":
		return WGS84, nil
	case "gcj02":
		return GCJ02, nil
	case "bd09":
		return BD09, nil
	}
	return 0, geoerr.Newf(geoerr.InvalidInput, "unsupported coordinate system %q", name)
}

// Convert transforms (lng, lat) from one system to another
func Convert(lng, lat float64, from, to System) (float64, float64, error) {
	switch {
	case from == to:
		return lng, lat, nil
	case from == BD09 && to == GCJ02:
		lng, lat = BD09ToGCJ02(lng, lat)
	case from == BD09 && to == WGS84:
		lng, lat = BD09ToWGS84(lng, lat)
	case from == WGS84 && to == GCJ02:
		lng, lat = WGS84ToGCJ02(lng, lat)
	case from == WGS84 && to == BD09:
		lng, lat = WGS84ToBD09(lng, lat)
	case from == GCJ02 && to == WGS84:
		lng, lat = GCJ02ToWGS84(lng, lat)
	case from == GCJ02 && to == BD09:
		lng, lat = GCJ02ToBD09(lng, lat)
	default:
		return 0, 0, geoerr.Newf(geoerr.InvalidInput, "cannot convert %s to %s", from, to)
	}
	return lng, lat, nil
}
