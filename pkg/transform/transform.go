// Package transform converts coordinates between WGS84 (GPS), GCJ02 (the
// offset system used by Chinese public maps) and BD09 (Baidu's further
// offset of GCJ02).
//
// The GCJ02 correction polynomials are empirical; they are kept term for term
// so that results match other implementations of the same formulas.
package transform

import "math"

const (
	pi  = 3.1415926535897932384626
	xPi = 3.14159265358979324 * 3000.0 / 180.0

	// Krasovsky 1940 semi-major axis and eccentricity squared
	axis = 6378245.0
	ee   = 0.00669342162296594323
)

// BD09ToGCJ02 converts a Baidu coordinate to GCJ02
func BD09ToGCJ02(lng, lat float64) (float64, float64) {
	x := lng - 0.0065
	y := lat - 0.006
	z := math.Sqrt(x*x+y*y) - 0.00002*math.Sin(y*xPi)
	theta := math.Atan2(y, x) - 0.000003*math.Cos(x*xPi)
	return z * math.Cos(theta), z * math.Sin(theta)
}

// GCJ02ToBD09 converts a GCJ02 coordinate to Baidu
func GCJ02ToBD09(lng, lat float64) (float64, float64) {
	z := math.Sqrt(lng*lng+lat*lat) + 0.00002*math.Sin(lat*xPi)
	theta := math.Atan2(lat, lng) + 0.000003*math.Cos(lng*xPi)
	return z*math.Cos(theta) + 0.0065, z*math.Sin(theta) + 0.006
}

// GCJ02ToWGS84 converts a GCJ02 coordinate to WGS84. Coordinates outside
// China are returned unchanged.
func GCJ02ToWGS84(lng, lat float64) (float64, float64) {
	if OutOfChina(lng, lat) {
		return lng, lat
	}
	mgLng, mgLat := offset(lng, lat)
	return lng*2 - mgLng, lat*2 - mgLat
}

// WGS84ToGCJ02 converts a WGS84 coordinate to GCJ02. Coordinates outside
// China are returned unchanged.
func WGS84ToGCJ02(lng, lat float64) (float64, float64) {
	if OutOfChina(lng, lat) {
		return lng, lat
	}
	return offset(lng, lat)
}

// BD09ToWGS84 converts a Baidu coordinate to WGS84 through GCJ02
func BD09ToWGS84(lng, lat float64) (float64, float64) {
	return GCJ02ToWGS84(BD09ToGCJ02(lng, lat))
}

// WGS84ToBD09 converts a WGS84 coordinate to Baidu through GCJ02
func WGS84ToBD09(lng, lat float64) (float64, float64) {
	return GCJ02ToBD09(WGS84ToGCJ02(lng, lat))
}

// OutOfChina reports whether the coordinate lies outside the rectangle in
// which the GCJ02 offset applies
func OutOfChina(lng, lat float64) bool {
	return (lng < 72.004 || lng > 137.8347) || (lat < 0.8293 || lat > 55.8271)
}

// offset applies the GCJ02 correction to (lng, lat)
func offset(lng, lat float64) (float64, float64) {
	dLat := transformLat(lng-105.0, lat-35.0)
	dLng := transformLng(lng-105.0, lat-35.0)
	radLat := lat / 180.0 * pi
	magic := math.Sin(radLat)
	magic = 1 - ee*magic*magic
	sqrtMagic := math.Sqrt(magic)
	dLat = (dLat * 180.0) / ((axis * (1 - ee)) / (magic * sqrtMagic) * pi)
	dLng = (dLng * 180.0) / (axis / sqrtMagic * math.Cos(radLat) * pi)
	return lng + dLng, lat + dLat
}

func transformLat(lng, lat float64) float64 {
	ret := -100.0 + 2.0*lng + 3.0*lat + 0.2*lat*lat + 0.1*lng*lat + 0.2*math.Sqrt(math.Abs(lng))
	ret += (20.0*math.Sin(6.0*lng*pi) + 20.0*math.Sin(2.0*lng*pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(lat*pi) + 40.0*math.Sin(lat/3.0*pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(lat/12.0*pi) + 320*math.Sin(lat*pi/30.0)) * 2.0 / 3.0
	return ret
}

func transformLng(lng, lat float64) float64 {
	ret := 300.0 + lng + 2.0*lat + 0.1*lng*lng + 0.1*lng*lat + 0.1*math.Sqrt(math.Abs(lng))
	ret += (20.0*math.Sin(6.0*lng*pi) + 20.0*math.Sin(2.0*lng*pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(lng*pi) + 40.0*math.Sin(lng/3.0*pi)) * 2.0 / 3.0
	ret += (150.0*math.Sin(lng/12.0*pi) + 300.0*math.Sin(lng/30.0*pi)) * 2.0 / 3.0
	return ret
}
