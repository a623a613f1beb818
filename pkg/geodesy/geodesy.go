// Package geodesy solves the inverse and direct geodesic problems on the
// WGS84 ellipsoid. All distances are in meters, all angles in degrees.
package geodesy

import (
	"math"

	"github.com/tidwall/geodesic"

	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

// Distance returns the orthodromic distance between a and b on the WGS84
// ellipsoid
func Distance(a, b models.Coordinate) (float64, error) {
	if !finite(a.Lng, a.Lat, b.Lng, b.Lat) {
		return 0, geoerr.Newf(geoerr.GeodeticFailure, "cannot measure from %v to %v", a, b)
	}

	var s12 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, &s12, nil, nil)
	if !finite(s12) {
		return 0, geoerr.Newf(geoerr.GeodeticFailure, "inverse problem from %v to %v did not converge", a, b)
	}
	return s12, nil
}

// Bearing returns the initial azimuth from a towards b, in [-180, 180]
func Bearing(a, b models.Coordinate) (float64, error) {
	if !finite(a.Lng, a.Lat, b.Lng, b.Lat) {
		return 0, geoerr.Newf(geoerr.GeodeticFailure, "cannot take bearing from %v to %v", a, b)
	}

	var azi1 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, nil, &azi1, nil)
	if !finite(azi1) {
		return 0, geoerr.Newf(geoerr.GeodeticFailure, "inverse problem from %v to %v did not converge", a, b)
	}
	return azi1, nil
}

// MaxOrthodromicDistance is the longest geodesic on WGS84, half a meridian
// from pole to pole (about 20003931 m)
var MaxOrthodromicDistance = maxOrthodromic()

func maxOrthodromic() float64 {
	var s12 float64
	geodesic.WGS84.Inverse(0, 0, 0, 180, &s12, nil, nil)
	return s12
}

// Destination returns the point reached from start after travelling
// distance meters along bearing (0 = north, clockwise). distance must lie
// in [0, MaxOrthodromicDistance].
func Destination(start models.Coordinate, bearing, distance float64) (models.Coordinate, error) {
	if !finite(start.Lng, start.Lat, bearing, distance) {
		return models.Coordinate{}, geoerr.Newf(geoerr.GeodeticFailure,
			"cannot travel %v m on bearing %v from %v", distance, bearing, start)
	}
	if distance < 0 || distance > MaxOrthodromicDistance {
		return models.Coordinate{}, geoerr.Newf(geoerr.GeodeticFailure,
			"distance %v m is outside [0, %v]", distance, MaxOrthodromicDistance)
	}

	var lat2, lng2 float64
	geodesic.WGS84.Direct(start.Lat, start.Lng, bearing, distance, &lat2, &lng2, nil)
	if !finite(lat2, lng2) {
		return models.Coordinate{}, geoerr.Newf(geoerr.GeodeticFailure,
			"direct problem from %v on bearing %v for %v m did not converge", start, bearing, distance)
	}
	return models.Coordinate{Lng: lng2, Lat: lat2}, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
