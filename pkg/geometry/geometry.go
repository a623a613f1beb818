// Package geometry builds the planar shapes the engines test against:
// polygons from ordered or unordered point sets, lines, curves and circle
// approximations. Coordinates are used as-is in degree space (x = lng, y = lat).
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

const minRegionPoints = 3

// BuildPolygon builds a closed polygon from points. With useHull the polygon
// is the convex hull of the points, otherwise the points are joined in the
// given order.
func BuildPolygon(points []models.Coordinate, useHull bool) (orb.Polygon, error) {
	if len(points) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "point list is empty")
	}
	if len(points) < minRegionPoints {
		return nil, geoerr.Newf(geoerr.InvalidCount, "a region needs at least %d points, got %d", minRegionPoints, len(points))
	}
	if err := checkFinite(points); err != nil {
		return nil, err
	}

	ring := optimize(points)
	if useHull {
		return hull(ring)
	}

	// a closed ring needs three distinct vertices plus the closing one
	if len(ring) < 4 {
		return nil, geoerr.Newf(geoerr.InvalidGeometry, "sequence collapses to %d vertices", len(ring))
	}
	return orb.Polygon{ring}, nil
}

// BuildLine builds a two point line
func BuildLine(points []models.Coordinate) (orb.LineString, error) {
	if len(points) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "point list is empty")
	}
	if len(points) != 2 {
		return nil, geoerr.Newf(geoerr.InvalidCount, "a line needs exactly 2 points, got %d", len(points))
	}
	return lineString(points)
}

// BuildCurve builds a polyline through three or more points
func BuildCurve(points []models.Coordinate) (orb.LineString, error) {
	if len(points) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "point list is empty")
	}
	if len(points) < 3 {
		return nil, geoerr.Newf(geoerr.InvalidCount, "a curve needs at least 3 points, got %d", len(points))
	}
	return lineString(points)
}

func lineString(points []models.Coordinate) (orb.LineString, error) {
	if err := checkFinite(points); err != nil {
		return nil, err
	}
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = p.Point()
	}
	return ls, nil
}

// optimize drops every point equal to its predecessor and closes the ring
// with the first point.
func optimize(points []models.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for i, p := range points {
		if i > 0 && p == points[i-1] {
			continue
		}
		ring = append(ring, p.Point())
	}
	return append(ring, ring[0])
}

// hull returns the convex hull of the ring's points. Collinear or coincident
// input has no polygonal hull.
func hull(ring orb.Ring) (orb.Polygon, error) {
	flat := make([]float64, 0, 2*len(ring))
	for _, p := range ring {
		flat = append(flat, p[0], p[1])
	}

	poly, ok := xy.ConvexHullFlat(geom.XY, flat).(*geom.Polygon)
	if !ok || poly.NumLinearRings() == 0 {
		return nil, geoerr.New(geoerr.InvalidGeometry, "points do not form a polygon")
	}

	coords := poly.LinearRing(0).FlatCoords()
	shell := make(orb.Ring, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		shell = append(shell, orb.Point{coords[i], coords[i+1]})
	}
	if len(shell) < 4 || planar.Area(shell) == 0 {
		return nil, geoerr.New(geoerr.InvalidGeometry, "convex hull is empty")
	}
	if !shell.Closed() {
		shell = append(shell, shell[0])
	}
	return orb.Polygon{shell}, nil
}

func checkFinite(points []models.Coordinate) error {
	for i, p := range points {
		if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
			return geoerr.Newf(geoerr.InvalidInput, "point %d (%v, %v) is not finite", i, p.Lng, p.Lat)
		}
	}
	return nil
}
