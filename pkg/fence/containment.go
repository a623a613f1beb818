// Package fence is the string based entry point to the engine. Coordinates
// arrive as decimal strings, every argument is validated before any shape is
// built, and batch results are the caller's own locations in input order.
package fence

import (
	"github.com/paulmach/orb"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/geo"
	"github.com/kass/go-geo-fence/pkg/geometry"
	"github.com/kass/go-geo-fence/pkg/models"
)

// BuildRegion parses region and builds its polygon, as a convex hull when
// useHull is set or in the given order otherwise
func BuildRegion(region []*models.Location, useHull bool) (orb.Polygon, error) {
	coords, err := parseShape("region", region)
	if err != nil {
		return nil, err
	}
	return geometry.BuildPolygon(coords, useHull)
}

// BuildCircle parses r and builds its circle
func BuildCircle(r *models.Roundness) (geometry.Circle, error) {
	if err := r.Check(); err != nil {
		return geometry.Circle{}, err
	}
	center, err := r.Center.Coordinate()
	if err != nil {
		return geometry.Circle{}, err
	}
	radius, err := models.ParseFloat(r.Radius)
	if err != nil {
		return geometry.Circle{}, err
	}
	return geometry.BuildCircle(center, radius)
}

// PointInRegion reports whether (x, y) lies in the convex hull of region
func PointInRegion(region []*models.Location, x, y string) (bool, error) {
	return pointInRegion(region, x, y, true)
}

// PointInRegionSequence reports whether (x, y) lies in the polygon formed by
// joining region in order
func PointInRegionSequence(region []*models.Location, x, y string) (bool, error) {
	return pointInRegion(region, x, y, false)
}

func pointInRegion(region []*models.Location, x, y string, useHull bool) (bool, error) {
	coords, err := parseShape("region", region)
	if err != nil {
		return false, err
	}
	p, err := parsePoint(x, y)
	if err != nil {
		return false, err
	}

	polygon, err := geometry.BuildPolygon(coords, useHull)
	if err != nil {
		return false, err
	}
	return geo.PointInPolygon(polygon, p), nil
}

// PointsInRegion returns the points inside the convex hull of region
func PointsInRegion(region, points []*models.Location, opts ...batch.Option) ([]*models.Location, error) {
	return pointsInRegion(region, points, true, opts)
}

// PointsInRegionSequence returns the points inside the polygon formed by
// joining region in order
func PointsInRegionSequence(region, points []*models.Location, opts ...batch.Option) ([]*models.Location, error) {
	return pointsInRegion(region, points, false, opts)
}

func pointsInRegion(region, points []*models.Location, useHull bool, opts []batch.Option) ([]*models.Location, error) {
	coords, err := parseShape("region", region)
	if err != nil {
		return nil, err
	}
	items, err := parsePoints(points)
	if err != nil {
		return nil, err
	}

	polygon, err := geometry.BuildPolygon(coords, useHull)
	if err != nil {
		return nil, err
	}
	kept := batch.Filter(items, func(it located) bool {
		return geo.PointInPolygon(polygon, it.coord)
	}, opts...)
	return locations(kept), nil
}

// PointInCircle reports whether (x, y) lies in the circle r
func PointInCircle(r *models.Roundness, x, y string) (bool, error) {
	if err := r.Check(); err != nil {
		return false, err
	}
	p, err := parsePoint(x, y)
	if err != nil {
		return false, err
	}

	circle, err := BuildCircle(r)
	if err != nil {
		return false, err
	}
	return geo.PointInCircle(circle, p), nil
}

// PointsInCircle returns the points inside the circle r
func PointsInCircle(r *models.Roundness, points []*models.Location, opts ...batch.Option) ([]*models.Location, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}
	items, err := parsePoints(points)
	if err != nil {
		return nil, err
	}

	circle, err := BuildCircle(r)
	if err != nil {
		return nil, err
	}
	kept := batch.Filter(items, func(it located) bool {
		return geo.PointInCircle(circle, it.coord)
	}, opts...)
	return locations(kept), nil
}
