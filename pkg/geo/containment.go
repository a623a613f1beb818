// Package geo answers containment and proximity questions against shapes
// built by the geometry package.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/geometry"
	"github.com/kass/go-geo-fence/pkg/models"
)

// PointInPolygon reports whether p lies inside polygon or on its boundary
func PointInPolygon(polygon orb.Polygon, p models.Coordinate) bool {
	return planar.PolygonContains(polygon, p.Point())
}

// PointInCircle reports whether p lies inside the circle's polygon or on its
// boundary
func PointInCircle(circle geometry.Circle, p models.Coordinate) bool {
	return PointInPolygon(circle.Polygon, p)
}

// FilterPointsInPolygon returns the points inside polygon, in input order
func FilterPointsInPolygon(polygon orb.Polygon, points []models.Coordinate, opts ...batch.Option) []models.Coordinate {
	return batch.Filter(points, func(p models.Coordinate) bool {
		return PointInPolygon(polygon, p)
	}, opts...)
}

// FilterPointsInCircle returns the points inside circle, in input order
func FilterPointsInCircle(circle geometry.Circle, points []models.Coordinate, opts ...batch.Option) []models.Coordinate {
	return FilterPointsInPolygon(circle.Polygon, points, opts...)
}
