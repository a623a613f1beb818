package fence

import (
	"github.com/paulmach/orb"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/geo"
	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/geometry"
	"github.com/kass/go-geo-fence/pkg/models"
)

// Distance returns the geodesic distance in meters between two locations
func Distance(start, end models.Location) (float64, error) {
	a, err := start.Coordinate()
	if err != nil {
		return 0, err
	}
	b, err := end.Coordinate()
	if err != nil {
		return 0, err
	}
	return geodesy.Distance(a, b)
}

// BuildLine parses and builds a two point line
func BuildLine(line []*models.Location) (orb.LineString, error) {
	coords, err := parseShape("line", line)
	if err != nil {
		return nil, err
	}
	return geometry.BuildLine(coords)
}

// BuildCurve parses and builds a curve of three or more points
func BuildCurve(curve []*models.Location) (orb.LineString, error) {
	coords, err := parseShape("curve", curve)
	if err != nil {
		return nil, err
	}
	return geometry.BuildCurve(coords)
}

// DistanceToLine returns the distance in meters from (x, y) to the nearest
// end of line
func DistanceToLine(line []*models.Location, x, y string) (float64, error) {
	return distanceTo(BuildLine, geo.DistanceToLine, line, x, y)
}

// DistanceToCurve returns the distance in meters from (x, y) to the nearest
// vertex of curve
func DistanceToCurve(curve []*models.Location, x, y string) (float64, error) {
	return distanceTo(BuildCurve, geo.DistanceToCurve, curve, x, y)
}

// WithinDistanceOfLine reports whether (x, y) is strictly closer than
// maxDist meters to line
func WithinDistanceOfLine(line []*models.Location, x, y, maxDist string) (bool, error) {
	return within(BuildLine, geo.DistanceToLine, line, x, y, maxDist)
}

// WithinDistanceOfCurve reports whether (x, y) is strictly closer than
// maxDist meters to curve
func WithinDistanceOfCurve(curve []*models.Location, x, y, maxDist string) (bool, error) {
	return within(BuildCurve, geo.DistanceToCurve, curve, x, y, maxDist)
}

// PointsWithinDistanceOfLine returns the points strictly closer than maxDist
// meters to line
func PointsWithinDistanceOfLine(line, points []*models.Location, maxDist string, opts ...batch.Option) ([]*models.Location, error) {
	return pointsWithin(BuildLine, geo.FilterWithinDistanceOfLine, line, points, maxDist, opts)
}

// PointsWithinDistanceOfCurve returns the points at most maxDist meters from
// curve
func PointsWithinDistanceOfCurve(curve, points []*models.Location, maxDist string, opts ...batch.Option) ([]*models.Location, error) {
	return pointsWithin(BuildCurve, geo.FilterWithinDistanceOfCurve, curve, points, maxDist, opts)
}

type (
	shapeBuilder  func([]*models.Location) (orb.LineString, error)
	distanceFunc  func(orb.LineString, models.Coordinate) (float64, error)
	filterByRange func(orb.LineString, []models.Coordinate, float64, ...batch.Option) ([]models.Coordinate, error)
)

func distanceTo(build shapeBuilder, dist distanceFunc, shape []*models.Location, x, y string) (float64, error) {
	p, err := parsePoint(x, y)
	if err != nil {
		return 0, err
	}
	ls, err := build(shape)
	if err != nil {
		return 0, err
	}
	return dist(ls, p)
}

func within(build shapeBuilder, dist distanceFunc, shape []*models.Location, x, y, maxDist string) (bool, error) {
	limit, err := parseThreshold(maxDist)
	if err != nil {
		return false, err
	}
	d, err := distanceTo(build, dist, shape, x, y)
	if err != nil {
		return false, err
	}
	return d < limit, nil
}

func pointsWithin(build shapeBuilder, filter filterByRange, shape, points []*models.Location, maxDist string, opts []batch.Option) ([]*models.Location, error) {
	ls, err := build(shape)
	if err != nil {
		return nil, err
	}
	items, err := parsePoints(points)
	if err != nil {
		return nil, err
	}
	limit, err := parseThreshold(maxDist)
	if err != nil {
		return nil, err
	}

	coords := make([]models.Coordinate, len(items))
	for i, it := range items {
		coords[i] = it.coord
	}
	kept, err := filter(ls, coords, limit, opts...)
	if err != nil {
		return nil, err
	}

	// kept is an ordered subsequence of coords; walk both to recover the
	// caller's locations
	out := make([]*models.Location, 0, len(kept))
	j := 0
	for _, it := range items {
		if j < len(kept) && it.coord == kept[j] {
			out = append(out, it.loc)
			j++
		}
	}
	return out, nil
}
