package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

// NearestPointOnCurve returns the vertex of curve closest to target in
// degree space. Segments are not projected onto; the first of several equally
// close vertices wins.
func NearestPointOnCurve(curve orb.LineString, target models.Coordinate) (models.Coordinate, error) {
	if len(curve) == 0 {
		return models.Coordinate{}, geoerr.New(geoerr.MissingInput, "curve has no vertices")
	}

	tp := target.Point()
	best := curve[0]
	bestDist := math.Inf(1)
	for _, v := range curve {
		if d := planar.Distance(v, tp); d < bestDist {
			best, bestDist = v, d
		}
	}
	return models.CoordinateFromPoint(best), nil
}

// DistanceToLine returns the geodesic distance in meters from target to the
// nearest vertex of a two point line
func DistanceToLine(line orb.LineString, target models.Coordinate) (float64, error) {
	if len(line) != 2 {
		return 0, geoerr.Newf(geoerr.InvalidCount, "a line needs exactly 2 points, got %d", len(line))
	}
	return distanceToVertices(line, target)
}

// DistanceToCurve returns the geodesic distance in meters from target to the
// nearest vertex of curve
func DistanceToCurve(curve orb.LineString, target models.Coordinate) (float64, error) {
	if len(curve) < 3 {
		return 0, geoerr.Newf(geoerr.InvalidCount, "a curve needs at least 3 points, got %d", len(curve))
	}
	return distanceToVertices(curve, target)
}

func distanceToVertices(ls orb.LineString, target models.Coordinate) (float64, error) {
	nearest, err := NearestPointOnCurve(ls, target)
	if err != nil {
		return 0, err
	}
	return geodesy.Distance(target, nearest)
}

// FilterWithinDistanceOfLine returns the points strictly closer than maxDist
// meters to line, in input order
func FilterWithinDistanceOfLine(line orb.LineString, points []models.Coordinate, maxDist float64, opts ...batch.Option) ([]models.Coordinate, error) {
	if len(line) != 2 {
		return nil, geoerr.Newf(geoerr.InvalidCount, "a line needs exactly 2 points, got %d", len(line))
	}
	if err := checkThreshold(maxDist); err != nil {
		return nil, err
	}
	return batch.TryFilter(points, func(p models.Coordinate) (bool, error) {
		d, err := distanceToVertices(line, p)
		return err == nil && d < maxDist, err
	}, opts...)
}

// FilterWithinDistanceOfCurve returns the points at most maxDist meters from
// curve, in input order
func FilterWithinDistanceOfCurve(curve orb.LineString, points []models.Coordinate, maxDist float64, opts ...batch.Option) ([]models.Coordinate, error) {
	if len(curve) < 3 {
		return nil, geoerr.Newf(geoerr.InvalidCount, "a curve needs at least 3 points, got %d", len(curve))
	}
	if err := checkThreshold(maxDist); err != nil {
		return nil, err
	}
	return batch.TryFilter(points, func(p models.Coordinate) (bool, error) {
		d, err := distanceToVertices(curve, p)
		return err == nil && d <= maxDist, err
	}, opts...)
}

func checkThreshold(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return geoerr.Newf(geoerr.InvalidInput, "distance %v is not finite", v)
	}
	if v <= 0 {
		return geoerr.Newf(geoerr.InvalidCount, "distance %v must be greater than 0", v)
	}
	return nil
}
