package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

// QuadrantSegments is the number of segments used to approximate a quarter
// circle
const QuadrantSegments = 8

// Circle is a circular region approximated by a regular polygon
type Circle struct {
	Center models.Coordinate
	// Radius in meters as requested
	Radius float64
	// PlanarRadius is the buffer distance in degrees
	PlanarRadius float64
	Polygon      orb.Polygon
}

// BuildCircle approximates a circle of radiusM meters around center.
//
// The buffer distance is the degree-space distance from center to the point
// radiusM meters due north of it, so the ground radius is only exact along
// the meridian.
func BuildCircle(center models.Coordinate, radiusM float64) (Circle, error) {
	if math.IsNaN(radiusM) || math.IsInf(radiusM, 0) || radiusM <= 0 {
		return Circle{}, geoerr.Newf(geoerr.InvalidInput, "radius %v must be a positive number", radiusM)
	}

	edge, err := geodesy.Destination(center, 0, radiusM)
	if err != nil {
		return Circle{}, err
	}
	d := planar.Distance(center.Point(), edge.Point())

	ring := bufferPoint(center.Point(), d, QuadrantSegments)
	if len(ring) == 0 {
		return Circle{}, geoerr.Newf(geoerr.InvalidGeometry, "buffer of %v by %v is empty", center, d)
	}

	return Circle{
		Center:       center,
		Radius:       radiusM,
		PlanarRadius: d,
		Polygon:      orb.Polygon{ring},
	}, nil
}

// bufferPoint returns the ring around p at distance d: it starts due east and
// walks clockwise in 4*quadSegs equal steps before closing.
func bufferPoint(p orb.Point, d float64, quadSegs int) orb.Ring {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 || quadSegs < 1 {
		return nil
	}

	n := 4 * quadSegs
	step := 2 * math.Pi / float64(n)
	ring := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		angle := -float64(i) * step
		ring = append(ring, orb.Point{p[0] + d*math.Cos(angle), p[1] + d*math.Sin(angle)})
	}
	return append(ring, ring[0])
}
