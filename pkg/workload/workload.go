// Package workload generates synthetic point sets and times the batch
// filters against them. It backs the bench command and the demo.
package workload

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/geo"
	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/geometry"
	"github.com/kass/go-geo-fence/pkg/models"
)

// Kinds of scenario produced by Scenarios
const (
	KindPolygon = "polygon"
	KindCircle  = "circle"
	KindLine    = "line"
	KindCurve   = "curve"
)

// Kinds lists every scenario kind in run order
var Kinds = []string{KindPolygon, KindCircle, KindLine, KindCurve}

// Area is the region synthetic points are drawn from
type Area struct {
	Center models.Coordinate
	// Radius is the half-width of the area in meters
	Radius float64
}

// DefaultArea is a 20km square around central Chengdu
var DefaultArea = Area{Center: models.Coordinate{Lng: 104.0665, Lat: 30.5728}, Radius: 10000}

// Box returns the bounding box of the area
func (a Area) Box() (models.BoundingBox, error) {
	north, err := geodesy.Destination(a.Center, 0, a.Radius)
	if err != nil {
		return models.BoundingBox{}, err
	}
	east, err := geodesy.Destination(a.Center, 90, a.Radius)
	if err != nil {
		return models.BoundingBox{}, err
	}
	dLng := east.Lng - a.Center.Lng
	dLat := north.Lat - a.Center.Lat
	return models.BoundingBox{
		BottomLeft: models.Coordinate{Lng: a.Center.Lng - dLng, Lat: a.Center.Lat - dLat},
		TopRight:   models.Coordinate{Lng: a.Center.Lng + dLng, Lat: a.Center.Lat + dLat},
	}, nil
}

// RandomPoints generates n points uniformly inside box using all CPUs.
// The same seed always yields the same points.
func RandomPoints(n int, box models.BoundingBox, seed int64) []models.Coordinate {
	if n <= 0 {
		return nil
	}
	points := make([]models.Coordinate, n)

	numWorkers := runtime.NumCPU()
	batchSize := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * batchSize
		if start >= n {
			break
		}
		end := min(start+batchSize, n)

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed + int64(w)))
			for i := start; i < end; i++ {
				points[i] = box.Random(r)
			}
		}(w, start, end)
	}
	wg.Wait()

	return points
}

// Scenario is one filter run over a point set. Run returns the number of
// points kept.
type Scenario struct {
	Kind string
	Run  func(points []models.Coordinate) (int, error)
}

// Scenarios builds one scenario per kind inside area. The polygon is the
// hull of an irregular ring at 60% of the area radius, the circle uses half
// the radius, and the line and curve cross the area with a threshold of a
// tenth of the radius.
func Scenarios(area Area, opts ...batch.Option) ([]Scenario, error) {
	ring, err := star(area.Center, area.Radius*0.6, 12)
	if err != nil {
		return nil, err
	}
	polygon, err := geometry.BuildPolygon(ring, true)
	if err != nil {
		return nil, err
	}

	circle, err := geometry.BuildCircle(area.Center, area.Radius/2)
	if err != nil {
		return nil, err
	}

	west, err := geodesy.Destination(area.Center, 270, area.Radius)
	if err != nil {
		return nil, err
	}
	east, err := geodesy.Destination(area.Center, 90, area.Radius)
	if err != nil {
		return nil, err
	}
	line, err := geometry.BuildLine([]models.Coordinate{west, east})
	if err != nil {
		return nil, err
	}

	wave, err := zigzag(west, east, area.Radius/4, 9)
	if err != nil {
		return nil, err
	}
	curve, err := geometry.BuildCurve(wave)
	if err != nil {
		return nil, err
	}

	threshold := area.Radius / 10

	return []Scenario{
		{Kind: KindPolygon, Run: func(points []models.Coordinate) (int, error) {
			return len(geo.FilterPointsInPolygon(polygon, points, opts...)), nil
		}},
		{Kind: KindCircle, Run: func(points []models.Coordinate) (int, error) {
			return len(geo.FilterPointsInCircle(circle, points, opts...)), nil
		}},
		{Kind: KindLine, Run: func(points []models.Coordinate) (int, error) {
			kept, err := geo.FilterWithinDistanceOfLine(line, points, threshold, opts...)
			return len(kept), err
		}},
		{Kind: KindCurve, Run: func(points []models.Coordinate) (int, error) {
			kept, err := geo.FilterWithinDistanceOfCurve(curve, points, threshold, opts...)
			return len(kept), err
		}},
	}, nil
}

// star returns n points around center alternating between radius and
// 70% of it
func star(center models.Coordinate, radius float64, n int) ([]models.Coordinate, error) {
	out := make([]models.Coordinate, 0, n)
	for i := 0; i < n; i++ {
		r := radius
		if i%2 == 1 {
			r *= 0.7
		}
		p, err := geodesy.Destination(center, float64(i)*360/float64(n), r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// zigzag returns n points from a to b offset alternately north and south
func zigzag(a, b models.Coordinate, amplitude float64, n int) ([]models.Coordinate, error) {
	out := make([]models.Coordinate, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		p := orb.Point{a.Lng + t*(b.Lng-a.Lng), a.Lat + t*(b.Lat-a.Lat)}
		bearing := 0.0
		if i%2 == 1 {
			bearing = 180
		}
		c, err := geodesy.Destination(models.CoordinateFromPoint(p), bearing, amplitude)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Result summarizes repeated runs of one scenario
type Result struct {
	Kind          string
	Points        int
	Runs          int
	TotalDuration time.Duration
	AvgDuration   time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	Matched       int
	PointsPerSec  float64
}

// Measure runs s over points the given number of times. progress, when not
// nil, is called after every run with the number of completed runs.
func Measure(s Scenario, points []models.Coordinate, runs int, progress func(done int)) (Result, error) {
	if runs < 1 {
		runs = 1
	}
	res := Result{
		Kind:        s.Kind,
		Points:      len(points),
		Runs:        runs,
		MinDuration: time.Duration(math.MaxInt64),
	}

	for i := 0; i < runs; i++ {
		start := time.Now()
		matched, err := s.Run(points)
		elapsed := time.Since(start)
		if err != nil {
			return Result{}, err
		}

		res.Matched = matched
		res.TotalDuration += elapsed
		res.MinDuration = min(res.MinDuration, elapsed)
		res.MaxDuration = max(res.MaxDuration, elapsed)
		if progress != nil {
			progress(i + 1)
		}
	}

	res.AvgDuration = res.TotalDuration / time.Duration(runs)
	if secs := res.TotalDuration.Seconds(); secs > 0 {
		res.PointsPerSec = float64(len(points)*runs) / secs
	}
	return res, nil
}
