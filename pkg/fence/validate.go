package fence

import (
	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

// located pairs a caller's location with its parsed coordinate
type located struct {
	loc   *models.Location
	coord models.Coordinate
}

// parseShape validates and parses the vertices of a region, line or curve.
// Every vertex must be present.
func parseShape(what string, list []*models.Location) ([]models.Coordinate, error) {
	if len(list) == 0 {
		return nil, geoerr.Newf(geoerr.MissingInput, "%s is empty", what)
	}
	out := make([]models.Coordinate, len(list))
	for i, l := range list {
		if l == nil {
			return nil, geoerr.Newf(geoerr.MissingInput, "%s point %d is nil", what, i)
		}
		c, err := l.Coordinate()
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// parsePoints validates and parses the points of a batch. Nil entries are
// skipped, blank ones are an error.
func parsePoints(points []*models.Location) ([]located, error) {
	if len(points) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "point list is empty")
	}
	out := make([]located, 0, len(points))
	for _, l := range points {
		if l == nil {
			continue
		}
		c, err := l.Coordinate()
		if err != nil {
			return nil, err
		}
		out = append(out, located{loc: l, coord: c})
	}
	return out, nil
}

func parsePoint(x, y string) (models.Coordinate, error) {
	return models.NewLocation(x, y).Coordinate()
}

// parseThreshold parses a distance limit in meters, which must be positive
func parseThreshold(s string) (float64, error) {
	v, err := models.ParseFloat(s)
	if err != nil {
		if geoerr.Is(err, geoerr.MissingInput) {
			return 0, geoerr.New(geoerr.MissingInput, "distance is empty")
		}
		return 0, err
	}
	if v <= 0 {
		return 0, geoerr.Newf(geoerr.InvalidCount, "distance %s must be greater than 0", s)
	}
	return v, nil
}

func locations(items []located) []*models.Location {
	out := make([]*models.Location, len(items))
	for i, it := range items {
		out[i] = it.loc
	}
	return out
}
