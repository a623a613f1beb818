package models

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/kass/go-geo-fence/pkg/geoerr"
)

// Coordinate is a longitude/latitude pair in decimal degrees
type Coordinate struct {
	Lng float64 `json:"lng" yaml:"lng"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// Point returns the coordinate as an orb point (x = lng, y = lat)
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Location returns the string form of the coordinate
func (c Coordinate) Location() Location {
	return Location{Lng: FormatFloat(c.Lng), Lat: FormatFloat(c.Lat)}
}

// Validate reports whether the coordinate is finite and inside the
// geographic ranges lng [-180,180], lat [-90,90]
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) || math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return geoerr.Newf(geoerr.InvalidInput, "coordinate (%v, %v) is not finite", c.Lng, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 || c.Lat < -90 || c.Lat > 90 {
		return geoerr.Newf(geoerr.InvalidInput, "coordinate (%v, %v) is out of range", c.Lng, c.Lat)
	}
	return nil
}

// CoordinateFromPoint converts an orb point back into a Coordinate
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lng: p.X(), Lat: p.Y()}
}

// Location is the string pair form of a coordinate as it arrives from callers
// and records. Keeping the original strings lets filtered results be matched
// back to their source records.
type Location struct {
	Lng string `json:"lng" yaml:"lng"`
	Lat string `json:"lat" yaml:"lat"`
}

// NewLocation creates a Location from two decimal strings
func NewLocation(lng, lat string) Location {
	return Location{Lng: lng, Lat: lat}
}

// Check fails with MissingInput when either value is blank
func (l Location) Check() error {
	if isBlank(l.Lng) || isBlank(l.Lat) {
		return geoerr.New(geoerr.MissingInput, "x or y is empty")
	}
	return nil
}

// Coordinate parses the location. Blank values are MissingInput, values that
// are not finite numbers are InvalidInput.
func (l Location) Coordinate() (Coordinate, error) {
	if err := l.Check(); err != nil {
		return Coordinate{}, err
	}
	lng, err := ParseFloat(l.Lng)
	if err != nil {
		return Coordinate{}, err
	}
	lat, err := ParseFloat(l.Lat)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Lng: lng, Lat: lat}, nil
}

// Key is the "{lng}_{lat}" key used to match locations against records
func (l Location) Key() string {
	return MatchKey(l.Lng, l.Lat)
}

// MatchKey joins a longitude and latitude string into a match key
func MatchKey(lng, lat string) string {
	return lng + "_" + lat
}

// Roundness describes a circular region: a center and a radius in meters
type Roundness struct {
	Center *Location `json:"centerPoint" yaml:"centerPoint"`
	Radius string    `json:"radius" yaml:"radius"`
}

// NewRoundness creates a circle description from a center and radius string
func NewRoundness(center Location, radius string) *Roundness {
	return &Roundness{Center: &center, Radius: radius}
}

// Check validates that the center and radius are present
func (r *Roundness) Check() error {
	if r == nil {
		return geoerr.New(geoerr.MissingInput, "roundness is nil")
	}
	if r.Center == nil {
		return geoerr.New(geoerr.MissingInput, "center point is nil")
	}
	if err := r.Center.Check(); err != nil {
		return err
	}
	if isBlank(r.Radius) {
		return geoerr.New(geoerr.MissingInput, "radius is empty")
	}
	return nil
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft Coordinate
	TopRight   Coordinate
}

// Random returns a uniformly distributed coordinate inside the box
func (b BoundingBox) Random(r *rand.Rand) Coordinate {
	return Coordinate{
		Lng: b.BottomLeft.Lng + r.Float64()*(b.TopRight.Lng-b.BottomLeft.Lng),
		Lat: b.BottomLeft.Lat + r.Float64()*(b.TopRight.Lat-b.BottomLeft.Lat),
	}
}

// ParseFloat parses a decimal string into a finite float64
func ParseFloat(s string) (float64, error) {
	if isBlank(s) {
		return 0, geoerr.New(geoerr.MissingInput, "value is empty")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, geoerr.Newf(geoerr.InvalidInput, "%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, geoerr.Newf(geoerr.InvalidInput, "%q is not finite", s)
	}
	return v, nil
}

// FormatFloat renders a float64 in its shortest round-tripping decimal form,
// always in fixed notation ('f', -1) so large or tiny values never use an exponent
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
