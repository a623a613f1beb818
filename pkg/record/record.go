// Package record adapts arbitrary key-value records to the fence API. A
// record's longitude and latitude are read by field name through an Accessor,
// filtered as locations, and matched back to the original records.
package record

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/fence"
	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

// Record is a decoded JSON or YAML object
type Record = map[string]any

// Accessor reads a field of rec as a string. ok is false when the field does
// not exist or cannot be rendered as a string.
type Accessor[T any] func(rec T, field string) (value string, ok bool)

// MapAccessor reads a field from a Record
func MapAccessor(rec Record, field string) (string, bool) {
	v, found := rec[field]
	if !found || v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// Fields names the longitude and latitude fields of a record
type Fields struct {
	Lng string `mapstructure:"lng"`
	Lat string `mapstructure:"lat"`
}

// DefaultFields are the field names used when none are configured
var DefaultFields = Fields{Lng: "lng", Lat: "lat"}

func (f Fields) blank() bool {
	return strings.TrimSpace(f.Lng) == "" || strings.TrimSpace(f.Lat) == ""
}

// Adapter runs fence operations over records of type T
type Adapter[T any] struct {
	Access Accessor[T]
	Fields Fields
	Batch  []batch.Option
	Logger *slog.Logger
}

// New creates an adapter reading fields through access
func New[T any](access Accessor[T], fields Fields, opts ...batch.Option) *Adapter[T] {
	return &Adapter[T]{Access: access, Fields: fields, Batch: opts}
}

// Maps creates an adapter over Records
func Maps(fields Fields, opts ...batch.Option) *Adapter[Record] {
	return New(MapAccessor, fields, opts...)
}

func (a *Adapter[T]) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *Adapter[T]) read(rec T) (lng, lat string, ok bool) {
	lng, okLng := a.Access(rec, a.Fields.Lng)
	lat, okLat := a.Access(rec, a.Fields.Lat)
	if !okLng || !okLat || strings.TrimSpace(lng) == "" || strings.TrimSpace(lat) == "" {
		return "", "", false
	}
	return lng, lat, true
}

// ToLocations reads a location from every record. Records without both
// fields or with values that are not numbers are dropped.
func (a *Adapter[T]) ToLocations(records []T) ([]*models.Location, error) {
	if a.Fields.blank() {
		return nil, nil
	}
	if len(records) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "record list is empty")
	}

	out := make([]*models.Location, 0, len(records))
	for i, rec := range records {
		lng, lat, ok := a.read(rec)
		if !ok {
			a.logger().Debug("dropping record without coordinates", "index", i, "lng_field", a.Fields.Lng, "lat_field", a.Fields.Lat)
			continue
		}
		loc := models.NewLocation(lng, lat)
		if _, err := loc.Coordinate(); err != nil {
			a.logger().Debug("dropping record with bad coordinates", "index", i, "lng", lng, "lat", lat, "error", err)
			continue
		}
		out = append(out, &loc)
	}
	return out, nil
}

// ToLocation reads the location of a single record
func (a *Adapter[T]) ToLocation(rec T) (models.Location, error) {
	locs, err := a.ToLocations([]T{rec})
	if err != nil {
		return models.Location{}, err
	}
	if len(locs) == 0 {
		return models.Location{}, geoerr.Newf(geoerr.MissingInput, "record has no usable (%s, %s)", a.Fields.Lng, a.Fields.Lat)
	}
	return *locs[0], nil
}

// MatchesRecord reports whether rec carries exactly the strings of loc
func (a *Adapter[T]) MatchesRecord(loc models.Location, rec T) (bool, error) {
	fields := a.Fields
	if fields.blank() {
		fields = DefaultFields
	}
	lng, okLng := a.Access(rec, fields.Lng)
	lat, okLat := a.Access(rec, fields.Lat)
	if !okLng || !okLat {
		return false, geoerr.Newf(geoerr.MissingInput, "record has no (%s, %s)", fields.Lng, fields.Lat)
	}
	return loc.Lng == lng && loc.Lat == lat, nil
}

// AttachRecords returns, for each location in order, the record with the
// same coordinate strings. Locations without a record are dropped. Every
// record must carry both fields.
func (a *Adapter[T]) AttachRecords(locs []*models.Location, records []T) ([]T, error) {
	if a.Fields.blank() {
		return nil, nil
	}
	if len(locs) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "location list is empty")
	}
	for i, l := range locs {
		if l == nil {
			return nil, geoerr.Newf(geoerr.MissingInput, "location %d is nil", i)
		}
		if err := l.Check(); err != nil {
			return nil, err
		}
	}
	if len(records) == 0 {
		return nil, geoerr.New(geoerr.MissingInput, "record list is empty")
	}

	byKey := make(map[string]T, len(records))
	for _, rec := range records {
		lng, lat, ok := a.read(rec)
		if !ok {
			return nil, geoerr.Newf(geoerr.MissingInput,
				"there are records without one of the fields (%s,%s)", a.Fields.Lng, a.Fields.Lat)
		}
		byKey[models.MatchKey(lng, lat)] = rec
	}

	out := make([]T, 0, len(locs))
	for _, l := range locs {
		if rec, ok := byKey[l.Key()]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// RecordsInRegion returns the records inside the convex hull of region
func (a *Adapter[T]) RecordsInRegion(region []*models.Location, records []T) ([]T, error) {
	return a.filter(records, func(locs []*models.Location) ([]*models.Location, error) {
		return fence.PointsInRegion(region, locs, a.Batch...)
	})
}

// RecordsInRegionSequence returns the records inside the polygon formed by
// joining region in order
func (a *Adapter[T]) RecordsInRegionSequence(region []*models.Location, records []T) ([]T, error) {
	return a.filter(records, func(locs []*models.Location) ([]*models.Location, error) {
		return fence.PointsInRegionSequence(region, locs, a.Batch...)
	})
}

// RecordsInCircle returns the records inside the circle r
func (a *Adapter[T]) RecordsInCircle(r *models.Roundness, records []T) ([]T, error) {
	return a.filter(records, func(locs []*models.Location) ([]*models.Location, error) {
		return fence.PointsInCircle(r, locs, a.Batch...)
	})
}

// RecordsWithinDistanceOfLine returns the records strictly closer than
// maxDist meters to line
func (a *Adapter[T]) RecordsWithinDistanceOfLine(line []*models.Location, records []T, maxDist string) ([]T, error) {
	return a.filter(records, func(locs []*models.Location) ([]*models.Location, error) {
		return fence.PointsWithinDistanceOfLine(line, locs, maxDist, a.Batch...)
	})
}

// RecordsWithinDistanceOfCurve returns the records at most maxDist meters
// from curve
func (a *Adapter[T]) RecordsWithinDistanceOfCurve(curve []*models.Location, records []T, maxDist string) ([]T, error) {
	return a.filter(records, func(locs []*models.Location) ([]*models.Location, error) {
		return fence.PointsWithinDistanceOfCurve(curve, locs, maxDist, a.Batch...)
	})
}

// DistanceBetween returns the geodesic distance in meters between two records
func (a *Adapter[T]) DistanceBetween(start, end T) (float64, error) {
	from, err := a.ToLocation(start)
	if err != nil {
		return 0, err
	}
	to, err := a.ToLocation(end)
	if err != nil {
		return 0, err
	}
	return fence.Distance(from, to)
}

func (a *Adapter[T]) filter(records []T, op func([]*models.Location) ([]*models.Location, error)) ([]T, error) {
	locs, err := a.ToLocations(records)
	if err != nil {
		return nil, err
	}
	matched, err := op(locs)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return []T{}, nil
	}
	return a.AttachRecords(matched, records)
}

// Load decodes a YAML or JSON sequence of objects
func Load(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to decode records")
	}
	return records, nil
}
