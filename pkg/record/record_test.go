package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/logging"
	"github.com/kass/go-geo-fence/pkg/models"
)

func loc(lng, lat string) *models.Location {
	l := models.NewLocation(lng, lat)
	return &l
}

func square() []*models.Location {
	return []*models.Location{loc("0", "0"), loc("0", "1"), loc("1", "1"), loc("1", "0")}
}

func quiet(a *Adapter[Record]) *Adapter[Record] {
	a.Logger = logging.Discard()
	return a
}

func TestMapAccessor(t *testing.T) {
	rec := Record{"s": "104.07", "f": 30.5, "i": 12, "nil": nil, "m": map[string]any{}}

	testCases := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"s", "104.07", true},
		{"f", "30.5", true},
		{"i", "12", true},
		{"nil", "", false},
		{"missing", "", false},
		{"m", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.field, func(t *testing.T) {
			got, ok := MapAccessor(rec, tc.field)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToLocations(t *testing.T) {
	a := quiet(Maps(DefaultFields))
	records := []Record{
		{"lng": "0.5", "lat": "0.5"},
		{"lng": "0.5"},
		{"lng": "", "lat": "1"},
		{"lng": "east", "lat": "1"},
		{"lng": 2.25, "lat": 3},
	}

	got, err := a.ToLocations(records)
	require.NoError(t, err)
	assert.Equal(t, []*models.Location{loc("0.5", "0.5"), loc("2.25", "3")}, got)

	_, err = a.ToLocations(nil)
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))

	got, err = quiet(Maps(Fields{Lng: " ", Lat: "lat"})).ToLocations(records)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToLocation(t *testing.T) {
	a := quiet(Maps(Fields{Lng: "x", Lat: "y"}))

	got, err := a.ToLocation(Record{"x": "1", "y": "2"})
	require.NoError(t, err)
	assert.Equal(t, models.NewLocation("1", "2"), got)

	_, err = a.ToLocation(Record{"x": "1"})
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))
}

func TestMatchesRecord(t *testing.T) {
	a := Maps(Fields{})
	l := models.NewLocation("1.5", "2")

	ok, err := a.MatchesRecord(l, Record{"lng": "1.5", "lat": "2"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.MatchesRecord(l, Record{"lng": "1.50", "lat": "2"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = a.MatchesRecord(l, Record{"lng": "1.5"})
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))
}

func TestAttachRecords(t *testing.T) {
	a := Maps(DefaultFields)
	first := Record{"id": 1, "lng": "1", "lat": "1"}
	second := Record{"id": 2, "lng": "2", "lat": "2"}
	records := []Record{first, second}

	got, err := a.AttachRecords([]*models.Location{loc("2", "2"), loc("9", "9"), loc("1", "1")}, records)
	require.NoError(t, err)
	assert.Equal(t, []Record{second, first}, got)

	_, err = a.AttachRecords(nil, records)
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))

	_, err = a.AttachRecords([]*models.Location{loc("1", "1")}, append(records, Record{"lng": "3"}))
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))

	got, err = Maps(Fields{Lng: "lng"}).AttachRecords([]*models.Location{loc("1", "1")}, records)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordsInRegion(t *testing.T) {
	a := quiet(Maps(DefaultFields))
	inside := Record{"name": "inside", "lng": 0.5, "lat": 0.5}
	outside := Record{"name": "outside", "lng": 2, "lat": 2}
	edge := Record{"name": "edge", "lng": "1", "lat": "0.3"}
	records := []Record{inside, outside, edge}

	got, err := a.RecordsInRegion(square(), records)
	require.NoError(t, err)
	assert.Equal(t, []Record{inside, edge}, got)

	got, err = a.RecordsInRegionSequence(square(), records)
	require.NoError(t, err)
	assert.Equal(t, []Record{inside, edge}, got)

	got, err = a.RecordsInRegion(square(), []Record{outside})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	_, err = a.RecordsInRegion(nil, records)
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))
}

func TestRecordsInCircle(t *testing.T) {
	a := quiet(Maps(DefaultFields))
	near := Record{"lng": "0", "lat": "0.001"}
	far := Record{"lng": "0", "lat": "1"}

	got, err := a.RecordsInCircle(models.NewRoundness(models.NewLocation("0", "0"), "1000"), []Record{far, near})
	require.NoError(t, err)
	assert.Equal(t, []Record{near}, got)
}

func TestRecordsWithinDistance(t *testing.T) {
	a := quiet(Maps(DefaultFields))
	line := []*models.Location{loc("0", "0"), loc("0", "1")}
	curve := []*models.Location{loc("0", "0"), loc("0", "1"), loc("0", "2")}
	near := Record{"lng": "0.0001", "lat": "1"}
	far := Record{"lng": "1", "lat": "0"}

	got, err := a.RecordsWithinDistanceOfLine(line, []Record{far, near}, "100")
	require.NoError(t, err)
	assert.Equal(t, []Record{near}, got)

	got, err = a.RecordsWithinDistanceOfCurve(curve, []Record{far, near}, "100")
	require.NoError(t, err)
	assert.Equal(t, []Record{near}, got)

	_, err = a.RecordsWithinDistanceOfCurve(curve, []Record{near}, "")
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))
}

func TestDistanceBetween(t *testing.T) {
	a := quiet(Maps(DefaultFields))

	d, err := a.DistanceBetween(Record{"lng": 0, "lat": 0}, Record{"lng": 1, "lat": 0})
	require.NoError(t, err)
	assert.InDelta(t, 111319.4908, d, 1e-3)

	_, err = a.DistanceBetween(Record{"lng": 0}, Record{"lng": 1, "lat": 0})
	assert.True(t, geoerr.Is(err, geoerr.MissingInput))
}

type stop struct {
	ID       string
	Lng, Lat string
}

func TestCustomAccessor(t *testing.T) {
	access := func(s stop, field string) (string, bool) {
		switch field {
		case "lng":
			return s.Lng, true
		case "lat":
			return s.Lat, true
		}
		return "", false
	}
	a := New(access, DefaultFields)
	stops := []stop{{"a", "0.2", "0.2"}, {"b", "3", "3"}}

	got, err := a.RecordsInRegion(square(), stops)
	require.NoError(t, err)
	assert.Equal(t, []stop{{"a", "0.2", "0.2"}}, got)
}

func TestLoad(t *testing.T) {
	yamlInput := `
- name: depot
  lng: 104.07
  lat: 30.67
- name: shop
  lng: "104.08"
  lat: "30.68"
`
	records, err := Load(strings.NewReader(yamlInput))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "depot", records[0]["name"])

	lng, ok := MapAccessor(records[0], "lng")
	assert.True(t, ok)
	assert.Equal(t, "104.07", lng)

	records, err = Load(strings.NewReader(`[{"lng": 1, "lat": 2}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	records, err = Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = Load(strings.NewReader("lng: 1"))
	assert.Error(t, err)
}
