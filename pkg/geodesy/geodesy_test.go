package geodesy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/models"
)

func TestDistanceKnownValues(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  models.Coordinate
		want  float64
		delta float64
	}{
		{"same point", models.Coordinate{Lng: 113.1, Lat: 34.5}, models.Coordinate{Lng: 113.1, Lat: 34.5}, 0, 1e-9},
		{"one degree of longitude on the equator", models.Coordinate{}, models.Coordinate{Lng: 1}, 111319.4908, 1e-3},
		{"one degree of latitude from the equator", models.Coordinate{}, models.Coordinate{Lat: 1}, 110574.3886, 1e-3},
		{"scenario three target", models.Coordinate{Lng: 0.5, Lat: 0.0001}, models.Coordinate{}, 55659.75, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Distance(tc.a, tc.b)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, d, tc.delta)
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := models.Coordinate{Lng: r.Float64()*360 - 180, Lat: r.Float64()*180 - 90}
		b := models.Coordinate{Lng: r.Float64()*360 - 180, Lat: r.Float64()*180 - 90}

		ab, err := Distance(a, b)
		require.NoError(t, err)
		ba, err := Distance(b, a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-6, "a=%v b=%v", a, b)
		assert.True(t, ab >= 0)
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	start := models.Coordinate{Lng: 113.12345, Lat: 34.56789}
	for _, bearing := range []float64{0, 45, 90, 135, 180, -90} {
		for _, dist := range []float64{1, 1000, 250000} {
			end, err := Destination(start, bearing, dist)
			require.NoError(t, err)

			back, err := Distance(start, end)
			require.NoError(t, err)
			assert.InDelta(t, dist, back, 1e-6)

			azi, err := Bearing(start, end)
			require.NoError(t, err)
			diff := math.Mod(azi-bearing+540, 360) - 180
			assert.InDelta(t, 0, diff, 1e-6)
		}
	}
}

func TestDestinationNorth(t *testing.T) {
	end, err := Destination(models.Coordinate{}, 0, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 0, end.Lng, 1e-12)
	assert.InDelta(t, 1000/110574.3886, end.Lat, 1e-6)
}

func TestNonFiniteInput(t *testing.T) {
	_, err := Distance(models.Coordinate{Lng: math.NaN()}, models.Coordinate{})
	assert.True(t, geoerr.Is(err, geoerr.GeodeticFailure))

	_, err = Destination(models.Coordinate{}, 0, math.Inf(1))
	assert.True(t, geoerr.Is(err, geoerr.GeodeticFailure))

	_, err = Bearing(models.Coordinate{}, models.Coordinate{Lat: math.Inf(-1)})
	assert.True(t, geoerr.Is(err, geoerr.GeodeticFailure))
}

func TestDestinationOutOfRange(t *testing.T) {
	assert.InDelta(t, 20003931.4586, MaxOrthodromicDistance, 1e-3)

	tests := []struct {
		name     string
		distance float64
		ok       bool
	}{
		{"zero", 0, true},
		{"half meridian", MaxOrthodromicDistance, true},
		{"negative", -1, false},
		{"past antipode", MaxOrthodromicDistance + 1, false},
		{"huge", 1e12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Destination(models.Coordinate{}, 0, tt.distance)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, geoerr.Is(err, geoerr.GeodeticFailure), "err=%v", err)
		})
	}
}

func BenchmarkDistance(b *testing.B) {
	a := models.Coordinate{Lng: 113.12345, Lat: 34.56789}
	c := models.Coordinate{Lng: 113.98765, Lat: 34.87654}
	for i := 0; i < b.N; i++ {
		_, _ = Distance(a, c)
	}
}
