package transform

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-geo-fence/pkg/geoerr"
)

// Chengdu reference values
func TestKnownConversions(t *testing.T) {
	testCases := []struct {
		name             string
		convert          func(lng, lat float64) (float64, float64)
		inLng, inLat     float64
		wantLng, wantLat float64
	}{
		{"gcj02 to wgs84", GCJ02ToWGS84, 104.074702, 30.686747, 104.072178447, 30.689144357},
		{"wgs84 to gcj02", WGS84ToGCJ02, 104.072178447, 30.689144357, 104.074698338, 30.686745304},
		{"bd09 to wgs84", BD09ToWGS84, 104.081201852, 30.692663693, 104.07217476, 30.689142717},
		{"wgs84 to bd09", WGS84ToBD09, 104.072178447, 30.689144357, 104.081201852, 30.692663693},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lng, lat := tc.convert(tc.inLng, tc.inLat)
			assert.InDelta(t, tc.wantLng, lng, 1e-7)
			assert.InDelta(t, tc.wantLat, lat, 1e-7)
		})
	}
}

func TestRoundTripInsideChina(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		lng := 73 + r.Float64()*62
		lat := 18 + r.Float64()*35

		gLng, gLat := WGS84ToGCJ02(lng, lat)
		backLng, backLat := GCJ02ToWGS84(gLng, gLat)
		assert.InDelta(t, lng, backLng, 1e-4)
		assert.InDelta(t, lat, backLat, 1e-4)

		bLng, bLat := WGS84ToBD09(lng, lat)
		backLng, backLat = BD09ToWGS84(bLng, bLat)
		assert.InDelta(t, lng, backLng, 1e-4)
		assert.InDelta(t, lat, backLat, 1e-4)

		gLng, gLat = BD09ToGCJ02(GCJ02ToBD09(lng, lat))
		assert.InDelta(t, lng, gLng, 1e-5)
		assert.InDelta(t, lat, gLat, 1e-5)
	}
}

func TestIdentityOutsideChina(t *testing.T) {
	points := [][2]float64{
		{-122.4194, 37.7749}, // San Francisco
		{2.3522, 48.8566},    // Paris
		{151.2093, -33.8688}, // Sydney
		{139.6503, 35.6762},  // Tokyo
		{72.0, 30.0},
		{100.0, 0.5},
		{100.0, 56.0},
	}
	for _, p := range points {
		require.True(t, OutOfChina(p[0], p[1]))

		lng, lat := GCJ02ToWGS84(p[0], p[1])
		assert.Equal(t, p[0], lng)
		assert.Equal(t, p[1], lat)

		lng, lat = WGS84ToGCJ02(p[0], p[1])
		assert.Equal(t, p[0], lng)
		assert.Equal(t, p[1], lat)
	}
}

func TestOutOfChinaBounds(t *testing.T) {
	assert.False(t, OutOfChina(116.397, 39.908)) // Beijing
	assert.False(t, OutOfChina(72.004, 0.8293))
	assert.False(t, OutOfChina(137.8347, 55.8271))
	assert.True(t, OutOfChina(72.003, 30))
	assert.True(t, OutOfChina(137.8348, 30))
	assert.True(t, OutOfChina(100, 0.8292))
	assert.True(t, OutOfChina(100, 55.8272))
}

func TestConvert(t *testing.T) {
	lng, lat, err := Convert(104.072178447, 30.689144357, WGS84, BD09)
	require.NoError(t, err)
	wantLng, wantLat := WGS84ToBD09(104.072178447, 30.689144357)
	assert.Equal(t, wantLng, lng)
	assert.Equal(t, wantLat, lat)

	lng, lat, err = Convert(1, 2, GCJ02, GCJ02)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lng)
	assert.Equal(t, 2.0, lat)

	_, _, err = Convert(1, 2, System(9), WGS84)
	assert.True(t, geoerr.Is(err, geoerr.InvalidInput))
}

func TestParseSystem(t *testing.T) {
	for name, want := range map[string]System{"WGS84": WGS84, "gcj02": GCJ02, " Bd09 ": BD09} {
		got, err := ParseSystem(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want.String(), got.String())
	}

	_, err := ParseSystem("epsg:3857")
	assert.True(t, geoerr.Is(err, geoerr.InvalidInput))
}

func BenchmarkWGS84ToBD09(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = WGS84ToBD09(116.397, 39.908)
	}
}
