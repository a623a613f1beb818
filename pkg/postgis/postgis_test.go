package postgis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-geo-fence/pkg/geo"
	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/geometry"
	"github.com/kass/go-geo-fence/pkg/models"
)

// These tests need a PostGIS server, e.g.
// GEOFENCE_POSTGIS_DSN="host=localhost user=postgres dbname=geodb sslmode=disable"
func newTestVerifier(t *testing.T) (*Verifier, context.Context) {
	dsn := os.Getenv("GEOFENCE_POSTGIS_DSN")
	if dsn == "" {
		t.Skip("GEOFENCE_POSTGIS_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	v, err := NewVerifier(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return v, ctx
}

func TestCoversMatchesEngine(t *testing.T) {
	v, ctx := newTestVerifier(t)

	square, err := geometry.BuildPolygon([]models.Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}, {Lng: 1, Lat: 0}}, false)
	require.NoError(t, err)

	points := []models.Coordinate{{Lng: 0.5, Lat: 0.5}, {Lng: 2, Lat: 2}, {Lng: 0.5, Lat: 0}, {Lng: 1, Lat: 1}}
	for _, p := range points {
		covered, err := v.Covers(ctx, square, p)
		require.NoError(t, err)
		assert.Equal(t, geo.PointInPolygon(square, p), covered, "point %v", p)
	}

	flags, err := v.CoversAll(ctx, square, points)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, flags)
}

func TestDistanceMatchesEngine(t *testing.T) {
	v, ctx := newTestVerifier(t)

	a := models.Coordinate{Lng: 104.0665, Lat: 30.5728}
	b := models.Coordinate{Lng: 104.1, Lat: 30.6}

	want, err := geodesy.Distance(a, b)
	require.NoError(t, err)
	got, err := v.Distance(ctx, a, b)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 0.01)

	version, err := v.Version(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, version)
}
