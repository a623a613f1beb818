package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-geo-fence/pkg/batch"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geofence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "lng", cfg.Fields.Lng)
	assert.Equal(t, "lat", cfg.Fields.Lat)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.Equal(t, batch.DefaultSequentialBelow, cfg.Batch.SequentialBelow)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=geodb sslmode=disable", cfg.PostGIS.ConnString())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
fields:
  lng: longitude
  lat: latitude
batch:
  workers: 3
log:
  level: debug
  format: json
postgis:
  dsn: postgres://geo@db/geodb
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "longitude", cfg.Fields.Lng)
	assert.Equal(t, "latitude", cfg.Fields.Lat)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, batch.DefaultSequentialBelow, cfg.Batch.SequentialBelow)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres://geo@db/geodb", cfg.PostGIS.ConnString())
	assert.Len(t, cfg.Batch.Options(), 1)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GEOFENCE_BATCH_WORKERS", "5")
	t.Setenv("GEOFENCE_FIELDS_LNG", "x")

	cfg, err := Load(writeConfig(t, "batch:\n  workers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Batch.Workers)
	assert.Equal(t, "x", cfg.Fields.Lng)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
batch:
  workers: 0
  sequential_below: -1
log:
  format: xml
postgis:
  port: 0
`))
	assert.Nil(t, cfg)
	require.Error(t, err)
	for _, want := range []string{"batch.workers", "batch.sequential_below", "log.format", "postgis.port"} {
		assert.Contains(t, err.Error(), want)
	}
}
