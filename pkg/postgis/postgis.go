// Package postgis evaluates the engine's predicates in PostGIS so results can
// be cross-checked. It only issues read-only queries.
package postgis

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/kass/go-geo-fence/pkg/models"
)

// Verifier runs geometry predicates against a PostGIS server
type Verifier struct {
	db *sql.DB
}

// NewVerifier opens a PostGIS connection
func NewVerifier(ctx context.Context, connStr string) (*Verifier, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Verifier{db: db}, nil
}

// Version returns the PostGIS version string
func (v *Verifier) Version(ctx context.Context) (string, error) {
	var version string
	if err := v.db.QueryRowContext(ctx, `SELECT PostGIS_Version()`).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query postgis version: %w", err)
	}
	return version, nil
}

// Covers reports whether polygon covers p, boundary included
func (v *Verifier) Covers(ctx context.Context, polygon orb.Polygon, p models.Coordinate) (bool, error) {
	query := `
		SELECT ST_Covers(
			ST_GeomFromText($1, 4326),
			ST_SetSRID(ST_MakePoint($2, $3), 4326)
		)
	`

	var covered bool
	if err := v.db.QueryRowContext(ctx, query, wkt.MarshalString(polygon), p.Lng, p.Lat).Scan(&covered); err != nil {
		return false, fmt.Errorf("failed to execute covers query: %w", err)
	}
	return covered, nil
}

// CoversAll evaluates Covers for every point in one round trip and returns
// the flags in input order
func (v *Verifier) CoversAll(ctx context.Context, polygon orb.Polygon, points []models.Coordinate) ([]bool, error) {
	if len(points) == 0 {
		return nil, nil
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.Point()
	}
	query := `
		SELECT ST_Covers(ST_GeomFromText($1, 4326), d.geom)
		FROM ST_Dump(ST_GeomFromText($2, 4326)) AS d
		ORDER BY d.path[1]
	`

	rows, err := v.db.QueryContext(ctx, query, wkt.MarshalString(polygon), wkt.MarshalString(mp))
	if err != nil {
		return nil, fmt.Errorf("failed to execute covers query: %w", err)
	}
	defer rows.Close()

	out := make([]bool, 0, len(points))
	for rows.Next() {
		var covered bool
		if err := rows.Scan(&covered); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, covered)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	if len(out) != len(points) {
		return nil, fmt.Errorf("expected %d rows, got %d", len(points), len(out))
	}
	return out, nil
}

// Distance returns the spheroidal distance in meters between a and b
func (v *Verifier) Distance(ctx context.Context, a, b models.Coordinate) (float64, error) {
	query := `
		SELECT ST_Distance(
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
			true
		)
	`

	var d float64
	if err := v.db.QueryRowContext(ctx, query, a.Lng, a.Lat, b.Lng, b.Lat).Scan(&d); err != nil {
		return 0, fmt.Errorf("failed to execute distance query: %w", err)
	}
	return d, nil
}

// Close closes the database connection
func (v *Verifier) Close() error {
	return v.db.Close()
}
