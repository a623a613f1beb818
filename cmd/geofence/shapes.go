package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/kass/go-geo-fence/pkg/models"
)

// parseLocations parses "lng,lat;lng,lat;..." into locations. Values are
// kept as strings so the fence package does the validation.
func parseLocations(s string) ([]*models.Location, error) {
	var out []*models.Location
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		loc, err := parseLocation(part)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

// parseLocation parses a single "lng,lat" pair
func parseLocation(s string) (*models.Location, error) {
	lng, lat, ok := strings.Cut(s, ",")
	if !ok {
		return nil, errors.Errorf("invalid coordinate %q, want lng,lat", s)
	}
	loc := models.NewLocation(strings.TrimSpace(lng), strings.TrimSpace(lat))
	return &loc, nil
}

// regionInput resolves --region or --region-file into a point list
func regionInput(list, file string) ([]*models.Location, error) {
	switch {
	case list != "" && file != "":
		return nil, errors.New("use either --region or --region-file, not both")
	case file != "":
		return readRegionFile(file)
	default:
		return parseLocations(list)
	}
}

// readRegionFile reads the first polygon, line string or multipoint of a
// GeoJSON geometry, feature or feature collection. A closing vertex is
// dropped since region construction closes the ring itself.
func readRegionFile(path string) ([]*models.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read region file %s", path)
	}

	g, err := decodeGeoJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode region file %s", path)
	}

	var pts []orb.Point
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			pts = g[0]
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			pts = g[0][0]
		}
	case orb.Ring:
		pts = g
	case orb.LineString:
		pts = g
	case orb.MultiPoint:
		pts = g
	default:
		return nil, errors.Errorf("region file %s: unsupported geometry %T", path, g)
	}

	if n := len(pts); n > 1 && pts[0].Equal(pts[n-1]) {
		pts = pts[:n-1]
	}

	out := make([]*models.Location, len(pts))
	for i, p := range pts {
		loc := models.CoordinateFromPoint(p).Location()
		out[i] = &loc
	}
	return out, nil
}

func decodeGeoJSON(data []byte) (orb.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		if len(fc.Features) == 0 {
			return nil, errors.New("feature collection is empty")
		}
		return fc.Features[0].Geometry, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return f.Geometry, nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		return g.Geometry(), nil
	}
}

// featureJSON renders g as an indented GeoJSON feature
func featureJSON(g orb.Geometry, props map[string]any) (string, error) {
	f := geojson.NewFeature(g)
	for k, v := range props {
		f.Properties[k] = v
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode geojson")
	}
	return string(data), nil
}
