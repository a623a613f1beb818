package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kass/go-geo-fence/pkg/fence"
	"github.com/kass/go-geo-fence/pkg/geo"
	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/models"
	"github.com/kass/go-geo-fence/pkg/transform"
)

var containsCmd = &cobra.Command{
	Use:   "contains",
	Short: "Check whether points lie inside a region",
	Long: `Check points against a region. By default the region is the convex hull of
its points; --sequence uses the points in the given order instead.`,
	Example: `  geofence contains --region "0,0;0,1;1,1;1,0" --point 0.5,0.5 --point 2,2`,
	RunE:    runContains,
}

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Print the constructed region as GeoJSON",
	RunE:  runRegion,
}

var circleCmd = &cobra.Command{
	Use:   "circle",
	Short: "Check points against a geodesic circle",
	Long: `Check points against a circle given by a center and a radius in meters, or
print its 32-segment polygon approximation with --geojson.`,
	Example: `  geofence circle --center 104.0665,30.5728 --radius 500 --point 104.068,30.573`,
	RunE:    runCircle,
}

var distanceCmd = &cobra.Command{
	Use:     "distance <lng,lat> <lng,lat>",
	Short:   "Geodesic distance and initial bearing between two points",
	Args:    cobra.ExactArgs(2),
	Example: `  geofence distance 0,0 1,0`,
	RunE:    runDistance,
}

var lineCmd = &cobra.Command{
	Use:     "line",
	Short:   "Distance from a point to the nearer end of a two point line",
	Example: `  geofence line --points "0,0;1,0" --target 0.9,0 --max 20000`,
	RunE:    func(cmd *cobra.Command, args []string) error { return runProximity(cmd, false) },
}

var curveCmd = &cobra.Command{
	Use:     "curve",
	Short:   "Distance from a point to the nearest vertex of a curve",
	Example: `  geofence curve --points "0,0;0.5,0.5;1,0" --target 0.5,0.4`,
	RunE:    func(cmd *cobra.Command, args []string) error { return runProximity(cmd, true) },
}

var transformCmd = &cobra.Command{
	Use:     "transform <lng> <lat>",
	Short:   "Convert a coordinate between WGS84, GCJ02 and BD09",
	Args:    cobra.ExactArgs(2),
	Example: `  geofence transform --from wgs84 --to bd09 116.404 39.915`,
	RunE:    runTransform,
}

var (
	regionList  string
	regionFile  string
	sequence    bool
	checkPoints []string
	center      string
	radius      string
	emitGeoJSON bool
	shapePoints string
	target      string
	maxDistance string
	fromSystem  string
	toSystem    string
)

func init() {
	for _, cmd := range []*cobra.Command{containsCmd, regionCmd} {
		cmd.Flags().StringVarP(&regionList, "region", "r", "", `Region points as "lng,lat;lng,lat;..."`)
		cmd.Flags().StringVar(&regionFile, "region-file", "", "Region from a GeoJSON polygon, line string or multipoint")
		cmd.Flags().BoolVarP(&sequence, "sequence", "s", false, "Use the points in order instead of their convex hull")
	}
	containsCmd.Flags().StringArrayVarP(&checkPoints, "point", "p", nil, "Point to check as lng,lat (repeatable)")

	circleCmd.Flags().StringVar(&center, "center", "", "Circle center as lng,lat")
	circleCmd.Flags().StringVar(&radius, "radius", "", "Circle radius in meters")
	circleCmd.Flags().StringArrayVarP(&checkPoints, "point", "p", nil, "Point to check as lng,lat (repeatable)")
	circleCmd.Flags().BoolVar(&emitGeoJSON, "geojson", false, "Print the circle polygon as GeoJSON")

	for _, cmd := range []*cobra.Command{lineCmd, curveCmd} {
		cmd.Flags().StringVar(&shapePoints, "points", "", `Shape points as "lng,lat;lng,lat;..."`)
		cmd.Flags().StringVarP(&target, "target", "t", "", "Point to measure from as lng,lat")
		cmd.Flags().StringVar(&maxDistance, "max", "", "Also report whether the distance is below this many meters")
	}

	transformCmd.Flags().StringVar(&fromSystem, "from", "wgs84", "Source system (wgs84, gcj02, bd09)")
	transformCmd.Flags().StringVar(&toSystem, "to", "gcj02", "Target system (wgs84, gcj02, bd09)")
}

func modeName() string {
	if sequence {
		return "sequence"
	}
	return "hull"
}

func runContains(cmd *cobra.Command, args []string) error {
	region, err := regionInput(regionList, regionFile)
	if err != nil {
		return err
	}
	if len(checkPoints) == 0 {
		return errors.New("at least one --point is required")
	}

	check := fence.PointInRegion
	if sequence {
		check = fence.PointInRegionSequence
	}

	out := cmd.OutOrStdout()
	for _, raw := range checkPoints {
		p, err := parseLocation(raw)
		if err != nil {
			return err
		}
		inside, err := check(region, p.Lng, p.Lat)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s,%s\t%s\n", p.Lng, p.Lat, verdict(inside, "inside", "outside"))
	}
	logger.Debug("region checked", "mode", modeName(), "vertices", len(region), "points", len(checkPoints))
	return nil
}

func runRegion(cmd *cobra.Command, args []string) error {
	region, err := regionInput(regionList, regionFile)
	if err != nil {
		return err
	}
	polygon, err := fence.BuildRegion(region, !sequence)
	if err != nil {
		return err
	}

	doc, err := featureJSON(polygon, map[string]any{
		"mode":     modeName(),
		"vertices": len(polygon[0]),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc)
	return nil
}

func runCircle(cmd *cobra.Command, args []string) error {
	c, err := parseLocation(center)
	if err != nil {
		return err
	}
	r := models.NewRoundness(*c, radius)

	if emitGeoJSON {
		circle, err := fence.BuildCircle(r)
		if err != nil {
			return err
		}
		doc, err := featureJSON(circle.Polygon, map[string]any{
			"radius_m":      circle.Radius,
			"planar_radius": circle.PlanarRadius,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	}

	if len(checkPoints) == 0 {
		return errors.New("at least one --point is required unless --geojson is set")
	}
	out := cmd.OutOrStdout()
	for _, raw := range checkPoints {
		p, err := parseLocation(raw)
		if err != nil {
			return err
		}
		inside, err := fence.PointInCircle(r, p.Lng, p.Lat)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s,%s\t%s\n", p.Lng, p.Lat, verdict(inside, "inside", "outside"))
	}
	return nil
}

func runDistance(cmd *cobra.Command, args []string) error {
	a, err := parseLocation(args[0])
	if err != nil {
		return err
	}
	b, err := parseLocation(args[1])
	if err != nil {
		return err
	}

	d, err := fence.Distance(*a, *b)
	if err != nil {
		return err
	}
	ca, err := a.Coordinate()
	if err != nil {
		return err
	}
	cb, err := b.Coordinate()
	if err != nil {
		return err
	}
	bearing, err := geodesy.Bearing(ca, cb)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "distance: %s m\n", paint(statStyle, models.FormatFloat(d)))
	fmt.Fprintf(out, "bearing:  %s°\n", paint(statStyle, fmt.Sprintf("%.6f", bearing)))
	return nil
}

func runProximity(cmd *cobra.Command, curve bool) error {
	shape, err := parseLocations(shapePoints)
	if err != nil {
		return err
	}
	t, err := parseLocation(target)
	if err != nil {
		return err
	}

	build, distance, within := fence.BuildLine, fence.DistanceToLine, fence.WithinDistanceOfLine
	if curve {
		build, distance, within = fence.BuildCurve, fence.DistanceToCurve, fence.WithinDistanceOfCurve
	}

	d, err := distance(shape, t.Lng, t.Lat)
	if err != nil {
		return err
	}
	ls, err := build(shape)
	if err != nil {
		return err
	}
	tc, err := t.Coordinate()
	if err != nil {
		return err
	}
	nearest, err := geo.NearestPointOnCurve(ls, tc)
	if err != nil {
		return err
	}
	bearing, err := geodesy.Bearing(tc, nearest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "distance: %s m\n", paint(statStyle, models.FormatFloat(d)))
	fmt.Fprintf(out, "nearest:  %s,%s (bearing %.2f°)\n",
		models.FormatFloat(nearest.Lng), models.FormatFloat(nearest.Lat), bearing)

	if maxDistance != "" {
		ok, err := within(shape, t.Lng, t.Lat, maxDistance)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "within:   %s\n", verdict(ok, "yes", "no"))
	}
	return nil
}

func runTransform(cmd *cobra.Command, args []string) error {
	from, err := transform.ParseSystem(fromSystem)
	if err != nil {
		return err
	}
	to, err := transform.ParseSystem(toSystem)
	if err != nil {
		return err
	}
	c, err := models.NewLocation(args[0], args[1]).Coordinate()
	if err != nil {
		return err
	}

	lng, lat, err := transform.Convert(c.Lng, c.Lat, from, to)
	if err != nil {
		return err
	}
	if transform.OutOfChina(c.Lng, c.Lat) && from != to && from != transform.BD09 && to != transform.BD09 {
		logger.Warn("coordinate is outside China, returned unchanged", "lng", c.Lng, "lat", c.Lat)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s: %s,%s\n",
		paint(dimStyle, from.String()), models.FormatFloat(c.Lng)+","+models.FormatFloat(c.Lat),
		paint(dimStyle, to.String()), paint(statStyle, models.FormatFloat(lng)), paint(statStyle, models.FormatFloat(lat)))
	return nil
}
