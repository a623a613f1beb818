package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kass/go-geo-fence/pkg/fence"
	"github.com/kass/go-geo-fence/pkg/geo"
	"github.com/kass/go-geo-fence/pkg/geodesy"
	"github.com/kass/go-geo-fence/pkg/models"
	"github.com/kass/go-geo-fence/pkg/postgis"
	"github.com/kass/go-geo-fence/pkg/workload"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check containment and distance results against PostGIS",
	Long: `Generate random points around a region and compare the engine's containment
and geodesic distance results with ST_Covers and ST_Distance on the configured
PostGIS server. Exits non-zero when they disagree.`,
	Example: `  geofence verify --region "104.05,30.56;104.08,30.56;104.08,30.59;104.05,30.59" --points 5000`,
	RunE:    runVerify,
}

var (
	verifyPoints    int
	verifySeed      int64
	verifyTolerance float64
	verifyTimeout   time.Duration
	verifyShow      int
)

func init() {
	verifyCmd.Flags().StringVarP(&regionList, "region", "r", "", `Region points as "lng,lat;lng,lat;..."`)
	verifyCmd.Flags().StringVar(&regionFile, "region-file", "", "Region from a GeoJSON polygon, line string or multipoint")
	verifyCmd.Flags().BoolVarP(&sequence, "sequence", "s", false, "Use the points in order instead of their convex hull")
	verifyCmd.Flags().IntVarP(&verifyPoints, "points", "n", 1000, "Number of random points")
	verifyCmd.Flags().Int64Var(&verifySeed, "seed", 1, "Random seed")
	verifyCmd.Flags().Float64Var(&verifyTolerance, "tolerance", 0.01, "Allowed distance difference in meters")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "Overall timeout")
	verifyCmd.Flags().IntVar(&verifyShow, "show", 10, "Disagreements to print")
}

func runVerify(cmd *cobra.Command, args []string) error {
	region, err := regionInput(regionList, regionFile)
	if err != nil {
		return err
	}
	polygon, err := fence.BuildRegion(region, !sequence)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	v, err := postgis.NewVerifier(ctx, cfg.PostGIS.ConnString())
	if err != nil {
		return err
	}
	defer v.Close()

	version, err := v.Version(ctx)
	if err != nil {
		return err
	}
	logger.Info("connected to postgis", "version", version)

	// sample a box 20% larger than the region
	bound := polygon.Bound()
	bound = bound.Pad(0.1 * math.Max(bound.Right()-bound.Left(), bound.Top()-bound.Bottom()))
	box := models.BoundingBox{
		BottomLeft: models.CoordinateFromPoint(bound.Min),
		TopRight:   models.CoordinateFromPoint(bound.Max),
	}
	points := workload.RandomPoints(verifyPoints, box, verifySeed)

	covered, err := v.CoversAll(ctx, polygon, points)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	containMismatch := 0
	for i, p := range points {
		engine := geo.PointInPolygon(polygon, p)
		if engine == covered[i] {
			continue
		}
		containMismatch++
		if containMismatch <= verifyShow {
			fmt.Fprintf(out, "  %s %s,%s engine=%t postgis=%t\n", paint(errorStyle, "contains"),
				models.FormatFloat(p.Lng), models.FormatFloat(p.Lat), engine, covered[i])
		}
	}

	distMismatch := 0
	worst := 0.0
	for i := 1; i < len(points); i++ {
		want, err := v.Distance(ctx, points[i-1], points[i])
		if err != nil {
			return err
		}
		got, err := geodesy.Distance(points[i-1], points[i])
		if err != nil {
			return err
		}
		diff := math.Abs(got - want)
		worst = math.Max(worst, diff)
		if diff <= verifyTolerance {
			continue
		}
		distMismatch++
		if distMismatch <= verifyShow {
			fmt.Fprintf(out, "  %s pair %d engine=%.4f postgis=%.4f\n", paint(errorStyle, "distance"), i, got, want)
		}
	}

	fmt.Fprintf(out, "containment: %s of %d points disagree\n", paint(statStyle, fmt.Sprintf("%d", containMismatch)), len(points))
	fmt.Fprintf(out, "distance:    %s of %d pairs beyond %gm (worst %.6fm)\n",
		paint(statStyle, fmt.Sprintf("%d", distMismatch)), max(len(points)-1, 0), verifyTolerance, worst)

	if containMismatch > 0 || distMismatch > 0 {
		return errors.Errorf("engine disagrees with postgis %s", version)
	}
	fmt.Fprintln(out, verdict(true, "engine agrees with postgis "+version, ""))
	return nil
}
