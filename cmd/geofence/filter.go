package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kass/go-geo-fence/pkg/models"
	"github.com/kass/go-geo-fence/pkg/record"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a YAML or JSON record file by region, circle, line or curve",
	Long: `Read a sequence of records, each carrying longitude and latitude fields
(configured under fields.lng and fields.lat), and print the records that match
exactly one shape: --region, --center/--radius, --line or --curve.`,
	Example: `  geofence filter --records shops.yaml --center 104.0665,30.5728 --radius 1000
  geofence filter --records shops.json --curve "104.06,30.57;104.07,30.58;104.08,30.57" --max 300 --output json`,
	RunE: runFilter,
}

var (
	recordsFile  string
	filterRegion string
	filterLine   string
	filterCurve  string
	filterCenter string
	filterRadius string
	filterMax    string
	filterSeq    bool
	lngField     string
	latField     string
	outputFormat string
)

func init() {
	filterCmd.Flags().StringVarP(&recordsFile, "records", "f", "-", "Record file, - for stdin")
	filterCmd.Flags().StringVarP(&filterRegion, "region", "r", "", `Region points as "lng,lat;lng,lat;..."`)
	filterCmd.Flags().BoolVarP(&filterSeq, "sequence", "s", false, "Use the region points in order instead of their convex hull")
	filterCmd.Flags().StringVar(&filterCenter, "center", "", "Circle center as lng,lat")
	filterCmd.Flags().StringVar(&filterRadius, "radius", "", "Circle radius in meters")
	filterCmd.Flags().StringVar(&filterLine, "line", "", `Two point line as "lng,lat;lng,lat"`)
	filterCmd.Flags().StringVar(&filterCurve, "curve", "", `Curve points as "lng,lat;lng,lat;..."`)
	filterCmd.Flags().StringVar(&filterMax, "max", "", "Distance threshold in meters for --line and --curve")
	filterCmd.Flags().StringVar(&lngField, "lng-field", "", "Longitude field name (overrides fields.lng)")
	filterCmd.Flags().StringVar(&latField, "lat-field", "", "Latitude field name (overrides fields.lat)")
	filterCmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")
}

func runFilter(cmd *cobra.Command, args []string) error {
	records, err := readRecords(recordsFile)
	if err != nil {
		return err
	}

	fields := cfg.Fields
	if lngField != "" {
		fields.Lng = lngField
	}
	if latField != "" {
		fields.Lat = latField
	}
	adapter := record.Maps(fields, cfg.Batch.Options()...)
	adapter.Logger = logger

	matched, shape, err := applyFilter(adapter, records)
	if err != nil {
		return err
	}
	logger.Info("records filtered", "shape", shape, "records", len(records), "matched", len(matched))

	return writeRecords(cmd.OutOrStdout(), matched, outputFormat)
}

func applyFilter(a *record.Adapter[record.Record], records []record.Record) ([]record.Record, string, error) {
	shapes := 0
	for _, set := range []bool{filterRegion != "", filterCenter != "", filterLine != "", filterCurve != ""} {
		if set {
			shapes++
		}
	}
	if shapes != 1 {
		return nil, "", errors.New("exactly one of --region, --center, --line or --curve is required")
	}

	switch {
	case filterRegion != "":
		region, err := parseLocations(filterRegion)
		if err != nil {
			return nil, "", err
		}
		if filterSeq {
			out, err := a.RecordsInRegionSequence(region, records)
			return out, "region-sequence", err
		}
		out, err := a.RecordsInRegion(region, records)
		return out, "region", err

	case filterCenter != "":
		c, err := parseLocation(filterCenter)
		if err != nil {
			return nil, "", err
		}
		out, err := a.RecordsInCircle(models.NewRoundness(*c, filterRadius), records)
		return out, "circle", err

	case filterLine != "":
		line, err := parseLocations(filterLine)
		if err != nil {
			return nil, "", err
		}
		out, err := a.RecordsWithinDistanceOfLine(line, records, filterMax)
		return out, "line", err

	default:
		curve, err := parseLocations(filterCurve)
		if err != nil {
			return nil, "", err
		}
		out, err := a.RecordsWithinDistanceOfCurve(curve, records, filterMax)
		return out, "curve", err
	}
}

func readRecords(path string) ([]record.Record, error) {
	if path == "-" {
		return record.Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open records %s", path)
	}
	defer f.Close()
	return record.Load(f)
}

func writeRecords(w io.Writer, records []record.Record, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(records), "encode records")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return errors.Wrap(err, "encode records")
		}
		return errors.Wrap(enc.Close(), "encode records")
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
}
