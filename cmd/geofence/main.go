package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kass/go-geo-fence/pkg/config"
	"github.com/kass/go-geo-fence/pkg/geoerr"
	"github.com/kass/go-geo-fence/pkg/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	workers   int

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geofence",
	Short: "Geofence containment and proximity checks",
	Long: `Point-in-region, point-in-circle and distance-to-line/curve checks over
WGS84 coordinates, coordinate system conversion, and batch filtering of record files.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default ./geofence.yaml or ./configs/geofence.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format override (text, json)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Batch worker override (0 keeps the configured value)")

	rootCmd.AddCommand(
		containsCmd,
		regionCmd,
		circleCmd,
		distanceCmd,
		lineCmd,
		curveCmd,
		transformCmd,
		filterCmd,
		benchCmd,
		verifyCmd,
		demoCmd,
	)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if logFormat != "" {
		c.Log.Format = logFormat
	}
	if workers > 0 {
		c.Batch.Workers = workers
	}

	cfg = c
	logger = logging.Setup(c.Log.Level, c.Log.Format, os.Stderr)
	logger.Debug("configuration loaded",
		"workers", c.Batch.Workers,
		"sequential_below", c.Batch.SequentialBelow,
		"lng_field", c.Fields.Lng,
		"lat_field", c.Fields.Lat,
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, paint(errorStyle, "Error:"), err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for rejected input and 1 for everything else
func exitCode(err error) int {
	switch geoerr.KindOf(err) {
	case geoerr.MissingInput, geoerr.InvalidCount, geoerr.InvalidInput, geoerr.InvalidGeometry:
		return 2
	default:
		return 1
	}
}
