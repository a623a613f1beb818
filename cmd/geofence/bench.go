package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/workload"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the batch filters over random points",
	Long: `Generate random points around a center and time the polygon, circle, line
and curve filters for each worker count.`,
	RunE: runBench,
}

var (
	benchPoints  int
	benchRuns    int
	benchSeed    int64
	benchWorkers []int
	benchRadius  float64
)

func init() {
	benchCmd.Flags().IntVarP(&benchPoints, "points", "n", 1000000, "Number of random points")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 5, "Runs per scenario")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "Random seed")
	benchCmd.Flags().IntSliceVar(&benchWorkers, "worker-counts", []int{1, runtime.NumCPU()}, "Worker counts to compare")
	benchCmd.Flags().Float64Var(&benchRadius, "area", workload.DefaultArea.Radius, "Half-width of the sampled area in meters")
}

func runBench(cmd *cobra.Command, args []string) error {
	area := workload.DefaultArea
	area.Radius = benchRadius

	box, err := area.Box()
	if err != nil {
		return err
	}

	start := time.Now()
	points := workload.RandomPoints(benchPoints, box, benchSeed)
	logger.Info("points generated", "points", len(points), "duration", time.Since(start))

	var results []benchRow
	for _, w := range benchWorkers {
		scenarios, err := workload.Scenarios(area,
			batch.WithWorkers(w),
			batch.WithSequentialBelow(cfg.Batch.SequentialBelow),
		)
		if err != nil {
			return err
		}
		for _, s := range scenarios {
			res, err := workload.Measure(s, points, benchRuns, nil)
			if err != nil {
				return err
			}
			logger.Debug("scenario measured", "kind", res.Kind, "workers", w, "avg", res.AvgDuration)
			results = append(results, benchRow{workers: w, Result: res})
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), paint(titleStyle, fmt.Sprintf("%d points, %d runs, %d CPU cores", len(points), benchRuns, runtime.NumCPU())))
	fmt.Fprintln(cmd.OutOrStdout(), renderBenchTable(results))
	return nil
}

type benchRow struct {
	workers int
	workload.Result
}

func renderBenchTable(rows []benchRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("SCENARIO", "WORKERS", "AVG", "MIN", "MAX", "POINTS/SEC", "MATCHED")

	for _, r := range rows {
		t.Row(
			r.Kind,
			fmt.Sprintf("%d", r.workers),
			r.AvgDuration.Round(time.Microsecond).String(),
			r.MinDuration.Round(time.Microsecond).String(),
			r.MaxDuration.Round(time.Microsecond).String(),
			fmt.Sprintf("%.0f", r.PointsPerSec),
			fmt.Sprintf("%d", r.Matched),
		)
	}

	if colorEnabled {
		t.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return subtitleStyle.Padding(0, 1)
				}
				if col == 5 {
					return statStyle.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
	}
	return t.String()
}
