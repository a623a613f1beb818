package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/models"
	"github.com/kass/go-geo-fence/pkg/workload"
)

type BenchmarkResult struct {
	Scenario      string
	Workers       int
	Points        int
	Runs          int
	TotalDuration time.Duration
	AvgDuration   time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	PointsPerSec  float64
	Matched       int
}

func main() {
	var (
		scenario   = flag.String("t", "mixed", "Scenario: polygon, circle, line, curve, mixed")
		pointCount = flag.String("n", "10000,100000,1000000", "Comma separated point counts")
		workerList = flag.String("w", fmt.Sprintf("1,%d", runtime.NumCPU()), "Comma separated worker counts")
		runs       = flag.Int("runs", 5, "Runs per scenario")
		sequential = flag.Int("sequential-below", batch.DefaultSequentialBelow, "Run batches smaller than this on the calling goroutine")
		seed       = flag.Int64("seed", 1, "Random seed")
		// Area for random points (default: central Chengdu)
		lng    = flag.Float64("lng", workload.DefaultArea.Center.Lng, "Center longitude")
		lat    = flag.Float64("lat", workload.DefaultArea.Center.Lat, "Center latitude")
		radius = flag.Float64("radius", workload.DefaultArea.Radius, "Half-width of the area in meters")
	)
	flag.Parse()

	counts, err := parseInts(*pointCount)
	if err != nil {
		log.Fatalf("Invalid -n: %v", err)
	}
	workerCounts, err := parseInts(*workerList)
	if err != nil {
		log.Fatalf("Invalid -w: %v", err)
	}

	kinds := workload.Kinds
	if *scenario != "mixed" {
		kinds = []string{*scenario}
	}

	area := workload.Area{Center: models.Coordinate{Lng: *lng, Lat: *lat}, Radius: *radius}
	box, err := area.Box()
	if err != nil {
		log.Fatalf("Invalid area: %v", err)
	}

	var results []BenchmarkResult
	for _, n := range counts {
		log.Printf("Generating %d random points...\n", n)
		points := workload.RandomPoints(n, box, *seed)

		for _, w := range workerCounts {
			scenarios, err := workload.Scenarios(area, batch.WithWorkers(w), batch.WithSequentialBelow(*sequential))
			if err != nil {
				log.Fatalf("Failed to build scenarios: %v", err)
			}

			for _, s := range scenarios {
				if !slices.Contains(kinds, s.Kind) {
					continue
				}
				log.Printf("Running %s over %d points with %d workers...\n", s.Kind, n, w)
				res, err := workload.Measure(s, points, *runs, nil)
				if err != nil {
					log.Fatalf("Scenario %s failed: %v", s.Kind, err)
				}
				results = append(results, toBenchmarkResult(res, w))
			}
		}
	}
	if len(results) == 0 {
		log.Fatalf("Unknown scenario: %s", *scenario)
	}

	fmt.Println("\n=== Benchmark Results ===")
	fmt.Printf("%-8s %8s %10s %6s %12s %12s %12s %14s %10s\n",
		"Scenario", "Workers", "Points", "Runs", "Avg", "Min", "Max", "Points/Sec", "Matched")
	for _, r := range results {
		fmt.Printf("%-8s %8d %10d %6d %12v %12v %12v %14.0f %10d\n",
			r.Scenario, r.Workers, r.Points, r.Runs,
			r.AvgDuration.Round(time.Microsecond), r.MinDuration.Round(time.Microsecond),
			r.MaxDuration.Round(time.Microsecond), r.PointsPerSec, r.Matched)
	}
	fmt.Printf("\nCPU Cores: %d\n", runtime.NumCPU())
}

func toBenchmarkResult(r workload.Result, workers int) BenchmarkResult {
	return BenchmarkResult{
		Scenario:      r.Kind,
		Workers:       workers,
		Points:        r.Points,
		Runs:          r.Runs,
		TotalDuration: r.TotalDuration,
		AvgDuration:   r.AvgDuration,
		MinDuration:   r.MinDuration,
		MaxDuration:   r.MaxDuration,
		PointsPerSec:  r.PointsPerSec,
		Matched:       r.Matched,
	}
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, fmt.Errorf("%d is not positive", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}

