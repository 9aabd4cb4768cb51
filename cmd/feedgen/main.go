// Command feedgen writes a synthetic observation file that the service can
// serve in preloaded mode or accept as an upload.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/bhoomi/internal/adapters/ingest"
	"github.com/okian/bhoomi/internal/domain/feed"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/pkg/logger"
)

// Default generation constants.
const (
	defaultRows     = 50
	defaultOutput   = "mine_sensor_data.csv"
	defaultInterval = time.Minute
)

// errInvalidRows marks a non-positive row count.
var errInvalidRows = errors.New("rows must be positive")

type options struct {
	output   string
	rows     int
	seed     int64
	interval time.Duration
	start    time.Time
}

func main() {
	var (
		output   = flag.String("out", defaultOutput, "Output file (.csv or .xlsx)")
		rows     = flag.Int("rows", defaultRows, "Number of observations to generate")
		seed     = flag.Int64("seed", 0, "Random seed (0 uses the wall clock)")
		interval = flag.Duration("interval", defaultInterval, "Time between observation timestamps")
		start    = flag.String("start", "", "First timestamp as HH:MM:SS (default now)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Named("feedgen")

	opts := options{output: *output, rows: *rows, seed: *seed, interval: *interval, start: time.Now()}
	if *start != "" {
		t, err := time.Parse(model.TimestampLayout, *start)
		if err != nil {
			log.Error(ctx, "invalid start time", logger.String("start", *start), logger.Error(err))
			os.Exit(2)
		}
		opts.start = t
	}

	if err := run(opts); err != nil {
		log.Error(ctx, "generation failed", logger.String("out", opts.output), logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "observations written",
		logger.String("out", opts.output),
		logger.Int("rows", opts.rows),
		logger.Int64("seed", opts.seed),
	)
}

func run(opts options) error {
	if opts.rows <= 0 {
		return fmt.Errorf("%w: %d", errInvalidRows, opts.rows)
	}
	format, err := ingest.FormatOf(opts.output)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}
	if err := write(f, format, generate(opts)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// generate draws opts.rows observations stamped opts.interval apart.
func generate(opts options) []model.Observation {
	clock := opts.start
	g := feed.New(feed.WithSeed(opts.seed), feed.WithClock(func() time.Time {
		now := clock
		clock = clock.Add(opts.interval)
		return now
	}))

	obs := make([]model.Observation, opts.rows)
	for i := range obs {
		obs[i] = g.Next()
	}
	return obs
}

func write(w io.Writer, format ingest.Format, obs []model.Observation) error {
	if format == ingest.FormatXLSX {
		return ingest.WriteXLSX(w, obs)
	}
	return ingest.WriteCSV(w, obs)
}
