package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fortvox.dev/internal/calendar"
	"fortvox.dev/internal/export"
	"fortvox.dev/internal/prefab"
	"fortvox.dev/internal/source"
)

func main() {
	logger := log.New(os.Stdout, "[export] ", log.LstdFlags)
	os.Exit(run(logger))
}

func run(logger *log.Logger) int {
	var (
		url        = flag.String("url", "ws://127.0.0.1:5000/rfr", "game bridge websocket url")
		output     = flag.String("o", "fortress.vox", "output .vox path")
		elevLow    = flag.Int("elevation-low", 0, "lowest exported elevation, inclusive")
		elevHigh   = flag.Int("elevation-high", 200, "highest exported elevation, inclusive")
		timeOfYear = flag.String("time", "current", "time of year for seasonal vegetation (current or a month name)")
		cachePath  = flag.String("cache", "", "scan cache path; live exports record into it")
		offline    = flag.Bool("offline", false, "re-export from the scan cache without a running game")
	)
	flag.Parse()

	tod, ok := calendar.ParseTimeOfYear(*timeOfYear)
	if !ok {
		logger.Fatalf("unknown time of year %q", *timeOfYear)
	}

	prefabs, err := prefab.Load()
	if err != nil {
		logger.Fatalf("loading prefab models: %v", err)
	}

	var cache *source.ScanCache
	if *cachePath != "" {
		cache, err = source.OpenScanCache(*cachePath)
		if err != nil {
			logger.Fatalf("opening scan cache %s: %v", *cachePath, err)
		}
		defer cache.Close()
	}

	var src export.Source
	if *offline {
		if cache == nil {
			logger.Fatalf("-offline needs -cache")
		}
		src = &export.Replay{Cache: cache}
	} else {
		client, err := source.Dial(*url)
		if err != nil {
			logger.Fatalf("connecting to %s: %v", *url, err)
		}
		defer client.Close()
		src = &export.Live{Client: client, Cache: cache}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &export.Exporter{Source: src, Prefabs: prefabs, Logger: logger}
	progress := make(chan export.Progress, 64)
	go e.Run(ctx, export.Params{
		ElevationLow:  *elevLow,
		ElevationHigh: *elevHigh,
		Time:          tod,
		Path:          *output,
	}, progress)

	code := 1
	for p := range progress {
		switch p.Kind {
		case export.ProgressUndetermined:
			logger.Printf("%s", p.Message)
		case export.ProgressStart:
			logger.Printf("%s (%d)", p.Message, p.Total)
		case export.ProgressUpdate:
			if p.Total > 0 && (p.Curr == p.Total || p.Curr%percentile(p.Total) == 0) {
				logger.Printf("%s %d/%d", p.Message, p.Curr, p.Total)
			}
		case export.ProgressDone:
			logger.Printf("done: %s", p.Path)
			code = 0
		case export.ProgressError:
			logger.Printf("failed: %v", p.Err)
		}
	}
	if code != 0 && ctx.Err() != nil {
		logger.Printf("cancelled")
	}
	return code
}

// percentile spaces update lines roughly every tenth of the total.
func percentile(total int) int {
	step := total / 10
	if step < 1 {
		return 1
	}
	return step
}
