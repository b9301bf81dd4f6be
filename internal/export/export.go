// Package export drives a full scan-to-file run: stream the map,
// assemble the intermediate model, voxelize it, and write the scene.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fortvox.dev/internal/calendar"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/prefab"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/worldmap"
)

// Params selects what to export and where to write it.
type Params struct {
	// ElevationLow and ElevationHigh bound the exported slice in
	// displayed elevations, inclusive.
	ElevationLow  int
	ElevationHigh int
	Time          calendar.TimeOfYear
	Path          string
}

// Exporter runs exports against a Source.
type Exporter struct {
	Source  Source
	Prefabs *prefab.Registry
	Logger  *log.Logger
}

// Run executes one export and reports progress on the channel, which
// it closes when finished. A run ends with exactly one Done or Error
// event; cancellation through the context ends it with neither and
// leaves no file behind.
func (e *Exporter) Run(ctx context.Context, params Params, progress chan<- Progress) {
	defer close(progress)
	err := e.run(ctx, params, progress)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		e.Logger.Printf("export cancelled")
	default:
		e.Logger.Printf("export failed: %v", err)
		e.send(ctx, progress, failed(err))
	}
}

func (e *Exporter) send(ctx context.Context, progress chan<- Progress, p Progress) error {
	select {
	case progress <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Exporter) run(ctx context.Context, params Params, progress chan<- Progress) error {
	if err := e.send(ctx, progress, undetermined("starting")); err != nil {
		return err
	}
	if err := e.Source.Prepare(); err != nil {
		return fmt.Errorf("preparing source: %w", err)
	}

	info, err := e.Source.MapInfo()
	if err != nil {
		return fmt.Errorf("reading map info: %w", err)
	}
	// Block z minus the displayed elevation is a fixed world offset.
	zOffset := int(info.BlockPosZ) - 100
	zLow := clampLevel(params.ElevationLow-zOffset, info)
	zHigh := clampLevel(params.ElevationHigh-zOffset, info)
	if zLow > zHigh {
		return fmt.Errorf("elevation range %d..%d is empty", params.ElevationLow, params.ElevationHigh)
	}

	tick, err := e.Source.YearTick()
	if err != nil {
		return fmt.Errorf("reading year tick: %w", err)
	}
	yearTick := params.Time.Resolve(tick)

	data, err := e.Source.CatalogData()
	if err != nil {
		return fmt.Errorf("reading catalogs: %w", err)
	}
	cats := source.NewCatalogs(data)

	bounds := source.Bounds{
		MinX: 0, MaxX: 1000,
		MinY: 0, MaxY: 1000,
		MinZ: int32(zLow), MaxZ: int32(zHigh),
	}
	stream, err := e.Source.Blocks(bounds)
	if err != nil {
		return err
	}

	wm := worldmap.New(cats)
	var blocks []protocol.MapBlock

	total := stream.Remaining()
	if err := e.send(ctx, progress, start("reading map", total)); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		list, ok, err := stream.Next()
		if err != nil {
			return fmt.Errorf("reading blocks: %w", err)
		}
		if !ok {
			break
		}
		blocks = append(blocks, list.Blocks...)
		for _, engraving := range list.Engravings {
			wm.AddEngraving(engraving)
		}
		if err := e.send(ctx, progress, update("reading map", total-stream.Remaining(), total)); err != nil {
			return err
		}
	}
	e.Logger.Printf("read %d blocks from %s", len(blocks), info.WorldName)

	if err := e.send(ctx, progress, start("assembling", len(blocks))); err != nil {
		return err
	}
	for i := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		wm.AddBlock(&blocks[i])
		if err := e.send(ctx, progress, update("assembling", i+1, len(blocks))); err != nil {
			return err
		}
	}

	if info.GameMode == "ADVENTURE" {
		// Adventure mode streams stale hidden flags.
		if err := e.send(ctx, progress, undetermined("recomputing hidden tiles")); err != nil {
			return err
		}
		wm.RecomputeHidden()
	}

	pal := palette.New(e.Logger)
	pal.CacheDefaults(cats)

	builder, err := e.buildScene(ctx, wm, cats, pal, sceneParams{
		info:     info,
		zOffset:  zOffset,
		zLow:     zLow,
		yearTick: yearTick,
	}, progress)
	if err != nil {
		return err
	}

	if err := e.send(ctx, progress, undetermined("writing file")); err != nil {
		return err
	}
	if err := builder.WriteFile(params.Path, pal.Entries()); err != nil {
		return fmt.Errorf("writing %s: %w", params.Path, err)
	}
	e.Logger.Printf("wrote %s", params.Path)
	return e.send(ctx, progress, done(params.Path))
}

func clampLevel(z int, info protocol.MapInfo) int {
	if z < 0 {
		return 0
	}
	if max := int(info.BlockSizeZ) - 1; z > max {
		return max
	}
	return z
}
