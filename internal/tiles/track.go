package tiles

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/scene"
	"fortvox.dev/internal/shape"
	"fortvox.dev/internal/worldmap"
)

// buildTrack voxelizes carved and constructed tracks. The tile floor
// keeps a raised rim except where the rails run, so the track reads as
// a channel from above.
func (t *Tiler) buildTrack(tile *worldmap.Tile) []scene.Voxel {
	trackMat := t.Palette.Get(palette.Generic(tile.Material()), t.Catalogs)
	// The source does not report what lies under the track.
	groundMat := t.Palette.Get(palette.Default(palette.DefRock), t.Catalogs)

	d := railConnectivity(tile.Type().Direction)
	rails := shape.Slice2D[bool]{
		{true, !d.N, true},
		{!d.W, false, !d.E},
		{true, !d.S, true},
	}
	materials := shape.SliceFromFn(func(x, y int) uint8 {
		if rails[y][x] {
			return trackMat
		}
		return groundMat
	})

	var levels shape.Slice2D[int]
	if tile.Type().Shape == protocol.ShapeRamp {
		levels = RampLevels(t.Map, tile.Coord())
	} else {
		levels = shape.SliceConst(1)
	}
	for y := 0; y < geometry.Base; y++ {
		for x := 0; x < geometry.Base; x++ {
			if rails[y][x] {
				levels[y][x] = min(levels[y][x]+1, geometry.Height)
			}
		}
	}

	box := shape.BoxFromFn(func(x, y, z int) uint8 {
		if levels[y][x] > z {
			return materials[y][x]
		}
		return 0
	})
	return scene.VoxelsFromBox(tile.Local(), box)
}

// railConnectivity reads a track direction string as the sides the
// rails leave through. Unlike branches, a single letter is already the
// connected side.
func railConnectivity(s string) geometry.NeighbouringFlat[bool] {
	var c geometry.NeighbouringFlat[bool]
	for _, ch := range s {
		switch ch {
		case 'N':
			c.N = true
		case 'E':
			c.E = true
		case 'S':
			c.S = true
		case 'W':
			c.W = true
		}
	}
	return c
}
