// Package tiles turns streamed map tiles into per-layer voxels.
package tiles

import (
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/rng"
	"fortvox.dev/internal/scene"
	"fortvox.dev/internal/shape"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/worldmap"
)

// Tiler carries the shared read-only state every tile build needs.
type Tiler struct {
	Map      *worldmap.Map
	Catalogs *source.Catalogs
	Palette  *palette.Palette

	// YearTick selects which seasonal growths render.
	YearTick int32
}

func uniformBox(b shape.Box3D[bool], index uint8) shape.Box3D[uint8] {
	return shape.BoxMap(b, func(v bool) uint8 {
		if v {
			return index
		}
		return 0
	})
}

// occupancySet tracks written voxels in a stable order, so random draws
// over its members reproduce between runs.
type occupancySet struct {
	seen  map[scene.Voxel]bool
	order []scene.Voxel
}

func newOccupancySet() *occupancySet {
	return &occupancySet{seen: map[scene.Voxel]bool{}}
}

func (s *occupancySet) add(vs []scene.Voxel) {
	for _, v := range vs {
		v.I = 0
		if !s.seen[v] {
			s.seen[v] = true
			s.order = append(s.order, v)
		}
	}
}

func (s *occupancySet) has(x, y, z uint8) bool {
	return s.seen[scene.Voxel{X: x, Y: y, Z: z}]
}

// Build voxelizes one tile into the block's layer buckets.
func (t *Tiler) Build(tile *worldmap.Tile, bm *scene.BlockModels) {
	r := rng.ForCoord(tile.Coord())
	local := tile.Local()
	tt := tile.Type()

	if t.Map.At(tile.Coord()).Hidden {
		hidden := t.Palette.Get(palette.Default(palette.DefHidden), t.Catalogs)
		bm.ExtendBox(scene.LayerHidden, local, uniformBox(shape.BoxFull(), hidden))
		return
	}

	// Spatters sit on top of terrain and plant voxels only.
	occupied := newOccupancySet()

	switch {
	case isPlantMaterial(tt.Material) || isPlantShape(tt.Shape):
		vs := t.buildPlant(tile)
		occupied.add(vs)
		bm.Extend(scene.LayerVegetation, vs)
	case tt.Special == protocol.SpecialTrack:
		bm.Extend(scene.LayerTerrain, t.buildTrack(tile))
	default:
		terrain, roughness := t.buildTerrain(tile)
		occupied.add(terrain)
		bm.Extend(scene.LayerTerrain, terrain)
		bm.Extend(scene.LayerRoughness, roughness)
	}

	if w := tile.Water(); w > 0 {
		idx := t.Palette.Get(palette.Default(palette.DefWater), t.Catalogs)
		levels := shape.SliceConst(int(clamp(w, 2, 7)))
		bm.ExtendBox(scene.LayerLiquid, local, uniformBox(shape.BoxFromLevels(levels), idx))
	}
	if m := tile.Magma(); m > 0 {
		idx := t.Palette.Get(palette.Default(palette.DefMagma), t.Catalogs)
		levels := shape.SliceConst(int(clamp(m, 2, 7)))
		bm.ExtendBox(scene.LayerLiquid, local, uniformBox(shape.BoxFromLevels(levels), idx))
	}

	t.buildSpatters(tile, occupied, r, bm)

	if tt.Material == protocol.TileMatFire {
		idx := t.Palette.Get(palette.Default(palette.DefFire), t.Catalogs)
		box := shape.BoxFromFn(func(x, y, z int) bool { return r.Bool(0.1) })
		bm.ExtendBox(scene.LayerFire, local, uniformBox(box, idx))
	}
}

func (t *Tiler) buildSpatters(tile *worldmap.Tile, occupied *occupancySet, r *rng.Source, bm *scene.BlockModels) {
	for _, spatter := range tile.Spatters() {
		p := worldmap.SpatterAmount(spatter)
		if p <= 0 {
			continue
		}
		idx := t.Palette.Get(palette.Generic(spatter.Material), t.Catalogs)
		for _, v := range occupied.order {
			if int(v.Z)+1 >= scene.BlockVoxelHeight || occupied.has(v.X, v.Y, v.Z+1) {
				continue
			}
			if r.Bool(p) {
				bm.Extend(scene.LayerSpatter, []scene.Voxel{{X: v.X, Y: v.Y, Z: v.Z + 1, I: idx}})
			}
		}
	}
}

func isPlantMaterial(m protocol.TileMaterial) bool {
	switch m {
	case protocol.TileMatRoot, protocol.TileMatMushroom,
		protocol.TileMatPlant, protocol.TileMatTree:
		return true
	}
	return false
}

func isPlantShape(s protocol.TileShape) bool {
	switch s {
	case protocol.ShapeSapling, protocol.ShapeTwig,
		protocol.ShapeShrub, protocol.ShapeBranch:
		return true
	}
	return false
}

func clamp(v, lo, hi int32) int32 {
	return min(max(v, lo), hi)
}
