package export

import (
	"context"
	"fmt"
	"sort"

	"fortvox.dev/internal/buildings"
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/prefab"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/scene"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/tiles"
	"fortvox.dev/internal/worldmap"
)

type sceneParams struct {
	info     protocol.MapInfo
	zOffset  int
	zLow     int
	yearTick int32
}

// buildScene voxelizes the assembled map, level by level from the
// bottom up, into a scene graph ready for writing.
func (e *Exporter) buildScene(ctx context.Context, wm *worldmap.Map, cats *source.Catalogs, pal *palette.Palette, sp sceneParams, progress chan<- Progress) (*scene.Builder, error) {
	b := scene.NewBuilder()
	b.HideLayer(scene.LayerHidden)

	hiddenIndex := pal.Get(palette.Default(palette.DefHidden), cats)
	hiddenModel := b.InsertModel(scene.HiddenBlockModel(hiddenIndex))

	tiler := &tiles.Tiler{Map: wm, Catalogs: cats, Palette: pal, YearTick: sp.yearTick}
	bld := &buildings.Builder{
		Map:      wm,
		Catalogs: cats,
		Palette:  pal,
		Prefabs:  &prefab.Bound{Registry: e.Prefabs, Map: wm, Catalogs: cats, Palette: pal},
	}

	// Scene x/y are centered on the map; z is anchored so the lowest
	// exported level sits at the origin.
	maxVoxX := int(sp.info.BlockSizeX) * geometry.BlockSize * geometry.Base / 2
	maxVoxY := int(sp.info.BlockSizeY) * geometry.BlockSize * geometry.Base / 2
	minZ := sp.zLow * geometry.Height

	levels := make([]int, 0, len(wm.Levels))
	blockCount := 0
	for level, ld := range wm.Levels {
		levels = append(levels, level)
		blockCount += len(ld.Blocks)
	}
	sort.Ints(levels)

	if err := e.send(ctx, progress, start("building blocks", blockCount)); err != nil {
		return nil, err
	}
	built := 0
	for _, level := range levels {
		ld := wm.Levels[level]

		z := geometry.Height/2 + level*geometry.Height - minZ
		levelGroup := b.InsertGroup(b.RootGroup, fmt.Sprintf("level %d", level+sp.zOffset), &scene.Point{Z: z}, scene.LayerAll)

		for _, block := range ld.Blocks {
			built++
			if err := e.send(ctx, progress, update("building blocks", built, blockCount)); err != nil {
				return nil, err
			}
			e.buildBlock(block, cats, tiler, b, levelGroup, hiddenModel, maxVoxX, maxVoxY)
		}

		if len(ld.Buildings) == 0 {
			continue
		}
		buildingGroup := b.InsertGroup(levelGroup, "buildings", nil, scene.LayerBuilding)
		for _, inst := range ld.Buildings {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e.buildBuilding(inst, cats, bld, b, buildingGroup, level, maxVoxX, maxVoxY)
		}
	}
	return b, nil
}

func (e *Exporter) buildBlock(block *protocol.MapBlock, cats *source.Catalogs, tiler *tiles.Tiler, b *scene.Builder, levelGroup scene.NodeID, hiddenModel scene.ModelID, maxVoxX, maxVoxY int) {
	bm := &scene.BlockModels{}
	for i := range block.Tiles {
		tile := worldmap.NewTile(block, i, cats.Tiletype(block.Tiles[i]))
		tiler.Build(tile, bm)
	}
	for _, flow := range block.Flows {
		tiler.BuildFlow(flow, bm)
	}
	if bm.IsEmpty() {
		return
	}

	at := scene.Point{
		X: int(block.MapX)*geometry.Base - maxVoxX + 24,
		Y: maxVoxY - int(block.MapY)*geometry.Base - 23,
	}
	group := b.InsertGroup(levelGroup, fmt.Sprintf("block %d %d", block.MapX, block.MapY), &at, scene.LayerAll)

	if bm.OnlyHidden() {
		// A fully hidden block reuses the shared model to keep the
		// file small.
		b.InsertShape(group, "hidden", nil, scene.LayerHidden, hiddenModel)
		return
	}
	bm.Build(b, group)
}

func (e *Exporter) buildBuilding(inst *protocol.BuildingInstance, cats *source.Catalogs, bld *buildings.Builder, b *scene.Builder, group scene.NodeID, level, maxVoxX, maxVoxY int) {
	vs := bld.CollectVoxels(inst)
	if len(vs) == 0 {
		return
	}

	bounds := buildings.Bounds(inst)
	minXVox := bounds.MinX * geometry.Base
	minYVox := bounds.MinY * geometry.Base
	minZVox := bounds.MinZ * geometry.Height
	sx := (bounds.MaxX - bounds.MinX + 1) * geometry.Base
	sy := (bounds.MaxY - bounds.MinY + 1) * geometry.Base
	sz := (bounds.MaxZ - bounds.MinZ + 1) * geometry.Height

	model := scene.Model{SizeX: uint32(sx), SizeY: uint32(sy), SizeZ: uint32(sz)}
	for _, v := range vs {
		model.Voxels = append(model.Voxels, scene.Voxel{
			X: uint8(v.Coord.X - minXVox),
			Y: uint8(minYVox + sy - 1 - v.Coord.Y),
			Z: uint8(v.Coord.Z - minZVox),
			I: v.Index,
		})
	}

	name := "building"
	if def, ok := cats.BuildingDef(inst.Type); ok {
		name = def.ID
	}
	at := scene.Point{
		X: minXVox + sx/2 - maxVoxX,
		Y: maxVoxY - (minYVox + sy/2) + 1,
		Z: (bounds.MinZ-level)*geometry.Height + sz/2 - geometry.Height/2,
	}
	b.InsertModelShape(group, name, &at, scene.LayerBuilding, model)
}
