// Package buildings voxelizes placed buildings, either from built-in
// box templates or from registered prefab models.
package buildings

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/shape"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/worldmap"
)

// Voxel is one building voxel in the global voxel grid, with its
// palette index already resolved.
type Voxel struct {
	Coord geometry.VoxelCoord
	Index uint8
}

// PrefabSource resolves a building definition id to prefab voxels. A
// miss falls through to the built-in templates.
type PrefabSource interface {
	Build(id string, b *protocol.BuildingInstance) ([]Voxel, bool)
}

// Builder carries the shared state building voxelization needs.
type Builder struct {
	Map      *worldmap.Map
	Catalogs *source.Catalogs
	Palette  *palette.Palette
	Prefabs  PrefabSource
}

// Origin is the north-west tile of the building's footprint.
func Origin(b *protocol.BuildingInstance) geometry.MapCoord {
	return geometry.MapCoord{X: int(b.PosXMin), Y: int(b.PosYMin), Z: int(b.PosZMin)}
}

// Bounds is the inclusive tile-space footprint.
func Bounds(b *protocol.BuildingInstance) geometry.BoundingBox {
	return geometry.NewBoundingBox(
		int(b.PosXMin), int(b.PosXMax),
		int(b.PosYMin), int(b.PosYMax),
		int(b.PosZMin), int(b.PosZMax),
	)
}

// CollectVoxels voxelizes one building. Registered prefab models win
// over the box templates; unknown kinds render nothing.
func (bl *Builder) CollectVoxels(b *protocol.BuildingInstance) []Voxel {
	if bl.Prefabs != nil {
		if def, ok := bl.Catalogs.BuildingDef(b.Type); ok {
			if vs, ok := bl.Prefabs.Build(def.ID, b); ok {
				return vs
			}
		}
	}

	origin := Origin(b)
	index := bl.Palette.Get(palette.Generic(b.Material), bl.Catalogs)

	var box shape.Box3D[bool]
	switch KindOf(b.Type) {
	case KindArcheryTarget:
		d, _ := Direction(b)
		box = archeryShape(d)
	case KindGrateFloor, KindBarsFloor:
		box = grateShape(origin)
	case KindHatch:
		box = hatchShape
	case KindBarsVertical, KindGrateWall, KindSupport, KindAxleVertical:
		box = shape.BoxFromFn(func(x, y, z int) bool { return x == 1 && y == 1 })
	case KindBookcase, KindCabinet:
		box = shape.LookingAt(cabinetShape, bl.Map.WallDirection(origin))
	case KindStatue, KindGearAssembly:
		box = statueShape
	case KindBox:
		box = shape.LookingAt(boxShape, bl.Map.WallDirection(origin))
	case KindAnimalTrap, KindChair, KindChain, KindDisplayFurniture, KindOfferingPlace:
		box = pedestalShape
	case KindTable, KindTractionBench:
		box = tableShape
	case KindBed:
		box = shape.LookingAt(bedShape, bl.Map.WallDirection(origin))
	case KindCoffin:
		box = coffinShape
	case KindWell:
		box = wellShape
	case KindWindowGlass, KindWindowGem:
		box = bl.openingShape(origin, isWindow)
	case KindDoor:
		box = bl.openingShape(origin, isDoor)
	case KindBridge:
		return bl.bridgeVoxels(b, index)
	case KindArmorStand:
		box = shape.LookingAt(armorStandShape, bl.Map.WallDirection(origin))
	case KindWeaponRack:
		box = shape.LookingAt(weaponRackShape, bl.Map.WallDirection(origin))
	case KindWorkshop:
		return bl.workshopVoxels(b, index)
	default:
		return nil
	}
	return voxelsFromShape(box, origin, index)
}

func isWindow(key protocol.BuildingTypeKey) bool {
	k := KindOf(key)
	return k == KindWindowGlass || k == KindWindowGem
}

func isDoor(key protocol.BuildingTypeKey) bool {
	return KindOf(key) == KindDoor
}

// openingShape is the shared door and window column: a full-height
// center post growing arms towards neighbouring walls and same-kind
// buildings.
func (bl *Builder) openingShape(origin geometry.MapCoord, same func(protocol.BuildingTypeKey) bool) shape.Box3D[bool] {
	conn := worldmap.NeighbouringFlat(bl.Map, origin, func(o *worldmap.Occupancy) bool {
		for _, nb := range o.Buildings {
			if same(nb.Type) {
				return true
			}
		}
		return o.Tile != nil && o.Tile.IsWall()
	})
	slice := shape.Slice2D[bool]{
		{false, conn.N, false},
		{conn.W, true, conn.E},
		{false, conn.S, false},
	}
	return shape.Box3D[bool]{slice, slice, slice, slice, shape.SliceEmpty()}
}

// bridgeVoxels draws every footprint tile as a deck with a raised rim
// on the sides the bridge would retract towards.
func (bl *Builder) bridgeVoxels(b *protocol.BuildingInstance, index uint8) []Voxel {
	d, hasDir := Direction(b)
	sn := hasDir && (d == geometry.FlatNorth || d == geometry.FlatSouth)
	ew := hasDir && (d == geometry.FlatEast || d == geometry.FlatWest)

	bounds := Bounds(b)
	var voxels []Voxel
	for x := bounds.MinX; x <= bounds.MaxX; x++ {
		for y := bounds.MinY; y <= bounds.MaxY; y++ {
			w := sn && x == bounds.MinX
			e := sn && x == bounds.MaxX
			n := ew && y == bounds.MinY
			s := ew && y == bounds.MaxY
			box := shape.Box3D[bool]{
				shape.SliceEmpty(),
				shape.SliceEmpty(),
				shape.SliceEmpty(),
				{
					{w || n, n, e || n},
					{w, false, e},
					{w || s, s, e || s},
				},
				shape.SliceFull(),
			}
			tile := geometry.MapCoord{X: x, Y: y, Z: bounds.MinZ}
			voxels = append(voxels, voxelsFromShape(box, tile, index)...)
		}
	}
	return voxels
}

// workshopVoxels is the fallback drawing for workshops without a
// registered prefab: a stone-bench clutter pattern over a full floor,
// tiled across the footprint.
func (bl *Builder) workshopVoxels(b *protocol.BuildingInstance, index uint8) []Voxel {
	bounds := Bounds(b)
	dim := bounds.Dimensions()
	var voxels []Voxel
	for ty := 0; ty < dim.Y; ty++ {
		for tx := 0; tx < dim.X; tx++ {
			box := shape.BoxFromFn(func(x, y, z int) bool {
				// BoxFromFn counts z from the bottom, the
				// pattern is authored top-first.
				boxZ := geometry.Height - 1 - z
				return workshopPattern[boxZ][(ty%3)*3+y][(tx%3)*3+x]
			})
			tile := geometry.MapCoord{X: bounds.MinX + tx, Y: bounds.MinY + ty, Z: bounds.MinZ}
			voxels = append(voxels, voxelsFromShape(box, tile, index)...)
		}
	}
	return voxels
}

// voxelsFromShape expands a tile-sized box at the given tile into
// global voxel coordinates. Box slices are stored top-first.
func voxelsFromShape(box shape.Box3D[bool], tile geometry.MapCoord, index uint8) []Voxel {
	var voxels []Voxel
	for boxZ := 0; boxZ < geometry.Height; boxZ++ {
		z := geometry.Height - 1 - boxZ
		for y := 0; y < geometry.Base; y++ {
			for x := 0; x < geometry.Base; x++ {
				if !box[boxZ][y][x] {
					continue
				}
				voxels = append(voxels, Voxel{Coord: tile.Voxel(x, y, z), Index: index})
			}
		}
	}
	return voxels
}
