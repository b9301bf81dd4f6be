package tiles

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/rng"
	"fortvox.dev/internal/scene"
	"fortvox.dev/internal/shape"
	"fortvox.dev/internal/worldmap"
)

// PlantPart is the role a tile plays in a multi-tile plant.
type PlantPart int

const (
	PartRoot PlantPart = iota
	PartSapling
	PartShrub
	PartTrunk
	PartHeavyBranch
	PartLightBranch
	PartTwig
	PartCap
)

// lightBranchDirection marks a branch heading away with no siblings.
const lightBranchDirection = "--------"

// PlantPartOf classifies a tile type into a plant part. For heavy
// branches the returned connectivity tells which neighbors the branch
// attaches to.
func PlantPartOf(tt protocol.TileType) (PlantPart, geometry.NeighbouringFlat[bool]) {
	var none geometry.NeighbouringFlat[bool]
	switch {
	case tt.Material == protocol.TileMatRoot:
		return PartRoot, none
	case tt.Material == protocol.TileMatMushroom:
		return PartCap, none
	case tt.Shape == protocol.ShapeSapling:
		return PartSapling, none
	case tt.Shape == protocol.ShapeTwig:
		return PartTwig, none
	case tt.Shape == protocol.ShapeShrub:
		return PartShrub, none
	case tt.Shape == protocol.ShapeBranch && tt.Direction == lightBranchDirection:
		return PartLightBranch, none
	case tt.Shape == protocol.ShapeBranch:
		return PartHeavyBranch, ConnectivityFromDirections(tt.Direction)
	default:
		return PartTrunk, none
	}
}

// ConnectivityFromDirections decodes a tile direction string. A single
// letter names where the branch heads, so it connects on the opposite
// side; several letters name the connected sides directly.
func ConnectivityFromDirections(s string) geometry.NeighbouringFlat[bool] {
	var c geometry.NeighbouringFlat[bool]
	count := 0
	for _, ch := range s {
		switch ch {
		case 'N', 'E', 'S', 'W':
			count++
		}
	}
	for _, ch := range s {
		if count <= 1 {
			switch ch {
			case 'N':
				c.S = true
			case 'E':
				c.W = true
			case 'S':
				c.N = true
			case 'W':
				c.E = true
			}
		} else {
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
	}
	return c
}

// samePlantPart reports whether the occupancy holds a tile of the same
// tree that classifies as one of the given parts.
func samePlantPart(o *worldmap.Occupancy, origin geometry.MapCoord, parts ...PlantPart) bool {
	if o.Tile == nil || o.Tile.TreeOrigin() != origin {
		return false
	}
	p, _ := PlantPartOf(o.Tile.Type())
	for _, want := range parts {
		if p == want {
			return true
		}
	}
	return false
}

// buildPlant voxelizes roots, trunks, branches, twigs, shrubs and caps.
func (t *Tiler) buildPlant(tile *worldmap.Tile) []scene.Voxel {
	r := rng.ForCoord(tile.Coord())
	local := tile.Local()
	tt := tile.Type()
	part, conn := PlantPartOf(tt)
	plantIndex := tile.Material().Index
	alive := tt.Special != protocol.SpecialDead && tt.Special != protocol.SpecialSmoothDead

	// Woody parts read nicer in the plant's own wood material; the
	// rest uses the flat plant green.
	var structure palette.Material
	switch part {
	case PartRoot, PartHeavyBranch, PartLightBranch, PartTrunk:
		structure = palette.Generic(protocol.MatPair{Type: protocol.MatTypeWood, Index: plantIndex})
	default:
		if alive {
			structure = palette.Default(palette.DefPlant)
		} else {
			structure = palette.Default(palette.DefDeadPlant)
		}
	}

	structureShape := t.plantStructureShape(tile, part, conn, r)
	voxels := scene.VoxelsFromBox(local, uniformBox(structureShape, t.Palette.Get(structure, t.Catalogs)))

	growthIndices := t.growthIndices(part, plantIndex)
	if alive && len(growthIndices) > 0 {
		growth := growthShape(part, r)
		var box shape.Box3D[uint8]
		for z := range growth {
			for y := range growth[z] {
				for x := range growth[z][y] {
					if growth[z][y][x] {
						box[z][y][x] = rng.Pick(r, growthIndices)
					}
				}
			}
		}
		voxels = append(voxels, scene.VoxelsFromBox(local, box)...)
	}
	return voxels
}

func (t *Tiler) plantStructureShape(tile *worldmap.Tile, part PlantPart, conn geometry.NeighbouringFlat[bool], r *rng.Source) shape.Box3D[bool] {
	coord := tile.Coord()
	origin := tile.TreeOrigin()
	f := false

	switch part {
	case PartRoot:
		return shape.BoxFull()
	case PartTrunk, PartCap:
		onFloor := coord == origin
		cross := shape.Slice2D[bool]{
			{f, true, f},
			{true, true, true},
			{f, true, f},
		}
		return shape.Box3D[bool]{
			cross, cross, cross, cross,
			{
				{onFloor, true, onFloor},
				{true, true, true},
				{onFloor, true, onFloor},
			},
		}
	case PartSapling, PartShrub:
		sparse := shape.SliceFromFn(func(x, y int) bool { return r.Ratio(1, 7) })
		return shape.Box3D[bool]{
			shape.SliceEmpty(), shape.SliceEmpty(), shape.SliceEmpty(),
			sparse,
			shape.SliceFull(),
		}
	case PartHeavyBranch:
		to := worldmap.Neighbouring(t.Map, coord, func(o *worldmap.Occupancy) bool {
			return samePlantPart(o, origin, PartLightBranch)
		})
		return shape.Box3D[bool]{
			{
				{f, f, f},
				{f, to.A, f},
				{f, f, f},
			},
			{
				{f, f, f},
				{f, to.A, f},
				{f, f, f},
			},
			{
				{f, to.N || conn.N, f},
				{to.W || conn.W, true, to.E || conn.E},
				{f, to.S || conn.S, f},
			},
			{
				{f, conn.N, f},
				{conn.W, f, conn.E},
				{f, conn.S, f},
			},
			shape.SliceEmpty(),
		}
	case PartLightBranch:
		c := worldmap.Neighbouring(t.Map, coord, func(o *worldmap.Occupancy) bool {
			return samePlantPart(o, origin, PartHeavyBranch, PartTwig)
		})
		column := shape.Slice2D[bool]{
			{f, f, f},
			{f, c.B, f},
			{f, f, f},
		}
		return shape.Box3D[bool]{
			{
				{f, f, f},
				{f, c.A, f},
				{f, f, f},
			},
			{
				{f, c.N, f},
				{c.W, true, c.E},
				{f, c.S, f},
			},
			column, column, column,
		}
	case PartTwig:
		c := worldmap.Neighbouring(t.Map, coord, func(o *worldmap.Occupancy) bool {
			return samePlantPart(o, origin, PartLightBranch)
		})
		return shape.Box3D[bool]{
			{
				{f, c.N, f},
				{c.W, f, c.E},
				{f, c.S, f},
			},
			shape.SliceEmpty(), shape.SliceEmpty(), shape.SliceEmpty(),
			{
				{f, f, f},
				{f, c.B, f},
				{f, f, f},
			},
		}
	default:
		return shape.BoxEmpty()
	}
}

// growthShape is where leaves, flowers and fruit may appear for a part.
func growthShape(part PlantPart, r *rng.Source) shape.Box3D[bool] {
	speckled := func(x, y int) bool { return r.Ratio(1, 5) }
	corners := func(x, y int) bool {
		if x == 1 || y == 1 {
			return false
		}
		return r.Ratio(1, 5)
	}
	switch part {
	case PartRoot, PartTrunk, PartCap, PartHeavyBranch:
		return shape.Box3D[bool]{
			shape.SliceEmpty(),
			shape.SliceFromFn(corners),
			shape.SliceFromFn(corners),
			shape.SliceFromFn(corners),
			shape.SliceEmpty(),
		}
	case PartTwig, PartLightBranch:
		mid := shape.SliceFromFn(speckled)
		mid[1][1] = true
		return shape.Box3D[bool]{
			shape.SliceEmpty(),
			shape.SliceFromFn(speckled),
			mid,
			shape.SliceFromFn(speckled),
			shape.SliceEmpty(),
		}
	default: // saplings and shrubs grow just above the ground
		return shape.Box3D[bool]{
			shape.SliceEmpty(), shape.SliceEmpty(), shape.SliceEmpty(),
			shape.SliceFromFn(speckled),
			shape.SliceEmpty(),
		}
	}
}

// growthIndices resolves the palette indices of every growth active on
// this part at the render date.
func (t *Tiler) growthIndices(part PlantPart, plantIndex int32) []uint8 {
	raw, ok := t.Catalogs.Plant(plantIndex)
	if !ok {
		return nil
	}
	var out []uint8
	for _, growth := range raw.Growths {
		if !protocol.TimingContains(growth.TimingStart, growth.TimingEnd, t.YearTick) {
			continue
		}
		var onPart bool
		switch part {
		case PartCap:
			onPart = growth.Cap
		case PartRoot:
			onPart = growth.Roots
		case PartSapling:
			onPart = growth.Sapling
		case PartShrub:
			onPart = true
		case PartTrunk:
			onPart = growth.Trunk
		case PartHeavyBranch:
			onPart = growth.HeavyBranches
		case PartLightBranch:
			onPart = growth.LightBranches
		case PartTwig:
			onPart = growth.Twigs
		}
		if !onPart {
			continue
		}
		out = append(out, t.Palette.Get(t.growthMaterial(growth), t.Catalogs))
	}
	return out
}

// growthMaterial picks the growth's color treatment: when seasonal
// prints exist, shift the raw material's hue from the earliest print
// toward the one active now.
func (t *Tiler) growthMaterial(growth protocol.TreeGrowth) palette.Material {
	var current, fresh *protocol.GrowthPrint
	for i := range growth.Prints {
		p := &growth.Prints[i]
		if protocol.TimingContains(p.TimingStart, p.TimingEnd, t.YearTick) && current == nil {
			current = p
		}
		if fresh == nil || p.TimingStart < fresh.TimingStart {
			fresh = p
		}
	}
	if current != nil && fresh != nil {
		return palette.Plant(
			growth.Material,
			palette.ConsoleColor(fresh.Color),
			palette.ConsoleColor(current.Color),
		)
	}
	return palette.Generic(growth.Material)
}
