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

func isWallOccupancy(o *worldmap.Occupancy) bool {
	return o.Tile != nil && o.Tile.IsWall()
}

// rampContactHeight is how high a neighbor pushes an adjacent ramp:
// walls force a full climb, everything else a ground-level lip.
func rampContactHeight(o *worldmap.Occupancy) int {
	if isWallOccupancy(o) {
		return 6
	}
	return 1
}

// RampLevels computes the 3x3 column heights of a ramp tile from its
// eight flat neighbors. Corners take the max of their three
// contributors, edges average their corners, the center is half the
// highest corner.
func RampLevels(m *worldmap.Map, c geometry.MapCoord) shape.Slice2D[int] {
	n := worldmap.Neighbouring8Flat(m, c, rampContactHeight)

	nw := max(n.NW, n.N, n.W)
	ne := max(n.NE, n.N, n.E)
	sw := max(n.SW, n.S, n.W)
	se := max(n.SE, n.S, n.E)
	top := max(nw, ne, sw, se)

	return shape.Slice2D[int]{
		{nw, (nw + ne) / 2, ne},
		{(nw + sw) / 2, top / 2, (ne + se) / 2},
		{sw, (sw + se) / 2, se},
	}
}

// buildTerrain voxelizes the non-plant, non-track tile shapes. The
// second return value is the grain overlay for rough floors.
func (t *Tiler) buildTerrain(tile *worldmap.Tile) (terrain, roughness []scene.Voxel) {
	r := rng.ForCoord(tile.Coord())
	coord := tile.Coord()
	local := tile.Local()
	tt := tile.Type()

	material := palette.TileGeneric(tile.Material(), tt.Material)
	materialDark := palette.DarkTileGeneric(tile.Material(), tt.Material)

	// Smoothed, constructed and ice surfaces render flat; everything
	// else gets two-tone grain.
	rough := tt.Special != protocol.SpecialSmooth &&
		tt.Special != protocol.SpecialSmoothDead &&
		tt.Material != protocol.TileMatConstruction &&
		tt.Material != protocol.TileMatFrozenLiquid

	engraved := t.Map.At(coord).Engraving != nil

	mat1 := t.Palette.Get(material, t.Catalogs)
	var mat2 uint8
	if engraved || rough {
		mat2 = t.Palette.Get(materialDark, t.Catalogs)
	}
	randMat := func() uint8 {
		if r.Bool(0.5) {
			return mat2
		}
		return mat1
	}

	var boolShape shape.Box3D[bool]
	switch tt.Shape {
	case protocol.ShapeFloor, protocol.ShapeBoulder, protocol.ShapePebbles:
		var floor, grain shape.Slice2D[uint8]
		switch {
		case engraved:
			floor = shape.SliceFromFn(func(x, y int) uint8 {
				if (x+y)%2 == 1 {
					return mat1
				}
				return mat2
			})
		case rough:
			floor = shape.SliceFromFn(func(x, y int) uint8 {
				m := randMat()
				if m == mat2 {
					grain[y][x] = mat2
				}
				return m
			})
		default:
			floor = shape.SliceConst(mat1)
		}

		var box shape.Box3D[uint8]
		box[geometry.Height-1] = floor
		terrain = scene.VoxelsFromBox(local, box)

		if rough {
			var bumps shape.Box3D[uint8]
			bumps[geometry.Height-2] = grain
			roughness = scene.VoxelsFromBox(local, bumps)
		}
		return terrain, roughness
	case protocol.ShapeWall:
		var box shape.Box3D[uint8]
		switch {
		case rough:
			box = shape.BoxFromFn(func(x, y, z int) uint8 { return randMat() })
		case engraved:
			checker := func(parity int) shape.Slice2D[uint8] {
				return shape.SliceFromFn(func(x, y int) uint8 {
					if (x+y)%2 == parity {
						return mat1
					}
					return mat2
				})
			}
			box = shape.Box3D[uint8]{
				checker(0), checker(1), checker(0), checker(0),
				shape.SliceConst(mat1),
			}
		default:
			box = shape.BoxConst(mat1)
		}

		// Carve out cells no camera angle can see, unless the wall
		// material lets light through.
		if material.Effective(t.Catalogs).Trans == palette.Unset {
			c := worldmap.Neighbouring8Flat(t.Map, coord, isWallOccupancy)
			inside := shape.Slice2D[bool]{
				{c.N && c.W && c.NW, c.N, c.N && c.E && c.NE},
				{c.W, true, c.E},
				{c.S && c.W && c.SW, c.S, c.S && c.E && c.SE},
			}
			hidden := t.Palette.Get(palette.Default(palette.DefHidden), t.Catalogs)
			for z := range box {
				for y := range box[z] {
					for x := range box[z][y] {
						if inside[y][x] {
							box[z][y][x] = hidden
						}
					}
				}
			}
		}
		return scene.VoxelsFromBox(local, box), nil
	case protocol.ShapeFortification:
		conn := worldmap.NeighbouringFlat(t.Map, coord, isWallOccupancy)
		crenel := shape.Slice2D[bool]{
			{true, conn.N, true},
			{conn.W, false, conn.E},
			{true, conn.S, true},
		}
		boolShape = shape.Box3D[bool]{
			crenel, crenel,
			shape.SliceFull(), shape.SliceFull(), shape.SliceFull(),
		}
	case protocol.ShapeStairUp:
		boolShape = stairs(true, true, false, true, coord.Z)
	case protocol.ShapeStairDown:
		boolShape = stairs(false, false, true, false, coord.Z)
	case protocol.ShapeStairUpDown:
		boolShape = stairs(true, true, true, false, coord.Z)
	case protocol.ShapeRamp:
		boolShape = shape.BoxFromLevels(RampLevels(t.Map, coord))
	default:
		boolShape = shape.BoxEmpty()
	}

	var box shape.Box3D[uint8]
	if rough {
		box = shape.BoxMap(boolShape, func(v bool) uint8 {
			if v {
				return randMat()
			}
			return 0
		})
	} else {
		box = uniformBox(boolShape, mat1)
	}
	return scene.VoxelsFromBox(local, box), nil
}

// stairs is the spiral stair cross-section, twisted a quarter turn per
// level so consecutive z levels connect.
func stairs(up, middle, down, floor bool, z int) shape.Box3D[bool] {
	f := false
	template := shape.Box3D[bool]{
		{
			{f, f, f},
			{f, f, f},
			{up, up, up},
		},
		{
			{f, f, middle},
			{f, f, middle},
			{f, f, middle},
		},
		{
			{middle, middle, middle},
			{f, f, f},
			{f, f, f},
		},
		{
			{middle, f, f},
			{middle, f, f},
			{middle, f, f},
		},
		{
			{floor, floor, floor},
			{floor, floor, floor},
			{down || floor, down || floor, down || floor},
		},
	}
	return shape.RotatedBy(template, ((z%4)+4)%4)
}
