// Package prefab places authored voxel templates for buildings: it
// orients them, binds their material channels to the building's
// materials, tiles them over the footprint, and erodes the sides that
// connect to neighbours.
package prefab

import (
	"fortvox.dev/internal/buildings"
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/worldmap"
)

// Material channel layout of a model: 8 build materials, their 8 dark
// variants, 8 content materials, then fire, wood, and light.
const (
	channelBuild   = 0
	channelDark    = 8
	channelContent = 16
	channelFire    = 24
	channelWood    = 25
	channelLight   = 26
	channelCount   = 27
)

// Bound couples the registry to one export's map and palette. It
// satisfies buildings.PrefabSource.
type Bound struct {
	Registry *Registry
	Map      *worldmap.Map
	Catalogs *source.Catalogs
	Palette  *palette.Palette
}

// Build places the prefab registered under id for the building, in
// global voxel coordinates. Missing id reports false.
func (p *Bound) Build(id string, b *protocol.BuildingInstance) ([]buildings.Voxel, bool) {
	pf, ok := p.Registry.Prefab(id)
	if !ok {
		return nil, false
	}
	return pf.build(id, b, p.Map, p.Catalogs, p.Palette), true
}

func lookingAt(m Model, d geometry.DirFlat) Model {
	switch d {
	case geometry.FlatNorth:
		return m
	case geometry.FlatEast:
		return m.rotatedBy(1)
	case geometry.FlatSouth:
		return m.rotatedBy(2)
	default:
		return m.rotatedBy(3)
	}
}

func facingAway(m Model, d geometry.DirFlat) Model {
	return lookingAt(m, d.Opposite())
}

func (pf *Prefab) build(id string, b *protocol.BuildingInstance, m *worldmap.Map, cats *source.Catalogs, pal *palette.Palette) []buildings.Voxel {
	bounds := buildings.Bounds(b)
	origin := bounds.Origin()

	model := pf.Model
	switch pf.Orientation {
	case OrientFromGame:
		if d, ok := buildings.Direction(b); ok {
			model = lookingAt(model, d)
		}
	case OrientAgainstWall:
		model = facingAway(model, m.WallDirection(origin))
	case OrientFacingChair:
		chairs := worldmap.NeighbouringFlat(m, origin, func(o *worldmap.Occupancy) bool {
			for _, nb := range o.Buildings {
				if buildings.IsChair(nb.Type) {
					return true
				}
			}
			return false
		})
		if dirs := geometry.Directions(chairs); len(dirs) > 0 {
			model = lookingAt(model, dirs[0])
		} else {
			model = facingAway(model, m.WallDirection(origin))
		}
	}

	indexes := pf.channelIndexes(b, cats, pal)

	// Split the oriented model into tile columns.
	tilesX, tilesY := model.SizeX/geometry.Base, model.SizeY/geometry.Base
	columns := make([][][]ModelVoxel, tilesX)
	for i := range columns {
		columns[i] = make([][]ModelVoxel, tilesY)
	}
	for _, v := range model.Voxels {
		idx, ok := indexes[v.I]
		if !ok {
			continue
		}
		tx, ty := int(v.X)/geometry.Base, int(v.Y)/geometry.Base
		columns[tx][ty] = append(columns[tx][ty], ModelVoxel{
			X: uint8(int(v.X) % geometry.Base),
			Y: uint8(int(v.Y) % geometry.Base),
			Z: v.Z,
			I: idx,
		})
	}

	// Tile the footprint. Edges keep the model's edges, the interior
	// repeats the model's interior columns.
	dim := bounds.Dimensions()
	var placed []ModelVoxel
	for x := 0; x < dim.X; x++ {
		for y := 0; y < dim.Y; y++ {
			tx := wrapTile(x, dim.X, tilesX)
			ty := wrapTile(y, dim.Y, tilesY)
			for _, v := range columns[tx][ty] {
				placed = append(placed, ModelVoxel{
					X: uint8(x*geometry.Base + int(v.X)),
					Y: uint8(y*geometry.Base + int(v.Y)),
					Z: v.Z,
					I: v.I,
				})
			}
		}
	}

	sizeX, sizeY := dim.X*geometry.Base, dim.Y*geometry.Base
	placed = pf.erode(placed, sizeX, sizeY, id, b, m, cats)

	// Back to map conventions: model y runs north, tiles run south.
	out := make([]buildings.Voxel, 0, len(placed))
	for _, v := range placed {
		out = append(out, buildings.Voxel{
			Coord: geometry.VoxelCoord{
				X: bounds.MinX*geometry.Base + int(v.X),
				Y: bounds.MinY*geometry.Base + (sizeY - 1 - int(v.Y)),
				Z: bounds.MinZ*geometry.Height + int(v.Z),
			},
			Index: v.I,
		})
	}
	return out
}

// wrapTile maps a footprint tile to a model tile. Models at least
// three tiles wide pin their first and last tile to the footprint
// edges and cycle the interior; smaller models just repeat.
func wrapTile(i, n, tiles int) int {
	if tiles >= 3 {
		switch {
		case i == 0:
			return 0
		case i == n-1:
			return tiles - 1
		default:
			return (i-1)%(tiles-2) + 1
		}
	}
	return i % tiles
}

// channelIndexes resolves the material channels the model may use to
// palette indexes. Channels with no backing material are absent, and
// their voxels drop out.
func (pf *Prefab) channelIndexes(b *protocol.BuildingInstance, cats *source.Catalogs, pal *palette.Palette) map[uint8]uint8 {
	indexes := make(map[uint8]uint8, channelCount)

	slot := channelBuild
	for _, item := range b.Items {
		if item.Mode != 2 || slot >= channelBuild+8 {
			continue
		}
		indexes[uint8(slot)] = pal.Get(palette.Generic(item.Material), cats)
		indexes[uint8(slot+channelDark)] = pal.Get(palette.DarkGeneric(item.Material), cats)
		slot++
	}

	slot = channelContent
	seen := map[protocol.MatPair]bool{}
	for _, item := range b.Items {
		if item.Mode == 2 || slot >= channelContent+8 {
			continue
		}
		if pf.Content == ContentUnique {
			if seen[item.Material] {
				continue
			}
			seen[item.Material] = true
		}
		indexes[uint8(slot)] = pal.Get(palette.Generic(item.Material), cats)
		slot++
	}

	indexes[channelFire] = pal.Get(palette.Default(palette.DefFire), cats)
	indexes[channelWood] = pal.Get(palette.Default(palette.DefWood), cats)
	indexes[channelLight] = pal.Get(palette.Default(palette.DefLight), cats)
	return indexes
}

// erode applies the connectivity policy in model space, where positive
// y is north.
func (pf *Prefab) erode(voxels []ModelVoxel, sizeX, sizeY int, id string, b *protocol.BuildingInstance, m *worldmap.Map, cats *source.Catalogs) []ModelVoxel {
	if pf.Connectivity == ConnectNone {
		return voxels
	}

	bounds := buildings.Bounds(b)
	origin := bounds.Origin()
	sameKind := worldmap.NeighbouringFlat(m, origin, func(o *worldmap.Occupancy) bool {
		for _, nb := range o.Buildings {
			if nb.Index == b.Index {
				continue
			}
			if def, ok := cats.BuildingDef(nb.Type); ok && def.ID == id {
				return true
			}
		}
		return false
	})

	cx, cy := sizeX/2, sizeY/2
	kept := voxels[:0]

	switch pf.Connectivity {
	case ConnectSelfOrWall:
		walls := worldmap.NeighbouringFlat(m, origin, func(o *worldmap.Occupancy) bool {
			return o.Tile != nil && o.Tile.IsWall()
		})
		c := geometry.OrFlat(walls, sameKind)
		for _, v := range voxels {
			x, y := int(v.X)-cx, int(v.Y)-cy
			keep := true
			if x < 0 {
				keep = keep && c.W
			}
			if x > 0 {
				keep = keep && c.E
			}
			if y < 0 {
				keep = keep && c.S
			}
			if y > 0 {
				keep = keep && c.N
			}
			if keep {
				kept = append(kept, v)
			}
		}
	case ConnectSelfRemovesLayer:
		spans := geometry.NewNeighbouringFlat(func(d geometry.DirFlat) bool {
			return bounds.Contains(origin.Add(d.Offset()))
		})
		c := geometry.OrFlat(spans, sameKind)
		for _, v := range voxels {
			x, y := int(v.X)-cx, int(v.Y)-cy
			keep := true
			if v.Z == pf.ConnectivityLayer {
				if x < 0 && c.W {
					keep = false
				}
				if x > 0 && c.E {
					keep = false
				}
				if y < 0 && c.S {
					keep = false
				}
				if y > 0 && c.N {
					keep = false
				}
			}
			if keep {
				kept = append(kept, v)
			}
		}
	}
	return kept
}
