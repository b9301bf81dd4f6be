// Package worldmap aggregates streamed blocks, buildings, and
// engravings into a queryable intermediate map.
package worldmap

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/protocol"
)

// TileTypes resolves tile type indexes. *source.Catalogs satisfies it.
type TileTypes interface {
	Tiletype(id int32) protocol.TileType
}

// Occupancy is everything sitting at one map coordinate. Tiles outside
// the streamed volume read as hidden empty space.
type Occupancy struct {
	Tile      *Tile
	Buildings []*protocol.BuildingInstance
	Engraving *protocol.Engraving
	Hidden    bool
}

var emptyOccupancy = &Occupancy{Hidden: true}

// LevelData groups the blocks and buildings of one z level.
type LevelData struct {
	Blocks    []*protocol.MapBlock
	Buildings []*protocol.BuildingInstance
}

// Map is the intermediate storage between the stream and the voxelizer.
type Map struct {
	Levels    map[int]*LevelData
	occupancy map[geometry.MapCoord]*Occupancy

	tiletypes TileTypes

	// Building lists are fortress-global and re-streamed with every
	// block; only the first one is inserted.
	buildingsAdded bool
}

func New(tiletypes TileTypes) *Map {
	return &Map{
		Levels:    map[int]*LevelData{},
		occupancy: map[geometry.MapCoord]*Occupancy{},
		tiletypes: tiletypes,
	}
}

func (m *Map) level(z int) *LevelData {
	ld, ok := m.Levels[z]
	if !ok {
		ld = &LevelData{}
		m.Levels[z] = ld
	}
	return ld
}

func (m *Map) occupancyAt(c geometry.MapCoord) *Occupancy {
	o, ok := m.occupancy[c]
	if !ok {
		o = &Occupancy{Hidden: true}
		m.occupancy[c] = o
	}
	return o
}

// AddBlock inserts the block's tiles, and on the first call only, its
// building list.
func (m *Map) AddBlock(block *protocol.MapBlock) {
	if !m.buildingsAdded {
		m.addBuildings(block.Buildings)
	}
	z := int(block.MapZ)
	m.level(z).Blocks = append(m.level(z).Blocks, block)

	for i := range block.Tiles {
		tile := NewTile(block, i, m.tiletypes.Tiletype(block.Tiles[i]))
		o := m.occupancyAt(tile.Coord())
		o.Hidden = tile.Hidden()
		o.Tile = tile
	}
}

func (m *Map) addBuildings(buildings []protocol.BuildingInstance) {
	for i := range buildings {
		b := &buildings[i]
		if b.Room {
			continue
		}
		if b.Flags&protocol.BuildingFlagExists == 0 {
			continue
		}

		zMin := int(b.PosZMin)
		m.level(zMin).Buildings = append(m.level(zMin).Buildings, b)

		for z := zMin; z <= int(b.PosZMax); z++ {
			for y := int(b.PosYMin); y <= int(b.PosYMax); y++ {
				for x := int(b.PosXMin); x <= int(b.PosXMax); x++ {
					o := m.occupancyAt(geometry.MapCoord{X: x, Y: y, Z: z})
					o.Buildings = append(o.Buildings, b)
				}
			}
		}
	}
	m.buildingsAdded = true
}

// AddEngraving attaches an engraving to its tile.
func (m *Map) AddEngraving(e protocol.Engraving) {
	c := geometry.MapCoord{X: int(e.X), Y: int(e.Y), Z: int(e.Z)}
	m.occupancyAt(c).Engraving = &e
}

// At returns the occupancy at the coordinate, or empty hidden space.
func (m *Map) At(c geometry.MapCoord) *Occupancy {
	if o, ok := m.occupancy[c]; ok {
		return o
	}
	return emptyOccupancy
}

func (m *Map) IsHidden(c geometry.MapCoord) bool {
	o, ok := m.occupancy[c]
	return ok && o.Hidden
}

// Neighbouring evaluates f on the six direct neighbours.
func Neighbouring[T any](m *Map, c geometry.MapCoord, f func(*Occupancy) T) geometry.Neighbouring[T] {
	return geometry.NewNeighbouring(func(d geometry.Dir) T {
		return f(m.At(c.Add(d.Offset())))
	})
}

// NeighbouringFlat evaluates f on the four same-level neighbours.
func NeighbouringFlat[T any](m *Map, c geometry.MapCoord, f func(*Occupancy) T) geometry.NeighbouringFlat[T] {
	return geometry.NewNeighbouringFlat(func(d geometry.DirFlat) T {
		return f(m.At(c.Add(d.Offset())))
	})
}

// Neighbouring8Flat evaluates f on the eight same-level neighbours.
func Neighbouring8Flat[T any](m *Map, c geometry.MapCoord, f func(*Occupancy) T) geometry.Neighbouring8Flat[T] {
	return geometry.NewNeighbouring8Flat(func(d geometry.Dir8Flat) T {
		return f(m.At(c.Add(d.Offset())))
	})
}

// WallDirection finds the most wall-like direction around a tile, used
// to orient furniture against walls. Each wall among the eight
// neighbours adds one to the cardinal sides it touches, with a bonus of
// three for direct cardinal contact. Ties resolve in N, E, S, W order.
func (m *Map) WallDirection(c geometry.MapCoord) geometry.DirFlat {
	var wallyness [4]int
	const (
		n = iota
		e
		s
		w
	)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			o, ok := m.occupancy[geometry.MapCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z}]
			if !ok || o.Tile == nil || !o.Tile.IsWall() {
				continue
			}
			if dx == -1 {
				wallyness[w]++
				if dy == 0 {
					wallyness[w] += 3
				}
			}
			if dx == 1 {
				wallyness[e]++
				if dy == 0 {
					wallyness[e] += 3
				}
			}
			if dy == -1 {
				wallyness[n]++
				if dx == 0 {
					wallyness[n] += 3
				}
			}
			if dy == 1 {
				wallyness[s]++
				if dx == 0 {
					wallyness[s] += 3
				}
			}
		}
	}

	best := n
	for i := e; i <= w; i++ {
		if wallyness[i] > wallyness[best] {
			best = i
		}
	}
	switch best {
	case e:
		return geometry.FlatEast
	case s:
		return geometry.FlatSouth
	case w:
		return geometry.FlatWest
	default:
		return geometry.FlatNorth
	}
}

// RecomputeHidden rebuilds the hidden flags from shapes. Adventure mode
// streams unreliable flags; a tile is hidden when walled in sideways,
// under solid ground, and over a wall.
func (m *Map) RecomputeHidden() {
	wallShape := func(s protocol.TileShape) bool {
		return s == protocol.ShapeWall || s == protocol.ShapeShrub
	}
	floorShape := func(s protocol.TileShape) bool {
		switch s {
		case protocol.ShapeFloor, protocol.ShapeStairUp, protocol.ShapePebbles,
			protocol.ShapeBoulder, protocol.ShapeRamp, protocol.ShapeRampTop,
			protocol.ShapeSapling:
			return true
		}
		return false
	}
	coveredBy := func(c geometry.MapCoord, pred func(protocol.TileShape) bool) bool {
		o, ok := m.occupancy[c]
		if !ok || o.Tile == nil {
			return true
		}
		return pred(o.Tile.Type().Shape)
	}

	newHidden := make(map[geometry.MapCoord]bool, len(m.occupancy))
	for c := range m.occupancy {
		walledIn := true
		for _, d := range []geometry.Dir8Flat{
			geometry.Flat8North, geometry.Flat8NorthEast, geometry.Flat8East,
			geometry.Flat8SouthEast, geometry.Flat8South, geometry.Flat8SouthWest,
			geometry.Flat8West, geometry.Flat8NorthWest,
		} {
			if !coveredBy(c.Add(d.Offset()), wallShape) {
				walledIn = false
				break
			}
		}
		underGround := coveredBy(c.Add(geometry.Above.Offset()), func(s protocol.TileShape) bool {
			return wallShape(s) || floorShape(s)
		})
		overWall := coveredBy(c.Add(geometry.Below.Offset()), wallShape)
		newHidden[c] = walledIn && underGround && overWall
	}
	for c, hidden := range newHidden {
		m.occupancyAt(c).Hidden = hidden
	}
}
