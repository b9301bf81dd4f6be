package worldmap

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/protocol"
)

// Tile is one cell of a streamed block, with its tile type resolved.
// Accessors tolerate the bridge omitting optional parallel arrays.
type Tile struct {
	block *protocol.MapBlock
	index int
	tt    protocol.TileType
}

func NewTile(block *protocol.MapBlock, index int, tt protocol.TileType) *Tile {
	return &Tile{block: block, index: index, tt: tt}
}

func (t *Tile) Local() geometry.LocalCoord {
	return geometry.LocalFromIndex(t.index)
}

func (t *Tile) Coord() geometry.MapCoord {
	local := t.Local()
	return geometry.MapCoord{
		X: int(t.block.MapX) + int(local.X),
		Y: int(t.block.MapY) + int(local.Y),
		Z: int(t.block.MapZ),
	}
}

func (t *Tile) Type() protocol.TileType { return t.tt }

func (t *Tile) Hidden() bool { return at(t.block.Hidden, t.index) }

func (t *Tile) Water() int32 { return at(t.block.Water, t.index) }

func (t *Tile) Magma() int32 { return at(t.block.Magma, t.index) }

func (t *Tile) Material() protocol.MatPair { return at(t.block.Materials, t.index) }

func (t *Tile) BaseMaterial() protocol.MatPair { return at(t.block.BaseMaterials, t.index) }

func (t *Tile) VeinMaterial() protocol.MatPair { return at(t.block.VeinMaterials, t.index) }

func (t *Tile) WaterStagnant() bool { return at(t.block.WaterStagnant, t.index) }

func (t *Tile) WaterSalt() bool { return at(t.block.WaterSalt, t.index) }

func (t *Tile) TreePercent() int32 { return at(t.block.TreePercent, t.index) }

func (t *Tile) GrassPercent() int32 { return at(t.block.GrassPercent, t.index) }

// TreeOrigin is the map coordinate of the trunk this tile belongs to.
// The stream stores the offset, x/y subtracted and z added.
func (t *Tile) TreeOrigin() geometry.MapCoord {
	c := t.Coord()
	return geometry.MapCoord{
		X: c.X - int(at(t.block.TreeX, t.index)),
		Y: c.Y - int(at(t.block.TreeY, t.index)),
		Z: c.Z + int(at(t.block.TreeZ, t.index)),
	}
}

func (t *Tile) Spatters() []protocol.Spatter {
	if t.index >= len(t.block.SpatterPiles) {
		return nil
	}
	return t.block.SpatterPiles[t.index].Spatters
}

// IsWall reports whether the tile blocks sight and contact sideways.
func (t *Tile) IsWall() bool {
	return t.tt.Shape == protocol.ShapeWall || t.tt.Shape == protocol.ShapeFortification
}

// SpatterAmount converts a spatter amount into a per-cell coverage
// probability. Solid spatter (fruits, leaves) ranges 0..10000 and is
// stepped down so it never blankets the tile; liquid (blood) ranges
// 0..255 and caps near half coverage; powder (snow) ranges 0..100 and
// may cover fully.
func SpatterAmount(s protocol.Spatter) float64 {
	var v float64
	switch s.State {
	case protocol.StateSolid:
		v = float64(s.Amount) / 50000
	case protocol.StateLiquid:
		v = float64(s.Amount) / 512
	case protocol.StatePowder:
		v = float64(s.Amount) / 100
	default:
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// at indexes a parallel array that may be shorter than the tile count.
func at[T any](arr []T, i int) T {
	var zero T
	if i < 0 || i >= len(arr) {
		return zero
	}
	return arr[i]
}
