package geometry

import "fmt"

// Base is the horizontal size of the voxel cell a map tile expands to,
// Height the vertical one. A tile is a Base x Base x Height box of voxels.
const (
	Base   = 3
	Height = 5
)

// BlockSize is the side of a map block, in tiles.
const BlockSize = 16

// MapCoord is the position of a tile in the game map, in tile units.
// Z is the elevation level.
type MapCoord struct {
	X, Y, Z int
}

// VoxelCoord is a position in the voxel grid. It is a MapCoord scaled by
// (Base, Base, Height) plus a sub-tile offset.
type VoxelCoord struct {
	X, Y, Z int
}

// LocalCoord is the position of a tile inside its block.
type LocalCoord struct {
	X, Y uint8
}

// BlockCoord is the position of a block origin, in tile units.
type BlockCoord struct {
	X, Y, Z int
}

func NewMapCoord(x, y, z int) MapCoord { return MapCoord{x, y, z} }

func (c MapCoord) Add(o MapCoord) MapCoord {
	return MapCoord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c MapCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Voxel returns the global voxel coordinate of the sub-cell (sx, sy, sz)
// of the tile at c.
func (c MapCoord) Voxel(sx, sy, sz int) VoxelCoord {
	return VoxelCoord{
		X: c.X*Base + sx,
		Y: c.Y*Base + sy,
		Z: c.Z*Height + sz,
	}
}

// LocalFromIndex converts a tile index in a block's row-major tile arrays
// into block-local coordinates.
func LocalFromIndex(index int) LocalCoord {
	return LocalCoord{
		X: uint8(index % BlockSize),
		Y: uint8(index / BlockSize),
	}
}

func (c BlockCoord) AddLocal(l LocalCoord) MapCoord {
	return MapCoord{c.X + int(l.X), c.Y + int(l.Y), c.Z}
}

// Dimensions is a horizontal extent in tiles.
type Dimensions struct {
	X, Y int
}

// BoundingBox is an inclusive tile-space range on all three axes.
type BoundingBox struct {
	MinX, MaxX int
	MinY, MaxY int
	MinZ, MaxZ int
}

func NewBoundingBox(minX, maxX, minY, maxY, minZ, maxZ int) BoundingBox {
	return BoundingBox{minX, maxX, minY, maxY, minZ, maxZ}
}

func (b BoundingBox) Origin() MapCoord {
	return MapCoord{b.MinX, b.MinY, b.MinZ}
}

func (b BoundingBox) Contains(c MapCoord) bool {
	return c.X >= b.MinX && c.X <= b.MaxX &&
		c.Y >= b.MinY && c.Y <= b.MaxY &&
		c.Z >= b.MinZ && c.Z <= b.MaxZ
}

func (b BoundingBox) Dimensions() Dimensions {
	return Dimensions{
		X: 1 + b.MaxX - b.MinX,
		Y: 1 + b.MaxY - b.MinY,
	}
}
