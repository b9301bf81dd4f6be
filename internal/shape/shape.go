// Package shape builds and transforms the fixed-size voxel boxes a map tile
// expands to. Boxes are indexed [z][y][x] with z = 0 as the top layer, so
// shape literals read like stacked slices from above.
package shape

import "fortvox.dev/internal/geometry"

const (
	B = geometry.Base
	H = geometry.Height
)

// Slice2D is one horizontal layer of a tile box.
type Slice2D[T any] [B][B]T

// Box3D is a full tile box, top layer first.
type Box3D[T any] [H]Slice2D[T]

func SliceFromFn[T any](f func(x, y int) T) Slice2D[T] {
	var s Slice2D[T]
	for y := 0; y < B; y++ {
		for x := 0; x < B; x++ {
			s[y][x] = f(x, y)
		}
	}
	return s
}

func SliceConst[T any](v T) Slice2D[T] {
	return SliceFromFn(func(int, int) T { return v })
}

func SliceFull() Slice2D[bool]  { return SliceConst(true) }
func SliceEmpty() Slice2D[bool] { return SliceConst(false) }

// BoxFromFn builds a box from a function of (x, y, z) where z counts from
// the bottom of the box, despite the top-first storage.
func BoxFromFn[T any](f func(x, y, z int) T) Box3D[T] {
	var b Box3D[T]
	for z := 0; z < H; z++ {
		for y := 0; y < B; y++ {
			for x := 0; x < B; x++ {
				b[z][y][x] = f(x, y, H-1-z)
			}
		}
	}
	return b
}

func BoxConst[T any](v T) Box3D[T] {
	return BoxFromFn(func(int, int, int) T { return v })
}

func BoxFull() Box3D[bool]  { return BoxConst(true) }
func BoxEmpty() Box3D[bool] { return BoxConst(false) }

// BoxFromLevels turns a slice of column heights into a box: a cell is set
// when its height from the bottom is below the column's level. A level of 0
// leaves the column empty, H fills it.
func BoxFromLevels(levels Slice2D[int]) Box3D[bool] {
	return BoxFromFn(func(x, y, z int) bool { return levels[y][x] > z })
}

// BoxMap applies f to every cell.
func BoxMap[T, U any](b Box3D[T], f func(T) U) Box3D[U] {
	var out Box3D[U]
	for z := range b {
		for y := range b[z] {
			for x := range b[z][y] {
				out[z][y][x] = f(b[z][y][x])
			}
		}
	}
	return out
}

func sliceRotated[T any](in Slice2D[T]) Slice2D[T] {
	var out Slice2D[T]
	for i := 0; i < B; i++ {
		for j := 0; j < B; j++ {
			out[i][j] = in[B-1-j][i]
		}
	}
	return out
}

func boxRotated[T any](in Box3D[T]) Box3D[T] {
	var out Box3D[T]
	for z := range in {
		out[z] = sliceRotated(in[z])
	}
	return out
}

// RotatedBy rotates the box clockwise about z by n quarter turns.
func RotatedBy[T any](b Box3D[T], n int) Box3D[T] {
	n = ((n % 4) + 4) % 4
	for i := 0; i < n; i++ {
		b = boxRotated(b)
	}
	return b
}

// LookingAt rotates a box authored looking north to look at the given
// direction.
func LookingAt[T any](b Box3D[T], d geometry.DirFlat) Box3D[T] {
	return RotatedBy(b, quarterTurns(d))
}

// FacingAway rotates a box authored looking north to turn its back to the
// given direction. Wall-hugging furniture is placed with FacingAway of the
// wall direction.
func FacingAway[T any](b Box3D[T], d geometry.DirFlat) Box3D[T] {
	return LookingAt(b, d.Opposite())
}

func quarterTurns(d geometry.DirFlat) int {
	switch d {
	case geometry.FlatNorth:
		return 0
	case geometry.FlatEast:
		return 1
	case geometry.FlatSouth:
		return 2
	default:
		return 3
	}
}
