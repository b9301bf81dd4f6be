package shape

import (
	"testing"

	"fortvox.dev/internal/geometry"
)

// marker is a box with a single set cell, handy for tracking rotations.
func marker(x, y, z int) Box3D[bool] {
	return BoxFromFn(func(bx, by, bz int) bool {
		return bx == x && by == y && bz == z
	})
}

func cellAt(b Box3D[bool]) (x, y, z int) {
	for bz := 0; bz < H; bz++ {
		for by := 0; by < B; by++ {
			for bx := 0; bx < B; bx++ {
				if b[bz][by][bx] {
					return bx, by, H - 1 - bz
				}
			}
		}
	}
	return -1, -1, -1
}

func TestBoxFromFnZIsBottomUp(t *testing.T) {
	b := BoxFromFn(func(x, y, z int) bool { return z == 0 })
	for y := 0; y < B; y++ {
		for x := 0; x < B; x++ {
			if !b[H-1][y][x] {
				t.Fatalf("bottom cell (%d,%d) unset in last stored slice", x, y)
			}
			if b[0][y][x] {
				t.Fatalf("top stored slice set at (%d,%d)", x, y)
			}
		}
	}
}

func TestRotatedByQuarterTurn(t *testing.T) {
	// One clockwise turn seen from above sends the north-west corner
	// to the north-east corner.
	b := RotatedBy(marker(0, 0, 2), 1)
	x, y, z := cellAt(b)
	if x != B-1 || y != 0 || z != 2 {
		t.Fatalf("cell at (%d,%d,%d), want (%d,0,2)", x, y, z, B-1)
	}
}

func TestRotatedByFullTurnIsIdentity(t *testing.T) {
	orig := marker(1, 0, 3)
	if RotatedBy(orig, 4) != orig {
		t.Fatal("four quarter turns changed the box")
	}
	if RotatedBy(orig, -1) != RotatedBy(orig, 3) {
		t.Fatal("negative turns disagree with their positive remainder")
	}
}

func TestLookingAtDirections(t *testing.T) {
	orig := marker(1, 0, 0)
	cases := []struct {
		d    geometry.DirFlat
		x, y int
	}{
		{geometry.FlatNorth, 1, 0},
		{geometry.FlatEast, 2, 1},
		{geometry.FlatSouth, 1, 2},
		{geometry.FlatWest, 0, 1},
	}
	for _, c := range cases {
		x, y, _ := cellAt(LookingAt(orig, c.d))
		if x != c.x || y != c.y {
			t.Errorf("LookingAt(%v): cell at (%d,%d), want (%d,%d)", c.d, x, y, c.x, c.y)
		}
	}
}

func TestFacingAwayIsOppositeOfLookingAt(t *testing.T) {
	orig := marker(0, 1, 1)
	for _, d := range []geometry.DirFlat{geometry.FlatNorth, geometry.FlatEast, geometry.FlatSouth, geometry.FlatWest} {
		if FacingAway(orig, d) != LookingAt(orig, d.Opposite()) {
			t.Errorf("FacingAway(%v) != LookingAt(opposite)", d)
		}
	}
}

func TestBoxFromLevels(t *testing.T) {
	levels := SliceFromFn(func(x, y int) int {
		if x == 0 && y == 0 {
			return H
		}
		if x == 1 && y == 1 {
			return 2
		}
		return 0
	})
	b := BoxFromLevels(levels)

	for z := 0; z < H; z++ {
		if !b[H-1-z][0][0] {
			t.Fatalf("full column missing z=%d", z)
		}
	}
	if !b[H-1][1][1] || !b[H-2][1][1] {
		t.Fatal("two-level column missing its base")
	}
	if b[H-3][1][1] {
		t.Fatal("two-level column too tall")
	}
	if b[H-1][2][2] {
		t.Fatal("empty column has a voxel")
	}
}

func TestBoxMap(t *testing.T) {
	b := BoxMap(marker(2, 2, 0), func(v bool) uint8 {
		if v {
			return 7
		}
		return 0
	})
	if b[H-1][2][2] != 7 {
		t.Fatal("mapped cell lost")
	}
	if b[0][0][0] != 0 {
		t.Fatal("unset cell mapped to nonzero")
	}
}
