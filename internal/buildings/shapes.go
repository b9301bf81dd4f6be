package buildings

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/shape"
)

// Box templates are authored looking north, slices listed top-first.

var hatchShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	shape.SliceFull(),
	shape.SliceEmpty(),
}

var cabinetShape = shape.Box3D[bool]{
	{
		{true, true, true},
		{false, false, false},
		{false, false, false},
	},
	{
		{true, true, true},
		{true, true, true},
		{false, false, false},
	},
	{
		{true, true, true},
		{false, false, false},
		{false, false, false},
	},
	{
		{true, true, true},
		{true, true, true},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

var statueShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	},
	{
		{false, true, false},
		{true, true, true},
		{false, true, false},
	},
	shape.SliceFull(),
	shape.SliceEmpty(),
}

var boxShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	{
		{false, true, false},
		{false, false, false},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

var pedestalShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

var tableShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	shape.SliceFull(),
	{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

var bedShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	shape.SliceEmpty(),
	{
		{true, true, true},
		{true, true, true},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

var coffinShape = bedShape

var wellShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	{
		{false, false, false},
		{true, true, true},
		{false, false, false},
	},
	{
		{false, false, false},
		{true, false, true},
		{false, false, false},
	},
	{
		{true, true, true},
		{true, false, true},
		{true, true, true},
	},
	{
		{true, true, true},
		{true, false, true},
		{true, true, true},
	},
}

var armorStandShape = shape.Box3D[bool]{
	shape.SliceEmpty(),
	{
		{true, true, true},
		{false, false, false},
		{false, false, false},
	},
	{
		{false, true, false},
		{false, false, false},
		{false, false, false},
	},
	{
		{true, true, true},
		{true, true, true},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

var weaponRackShape = shape.Box3D[bool]{
	{
		{true, false, true},
		{false, false, false},
		{false, false, false},
	},
	{
		{true, true, true},
		{false, false, false},
		{false, false, false},
	},
	{
		{true, false, true},
		{false, false, false},
		{false, false, false},
	},
	{
		{true, true, true},
		{true, false, true},
		{false, false, false},
	},
	shape.SliceEmpty(),
}

func archeryShape(d geometry.DirFlat) shape.Box3D[bool] {
	return shape.LookingAt(shape.Box3D[bool]{
		shape.SliceEmpty(),
		{
			{true, true, true},
			{false, true, false},
			{false, false, false},
		},
		{
			{true, true, true},
			{false, true, false},
			{false, true, false},
		},
		{
			{true, true, true},
			{false, true, false},
			{false, true, false},
		},
		shape.SliceEmpty(),
	}, d)
}

// grateShape is a floor lattice; the checkerboard is seeded from the
// tile position, so adjacent grates line up.
func grateShape(origin geometry.MapCoord) shape.Box3D[bool] {
	return shape.Box3D[bool]{
		shape.SliceEmpty(),
		shape.SliceEmpty(),
		shape.SliceEmpty(),
		shape.SliceEmpty(),
		shape.SliceFromFn(func(x, y int) bool {
			return (origin.X+x)%2 == 0 || (origin.Y+y)%2 == 0
		}),
	}
}

// workshopPattern is a 3x3 tile clutter layout. Slices top-first, rows
// of 9 voxels.
var workshopPattern = [geometry.Height][9][9]bool{
	{},
	{},
	{
		{false, false, false, false, false, false, true, true, true},
		{false, false, false, false, false, false, true, true, true},
		{true, true, true, false, false, false, true, true, true},
		{true, true, true, false, false, false, false, false, false},
		{true, true, true, false, false, false, false, false, false},
		{true, true, true, false, false, false, false, false, false},
		{true, true, true, true, true, true, true, false, false},
		{true, true, true, true, true, true, true, false, false},
		{true, true, true, true, true, true, true, false, false},
	},
	{
		{false, false, false, false, false, false, true, false, true},
		{false, false, false, false, false, false, false, false, false},
		{true, false, true, false, false, false, true, false, true},
		{false, false, false, false, true, false, false, false, false},
		{false, false, false, false, false, false, false, false, false},
		{false, false, false, false, false, false, false, false, false},
		{true, false, true, false, false, false, true, false, false},
		{false, false, false, false, false, false, false, false, false},
		{true, false, false, false, false, false, true, false, false},
	},
	{
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
		{true, true, true, true, true, true, true, true, true},
	},
}
