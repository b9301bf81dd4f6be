package scene

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/shape"
)

// Block model dimensions in voxels.
const (
	BlockVoxelSpan   = geometry.Base * geometry.BlockSize
	BlockVoxelHeight = geometry.Height
)

// BlockModels buckets the voxels of one map block per layer.
type BlockModels struct {
	layers [layerCount][]Voxel
}

// Extend appends raw voxels to a layer.
func (bm *BlockModels) Extend(l Layer, vs []Voxel) {
	bm.layers[l] = append(bm.layers[l], vs...)
}

// VoxelsFromBox lists the non-zero cells of a tile-sized index box at
// the tile's position inside the block. The box is stored top-first,
// the file wants z up, and the y axis flips from map north-down to
// scene north-up.
func VoxelsFromBox(origin geometry.LocalCoord, box shape.Box3D[uint8]) []Voxel {
	var out []Voxel
	for z := 0; z < geometry.Height; z++ {
		for y := 0; y < geometry.Base; y++ {
			for x := 0; x < geometry.Base; x++ {
				i := box[z][y][x]
				if i == 0 {
					continue
				}
				out = append(out, Voxel{
					X: uint8(int(origin.X)*geometry.Base + x),
					Y: uint8((geometry.BlockSize-int(origin.Y)-1)*geometry.Base + (geometry.Base - 1 - y)),
					Z: uint8(geometry.Height - 1 - z),
					I: i,
				})
			}
		}
	}
	return out
}

// ExtendBox emits the non-zero cells of a tile-sized index box.
func (bm *BlockModels) ExtendBox(l Layer, origin geometry.LocalCoord, box shape.Box3D[uint8]) {
	bm.layers[l] = append(bm.layers[l], VoxelsFromBox(origin, box)...)
}

// Layer returns the voxels collected so far for one layer.
func (bm *BlockModels) Layer(l Layer) []Voxel {
	return bm.layers[l]
}

// IsEmpty reports whether no layer holds any voxel.
func (bm *BlockModels) IsEmpty() bool {
	for l := range bm.layers {
		if len(bm.layers[l]) > 0 {
			return false
		}
	}
	return true
}

// OnlyHidden reports whether every voxel sits on the hidden layer.
// Such blocks share one pre-built model instead of carrying their own.
func (bm *BlockModels) OnlyHidden() bool {
	if len(bm.layers[LayerHidden]) == 0 {
		return false
	}
	for l := range bm.layers {
		if Layer(l) != LayerHidden && len(bm.layers[l]) > 0 {
			return false
		}
	}
	return true
}

// Build inserts one shape per non-empty layer under the block group.
// Layers are walked in reverse so the file lists background channels
// first and foreground ones on top.
func (bm *BlockModels) Build(b *Builder, group NodeID) {
	for l := int(layerCount) - 1; l >= 0; l-- {
		vs := bm.layers[l]
		if len(vs) == 0 {
			continue
		}
		m := Model{
			SizeX: BlockVoxelSpan, SizeY: BlockVoxelSpan, SizeZ: BlockVoxelHeight,
			Voxels: vs,
		}
		b.InsertModelShape(group, "", nil, Layer(l), m)
	}
}

// HiddenBlockModel is a block fully filled with one index, shared by
// blocks whose every tile is hidden.
func HiddenBlockModel(index uint8) Model {
	vs := make([]Voxel, 0, BlockVoxelSpan*BlockVoxelSpan*BlockVoxelHeight)
	for z := 0; z < BlockVoxelHeight; z++ {
		for y := 0; y < BlockVoxelSpan; y++ {
			for x := 0; x < BlockVoxelSpan; x++ {
				vs = append(vs, Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), I: index})
			}
		}
	}
	return Model{SizeX: BlockVoxelSpan, SizeY: BlockVoxelSpan, SizeZ: BlockVoxelHeight, Voxels: vs}
}
