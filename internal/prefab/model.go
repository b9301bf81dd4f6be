package prefab

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ModelVoxel is one template voxel. Coordinates are in model space:
// x east, y north, z up. I is a material channel, not a palette index.
type ModelVoxel struct {
	X, Y, Z uint8
	I       uint8
}

// Model is a voxel template. Its horizontal size is a multiple of the
// tile size, so it splits into whole tile columns.
type Model struct {
	SizeX, SizeY, SizeZ int
	Voxels              []ModelVoxel
}

// modelFile is the on-disk template format: character grids, one slice
// per z level from the bottom up, rows listed north to south. '.' is
// empty, '0'-'9' and 'a'-'q' are the material channels 0 to 26.
type modelFile struct {
	Size   [3]int     `yaml:"size"`
	Slices [][]string `yaml:"slices"`
}

func channelOf(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'q':
		return c - 'a' + 10, true
	}
	return 0, false
}

// ParseModel decodes a YAML model template.
func ParseModel(raw []byte) (Model, error) {
	var f modelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Model{}, err
	}
	m := Model{SizeX: f.Size[0], SizeY: f.Size[1], SizeZ: f.Size[2]}
	if m.SizeX <= 0 || m.SizeY <= 0 || m.SizeZ <= 0 {
		return Model{}, fmt.Errorf("model size %v", f.Size)
	}
	if len(f.Slices) != m.SizeZ {
		return Model{}, fmt.Errorf("model has %d slices, size says %d", len(f.Slices), m.SizeZ)
	}
	for z, slice := range f.Slices {
		if len(slice) != m.SizeY {
			return Model{}, fmt.Errorf("slice %d has %d rows, size says %d", z, len(slice), m.SizeY)
		}
		for row, line := range slice {
			if len(line) != m.SizeX {
				return Model{}, fmt.Errorf("slice %d row %d is %d wide, size says %d", z, row, len(line), m.SizeX)
			}
			y := m.SizeY - 1 - row
			for x := 0; x < m.SizeX; x++ {
				if line[x] == '.' {
					continue
				}
				i, ok := channelOf(line[x])
				if !ok {
					return Model{}, fmt.Errorf("slice %d row %d: bad channel %q", z, row, line[x])
				}
				m.Voxels = append(m.Voxels, ModelVoxel{X: uint8(x), Y: uint8(y), Z: uint8(z), I: i})
			}
		}
	}
	return m, nil
}

// rotated turns the model a quarter turn about z. Model space is
// y-up, so the index math runs opposite to the tile box rotation.
func (m Model) rotated() Model {
	out := Model{SizeX: m.SizeY, SizeY: m.SizeX, SizeZ: m.SizeZ}
	out.Voxels = make([]ModelVoxel, len(m.Voxels))
	for i, v := range m.Voxels {
		out.Voxels[i] = ModelVoxel{
			X: v.Y,
			Y: uint8(m.SizeX - 1 - int(v.X)),
			Z: v.Z,
			I: v.I,
		}
	}
	return out
}

func (m Model) rotatedBy(n int) Model {
	n = ((n % 4) + 4) % 4
	for i := 0; i < n; i++ {
		m = m.rotated()
	}
	return m
}
