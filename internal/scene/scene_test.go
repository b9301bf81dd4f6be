package scene

import (
	"bytes"
	"encoding/binary"
	"testing"

	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/shape"
)

func TestExtendBoxCoordinates(t *testing.T) {
	var box shape.Box3D[uint8]
	// top layer, north-west cell of the tile
	box[0][0][0] = 7

	var bm BlockModels
	bm.ExtendBox(LayerTerrain, geometry.LocalCoord{X: 2, Y: 1}, box)

	vs := bm.layers[LayerTerrain]
	if len(vs) != 1 {
		t.Fatalf("expected 1 voxel, got %d", len(vs))
	}
	v := vs[0]
	if v.X != 6 {
		t.Errorf("x = %d, want 6", v.X)
	}
	// block row 1 lands near the top of the flipped y axis, and the
	// tile's own north row flips to its south edge
	if v.Y != 14*3+2 {
		t.Errorf("y = %d, want %d", v.Y, 14*3+2)
	}
	// box layer 0 is the top of the tile
	if v.Z != geometry.Height-1 {
		t.Errorf("z = %d, want %d", v.Z, geometry.Height-1)
	}
	if v.I != 7 {
		t.Errorf("index = %d, want 7", v.I)
	}
}

func TestExtendBoxSkipsZero(t *testing.T) {
	var box shape.Box3D[uint8]
	var bm BlockModels
	bm.ExtendBox(LayerTerrain, geometry.LocalCoord{}, box)
	if !bm.IsEmpty() {
		t.Fatal("empty box produced voxels")
	}
}

func TestOnlyHidden(t *testing.T) {
	var bm BlockModels
	if bm.OnlyHidden() {
		t.Error("empty block reported as hidden-only")
	}
	bm.Extend(LayerHidden, []Voxel{{I: 1}})
	if !bm.OnlyHidden() {
		t.Error("hidden-only block not detected")
	}
	bm.Extend(LayerTerrain, []Voxel{{I: 2}})
	if bm.OnlyHidden() {
		t.Error("mixed block reported as hidden-only")
	}
}

func TestBuildOrdersLayersBackToFront(t *testing.T) {
	b := NewBuilder()
	group := b.InsertGroup(b.RootGroup, "block 0 0", nil, LayerAll)

	var bm BlockModels
	bm.Extend(LayerVegetation, []Voxel{{I: 1}})
	bm.Extend(LayerLiquid, []Voxel{{I: 2}})
	bm.Build(b, group)

	children := b.nodes[group].children
	if len(children) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(children))
	}
	first := b.nodes[children[0]]
	second := b.nodes[children[1]]
	if first.layer != LayerLiquid || second.layer != LayerVegetation {
		t.Errorf("layer order = %v, %v; want liquid then vegetation", first.layer, second.layer)
	}
}

func TestHiddenBlockModel(t *testing.T) {
	m := HiddenBlockModel(3)
	want := BlockVoxelSpan * BlockVoxelSpan * BlockVoxelHeight
	if len(m.Voxels) != want {
		t.Fatalf("voxel count = %d, want %d", len(m.Voxels), want)
	}
	for _, v := range m.Voxels {
		if v.I != 3 {
			t.Fatalf("voxel index = %d, want 3", v.I)
		}
	}
}

func TestWriteHeaderAndChunkSizes(t *testing.T) {
	b := NewBuilder()
	group := b.InsertGroup(b.RootGroup, "level 0", &Point{X: 1, Y: -2, Z: 3}, LayerAll)
	b.InsertModelShape(group, "", nil, LayerTerrain, Model{
		SizeX: 3, SizeY: 3, SizeZ: 5,
		Voxels: []Voxel{{X: 1, Y: 1, Z: 1, I: 1}},
	})
	b.HideLayer(LayerHidden)

	entries := []palette.EffectiveMaterial{
		{Color: palette.RGBA{R: 10, G: 20, B: 30, A: 255}, Type: palette.TypeDiffuse},
	}

	var buf bytes.Buffer
	if err := b.Write(&buf, entries); err != nil {
		t.Fatalf("write: %v", err)
	}
	data := buf.Bytes()
	if string(data[:4]) != "VOX " {
		t.Fatalf("bad magic %q", data[:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != 150 {
		t.Fatalf("version = %d, want 150", v)
	}
	if string(data[8:12]) != "MAIN" {
		t.Fatalf("missing MAIN chunk, got %q", data[8:12])
	}
	childSize := binary.LittleEndian.Uint32(data[16:])
	if int(childSize) != len(data)-20 {
		t.Fatalf("MAIN child size %d does not cover file tail %d", childSize, len(data)-20)
	}
}

func TestMaterialAttrs(t *testing.T) {
	m := palette.EffectiveMaterial{
		Type: palette.TypeGlass, Metal: palette.Unset, Rough: 3,
		Trans: 50, Emit: palette.Unset, Flux: palette.Unset,
		IOR: palette.Unset, Media: palette.Unset, Density: palette.Unset,
	}
	attrs := materialAttrs(m)
	got := map[string]string{}
	for _, p := range attrs {
		got[p[0]] = p[1]
	}
	if got["_type"] != "_glass" {
		t.Errorf("_type = %q", got["_type"])
	}
	if got["_rough"] != "0.03" {
		t.Errorf("_rough = %q", got["_rough"])
	}
	if got["_ior"] != "0.3" {
		t.Errorf("default _ior = %q", got["_ior"])
	}
	if got["_trans"] != "0.5" || got["_alpha"] != "0.5" {
		t.Errorf("_trans/_alpha = %q/%q", got["_trans"], got["_alpha"])
	}
}
