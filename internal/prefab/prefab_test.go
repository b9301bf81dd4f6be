package prefab

import (
	"log"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/worldmap"
)

const postModel = `
size: [3, 3, 5]
slices:
  - - "000"
    - "000"
    - "000"
  - - ".0."
    - "000"
    - ".0."
  - - ".1."
    - "..."
    - "..."
  - - "..."
    - "..."
    - "..."
  - - "..."
    - "..."
    - "..."
`

func TestParseModelFlipsRows(t *testing.T) {
	m, err := ParseModel([]byte(postModel))
	if err != nil {
		t.Fatalf("ParseModel: %v", err)
	}
	if m.SizeX != 3 || m.SizeY != 3 || m.SizeZ != 5 {
		t.Fatalf("size = %dx%dx%d", m.SizeX, m.SizeY, m.SizeZ)
	}
	// The z=2 marker is on the first row, which is the north edge,
	// so it must land at the high y.
	found := false
	for _, v := range m.Voxels {
		if v.Z == 2 {
			found = true
			if v.X != 1 || v.Y != 2 {
				t.Errorf("marker at (%d,%d), want (1,2)", v.X, v.Y)
			}
			if v.I != 1 {
				t.Errorf("marker channel = %d, want 1", v.I)
			}
		}
	}
	if !found {
		t.Fatal("marker voxel missing")
	}
}

func TestRotationRoundTrip(t *testing.T) {
	m, err := ParseModel([]byte(postModel))
	if err != nil {
		t.Fatalf("ParseModel: %v", err)
	}
	r := m.rotatedBy(4)
	if len(r.Voxels) != len(m.Voxels) {
		t.Fatalf("voxel count changed: %d != %d", len(r.Voxels), len(m.Voxels))
	}
	for i, v := range r.Voxels {
		if v != m.Voxels[i] {
			t.Fatalf("voxel %d moved: %+v != %+v", i, v, m.Voxels[i])
		}
	}
}

func TestLoadEmbedded(t *testing.T) {
	reg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []string{"Workshop/Masons", "Workshop/Carpenters", "Workshop/Still", "Furnace/Smelter", "TradeDepot", "FarmPlot"} {
		if _, ok := reg.Prefab(id); !ok {
			t.Errorf("missing embedded prefab %s", id)
		}
	}
	plot, ok := reg.Prefab("FarmPlot")
	if !ok {
		t.Fatal("FarmPlot missing")
	}
	if plot.Connectivity != ConnectSelfRemovesLayer || plot.ConnectivityLayer != 1 {
		t.Errorf("FarmPlot connectivity = %v layer %d", plot.Connectivity, plot.ConnectivityLayer)
	}
	shop, _ := reg.Prefab("Workshop/Masons")
	if shop.Content != ContentAll {
		t.Errorf("workshop glob did not apply content mode")
	}
}

func TestLoadFromRejectsModellessEntry(t *testing.T) {
	cfg := []byte("buildings:\n  Ghost:\n    orientation: against_wall\n")
	_, err := LoadFrom(cfg, fstest.MapFS{})
	if err == nil || !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("want missing-model error, got %v", err)
	}
}

func testWorld(blocks ...*protocol.MapBlock) (*worldmap.Map, *source.Catalogs, *palette.Palette) {
	cats := source.NewCatalogs(source.CatalogData{
		Tiletypes: []protocol.TileType{
			{ID: 0, Shape: protocol.ShapeEmpty},
			{ID: 2, Shape: protocol.ShapeWall, Material: protocol.TileMatStone},
		},
		Buildings: []protocol.BuildingDef{
			{Key: protocol.BuildingTypeKey{Type: 4}, ID: "FarmPlot"},
			{Key: protocol.BuildingTypeKey{Type: 6}, ID: "TradeDepot"},
		},
	})
	m := worldmap.New(cats)
	for _, b := range blocks {
		m.AddBlock(b)
	}
	return m, cats, palette.New(log.New(os.Stderr, "[test] ", 0))
}

func emptyBlock() *protocol.MapBlock {
	n := geometry.BlockSize * geometry.BlockSize
	return &protocol.MapBlock{
		Tiles:  make([]int32, n),
		Hidden: make([]bool, n),
		Water:  make([]int32, n),
		Magma:  make([]int32, n),
	}
}

func TestDepotTilingPinsEdges(t *testing.T) {
	reg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	depot := protocol.BuildingInstance{
		Index:   1,
		Type:    protocol.BuildingTypeKey{Type: 6},
		PosXMax: 4, PosYMax: 4,
		Flags: protocol.BuildingFlagExists,
		Items: []protocol.BuildingItem{
			{Mode: 2, Material: protocol.MatPair{Type: 0, Index: 3}},
			{Mode: 0, Material: protocol.MatPair{Type: 0, Index: 9}},
		},
	}
	block := emptyBlock()
	block.Buildings = []protocol.BuildingInstance{depot}
	m, cats, pal := testWorld(block)

	bound := &Bound{Registry: reg, Map: m, Catalogs: cats, Palette: pal}
	vs, ok := bound.Build("TradeDepot", &depot)
	if !ok {
		t.Fatal("TradeDepot prefab missing")
	}

	floor := 0
	pillars := map[geometry.VoxelCoord]bool{}
	for _, v := range vs {
		if v.Coord.Z == 0 {
			floor++
		}
		if v.Coord.Z == 3 {
			pillars[v.Coord] = true
		}
	}
	if floor != 225 {
		t.Errorf("floor voxels = %d, want 225 over a 5x5 footprint", floor)
	}
	// Pillars only exist in the model's corner tiles, which pin to
	// the footprint corners: x and y in {0, 14}.
	for c := range pillars {
		if (c.X != 0 && c.X != 14) || (c.Y != 0 && c.Y != 14) {
			t.Errorf("pillar voxel inside the footprint at %+v", c)
		}
	}
	if len(pillars) != 4 {
		t.Errorf("pillar voxels = %d, want 4", len(pillars))
	}
}

func TestFarmPlotsMerge(t *testing.T) {
	reg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	west := protocol.BuildingInstance{
		Index: 1, Type: protocol.BuildingTypeKey{Type: 4},
		PosXMin: 5, PosXMax: 5, PosYMin: 5, PosYMax: 5,
		Flags: protocol.BuildingFlagExists,
	}
	east := west
	east.Index = 2
	east.PosXMin, east.PosXMax = 6, 6
	block := emptyBlock()
	block.Buildings = []protocol.BuildingInstance{west, east}
	m, cats, pal := testWorld(block)

	bound := &Bound{Registry: reg, Map: m, Catalogs: cats, Palette: pal}
	vs, ok := bound.Build("FarmPlot", &west)
	if !ok {
		t.Fatal("FarmPlot prefab missing")
	}

	rim := 0
	for _, v := range vs {
		if v.Coord.Z != 1 {
			continue
		}
		rim++
		if v.Coord.X == 17 {
			t.Errorf("rim still present on the merged east side at %+v", v.Coord)
		}
	}
	// 8 rim voxels, minus the 3 eroded towards the neighbour plot.
	if rim != 5 {
		t.Errorf("rim voxels = %d, want 5", rim)
	}
}

func TestAgainstWallTurnsBackToWall(t *testing.T) {
	cfg := []byte("buildings:\n  post:\n    orientation: against_wall\n")
	models := fstest.MapFS{
		"post.yaml": &fstest.MapFile{Data: []byte(postModel)},
	}
	reg, err := LoadFrom(cfg, models)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	block := emptyBlock()
	// Wall east of the building tile.
	block.Tiles[5*geometry.BlockSize+6] = 2
	post := protocol.BuildingInstance{
		Index: 1, Type: protocol.BuildingTypeKey{Type: 15},
		PosXMin: 5, PosXMax: 5, PosYMin: 5, PosYMax: 5,
		Flags: protocol.BuildingFlagExists,
		Items: []protocol.BuildingItem{
			{Mode: 2, Material: protocol.MatPair{Type: 0, Index: 3}},
			{Mode: 2, Material: protocol.MatPair{Type: 0, Index: 4}},
		},
	}
	block.Buildings = []protocol.BuildingInstance{post}
	m, cats, pal := testWorld(block)

	bound := &Bound{Registry: reg, Map: m, Catalogs: cats, Palette: pal}
	vs, ok := bound.Build("post", &post)
	if !ok {
		t.Fatal("post prefab missing")
	}

	// The marker is authored on the model's north face; with its
	// back to an east wall it must end up on the west side.
	found := false
	for _, v := range vs {
		if v.Coord.Z == 2 {
			found = true
			if v.Coord.X != 15 {
				t.Errorf("marker at x=%d, want 15", v.Coord.X)
			}
		}
	}
	if !found {
		t.Fatal("marker voxel missing")
	}
}

func TestUnknownPrefabReportsMiss(t *testing.T) {
	reg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, cats, pal := testWorld(emptyBlock())
	bound := &Bound{Registry: reg, Map: m, Catalogs: cats, Palette: pal}
	b := protocol.BuildingInstance{Flags: protocol.BuildingFlagExists}
	if _, ok := bound.Build("Cathedral", &b); ok {
		t.Fatal("unknown id reported a prefab")
	}
}
