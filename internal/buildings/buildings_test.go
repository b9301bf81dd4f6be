package buildings

import (
	"log"
	"os"
	"testing"

	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/source"
	"fortvox.dev/internal/worldmap"
)

var testTiletypes = []protocol.TileType{
	{ID: 0, Shape: protocol.ShapeEmpty},
	{ID: 1, Shape: protocol.ShapeFloor, Material: protocol.TileMatStone, Special: protocol.SpecialSmooth},
	{ID: 2, Shape: protocol.ShapeWall, Material: protocol.TileMatStone, Special: protocol.SpecialSmooth},
}

func testBlock(x, y, z int32) *protocol.MapBlock {
	n := geometry.BlockSize * geometry.BlockSize
	return &protocol.MapBlock{
		MapX:   x,
		MapY:   y,
		MapZ:   z,
		Tiles:  make([]int32, n),
		Hidden: make([]bool, n),
		Water:  make([]int32, n),
		Magma:  make([]int32, n),
	}
}

func setTile(b *protocol.MapBlock, x, y int, tt int32) {
	b.Tiles[y*geometry.BlockSize+x] = tt
}

func placed(bt int32, x0, x1, y0, y1 int32) protocol.BuildingInstance {
	return protocol.BuildingInstance{
		Type:    protocol.BuildingTypeKey{Type: bt},
		PosXMin: x0, PosXMax: x1,
		PosYMin: y0, PosYMax: y1,
		Flags: protocol.BuildingFlagExists,
	}
}

func testBuilder(blocks ...*protocol.MapBlock) (*Builder, *worldmap.Map) {
	cats := source.NewCatalogs(source.CatalogData{Tiletypes: testTiletypes})
	m := worldmap.New(cats)
	for _, b := range blocks {
		m.AddBlock(b)
	}
	builder := &Builder{
		Map:      m,
		Catalogs: cats,
		Palette:  palette.New(log.New(os.Stderr, "[test] ", 0)),
	}
	return builder, m
}

func TestDoorGrowsArmsTowardsWalls(t *testing.T) {
	block := testBlock(0, 0, 0)
	setTile(block, 5, 4, 2)
	setTile(block, 5, 6, 2)
	door := placed(8, 5, 5, 5, 5)
	block.Buildings = []protocol.BuildingInstance{door}
	builder, _ := testBuilder(block)

	vs := builder.CollectVoxels(&door)
	if len(vs) != 12 {
		t.Fatalf("door voxels = %d, want 12", len(vs))
	}
	for _, v := range vs {
		if v.Coord.Z == 0 {
			t.Errorf("door voxel on the floor slice at %+v", v.Coord)
		}
		lx, ly := v.Coord.X-15, v.Coord.Y-15
		if lx != 1 {
			t.Errorf("door arm towards a wall-less side at %+v", v.Coord)
		}
		if ly < 0 || ly > 2 {
			t.Errorf("door voxel outside its tile at %+v", v.Coord)
		}
	}
}

func TestDoorWithoutNeighboursIsAPost(t *testing.T) {
	block := testBlock(0, 0, 0)
	door := placed(8, 5, 5, 5, 5)
	block.Buildings = []protocol.BuildingInstance{door}
	builder, _ := testBuilder(block)

	vs := builder.CollectVoxels(&door)
	if len(vs) != 4 {
		t.Fatalf("door voxels = %d, want 4", len(vs))
	}
	for _, v := range vs {
		if v.Coord.X != 16 || v.Coord.Y != 16 {
			t.Errorf("free-standing door voxel off center at %+v", v.Coord)
		}
	}
}

func TestBridgeRimsFollowDirection(t *testing.T) {
	block := testBlock(0, 0, 0)
	bridge := placed(19, 0, 2, 0, 1)
	bridge.Direction = "E"
	block.Buildings = []protocol.BuildingInstance{bridge}
	builder, _ := testBuilder(block)

	vs := builder.CollectVoxels(&bridge)
	deck, rim := 0, 0
	for _, v := range vs {
		switch v.Coord.Z {
		case 0:
			deck++
		case 1:
			rim++
			if v.Coord.Y != 0 && v.Coord.Y != 5 {
				t.Errorf("east bridge rim away from the north and south edges at %+v", v.Coord)
			}
		default:
			t.Errorf("bridge voxel at z=%d", v.Coord.Z)
		}
	}
	if deck != 54 {
		t.Errorf("deck voxels = %d, want 54", deck)
	}
	if rim != 18 {
		t.Errorf("rim voxels = %d, want 18", rim)
	}
}

func TestUndirectedBridgeHasNoRim(t *testing.T) {
	block := testBlock(0, 0, 0)
	bridge := placed(19, 0, 1, 0, 1)
	block.Buildings = []protocol.BuildingInstance{bridge}
	builder, _ := testBuilder(block)

	for _, v := range builder.CollectVoxels(&bridge) {
		if v.Coord.Z != 0 {
			t.Fatalf("undirected bridge voxel above the deck at %+v", v.Coord)
		}
	}
}

func TestGrateCheckerboard(t *testing.T) {
	block := testBlock(0, 0, 0)
	grate := placed(37, 0, 0, 0, 0)
	block.Buildings = []protocol.BuildingInstance{grate}
	builder, _ := testBuilder(block)

	vs := builder.CollectVoxels(&grate)
	if len(vs) != 8 {
		t.Fatalf("grate voxels = %d, want 8", len(vs))
	}
	for _, v := range vs {
		if v.Coord.Z != 0 {
			t.Errorf("grate voxel above the floor at %+v", v.Coord)
		}
		if v.Coord.X == 1 && v.Coord.Y == 1 {
			t.Errorf("grate hole filled at %+v", v.Coord)
		}
	}
}

func TestBedTurnsTowardsWall(t *testing.T) {
	block := testBlock(0, 0, 0)
	setTile(block, 6, 5, 2)
	bed := placed(1, 5, 5, 5, 5)
	block.Buildings = []protocol.BuildingInstance{bed}
	builder, _ := testBuilder(block)

	vs := builder.CollectVoxels(&bed)
	if len(vs) != 6 {
		t.Fatalf("bed voxels = %d, want 6", len(vs))
	}
	for _, v := range vs {
		if lx := v.Coord.X - 15; lx == 0 {
			t.Errorf("bed voxel on the side away from the wall at %+v", v.Coord)
		}
		if v.Coord.Z != 1 {
			t.Errorf("bed voxel at z=%d, want 1", v.Coord.Z)
		}
	}
}

func TestWorkshopFallbackPattern(t *testing.T) {
	block := testBlock(0, 0, 0)
	shop := placed(13, 0, 2, 0, 2)
	block.Buildings = []protocol.BuildingInstance{shop}
	builder, _ := testBuilder(block)

	perLevel := map[int]int{}
	for _, v := range builder.CollectVoxels(&shop) {
		perLevel[v.Coord.Z]++
	}
	if perLevel[0] != 81 {
		t.Errorf("workshop floor voxels = %d, want 81", perLevel[0])
	}
	if perLevel[1] != 12 {
		t.Errorf("workshop clutter voxels at z=1 = %d, want 12", perLevel[1])
	}
	if perLevel[2] != 42 {
		t.Errorf("workshop bench voxels at z=2 = %d, want 42", perLevel[2])
	}
}

func TestUnknownBuildingRendersNothing(t *testing.T) {
	block := testBlock(0, 0, 0)
	depot := placed(6, 0, 4, 0, 4)
	block.Buildings = []protocol.BuildingInstance{depot}
	builder, _ := testBuilder(block)

	if vs := builder.CollectVoxels(&depot); len(vs) != 0 {
		t.Fatalf("unknown building produced %d voxels", len(vs))
	}
}

type stubPrefabs struct {
	id string
	vs []Voxel
}

func (s *stubPrefabs) Build(id string, b *protocol.BuildingInstance) ([]Voxel, bool) {
	if id != s.id {
		return nil, false
	}
	return s.vs, true
}

func TestPrefabWinsOverTemplate(t *testing.T) {
	block := testBlock(0, 0, 0)
	shop := placed(13, 0, 2, 0, 2)
	block.Buildings = []protocol.BuildingInstance{shop}
	builder, _ := testBuilder(block)

	builder.Catalogs = source.NewCatalogs(source.CatalogData{
		Tiletypes: testTiletypes,
		Buildings: []protocol.BuildingDef{
			{Key: protocol.BuildingTypeKey{Type: 13}, ID: "workshops/masons"},
		},
	})
	builder.Prefabs = &stubPrefabs{
		id: "workshops/masons",
		vs: []Voxel{{Coord: geometry.VoxelCoord{X: 1, Y: 1, Z: 1}, Index: 7}},
	}

	vs := builder.CollectVoxels(&shop)
	if len(vs) != 1 || vs[0].Index != 7 {
		t.Fatalf("prefab result not used, got %d voxels", len(vs))
	}
}
