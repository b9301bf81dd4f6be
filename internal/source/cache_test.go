package source

import (
	"path/filepath"
	"testing"

	"fortvox.dev/internal/protocol"
)

func openTestCache(t *testing.T, path string) *ScanCache {
	t.Helper()
	c, err := OpenScanCache(path)
	if err != nil {
		t.Fatalf("OpenScanCache: %v", err)
	}
	return c
}

func TestScanCacheMetaRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.db")

	c := openTestCache(t, path)
	info := protocol.MapInfo{BlockSizeX: 6, BlockSizeY: 6, BlockSizeZ: 180, GameMode: "FORTRESS"}
	if err := c.RecordMeta("map_info", info); err != nil {
		t.Fatalf("RecordMeta: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c = openTestCache(t, path)
	defer c.Close()
	var got protocol.MapInfo
	if err := c.LoadMeta("map_info", &got); err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if got != info {
		t.Fatalf("meta round trip: got %+v, want %+v", got, info)
	}
}

func TestScanCacheLoadMetaMissing(t *testing.T) {
	c := openTestCache(t, filepath.Join(t.TempDir(), "scan.db"))
	defer c.Close()
	var got protocol.MapInfo
	if err := c.LoadMeta("map_info", &got); err == nil {
		t.Fatal("LoadMeta on empty cache did not fail")
	}
}

func TestScanCacheReplaysBlocksInLevelOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.db")

	c := openTestCache(t, path)
	// Recorded out of order on purpose.
	c.RecordList(protocol.BlockList{Blocks: []protocol.MapBlock{
		{MapX: 16, MapY: 0, MapZ: 5, Tiles: []int32{1}},
		{MapX: 0, MapY: 0, MapZ: 2, Tiles: []int32{2}},
		{MapX: 0, MapY: 16, MapZ: 2, Tiles: []int32{3}},
	}})
	c.RecordList(protocol.BlockList{
		Blocks:     []protocol.MapBlock{{MapX: 0, MapY: 0, MapZ: 5, Tiles: []int32{4}}},
		Engravings: []protocol.Engraving{{X: 3, Y: 4, Z: 2, Quality: 5}},
	})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c = openTestCache(t, path)
	defer c.Close()
	var blocks []protocol.MapBlock
	var engravings []protocol.Engraving
	err := c.LoadLists(func(list protocol.BlockList) error {
		blocks = append(blocks, list.Blocks...)
		engravings = append(engravings, list.Engravings...)
		return nil
	})
	if err != nil {
		t.Fatalf("LoadLists: %v", err)
	}

	wantOrder := [][3]int32{{0, 0, 2}, {0, 16, 2}, {0, 0, 5}, {16, 0, 5}}
	if len(blocks) != len(wantOrder) {
		t.Fatalf("replayed %d blocks, want %d", len(blocks), len(wantOrder))
	}
	for i, b := range blocks {
		got := [3]int32{b.MapX, b.MapY, b.MapZ}
		if got != wantOrder[i] {
			t.Errorf("block %d at %v, want %v", i, got, wantOrder[i])
		}
	}
	if blocks[0].Tiles[0] != 2 {
		t.Errorf("block payload lost: tiles = %v", blocks[0].Tiles)
	}
	if len(engravings) != 1 || engravings[0].Quality != 5 {
		t.Fatalf("engravings = %+v, want one with quality 5", engravings)
	}
}

func TestScanCacheRerecordReplacesBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.db")

	c := openTestCache(t, path)
	c.RecordList(protocol.BlockList{Blocks: []protocol.MapBlock{
		{MapX: 0, MapY: 0, MapZ: 0, Tiles: []int32{1}},
	}})
	c.RecordList(protocol.BlockList{Blocks: []protocol.MapBlock{
		{MapX: 0, MapY: 0, MapZ: 0, Tiles: []int32{9}},
	}})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c = openTestCache(t, path)
	defer c.Close()
	var blocks []protocol.MapBlock
	if err := c.LoadLists(func(list protocol.BlockList) error {
		blocks = append(blocks, list.Blocks...)
		return nil
	}); err != nil {
		t.Fatalf("LoadLists: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("replayed %d blocks, want 1", len(blocks))
	}
	if blocks[0].Tiles[0] != 9 {
		t.Errorf("stale payload survived: tiles = %v", blocks[0].Tiles)
	}
}

func TestNilScanCacheIsInert(t *testing.T) {
	var c *ScanCache
	c.RecordList(protocol.BlockList{Blocks: []protocol.MapBlock{{MapZ: 1}}})
	if err := c.RecordMeta("map_info", protocol.MapInfo{}); err != nil {
		t.Fatalf("RecordMeta on nil cache: %v", err)
	}
}
