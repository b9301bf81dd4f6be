package palette

import (
	"io"
	"log"
	"testing"

	"fortvox.dev/internal/protocol"
)

// stubContext serves one material definition.
type stubContext struct {
	defs  map[protocol.MatPair]protocol.MaterialDef
	flags map[string]bool
}

func (s *stubContext) Material(pair protocol.MatPair) (protocol.MaterialDef, bool) {
	d, ok := s.defs[pair]
	return d, ok
}

func (s *stubContext) HasFlag(pair protocol.MatPair, flag string) bool {
	return s.flags[flag]
}

func (s *stubContext) Token(pair protocol.MatPair) string { return "" }

func testPalette() *Palette {
	return New(log.New(io.Discard, "", 0))
}

func TestGetAllocatesStableIndices(t *testing.T) {
	p := testPalette()
	ctx := &stubContext{}

	hidden := p.Get(Default(DefHidden), ctx)
	water := p.Get(Default(DefWater), ctx)
	if hidden != 1 || water != 2 {
		t.Fatalf("first two slots = %d, %d; want 1, 2", hidden, water)
	}
	if again := p.Get(Default(DefHidden), ctx); again != hidden {
		t.Fatalf("repeated Get moved the slot: %d != %d", again, hidden)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestEqualEffectiveMaterialsShareASlot(t *testing.T) {
	ctx := &stubContext{
		defs: map[protocol.MatPair]protocol.MaterialDef{
			{Type: 0, Index: 7}: {ID: "GRANITE", StateColor: protocol.StateColor{R: 110, G: 110, B: 110}},
			{Type: 0, Index: 9}: {ID: "DIORITE", StateColor: protocol.StateColor{R: 110, G: 110, B: 110}},
		},
	}
	p := testPalette()
	a := p.Get(Generic(protocol.MatPair{Type: 0, Index: 7}), ctx)
	b := p.Get(Generic(protocol.MatPair{Type: 0, Index: 9}), ctx)
	if a != b {
		t.Fatalf("same projected material got two slots: %d, %d", a, b)
	}
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
}

func TestDarkVariantGetsOwnSlot(t *testing.T) {
	ctx := &stubContext{
		defs: map[protocol.MatPair]protocol.MaterialDef{
			{Type: 0, Index: 7}: {ID: "GRANITE", StateColor: protocol.StateColor{R: 110, G: 110, B: 110}},
		},
	}
	p := testPalette()
	light := p.Get(Generic(protocol.MatPair{Type: 0, Index: 7}), ctx)
	dark := p.Get(DarkGeneric(protocol.MatPair{Type: 0, Index: 7}), ctx)
	if light == dark {
		t.Fatal("dark variant shares the light slot")
	}
}

func TestCacheDefaultsPinsEveryKind(t *testing.T) {
	p := testPalette()
	ctx := &stubContext{}
	p.CacheDefaults(ctx)

	if p.Len() != len(DefaultKinds()) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(DefaultKinds()))
	}
	// Defaults must keep their slots no matter what is added after.
	before := p.Get(Default(DefMagma), ctx)
	for i := 0; i < 50; i++ {
		p.Get(Generic(protocol.MatPair{Type: 0, Index: int32(i)}), ctx)
	}
	if after := p.Get(Default(DefMagma), ctx); after != before {
		t.Fatalf("default slot moved: %d -> %d", before, after)
	}
}

func TestOverflowCollapsesToLastSlot(t *testing.T) {
	ctx := &stubContext{
		defs: map[protocol.MatPair]protocol.MaterialDef{},
	}
	for i := 0; i < 300; i++ {
		ctx.defs[protocol.MatPair{Type: 1, Index: int32(i)}] = protocol.MaterialDef{
			ID:         "M",
			StateColor: protocol.StateColor{R: int32(i % 256), G: int32(i / 256), B: 0},
		}
	}
	p := testPalette()
	var last uint8
	for i := 0; i < 300; i++ {
		last = p.Get(Generic(protocol.MatPair{Type: 1, Index: int32(i)}), ctx)
	}
	if last != MaxIndex {
		t.Fatalf("overflow index = %d, want %d", last, MaxIndex)
	}
	if p.Len() != MaxIndex {
		t.Fatalf("Len() = %d, want %d", p.Len(), MaxIndex)
	}
}

func TestEntriesMatchAllocationOrder(t *testing.T) {
	p := testPalette()
	ctx := &stubContext{}
	p.Get(Default(DefWood), ctx)
	p.Get(Default(DefFire), ctx)

	entries := p.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() has %d items", len(entries))
	}
	if entries[0] != Default(DefWood).Effective(ctx) {
		t.Error("entry 0 is not the first allocated material")
	}
	if entries[1] != Default(DefFire).Effective(ctx) {
		t.Error("entry 1 is not the second allocated material")
	}
}

func TestWaterMaterialRendersIceBlue(t *testing.T) {
	pair := protocol.MatPair{Type: 3, Index: -1}
	ctx := &stubContext{
		defs: map[protocol.MatPair]protocol.MaterialDef{
			pair: {ID: "WATER", StateColor: protocol.StateColor{R: 0, G: 0, B: 255}},
		},
	}
	eff := Generic(pair).Effective(ctx)
	want := RGBA{200, 200, 230, 255}
	if eff.Color != want {
		t.Fatalf("water color = %v, want %v", eff.Color, want)
	}
}

func TestDarkenLowersValue(t *testing.T) {
	c := RGBA{200, 100, 50, 255}
	d := darken(c, 0.4)
	if d.A != c.A {
		t.Error("darken changed alpha")
	}
	if !(d.R < c.R) {
		t.Errorf("darken did not lower the dominant channel: %v -> %v", c, d)
	}
}

func TestConsoleColorTableCovers16(t *testing.T) {
	for c := ConsoleColor(0); c < 16; c++ {
		rgb := c.RGB()
		if rgb.A == 0 {
			t.Fatalf("console color %d has zero alpha", c)
		}
	}
}
