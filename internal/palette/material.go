// Package palette turns material descriptors into palette indices with
// color and physical attributes. Two descriptors that project to the
// same effective material share an index.
package palette

import (
	"fortvox.dev/internal/protocol"
)

// DefaultKind is a hard-coded material the game gives no color for.
type DefaultKind uint8

const (
	DefHidden DefaultKind = iota
	DefWater
	DefMist
	DefMagma
	DefFire
	DefSmoke
	DefMiasma
	DefPlant
	DefDeadPlant
	DefWood
	DefLight
	DefRock

	defaultKindCount
)

var defaultKindNames = [...]string{
	"hidden", "water", "mist", "magma", "fire", "smoke",
	"miasma", "plant", "dead-plant", "wood", "light", "rock",
}

func (k DefaultKind) String() string {
	if int(k) >= len(defaultKindNames) {
		return "unknown"
	}
	return defaultKindNames[k]
}

// DefaultKinds lists every kind, in index order.
func DefaultKinds() []DefaultKind {
	out := make([]DefaultKind, defaultKindCount)
	for i := range out {
		out[i] = DefaultKind(i)
	}
	return out
}

type kind uint8

const (
	kindDefault kind = iota
	kindGeneric
	kindDarkGeneric
	kindTileGeneric
	kindDarkTileGeneric
	kindPlant
)

// Material is a descriptor of what a voxel is made of. It is comparable
// and cheap to use as a map key.
type Material struct {
	kind kind
	def  DefaultKind
	pair protocol.MatPair
	tile protocol.TileMaterial

	source, dest ConsoleColor
}

// Default is a hard-coded material.
func Default(k DefaultKind) Material {
	return Material{kind: kindDefault, def: k}
}

// Generic is a game material rendered from its state color and flags.
func Generic(pair protocol.MatPair) Material {
	return Material{kind: kindGeneric, pair: pair}
}

// DarkGeneric is a darkened variant of Generic, used for shaded detail.
func DarkGeneric(pair protocol.MatPair) Material {
	return Material{kind: kindDarkGeneric, pair: pair}
}

// TileGeneric qualifies a generic material with the tile material class
// it appears as, which can override color or surface attributes.
func TileGeneric(pair protocol.MatPair, tile protocol.TileMaterial) Material {
	return Material{kind: kindTileGeneric, pair: pair, tile: tile}
}

// DarkTileGeneric is the darkened variant of TileGeneric.
func DarkTileGeneric(pair protocol.MatPair, tile protocol.TileMaterial) Material {
	return Material{kind: kindDarkTileGeneric, pair: pair, tile: tile}
}

// Plant is a growth material recolored from its out-of-season print
// color to the current one.
func Plant(pair protocol.MatPair, source, dest ConsoleColor) Material {
	return Material{kind: kindPlant, pair: pair, source: source, dest: dest}
}

// MatType tags the physical model of a palette entry.
type MatType string

const (
	TypeDiffuse MatType = "_diffuse"
	TypeMetal   MatType = "_metal"
	TypeGlass   MatType = "_glass"
	TypeEmit    MatType = "_emit"
	TypeBlend   MatType = "_blend"
)

// Unset marks an absent numeric attribute.
const Unset int16 = -1

// EffectiveMaterial is the canonical projection of a Material: what
// actually lands in the palette. Numeric attributes are percents
// except Flux (raw) and Density (thousandths); Unset means the writer
// omits the property.
type EffectiveMaterial struct {
	Color RGBA
	Type  MatType

	Metal   int16
	Rough   int16
	Trans   int16
	Emit    int16
	Flux    int16
	IOR     int16
	Media   int16
	Density int16
}

func newEffective() EffectiveMaterial {
	return EffectiveMaterial{
		Metal: Unset, Rough: Unset, Trans: Unset, Emit: Unset,
		Flux: Unset, IOR: Unset, Media: Unset, Density: Unset,
	}
}

// Context is the read-only world data material projection needs.
// *source.Catalogs satisfies it.
type Context interface {
	Material(pair protocol.MatPair) (protocol.MaterialDef, bool)
	HasFlag(pair protocol.MatPair, flag string) bool
	Token(pair protocol.MatPair) string
}

var defaultColors = [...]RGBA{
	DefHidden:    {0, 0, 0, 255},
	DefWater:     {0, 0, 255, 64},
	DefMist:      {255, 255, 255, 64},
	DefMagma:     {134, 0, 0, 64},
	DefFire:      {255, 174, 0, 64},
	DefSmoke:     {100, 100, 100, 64},
	DefMiasma:    {208, 89, 255, 64},
	DefPlant:     {0, 153, 51, 255},
	DefDeadPlant: {102, 102, 0, 255},
	DefWood:      {75, 21, 0, 255},
	DefLight:     {255, 255, 255, 64},
	DefRock:      {128, 128, 128, 255},
}

func fromDefault(k DefaultKind) EffectiveMaterial {
	res := newEffective()
	if int(k) < len(defaultColors) {
		res.Color = defaultColors[k]
	}
	switch k {
	case DefWater:
		res.Type = TypeGlass
		res.Trans = 50
	case DefMagma:
		res.Type = TypeBlend
		res.Rough = 100
		res.IOR = 0
		res.Metal = 50
		res.Trans = 100
		res.Media = 2
		res.Density = 100
	case DefFire, DefLight:
		res.Type = TypeEmit
		res.Emit = 50
		res.Flux = 1
	case DefMist:
		res.Type = TypeGlass
		res.IOR = 0
		res.Trans = 75
	case DefSmoke, DefMiasma:
		res.Type = TypeGlass
		res.IOR = 0
		res.Trans = 25
	default:
		res.Type = TypeDiffuse
	}
	return res
}

func fromMatPair(pair protocol.MatPair, ctx Context) EffectiveMaterial {
	res := newEffective()
	if def, ok := ctx.Material(pair); ok {
		if def.ID == "WATER" {
			// Clear in game terms; render ice-like light blue.
			res.Color = RGBA{200, 200, 230, 255}
		} else {
			res.Color = RGBA{
				R: uint8(def.StateColor.R),
				G: uint8(def.StateColor.G),
				B: uint8(def.StateColor.B),
				A: 255,
			}
		}
	}
	if ctx.HasFlag(pair, "IS_METAL") {
		res.Type = TypeMetal
		res.Metal = 60
		res.Rough = 20
	}
	if ctx.HasFlag(pair, "IS_GEM") {
		res.Type = TypeGlass
		res.Rough = 3
		res.Trans = 30
	}
	if ctx.HasFlag(pair, "IS_GLASS") {
		res.Type = TypeGlass
		res.Rough = 5
		res.Trans = 60
	}
	if ctx.HasFlag(pair, "IS_CERAMIC") {
		res.Type = TypeGlass
		res.Trans = 0
	}
	if ctx.Token(pair) == "MARBLE" {
		res.Type = TypeMetal
		res.Rough = 50
		res.Metal = 50
	}
	return res
}

func fromTileGeneric(pair protocol.MatPair, tile protocol.TileMaterial, ctx Context) EffectiveMaterial {
	res := fromMatPair(pair, ctx)
	switch tile {
	case protocol.TileMatFrozenLiquid:
		res.Type = TypeGlass
		res.IOR = 50
		res.Trans = 50
	case protocol.TileMatLavaStone:
		res.Type = TypeGlass
		res.Rough = 10
		res.Trans = 0
		res.IOR = 5
	case protocol.TileMatCampfire, protocol.TileMatFire:
		res.Type = TypeEmit
		res.Emit = 50
		res.Flux = 2
	case protocol.TileMatGrassLight:
		res.Color = RGBA{0, 153, 51, 255}
	case protocol.TileMatGrassDark:
		res.Color = RGBA{0, 102, 0, 255}
	case protocol.TileMatGrassDry, protocol.TileMatGrassDead:
		res.Color = RGBA{61, 102, 0, 255}
	case protocol.TileMatConstruction:
		res.Color = desaturate(res.Color, 0.1)
	case protocol.TileMatStone, protocol.TileMatDriftwood:
		res.Color = desaturate(res.Color, 0.15)
	}
	res.Color = ensureMinValue(res.Color, 0.02)
	return res
}

func fromPlant(m Material, ctx Context) EffectiveMaterial {
	res := newEffective()
	res.Type = TypeDiffuse

	main := RGBA{0, 0, 0, 255}
	if def, ok := ctx.Material(m.pair); ok {
		main = RGBA{
			R: uint8(def.StateColor.R),
			G: uint8(def.StateColor.G),
			B: uint8(def.StateColor.B),
			A: 255,
		}
	}
	if m.source == m.dest {
		res.Color = main
		return res
	}

	// Seasonal recoloring: translate the hue by the print-color delta
	// and rescale value so the endpoints line up.
	c := toHSV(main)
	src := toHSV(m.source.RGB())
	dst := toHSV(m.dest.RGB())
	c.H += dst.H - src.H
	if src.V > dst.V {
		c.V *= dst.V / src.V
	} else if src.V < 1 {
		c.V = 1 - (1-c.V)*((1-dst.V)/(1-src.V))
	}
	res.Color = fromHSV(c, 255)
	return res
}

// Effective projects the descriptor into its canonical palette form.
func (m Material) Effective(ctx Context) EffectiveMaterial {
	switch m.kind {
	case kindDefault:
		return fromDefault(m.def)
	case kindGeneric:
		return fromMatPair(m.pair, ctx)
	case kindDarkGeneric:
		res := fromMatPair(m.pair, ctx)
		res.Color = darken(res.Color, 0.2)
		return res
	case kindTileGeneric:
		return fromTileGeneric(m.pair, m.tile, ctx)
	case kindDarkTileGeneric:
		res := fromTileGeneric(m.pair, m.tile, ctx)
		res.Color = darken(res.Color, 0.2)
		return res
	case kindPlant:
		return fromPlant(m, ctx)
	}
	return newEffective()
}
