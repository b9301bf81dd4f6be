// Package protocol defines the typed records the game bridge streams. The
// bridge speaks JSON over a websocket; these structs are the wire contract
// and stay free of voxel logic.
package protocol

// MatPair identifies a game material by type and index.
type MatPair struct {
	Type  int32 `json:"type"`
	Index int32 `json:"index"`
}

// TileShape classifies the geometry of a tile type.
type TileShape string

const (
	ShapeNone          TileShape = "NONE"
	ShapeEmpty         TileShape = "EMPTY"
	ShapeFloor         TileShape = "FLOOR"
	ShapeBoulder       TileShape = "BOULDER"
	ShapePebbles       TileShape = "PEBBLES"
	ShapeWall          TileShape = "WALL"
	ShapeFortification TileShape = "FORTIFICATION"
	ShapeStairUp       TileShape = "STAIR_UP"
	ShapeStairDown     TileShape = "STAIR_DOWN"
	ShapeStairUpDown   TileShape = "STAIR_UPDOWN"
	ShapeRamp          TileShape = "RAMP"
	ShapeRampTop       TileShape = "RAMP_TOP"
	ShapeBrookBed      TileShape = "BROOK_BED"
	ShapeBrookTop      TileShape = "BROOK_TOP"
	ShapeTreeShape     TileShape = "TREE_SHAPE"
	ShapeSapling       TileShape = "SAPLING"
	ShapeShrub         TileShape = "SHRUB"
	ShapeBranch        TileShape = "BRANCH"
	ShapeTrunkBranch   TileShape = "TRUNK_BRANCH"
	ShapeTwig          TileShape = "TWIG"
	ShapeEndlessPit    TileShape = "ENDLESS_PIT"
)

// TileMaterial classifies what a tile type is made of.
type TileMaterial string

const (
	TileMatNone         TileMaterial = "NONE"
	TileMatAir          TileMaterial = "AIR"
	TileMatSoil         TileMaterial = "SOIL"
	TileMatStone        TileMaterial = "STONE"
	TileMatFeature      TileMaterial = "FEATURE"
	TileMatLavaStone    TileMaterial = "LAVA_STONE"
	TileMatMineral      TileMaterial = "MINERAL"
	TileMatFrozenLiquid TileMaterial = "FROZEN_LIQUID"
	TileMatConstruction TileMaterial = "CONSTRUCTION"
	TileMatGrassLight   TileMaterial = "GRASS_LIGHT"
	TileMatGrassDark    TileMaterial = "GRASS_DARK"
	TileMatGrassDry     TileMaterial = "GRASS_DRY"
	TileMatGrassDead    TileMaterial = "GRASS_DEAD"
	TileMatPlant        TileMaterial = "PLANT"
	TileMatHFS          TileMaterial = "HFS"
	TileMatCampfire     TileMaterial = "CAMPFIRE"
	TileMatFire         TileMaterial = "FIRE"
	TileMatAshes        TileMaterial = "ASHES"
	TileMatMagma        TileMaterial = "MAGMA"
	TileMatDriftwood    TileMaterial = "DRIFTWOOD"
	TileMatPool         TileMaterial = "POOL"
	TileMatBrook        TileMaterial = "BROOK"
	TileMatRiver        TileMaterial = "RIVER"
	TileMatRoot         TileMaterial = "ROOT"
	TileMatTree         TileMaterial = "TREE_MATERIAL"
	TileMatMushroom     TileMaterial = "MUSHROOM"
	TileMatUnderworld   TileMaterial = "UNDERWORLD_GATE"
)

// TileSpecial is the extra qualifier on a tile type.
type TileSpecial string

const (
	SpecialNone       TileSpecial = "NONE"
	SpecialNormal     TileSpecial = "NORMAL"
	SpecialRiverSrc   TileSpecial = "RIVER_SOURCE"
	SpecialWaterfall  TileSpecial = "WATERFALL"
	SpecialSmooth     TileSpecial = "SMOOTH"
	SpecialFurrowed   TileSpecial = "FURROWED"
	SpecialWet        TileSpecial = "WET"
	SpecialDead       TileSpecial = "DEAD"
	SpecialWorn1      TileSpecial = "WORN_1"
	SpecialWorn2      TileSpecial = "WORN_2"
	SpecialWorn3      TileSpecial = "WORN_3"
	SpecialTrack      TileSpecial = "TRACK"
	SpecialSmoothDead TileSpecial = "SMOOTH_DEAD"
)

// TileType is one entry of the tile-type list; block tiles reference it by
// index. Direction carries the rail or branch connectivity letters.
type TileType struct {
	ID        int32        `json:"id"`
	Name      string       `json:"name"`
	Shape     TileShape    `json:"shape"`
	Special   TileSpecial  `json:"special"`
	Material  TileMaterial `json:"material"`
	Direction string       `json:"direction,omitempty"`
}

// MatterState is the physical state of a spatter.
type MatterState string

const (
	StateSolid   MatterState = "SOLID"
	StateLiquid  MatterState = "LIQUID"
	StateGas     MatterState = "GAS"
	StatePowder  MatterState = "POWDER"
	StatePaste   MatterState = "PASTE"
	StatePressed MatterState = "PRESSED"
)

// Spatter is a material lying on top of a tile (snow, blood, fallen
// leaves). Amount ranges depend on State: solid 0..10000, liquid 0..255,
// powder 0..100.
type Spatter struct {
	Material MatPair     `json:"material"`
	Amount   int32       `json:"amount"`
	State    MatterState `json:"state"`
}

// FlowType discriminates airborne flows.
type FlowType string

const (
	FlowMist          FlowType = "MIST"
	FlowMistSeaFoam   FlowType = "SEA_FOAM"
	FlowMistSteam     FlowType = "STEAM"
	FlowOceanWave     FlowType = "OCEAN_WAVE"
	FlowMagmaMist     FlowType = "MAGMA_MIST"
	FlowFire          FlowType = "FIRE"
	FlowCampFire      FlowType = "CAMP_FIRE"
	FlowDragonfire    FlowType = "DRAGONFIRE"
	FlowMiasma        FlowType = "MIASMA"
	FlowSmoke         FlowType = "SMOKE"
	FlowItemCloud     FlowType = "ITEM_CLOUD"
	FlowMaterialDust  FlowType = "MATERIAL_DUST"
	FlowMaterialGas   FlowType = "MATERIAL_GAS"
	FlowMaterialVapor FlowType = "MATERIAL_VAPOR"
	FlowWeb           FlowType = "WEB"
)

// FlowInfo is one airborne flow at a tile.
type FlowInfo struct {
	X        int32    `json:"x"`
	Y        int32    `json:"y"`
	Z        int32    `json:"z"`
	Type     FlowType `json:"flow_type"`
	Density  int32    `json:"density"`
	Material MatPair  `json:"material"`
}

// BuildingItem is an item attached to a building. Mode 2 marks a build
// material, anything else is content.
type BuildingItem struct {
	Mode     int32   `json:"mode"`
	Material MatPair `json:"material"`
}

// BuildingTypeKey is the (type, subtype, custom) triple identifying a
// building definition.
type BuildingTypeKey struct {
	Type    int32 `json:"building_type"`
	Subtype int32 `json:"building_subtype"`
	Custom  int32 `json:"building_custom"`
}

// Building flag bits, from the game's building structure.
const (
	BuildingFlagExists uint32 = 1 << 0
)

// BuildingInstance is one placed building.
type BuildingInstance struct {
	Index     int32           `json:"index"`
	Type      BuildingTypeKey `json:"type"`
	PosXMin   int32           `json:"pos_x_min"`
	PosXMax   int32           `json:"pos_x_max"`
	PosYMin   int32           `json:"pos_y_min"`
	PosYMax   int32           `json:"pos_y_max"`
	PosZMin   int32           `json:"pos_z_min"`
	PosZMax   int32           `json:"pos_z_max"`
	Direction string          `json:"direction,omitempty"` // "N","E","S","W" or empty
	Material  MatPair         `json:"material"`
	Items     []BuildingItem  `json:"items,omitempty"`
	Flags     uint32          `json:"building_flags"`
	Room      bool            `json:"room,omitempty"`
}

// Engraving marks a smoothed tile carrying art.
type Engraving struct {
	X       int32 `json:"x"`
	Y       int32 `json:"y"`
	Z       int32 `json:"z"`
	Quality int32 `json:"quality,omitempty"`
}

// SpatterPile is the spatter list of one tile.
type SpatterPile struct {
	Spatters []Spatter `json:"spatters,omitempty"`
}

// MapBlock is a 16x16x1 slice of the map with per-tile parallel arrays.
// The building list is fortress-global and re-streamed on every block.
type MapBlock struct {
	MapX int32 `json:"map_x"`
	MapY int32 `json:"map_y"`
	MapZ int32 `json:"map_z"`

	Tiles         []int32   `json:"tiles"`
	Materials     []MatPair `json:"materials"`
	BaseMaterials []MatPair `json:"base_materials"`
	VeinMaterials []MatPair `json:"vein_materials"`
	Hidden        []bool    `json:"hidden"`
	Water         []int32   `json:"water"`
	Magma         []int32   `json:"magma"`
	WaterStagnant []bool    `json:"water_stagnant,omitempty"`
	WaterSalt     []bool    `json:"water_salt,omitempty"`
	TreeX         []int32   `json:"tree_x,omitempty"`
	TreeY         []int32   `json:"tree_y,omitempty"`
	TreeZ         []int32   `json:"tree_z,omitempty"`
	TreePercent   []int32   `json:"tree_percent,omitempty"`
	GrassPercent  []int32   `json:"grass_percent,omitempty"`

	SpatterPiles []SpatterPile      `json:"spatter_piles,omitempty"`
	Flows        []FlowInfo         `json:"flows,omitempty"`
	Buildings    []BuildingInstance `json:"buildings,omitempty"`
}

// BlockList is one streamed batch of blocks.
type BlockList struct {
	Blocks     []MapBlock  `json:"map_blocks"`
	Engravings []Engraving `json:"engravings,omitempty"`
}

// BlockRequest bounds a block-list query, in block units.
type BlockRequest struct {
	BlocksNeeded int32 `json:"blocks_needed"`
	MinX         int32 `json:"min_x"`
	MaxX         int32 `json:"max_x"`
	MinY         int32 `json:"min_y"`
	MaxY         int32 `json:"max_y"`
	MinZ         int32 `json:"min_z"`
	MaxZ         int32 `json:"max_z"`
}

// StateColor is the displayed color of a material.
type StateColor struct {
	R int32 `json:"red"`
	G int32 `json:"green"`
	B int32 `json:"blue"`
}

// MaterialDef is one entry of the full material list.
type MaterialDef struct {
	Pair       MatPair    `json:"mat_pair"`
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	StateColor StateColor `json:"state_color"`
}

// BasicMaterialInfo carries the flag set of an inorganic or builtin
// material. Flags index into EnumList.MaterialFlags.
type BasicMaterialInfo struct {
	Type  int32   `json:"type"`
	Index int32   `json:"index"`
	Token string  `json:"token"`
	Flags []int32 `json:"flags,omitempty"`
}

// EnumList carries the enum name tables needed to decode numeric flags.
type EnumList struct {
	MaterialFlags []string `json:"material_flags"`
}

// Material type ids the raws overload with a fixed meaning.
const (
	MatTypePlant int32 = 419
	MatTypeWood  int32 = 420
)

// TimingContains reports whether tick falls in the [start, end] window.
// A negative bound is open on that side.
func TimingContains(start, end, tick int32) bool {
	if start >= 0 && tick < start {
		return false
	}
	if end >= 0 && tick > end {
		return false
	}
	return true
}

// GrowthPrint is one seasonal appearance of a growth. Color is a console
// color index 0..15. Negative timings mean an open bound.
type GrowthPrint struct {
	TimingStart int32 `json:"timing_start"`
	TimingEnd   int32 `json:"timing_end"`
	Color       int32 `json:"color"`
}

// TreeGrowth is one growth (leaves, fruit, flowers) of a plant raw.
type TreeGrowth struct {
	ID            string        `json:"id"`
	Material      MatPair       `json:"mat"`
	TimingStart   int32         `json:"timing_start"`
	TimingEnd     int32         `json:"timing_end"`
	Trunk         bool          `json:"trunk,omitempty"`
	Roots         bool          `json:"roots,omitempty"`
	Cap           bool          `json:"cap,omitempty"`
	Sapling       bool          `json:"sapling,omitempty"`
	HeavyBranches bool          `json:"heavy_branches,omitempty"`
	LightBranches bool          `json:"light_branches,omitempty"`
	Twigs         bool          `json:"twigs,omitempty"`
	Prints        []GrowthPrint `json:"prints,omitempty"`
}

// PlantRaw is one plant species definition.
type PlantRaw struct {
	Index   int32        `json:"index"`
	ID      string       `json:"id"`
	Growths []TreeGrowth `json:"growths,omitempty"`
}

// BuildingDef maps a building type key to its string identifier, used to
// look up prefab models.
type BuildingDef struct {
	Key  BuildingTypeKey `json:"key"`
	ID   string          `json:"id"`
	Name string          `json:"name,omitempty"`
}

// MapInfo describes the loaded map.
type MapInfo struct {
	BlockSizeX int32  `json:"block_size_x"`
	BlockSizeY int32  `json:"block_size_y"`
	BlockSizeZ int32  `json:"block_size_z"`
	BlockPosX  int32  `json:"block_pos_x"`
	BlockPosY  int32  `json:"block_pos_y"`
	BlockPosZ  int32  `json:"block_pos_z"`
	WorldName  string `json:"world_name,omitempty"`
	SaveName   string `json:"save_name,omitempty"`
	GameMode   string `json:"game_mode,omitempty"` // "FORTRESS" or "ADVENTURE"
}

// ViewInfo is the current view position.
type ViewInfo struct {
	ViewPosX int32 `json:"view_pos_x"`
	ViewPosY int32 `json:"view_pos_y"`
	ViewPosZ int32 `json:"view_pos_z"`
}

// WorldStatus carries the world clock.
type WorldStatus struct {
	CurYearTick int32 `json:"cur_year_tick"`
}
