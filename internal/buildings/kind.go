package buildings

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/protocol"
)

// Kind is the closed set of placed building families the voxelizer
// knows how to draw. Subtypes stay on the type key; only the family
// drives shape selection.
type Kind int

const (
	KindUnknown Kind = iota
	KindChair
	KindBed
	KindTable
	KindCoffin
	KindFarmPlot
	KindFurnace
	KindDoor
	KindFloodgate
	KindBox
	KindWeaponRack
	KindArmorStand
	KindWorkshop
	KindCabinet
	KindStatue
	KindWindowGlass
	KindWindowGem
	KindWell
	KindBridge
	KindRoadDirt
	KindRoadPaved
	KindSiegeEngine
	KindTrap
	KindAnimalTrap
	KindSupport
	KindArcheryTarget
	KindChain
	KindCage
	KindStockpile
	KindCivzone
	KindWeapon
	KindWagon
	KindScrewPump
	KindConstruction
	KindHatch
	KindGrateWall
	KindGrateFloor
	KindBarsVertical
	KindBarsFloor
	KindGearAssembly
	KindAxleHorizontal
	KindAxleVertical
	KindWaterWheel
	KindWindmill
	KindTractionBench
	KindSlab
	KindNest
	KindNestBox
	KindHive
	KindRollers
	KindInstrument
	KindBookcase
	KindDisplayFurniture
	KindOfferingPlace
)

var kindByType = map[int32]Kind{
	0:  KindChair,
	1:  KindBed,
	2:  KindTable,
	3:  KindCoffin,
	4:  KindFarmPlot,
	5:  KindFurnace,
	8:  KindDoor,
	9:  KindFloodgate,
	10: KindBox,
	11: KindWeaponRack,
	12: KindArmorStand,
	13: KindWorkshop,
	14: KindCabinet,
	15: KindStatue,
	16: KindWindowGlass,
	17: KindWindowGem,
	18: KindWell,
	19: KindBridge,
	20: KindRoadDirt,
	21: KindRoadPaved,
	22: KindSiegeEngine,
	23: KindTrap,
	24: KindAnimalTrap,
	25: KindSupport,
	26: KindArcheryTarget,
	27: KindChain,
	28: KindCage,
	29: KindStockpile,
	30: KindCivzone,
	31: KindWeapon,
	32: KindWagon,
	33: KindScrewPump,
	34: KindConstruction,
	35: KindHatch,
	36: KindGrateWall,
	37: KindGrateFloor,
	38: KindBarsVertical,
	39: KindBarsFloor,
	40: KindGearAssembly,
	41: KindAxleHorizontal,
	42: KindAxleVertical,
	43: KindWaterWheel,
	44: KindWindmill,
	45: KindTractionBench,
	46: KindSlab,
	47: KindNest,
	48: KindNestBox,
	49: KindHive,
	50: KindRollers,
	51: KindInstrument,
	52: KindBookcase,
	53: KindDisplayFurniture,
	54: KindOfferingPlace,
}

// KindOf decodes the numeric building type. Unlisted types come back
// as KindUnknown and render nothing.
func KindOf(key protocol.BuildingTypeKey) Kind {
	return kindByType[key.Type]
}

// IsFloor reports whether walking over the building looks like walking
// over a constructed floor rather than around furniture.
func IsFloor(key protocol.BuildingTypeKey) bool {
	switch KindOf(key) {
	case KindFurnace, KindStatue, KindWorkshop:
		return true
	}
	return false
}

// IsChair reports chairs, which some prefab models orient towards.
func IsChair(key protocol.BuildingTypeKey) bool {
	return KindOf(key) == KindChair
}

// Direction decodes the placement direction streamed with bridges and
// archery targets.
func Direction(b *protocol.BuildingInstance) (geometry.DirFlat, bool) {
	switch b.Direction {
	case "N":
		return geometry.FlatNorth, true
	case "E":
		return geometry.FlatEast, true
	case "S":
		return geometry.FlatSouth, true
	case "W":
		return geometry.FlatWest, true
	}
	return geometry.FlatNorth, false
}
