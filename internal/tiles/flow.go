package tiles

import (
	"fortvox.dev/internal/geometry"
	"fortvox.dev/internal/palette"
	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/rng"
	"fortvox.dev/internal/scene"
	"fortvox.dev/internal/shape"
)

func flowMaterial(f protocol.FlowInfo) palette.Material {
	switch f.Type {
	case protocol.FlowMist, protocol.FlowMistSeaFoam, protocol.FlowMistSteam:
		return palette.Default(palette.DefMist)
	case protocol.FlowOceanWave:
		return palette.Default(palette.DefWater)
	case protocol.FlowMagmaMist:
		return palette.Default(palette.DefMagma)
	case protocol.FlowFire, protocol.FlowCampFire, protocol.FlowDragonfire:
		return palette.Default(palette.DefFire)
	case protocol.FlowMiasma:
		return palette.Default(palette.DefMiasma)
	case protocol.FlowSmoke:
		return palette.Default(palette.DefSmoke)
	default:
		return palette.Generic(f.Material)
	}
}

// BuildFlow voxelizes one airborne flow into its tile's cube. Density
// runs 0..100; the division keeps even the thickest cloud wispy.
func (t *Tiler) BuildFlow(f protocol.FlowInfo, bm *scene.BlockModels) {
	coord := geometry.MapCoord{X: int(f.X), Y: int(f.Y), Z: int(f.Z)}
	r := rng.ForCoord(coord)

	density := f.Density
	if density < 0 {
		density = -density
	}
	p := float64(min(density, 100)) / 400

	wave := f.Type == protocol.FlowOceanWave
	box := shape.BoxFromFn(func(x, y, z int) bool {
		if wave && z >= 2 {
			return false
		}
		return r.Bool(p)
	})

	idx := t.Palette.Get(flowMaterial(f), t.Catalogs)
	local := geometry.LocalCoord{
		X: uint8(((int(f.X) % geometry.BlockSize) + geometry.BlockSize) % geometry.BlockSize),
		Y: uint8(((int(f.Y) % geometry.BlockSize) + geometry.BlockSize) % geometry.BlockSize),
	}
	bm.ExtendBox(scene.LayerFlows, local, uniformBox(box, idx))
}
