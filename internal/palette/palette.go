package palette

import "log"

// MaxIndex is the last usable palette slot; index 0 means "no voxel".
const MaxIndex = 255

// Palette assigns effective materials to 8-bit indices in first-seen
// order. Descriptor lookups are cached so the per-voxel path is one map
// hit.
type Palette struct {
	indices map[EffectiveMaterial]uint8
	order   []EffectiveMaterial
	cache   map[Material]uint8

	log      *log.Logger
	overflow bool
}

func New(logger *log.Logger) *Palette {
	return &Palette{
		indices: map[EffectiveMaterial]uint8{},
		cache:   map[Material]uint8{},
		log:     logger,
	}
}

// Get returns the palette index for the descriptor, allocating a slot
// for a new effective material. Past 255 distinct materials new ones
// collapse into the last slot.
func (p *Palette) Get(m Material, ctx Context) uint8 {
	if idx, ok := p.cache[m]; ok {
		return idx
	}
	eff := m.Effective(ctx)
	idx, ok := p.indices[eff]
	if !ok {
		if len(p.order) >= MaxIndex {
			idx = MaxIndex
			if !p.overflow && p.log != nil {
				p.log.Printf("palette overflow: more than %d distinct materials, collapsing to last index", MaxIndex)
				p.overflow = true
			}
		} else {
			p.order = append(p.order, eff)
			idx = uint8(len(p.order))
			p.indices[eff] = idx
		}
	}
	p.cache[m] = idx
	return idx
}

// CacheDefaults registers every default kind up front so they get low,
// stable indices independent of tile order.
func (p *Palette) CacheDefaults(ctx Context) {
	for _, k := range DefaultKinds() {
		p.Get(Default(k), ctx)
	}
}

// Len is the number of allocated entries.
func (p *Palette) Len() int { return len(p.order) }

// Entries lists the allocated materials; entry i has palette index i+1.
func (p *Palette) Entries() []EffectiveMaterial {
	return p.order
}
