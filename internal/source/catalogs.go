package source

import (
	"fmt"

	"fortvox.dev/internal/protocol"
)

// CatalogData is the raw reference lists as the bridge sends them. It
// round-trips through the scan cache for offline replays.
type CatalogData struct {
	Tiletypes      []protocol.TileType          `json:"tiletypes"`
	Materials      []protocol.MaterialDef       `json:"materials"`
	Enums          protocol.EnumList            `json:"enums"`
	BasicMaterials []protocol.BasicMaterialInfo `json:"basic_materials"`
	Plants         []protocol.PlantRaw          `json:"plants"`
	Buildings      []protocol.BuildingDef       `json:"buildings"`
}

// Catalogs holds the per-world reference data fetched once before block
// streaming starts.
type Catalogs struct {
	tiletypes map[int32]protocol.TileType
	materials map[protocol.MatPair]protocol.MaterialDef
	flags     map[protocol.MatPair]map[string]bool
	tokens    map[protocol.MatPair]string
	plants    map[int32]protocol.PlantRaw
	buildings map[protocol.BuildingTypeKey]protocol.BuildingDef
}

// NewCatalogs indexes the raw lists for lookup.
func NewCatalogs(data CatalogData) *Catalogs {
	cats := &Catalogs{
		tiletypes: map[int32]protocol.TileType{},
		materials: map[protocol.MatPair]protocol.MaterialDef{},
		flags:     map[protocol.MatPair]map[string]bool{},
		tokens:    map[protocol.MatPair]string{},
		plants:    map[int32]protocol.PlantRaw{},
		buildings: map[protocol.BuildingTypeKey]protocol.BuildingDef{},
	}

	for _, tt := range data.Tiletypes {
		cats.tiletypes[tt.ID] = tt
	}
	for _, m := range data.Materials {
		cats.materials[m.Pair] = m
	}
	for _, info := range data.BasicMaterials {
		pair := protocol.MatPair{Type: info.Type, Index: info.Index}
		if info.Token != "" {
			cats.tokens[pair] = info.Token
		}
		if len(info.Flags) == 0 {
			continue
		}
		set := make(map[string]bool, len(info.Flags))
		for _, idx := range info.Flags {
			if idx < 0 || int(idx) >= len(data.Enums.MaterialFlags) {
				continue
			}
			set[data.Enums.MaterialFlags[idx]] = true
		}
		cats.flags[pair] = set
	}
	for _, p := range data.Plants {
		cats.plants[p.Index] = p
	}
	for _, d := range data.Buildings {
		cats.buildings[d.Key] = d
	}
	return cats
}

// FetchCatalogData pulls every reference list from the bridge.
func FetchCatalogData(c *Client) (CatalogData, error) {
	var data CatalogData
	var err error

	if data.Tiletypes, err = c.TiletypeList(); err != nil {
		return data, fmt.Errorf("tiletypes: %w", err)
	}
	if data.Materials, err = c.MaterialList(); err != nil {
		return data, fmt.Errorf("materials: %w", err)
	}
	if data.Enums, err = c.EnumList(); err != nil {
		return data, fmt.Errorf("enums: %w", err)
	}
	if data.BasicMaterials, err = c.BasicMaterialInfoList(); err != nil {
		return data, fmt.Errorf("basic materials: %w", err)
	}
	if data.Plants, err = c.PlantRaws(); err != nil {
		return data, fmt.Errorf("plant raws: %w", err)
	}
	if data.Buildings, err = c.BuildingDefs(); err != nil {
		return data, fmt.Errorf("building defs: %w", err)
	}
	return data, nil
}

// LoadCatalogs fetches every reference list and indexes it.
func LoadCatalogs(c *Client) (*Catalogs, error) {
	data, err := FetchCatalogData(c)
	if err != nil {
		return nil, err
	}
	return NewCatalogs(data), nil
}

// Tiletype resolves a tile index from a map block. Unknown indexes come
// back as the zero tile type.
func (c *Catalogs) Tiletype(id int32) protocol.TileType {
	return c.tiletypes[id]
}

// Material resolves a material pair, reporting whether it is known.
func (c *Catalogs) Material(pair protocol.MatPair) (protocol.MaterialDef, bool) {
	m, ok := c.materials[pair]
	return m, ok
}

// HasFlag reports whether the material carries the named flag, e.g.
// IS_METAL or IS_GEM.
func (c *Catalogs) HasFlag(pair protocol.MatPair, flag string) bool {
	return c.flags[pair][flag]
}

// Token returns the raw token of the material, e.g. "MARBLE".
func (c *Catalogs) Token(pair protocol.MatPair) string {
	return c.tokens[pair]
}

// Plant resolves a plant raw by index.
func (c *Catalogs) Plant(index int32) (protocol.PlantRaw, bool) {
	p, ok := c.plants[index]
	return p, ok
}

// BuildingDef resolves a building type key to its definition.
func (c *Catalogs) BuildingDef(key protocol.BuildingTypeKey) (protocol.BuildingDef, bool) {
	d, ok := c.buildings[key]
	return d, ok
}
