package prefab

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fortvox.dev/internal/geometry"
)

//go:embed assets
var assets embed.FS

// OrientationMode decides how a prefab turns when placed.
type OrientationMode int

const (
	// OrientFromGame follows the direction streamed with the
	// building, when there is one.
	OrientFromGame OrientationMode = iota
	// OrientAgainstWall puts the model's back to the nearest wall.
	OrientAgainstWall
	// OrientFacingChair looks at an adjacent chair, falling back to
	// OrientAgainstWall.
	OrientFacingChair
)

// ContentMode decides which content items feed the content material
// channels.
type ContentMode int

const (
	// ContentUnique keeps one item per distinct material.
	ContentUnique ContentMode = iota
	// ContentAll keeps the items in streamed order.
	ContentAll
)

// Connectivity selects the erosion rule applied after tiling.
type Connectivity int

const (
	ConnectNone Connectivity = iota
	// ConnectSelfOrWall keeps a directional half only next to a wall
	// or a building of the same id.
	ConnectSelfOrWall
	// ConnectSelfRemovesLayer strips one z layer on sides touching a
	// building of the same id.
	ConnectSelfRemovesLayer
)

// Prefab is one loaded template with its placement policies.
type Prefab struct {
	Model             Model
	Orientation       OrientationMode
	Content           ContentMode
	Connectivity      Connectivity
	ConnectivityLayer uint8
}

// Registry holds every loaded prefab, read-only after Load.
type Registry struct {
	prefabs map[string]*Prefab
}

// Prefab returns the prefab registered under the id.
func (r *Registry) Prefab(id string) (*Prefab, bool) {
	p, ok := r.prefabs[id]
	return p, ok
}

// Len is the number of registered prefabs.
func (r *Registry) Len() int { return len(r.prefabs) }

// IDs lists the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.prefabs))
	for id := range r.prefabs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type prefabConfig struct {
	Model             string `yaml:"model,omitempty"`
	Orientation       string `yaml:"orientation,omitempty"`
	Content           string `yaml:"content,omitempty"`
	Connectivity      string `yaml:"connectivity,omitempty"`
	ConnectivityLayer *int   `yaml:"connectivity_layer,omitempty"`
}

type registryConfig struct {
	Buildings map[string]prefabConfig `yaml:"buildings"`
}

// Load builds the registry from the embedded config and models.
func Load() (*Registry, error) {
	raw, err := assets.ReadFile("assets/prefabs.yaml")
	if err != nil {
		return nil, fmt.Errorf("embedded prefab config: %w", err)
	}
	models, err := fs.Sub(assets, "assets/buildings")
	if err != nil {
		return nil, err
	}
	return LoadFrom(raw, models)
}

// LoadFrom builds the registry from a config document and a model
// tree. Every model file registers itself; glob entries in the config
// fill policy gaps of the ids they match. A config id left without a
// model is an error.
func LoadFrom(raw []byte, models fs.FS) (*Registry, error) {
	var cfg registryConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("prefab config: %w", err)
	}
	if cfg.Buildings == nil {
		cfg.Buildings = map[string]prefabConfig{}
	}

	err := fs.WalkDir(models, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(p, ".yaml") {
			return fmt.Errorf("unexpected model file %s", p)
		}
		id := strings.TrimSuffix(p, ".yaml")
		pc := cfg.Buildings[id]
		if pc.Model == "" {
			pc.Model = id
		}
		cfg.Buildings[id] = pc
		return nil
	})
	if err != nil {
		return nil, err
	}

	globs := map[string]prefabConfig{}
	statics := map[string]prefabConfig{}
	for id, pc := range cfg.Buildings {
		if strings.Contains(id, "*") {
			globs[id] = pc
		} else {
			statics[id] = pc
		}
	}

	reg := &Registry{prefabs: map[string]*Prefab{}}
	for id, pc := range statics {
		for pattern, gc := range globs {
			ok, err := path.Match(pattern, id)
			if err != nil {
				return nil, fmt.Errorf("prefab pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
			if pc.Model == "" {
				pc.Model = gc.Model
			}
			if pc.Orientation == "" {
				pc.Orientation = gc.Orientation
			}
			if pc.Content == "" {
				pc.Content = gc.Content
			}
			if pc.Connectivity == "" {
				pc.Connectivity = gc.Connectivity
				pc.ConnectivityLayer = gc.ConnectivityLayer
			}
		}

		p, err := compile(id, pc, models)
		if err != nil {
			return nil, err
		}
		reg.prefabs[id] = p
	}
	return reg, nil
}

func compile(id string, pc prefabConfig, models fs.FS) (*Prefab, error) {
	if pc.Model == "" {
		return nil, fmt.Errorf("no model for building %s", id)
	}
	raw, err := fs.ReadFile(models, pc.Model+".yaml")
	if err != nil {
		return nil, fmt.Errorf("model %s for building %s: %w", pc.Model, id, err)
	}
	model, err := ParseModel(raw)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", pc.Model, err)
	}
	if model.SizeX%geometry.Base != 0 || model.SizeY%geometry.Base != 0 {
		return nil, fmt.Errorf("model %s is %dx%d, not a tile multiple", pc.Model, model.SizeX, model.SizeY)
	}
	if model.SizeZ != geometry.Height {
		return nil, fmt.Errorf("model %s is %d tall, want %d", pc.Model, model.SizeZ, geometry.Height)
	}

	p := &Prefab{Model: model}
	switch pc.Orientation {
	case "", "from_game":
		p.Orientation = OrientFromGame
	case "against_wall":
		p.Orientation = OrientAgainstWall
	case "facing_chair_or_against_wall":
		p.Orientation = OrientFacingChair
	default:
		return nil, fmt.Errorf("building %s: orientation %q", id, pc.Orientation)
	}
	switch pc.Content {
	case "", "unique":
		p.Content = ContentUnique
	case "all":
		p.Content = ContentAll
	default:
		return nil, fmt.Errorf("building %s: content %q", id, pc.Content)
	}
	switch pc.Connectivity {
	case "", "none":
		p.Connectivity = ConnectNone
	case "self_or_wall":
		p.Connectivity = ConnectSelfOrWall
	case "self_removes_layer":
		p.Connectivity = ConnectSelfRemovesLayer
		if pc.ConnectivityLayer != nil {
			if *pc.ConnectivityLayer < 0 || *pc.ConnectivityLayer >= geometry.Height {
				return nil, fmt.Errorf("building %s: connectivity_layer %d", id, *pc.ConnectivityLayer)
			}
			p.ConnectivityLayer = uint8(*pc.ConnectivityLayer)
		}
	default:
		return nil, fmt.Errorf("building %s: connectivity %q", id, pc.Connectivity)
	}
	return p, nil
}
