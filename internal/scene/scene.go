// Package scene accumulates voxel models into a scene graph and encodes
// it as a .vox file.
package scene

import "fmt"

// Layer is a named display channel. Shape nodes are appended to their
// block in reverse enum order, so later constants paint first and the
// earlier ones draw on top of them.
type Layer int

const (
	LayerAll Layer = iota
	LayerBuilding
	LayerVegetation
	LayerRoughness
	LayerTerrain
	LayerHidden
	LayerSpatter
	LayerLiquid
	LayerFire
	LayerFlows

	layerCount
)

var layerNames = [...]string{
	"all", "building", "vegetation", "roughness", "terrain",
	"hidden", "spatter", "liquid", "fire", "flows",
}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[l]
}

// Layers lists every layer in enum order.
func Layers() []Layer {
	out := make([]Layer, layerCount)
	for i := range out {
		out[i] = Layer(i)
	}
	return out
}

// Voxel is one cell of a model. Coordinates are model-local; I is the
// palette index, never zero for an emitted voxel.
type Voxel struct {
	X, Y, Z uint8
	I       uint8
}

// Model is a sized voxel list.
type Model struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

// Point is a scene-space translation.
type Point struct {
	X, Y, Z int
}

type NodeID int
type ModelID int

type nodeKind int

const (
	nodeTransform nodeKind = iota
	nodeGroup
	nodeShape
)

type node struct {
	kind nodeKind

	// transform
	name      string
	translate *Point
	child     NodeID
	layer     Layer

	// group
	children []NodeID

	// shape
	model ModelID
}

// Builder assembles the model list and scene graph. The zero graph is
// a root transform over an empty root group.
type Builder struct {
	models []Model
	nodes  []node

	hiddenLayers map[Layer]bool

	// RootGroup is the parent for level groups.
	RootGroup NodeID
}

func NewBuilder() *Builder {
	b := &Builder{hiddenLayers: map[Layer]bool{}}
	root := b.insertNode(node{kind: nodeTransform, child: 1, layer: LayerAll})
	_ = root
	b.RootGroup = b.insertNode(node{kind: nodeGroup})
	return b
}

func (b *Builder) insertNode(n node) NodeID {
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes) - 1)
}

// InsertModel adds a model and returns its index, for interning shared
// models like the hidden block.
func (b *Builder) InsertModel(m Model) ModelID {
	b.models = append(b.models, m)
	return ModelID(len(b.models) - 1)
}

func (b *Builder) addToGroup(group NodeID, child NodeID) {
	g := &b.nodes[group]
	if g.kind != nodeGroup {
		panic(fmt.Sprintf("scene: node %d is not a group", group))
	}
	g.children = append(g.children, child)
}

// InsertGroup adds a transform/group pair under the parent and returns
// the group id.
func (b *Builder) InsertGroup(parent NodeID, name string, at *Point, layer Layer) NodeID {
	group := b.insertNode(node{kind: nodeGroup})
	transform := b.insertNode(node{
		kind: nodeTransform, name: name, translate: at,
		child: group, layer: layer,
	})
	b.addToGroup(parent, transform)
	return group
}

// InsertShape adds a transform/shape pair under the parent referencing
// an existing model.
func (b *Builder) InsertShape(parent NodeID, name string, at *Point, layer Layer, model ModelID) {
	shape := b.insertNode(node{kind: nodeShape, model: model})
	transform := b.insertNode(node{
		kind: nodeTransform, name: name, translate: at,
		child: shape, layer: layer,
	})
	b.addToGroup(parent, transform)
}

// InsertModelShape adds the model and a shape node for it in one step.
func (b *Builder) InsertModelShape(parent NodeID, name string, at *Point, layer Layer, m Model) ModelID {
	id := b.InsertModel(m)
	b.InsertShape(parent, name, at, layer, id)
	return id
}

// HideLayer marks a layer hidden in the output file.
func (b *Builder) HideLayer(l Layer) {
	b.hiddenLayers[l] = true
}
