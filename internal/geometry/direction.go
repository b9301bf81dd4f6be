package geometry

// Dir is one of the six direct neighbours of a tile.
type Dir int

const (
	Above Dir = iota
	Below
	North
	East
	South
	West
)

// DirFlat is a cardinal direction on the tile plane.
type DirFlat int

const (
	FlatNorth DirFlat = iota
	FlatEast
	FlatSouth
	FlatWest
)

// Dir8Flat adds the diagonals to DirFlat.
type Dir8Flat int

const (
	Flat8North Dir8Flat = iota
	Flat8NorthEast
	Flat8East
	Flat8SouthEast
	Flat8South
	Flat8SouthWest
	Flat8West
	Flat8NorthWest
)

// North is negative Y, matching the game's map orientation.
func (d Dir) Offset() MapCoord {
	switch d {
	case Above:
		return MapCoord{0, 0, 1}
	case Below:
		return MapCoord{0, 0, -1}
	case North:
		return MapCoord{0, -1, 0}
	case East:
		return MapCoord{1, 0, 0}
	case South:
		return MapCoord{0, 1, 0}
	default:
		return MapCoord{-1, 0, 0}
	}
}

func (d DirFlat) Offset() MapCoord {
	switch d {
	case FlatNorth:
		return MapCoord{0, -1, 0}
	case FlatEast:
		return MapCoord{1, 0, 0}
	case FlatSouth:
		return MapCoord{0, 1, 0}
	default:
		return MapCoord{-1, 0, 0}
	}
}

func (d DirFlat) Opposite() DirFlat {
	switch d {
	case FlatNorth:
		return FlatSouth
	case FlatEast:
		return FlatWest
	case FlatSouth:
		return FlatNorth
	default:
		return FlatEast
	}
}

func (d Dir8Flat) Offset() MapCoord {
	switch d {
	case Flat8North:
		return MapCoord{0, -1, 0}
	case Flat8NorthEast:
		return MapCoord{1, -1, 0}
	case Flat8East:
		return MapCoord{1, 0, 0}
	case Flat8SouthEast:
		return MapCoord{1, 1, 0}
	case Flat8South:
		return MapCoord{0, 1, 0}
	case Flat8SouthWest:
		return MapCoord{-1, 1, 0}
	case Flat8West:
		return MapCoord{-1, 0, 0}
	default:
		return MapCoord{-1, -1, 0}
	}
}

// Neighbouring is a record of values for the six direct neighbours.
type Neighbouring[T any] struct {
	A, B       T
	N, E, S, W T
}

// NeighbouringFlat is a record of values for the four cardinal neighbours.
type NeighbouringFlat[T any] struct {
	N, E, S, W T
}

// Neighbouring8Flat is a record of values for the eight flat neighbours.
type Neighbouring8Flat[T any] struct {
	N, NE, E, SE, S, SW, W, NW T
}

func NewNeighbouring[T any](f func(Dir) T) Neighbouring[T] {
	return Neighbouring[T]{
		A: f(Above), B: f(Below),
		N: f(North), E: f(East), S: f(South), W: f(West),
	}
}

func NewNeighbouringFlat[T any](f func(DirFlat) T) NeighbouringFlat[T] {
	return NeighbouringFlat[T]{
		N: f(FlatNorth), E: f(FlatEast), S: f(FlatSouth), W: f(FlatWest),
	}
}

func NewNeighbouring8Flat[T any](f func(Dir8Flat) T) Neighbouring8Flat[T] {
	return Neighbouring8Flat[T]{
		N: f(Flat8North), NE: f(Flat8NorthEast),
		E: f(Flat8East), SE: f(Flat8SouthEast),
		S: f(Flat8South), SW: f(Flat8SouthWest),
		W: f(Flat8West), NW: f(Flat8NorthWest),
	}
}

// OrFlat combines two boolean flat records componentwise.
func OrFlat(a, b NeighbouringFlat[bool]) NeighbouringFlat[bool] {
	return NeighbouringFlat[bool]{
		N: a.N || b.N,
		E: a.E || b.E,
		S: a.S || b.S,
		W: a.W || b.W,
	}
}

// Directions lists the directions set in a boolean flat record, in N, E, S,
// W order.
func (n NeighbouringFlat[T]) Values() [4]T {
	return [4]T{n.N, n.E, n.S, n.W}
}

func Directions(n NeighbouringFlat[bool]) []DirFlat {
	var out []DirFlat
	for i, set := range n.Values() {
		if set {
			out = append(out, DirFlat(i))
		}
	}
	return out
}
