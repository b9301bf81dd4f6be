// Package rng provides the deterministic randomness used for procedural
// detail. Sequences are seeded from map coordinates so two exports of the
// same fortress produce identical voxels on any platform.
package rng

import "fortvox.dev/internal/geometry"

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func Hash3(seed int64, x, y, z int) uint64 {
	ux := uint64(uint32(int32(x)))
	uy := uint64(uint32(int32(y)))
	uz := uint64(uint32(int32(z)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uy * 0xc2b2ae3d27d4eb4f) ^ (uz * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// Source is a splitmix64 sequence. The zero value is usable but always
// prefer ForCoord so the stream is tied to a tile.
type Source struct {
	state uint64
}

// ForCoord returns the random stream of the tile at c.
func ForCoord(c geometry.MapCoord) *Source {
	return &Source{state: Hash3(0, c.X, c.Y, c.Z)}
}

func (s *Source) Next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	return mix64(s.state)
}

// Ratio reports true with probability num/den.
func (s *Source) Ratio(num, den uint32) bool {
	if den == 0 {
		return false
	}
	return s.Next()%uint64(den) < uint64(num)
}

// Bool reports true with probability p, clamped to [0, 1].
func (s *Source) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	const scale = 1 << 53
	return s.Next()>>11 < uint64(p*scale)
}

// IntN returns a value in [0, n). n must be positive.
func (s *Source) IntN(n int) int {
	return int(s.Next() % uint64(n))
}

// Pick returns a deterministic choice among the given values.
func Pick[T any](s *Source, values []T) T {
	return values[s.IntN(len(values))]
}
