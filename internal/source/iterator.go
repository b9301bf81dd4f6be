package source

import (
	"fortvox.dev/internal/protocol"
)

// blocksPerCall bounds one bridge round trip. Small enough to keep the
// bridge responsive, large enough to amortize the call overhead.
const blocksPerCall = 16

// Bounds is the requested export volume, in block units.
type Bounds struct {
	MinX, MaxX int32
	MinY, MaxY int32
	MinZ, MaxZ int32
}

// Iterator streams the map one batch of blocks at a time, level by
// level from the bottom up. The bridge returns blocks in its own
// discovery order within a level; a level ends when a request comes
// back empty.
type Iterator struct {
	client *Client
	bounds Bounds
	z      int32
	done   bool
}

func NewIterator(c *Client, bounds Bounds) *Iterator {
	return &Iterator{client: c, bounds: bounds, z: bounds.MinZ}
}

// Remaining reports how many levels are still to be fetched, for
// progress accounting.
func (it *Iterator) Remaining() int {
	if it.done {
		return 0
	}
	return int(it.bounds.MaxZ-it.z) + 1
}

// Next fetches the next non-empty batch. It returns ok=false once every
// level has been drained.
func (it *Iterator) Next() (protocol.BlockList, bool, error) {
	for !it.done {
		list, err := it.client.BlockList(protocol.BlockRequest{
			BlocksNeeded: blocksPerCall,
			MinX:         it.bounds.MinX,
			MaxX:         it.bounds.MaxX,
			MinY:         it.bounds.MinY,
			MaxY:         it.bounds.MaxY,
			MinZ:         it.z,
			MaxZ:         it.z,
		})
		if err != nil {
			return protocol.BlockList{}, false, err
		}
		if len(list.Blocks) > 0 || len(list.Engravings) > 0 {
			return list, true, nil
		}
		if it.z >= it.bounds.MaxZ {
			it.done = true
			break
		}
		it.z++
	}
	return protocol.BlockList{}, false, nil
}
