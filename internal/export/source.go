package export

import (
	"fmt"

	"fortvox.dev/internal/protocol"
	"fortvox.dev/internal/source"
)

// Source feeds the export pipeline. Live games and recorded scan
// caches both satisfy it.
type Source interface {
	// Prepare puts the source into a stable state for a full scan.
	Prepare() error
	MapInfo() (protocol.MapInfo, error)
	CatalogData() (source.CatalogData, error)
	// YearTick is the current tick within the game year.
	YearTick() (int32, error)
	Blocks(bounds source.Bounds) (BlockStream, error)
}

// BlockStream yields batches of map blocks, bottom level first.
type BlockStream interface {
	// Next returns ok=false once the stream is drained.
	Next() (protocol.BlockList, bool, error)
	// Remaining estimates the batches left, for progress accounting.
	Remaining() int
}

// Meta document names used in the scan cache.
const (
	metaMapInfo  = "map_info"
	metaCatalogs = "catalogs"
	metaYearTick = "year_tick"
)

// Live streams from a running game. When Cache is set, everything read
// is recorded so the scan can be replayed offline later.
type Live struct {
	Client *source.Client
	Cache  *source.ScanCache
}

// Prepare pauses the game and invalidates the bridge's block hashes,
// so the scan sees every block exactly as it is right now.
func (l *Live) Prepare() error {
	if err := l.Client.SetPause(true); err != nil {
		return fmt.Errorf("pausing: %w", err)
	}
	if err := l.Client.ResetMapHashes(); err != nil {
		return fmt.Errorf("resetting map hashes: %w", err)
	}
	return nil
}

func (l *Live) MapInfo() (protocol.MapInfo, error) {
	info, err := l.Client.MapInfo()
	if err != nil {
		return info, err
	}
	if err := l.Cache.RecordMeta(metaMapInfo, info); err != nil {
		return info, err
	}
	return info, nil
}

func (l *Live) CatalogData() (source.CatalogData, error) {
	data, err := source.FetchCatalogData(l.Client)
	if err != nil {
		return data, err
	}
	if err := l.Cache.RecordMeta(metaCatalogs, data); err != nil {
		return data, err
	}
	return data, nil
}

func (l *Live) YearTick() (int32, error) {
	status, err := l.Client.WorldStatus()
	if err != nil {
		return 0, err
	}
	if err := l.Cache.RecordMeta(metaYearTick, status.CurYearTick); err != nil {
		return 0, err
	}
	return status.CurYearTick, nil
}

func (l *Live) Blocks(bounds source.Bounds) (BlockStream, error) {
	return &recordingStream{it: source.NewIterator(l.Client, bounds), cache: l.Cache}, nil
}

type recordingStream struct {
	it    *source.Iterator
	cache *source.ScanCache
}

func (s *recordingStream) Remaining() int { return s.it.Remaining() }

func (s *recordingStream) Next() (protocol.BlockList, bool, error) {
	list, ok, err := s.it.Next()
	if ok && err == nil {
		s.cache.RecordList(list)
	}
	return list, ok, err
}

// Replay re-exports from a recorded scan cache, no game needed.
type Replay struct {
	Cache *source.ScanCache
}

func (r *Replay) Prepare() error { return nil }

func (r *Replay) MapInfo() (protocol.MapInfo, error) {
	var info protocol.MapInfo
	err := r.Cache.LoadMeta(metaMapInfo, &info)
	return info, err
}

func (r *Replay) CatalogData() (source.CatalogData, error) {
	var data source.CatalogData
	err := r.Cache.LoadMeta(metaCatalogs, &data)
	return data, err
}

func (r *Replay) YearTick() (int32, error) {
	var tick int32
	err := r.Cache.LoadMeta(metaYearTick, &tick)
	return tick, err
}

// Blocks loads the whole recorded scan up front. Replays run from
// local disk, so holding the lists in memory is fine.
func (r *Replay) Blocks(bounds source.Bounds) (BlockStream, error) {
	var lists []protocol.BlockList
	err := r.Cache.LoadLists(func(list protocol.BlockList) error {
		filtered := protocol.BlockList{Engravings: list.Engravings}
		for _, b := range list.Blocks {
			if b.MapZ < bounds.MinZ || b.MapZ > bounds.MaxZ {
				continue
			}
			filtered.Blocks = append(filtered.Blocks, b)
		}
		if len(filtered.Blocks) > 0 || len(filtered.Engravings) > 0 {
			lists = append(lists, filtered)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replaying scan cache: %w", err)
	}
	return &sliceStream{lists: lists}, nil
}

type sliceStream struct {
	lists []protocol.BlockList
	pos   int
}

func (s *sliceStream) Remaining() int { return len(s.lists) - s.pos }

func (s *sliceStream) Next() (protocol.BlockList, bool, error) {
	if s.pos >= len(s.lists) {
		return protocol.BlockList{}, false, nil
	}
	list := s.lists[s.pos]
	s.pos++
	return list, true, nil
}
