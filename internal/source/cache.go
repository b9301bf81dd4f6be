package source

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"fortvox.dev/internal/protocol"
)

// ScanCache persists one scan of the map so an export can be re-run
// offline, e.g. to try a different month or palette without the game
// running. Rows are zstd-compressed JSON keyed by block position; a
// single writer goroutine keeps sqlite out of the export worker's path.
type ScanCache struct {
	db *sql.DB

	enc *zstd.Encoder
	dec *zstd.Decoder

	ch   chan cacheReq
	wg   sync.WaitGroup
	once sync.Once
}

type cacheReq struct {
	block      *protocol.MapBlock
	engravings []protocol.Engraving
	meta       *metaRow
}

type metaRow struct {
	name string
	data []byte
}

// OpenScanCache opens or creates a cache file.
func OpenScanCache(path string) (*ScanCache, error) {
	if path == "" {
		return nil, fmt.Errorf("empty cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			name TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS blocks (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (x, y, z)
		);`,
		`CREATE TABLE IF NOT EXISTS engravings (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			quality INTEGER NOT NULL,
			PRIMARY KEY (x, y, z)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		_ = db.Close()
		return nil, err
	}

	c := &ScanCache{
		db:  db,
		enc: enc,
		dec: dec,
		ch:  make(chan cacheReq, 1024),
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.loop()
	}()
	return c, nil
}

// Close drains pending writes and closes the database.
func (c *ScanCache) Close() error {
	var err error
	c.once.Do(func() {
		close(c.ch)
		c.wg.Wait()
		c.enc.Close()
		c.dec.Close()
		err = c.db.Close()
	})
	return err
}

// RecordList queues one streamed batch for persistence. Blocks on a
// full queue rather than dropping: a cache with holes replays wrong.
func (c *ScanCache) RecordList(list protocol.BlockList) {
	if c == nil {
		return
	}
	for i := range list.Blocks {
		b := list.Blocks[i]
		c.ch <- cacheReq{block: &b}
	}
	if len(list.Engravings) > 0 {
		c.ch <- cacheReq{engravings: list.Engravings}
	}
}

// RecordMeta stores a named JSON document, e.g. the map info or a
// catalog list.
func (c *ScanCache) RecordMeta(name string, v any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache meta %s: %w", name, err)
	}
	c.ch <- cacheReq{meta: &metaRow{name: name, data: b}}
	return nil
}

// LoadMeta reads back a named document written by RecordMeta.
func (c *ScanCache) LoadMeta(name string, v any) error {
	var payload []byte
	row := c.db.QueryRow(`SELECT payload FROM meta WHERE name = ?`, name)
	if err := row.Scan(&payload); err != nil {
		return fmt.Errorf("cache meta %s: %w", name, err)
	}
	raw, err := c.dec.DecodeAll(payload, nil)
	if err != nil {
		return fmt.Errorf("cache meta %s: %w", name, err)
	}
	return json.Unmarshal(raw, v)
}

// LoadLists replays the cached scan in level order, batched the way the
// live iterator batches.
func (c *ScanCache) LoadLists(fn func(protocol.BlockList) error) error {
	rows, err := c.db.Query(`SELECT payload FROM blocks ORDER BY z, y, x`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var list protocol.BlockList
	flush := func() error {
		if len(list.Blocks) == 0 {
			return nil
		}
		err := fn(list)
		list = protocol.BlockList{}
		return err
	}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		raw, err := c.dec.DecodeAll(payload, nil)
		if err != nil {
			return fmt.Errorf("cache block: %w", err)
		}
		var b protocol.MapBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("cache block: %w", err)
		}
		list.Blocks = append(list.Blocks, b)
		if len(list.Blocks) >= blocksPerCall {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	engr, err := c.db.Query(`SELECT x, y, z, quality FROM engravings ORDER BY z, y, x`)
	if err != nil {
		return err
	}
	defer engr.Close()
	var tail protocol.BlockList
	for engr.Next() {
		var e protocol.Engraving
		if err := engr.Scan(&e.X, &e.Y, &e.Z, &e.Quality); err != nil {
			return err
		}
		tail.Engravings = append(tail.Engravings, e)
	}
	if err := engr.Err(); err != nil {
		return err
	}
	if len(tail.Engravings) > 0 {
		return fn(tail)
	}
	return nil
}

func (c *ScanCache) loop() {
	insertBlock, _ := c.db.Prepare(`INSERT OR REPLACE INTO blocks(x,y,z,payload) VALUES(?,?,?,?)`)
	insertEngraving, _ := c.db.Prepare(`INSERT OR REPLACE INTO engravings(x,y,z,quality) VALUES(?,?,?,?)`)
	insertMeta, _ := c.db.Prepare(`INSERT OR REPLACE INTO meta(name,payload) VALUES(?,?)`)
	defer func() {
		if insertBlock != nil {
			_ = insertBlock.Close()
		}
		if insertEngraving != nil {
			_ = insertEngraving.Close()
		}
		if insertMeta != nil {
			_ = insertMeta.Close()
		}
	}()

	for r := range c.ch {
		switch {
		case r.block != nil:
			if insertBlock == nil {
				continue
			}
			raw, err := json.Marshal(r.block)
			if err != nil {
				continue
			}
			payload := c.enc.EncodeAll(raw, nil)
			_, _ = insertBlock.Exec(r.block.MapX, r.block.MapY, r.block.MapZ, payload)

		case len(r.engravings) > 0:
			if insertEngraving == nil {
				continue
			}
			for _, e := range r.engravings {
				_, _ = insertEngraving.Exec(e.X, e.Y, e.Z, e.Quality)
			}

		case r.meta != nil:
			if insertMeta == nil {
				continue
			}
			payload := c.enc.EncodeAll(r.meta.data, nil)
			_, _ = insertMeta.Exec(r.meta.name, payload)
		}
	}
}
