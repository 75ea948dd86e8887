// Package terrain mediates access to stored terrain chunks.
package terrain

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"
)

// ChunkCache holds the terrain chunks touched by one unit of work. A chunk
// is read from storage at most once per cache. Mutations are never written
// back implicitly: callers must Persist what they change.
type ChunkCache struct {
	tx      ports.Tx
	repo    ports.TerrainChunkRepository
	metrics ports.SpatialMetrics
	logger  *slog.Logger

	// A nil entry records a chunk known to have no storage row.
	chunks     map[world.ChunkIndex]*world.TerrainChunk
	fetchedAll bool
}

type Option func(*ChunkCache)

func WithMetrics(m ports.SpatialMetrics) Option {
	return func(c *ChunkCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *ChunkCache) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewChunkCache(tx ports.Tx, repo ports.TerrainChunkRepository, opts ...Option) *ChunkCache {
	c := &ChunkCache{
		tx:      tx,
		repo:    repo,
		metrics: ports.NopMetrics{},
		logger:  slog.Default(),
		chunks:  map[world.ChunkIndex]*world.TerrainChunk{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ChunkCache) live() error {
	if err := c.tx.Err(); err != nil {
		return fmt.Errorf("chunk cache: %w", ports.ErrTxDone)
	}
	return nil
}

// TerrainCell reads one cell. It reports false when the cell's chunk has no
// storage row.
func (c *ChunkCache) TerrainCell(tile world.TerrainTile) (world.TerrainCell, bool, error) {
	chunk, ok, err := c.ChunkAt(tile.ChunkCoordinates())
	if err != nil || !ok {
		return world.TerrainCell{}, false, err
	}
	cell, ok := chunk.Cell(tile)
	if !ok {
		return world.TerrainCell{}, false, fmt.Errorf("%w: tile (%d, %d) not addressable in chunk %d",
			ports.ErrInvariantViolation, tile.X, tile.Z, chunk.Index)
	}
	return cell, true, nil
}

// ChunkAt resolves coord and loads it like Chunk. Coordinates outside the
// packable range are reported as absent.
func (c *ChunkCache) ChunkAt(coord world.ChunkCoordinate) (*world.TerrainChunk, bool, error) {
	if err := c.live(); err != nil {
		return nil, false, err
	}
	index, err := coord.CheckedIndex()
	if err != nil {
		return nil, false, nil
	}
	return c.Chunk(index)
}

// Chunk returns the resident chunk, loading it first if needed. The result
// is a mutable handle shared by every caller of this cache.
func (c *ChunkCache) Chunk(index world.ChunkIndex) (*world.TerrainChunk, bool, error) {
	if err := c.live(); err != nil {
		return nil, false, err
	}
	if chunk, ok := c.chunks[index]; ok {
		return chunk, chunk != nil, nil
	}
	if c.fetchedAll {
		c.chunks[index] = nil
		return nil, false, nil
	}

	chunk, err := c.repo.Find(c.tx.Context(), index)
	if errors.Is(err, ports.ErrNotFound) {
		c.chunks[index] = nil
		c.metrics.RecordChunkLoad(false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load chunk %d: %w", index, err)
	}
	if err := checkLoaded(index, chunk); err != nil {
		return nil, false, err
	}
	c.chunks[index] = chunk
	c.metrics.RecordChunkLoad(true)
	return chunk, true, nil
}

func checkLoaded(index world.ChunkIndex, chunk *world.TerrainChunk) error {
	if chunk == nil || chunk.Index != index {
		return fmt.Errorf("%w: storage returned wrong row for chunk %d", ports.ErrInvariantViolation, index)
	}
	if err := chunk.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrInvariantViolation, err)
	}
	return nil
}

// MustChunk is Chunk for callers that rely on the row existing.
func (c *ChunkCache) MustChunk(index world.ChunkIndex) (*world.TerrainChunk, error) {
	chunk, ok, err := c.Chunk(index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: chunk %d has no storage row", ports.ErrInvariantViolation, index)
	}
	return chunk, nil
}

// Persist writes the chunk back if it is resident and reports whether it
// did.
func (c *ChunkCache) Persist(index world.ChunkIndex) (bool, error) {
	if err := c.live(); err != nil {
		return false, err
	}
	chunk := c.chunks[index]
	if chunk == nil {
		return false, nil
	}
	if err := c.repo.Save(c.tx.Context(), chunk); err != nil {
		return false, fmt.Errorf("persist chunk %d: %w", index, err)
	}
	c.metrics.RecordChunkPersist(1)
	return true, nil
}

// PersistAndRelease persists the chunk and drops it from the cache. A later
// access loads it again.
func (c *ChunkCache) PersistAndRelease(index world.ChunkIndex) (bool, error) {
	written, err := c.Persist(index)
	if err != nil {
		return false, err
	}
	delete(c.chunks, index)
	return written, nil
}

// PersistAll writes every resident chunk in index order. On error the count
// covers the chunks saved before the failing one.
func (c *ChunkCache) PersistAll() (int, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	written := 0
	var err error
	for _, index := range c.residentIndexes() {
		if err = c.repo.Save(c.tx.Context(), c.chunks[index]); err != nil {
			err = fmt.Errorf("persist chunk %d: %w", index, err)
			break
		}
		written++
	}
	if written > 0 {
		c.metrics.RecordChunkPersist(written)
		c.logger.Debug("terrain chunks persisted", "chunks", written)
	}
	return written, err
}

// FetchAll primes the cache with every stored chunk for bulk scans.
// Chunks already resident keep their in-memory state.
func (c *ChunkCache) FetchAll() (int, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	all, err := c.repo.All(c.tx.Context())
	if err != nil {
		return 0, fmt.Errorf("fetch all chunks: %w", err)
	}
	for _, chunk := range all {
		if chunk == nil {
			continue
		}
		if err := checkLoaded(chunk.Index, chunk); err != nil {
			return 0, err
		}
		if resident := c.chunks[chunk.Index]; resident != nil {
			continue
		}
		c.chunks[chunk.Index] = chunk
	}
	c.fetchedAll = true
	c.logger.Debug("terrain chunks fetched", "chunks", len(all))
	return c.Len(), nil
}

func (c *ChunkCache) Resident(index world.ChunkIndex) bool {
	return c.chunks[index] != nil
}

// Len counts resident chunks, not remembered misses.
func (c *ChunkCache) Len() int {
	n := 0
	for _, chunk := range c.chunks {
		if chunk != nil {
			n++
		}
	}
	return n
}

func (c *ChunkCache) residentIndexes() []world.ChunkIndex {
	out := make([]world.ChunkIndex, 0, len(c.chunks))
	for index, chunk := range c.chunks {
		if chunk != nil {
			out = append(out, index)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
