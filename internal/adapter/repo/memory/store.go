package memory

import (
	"maps"
	"sync"

	"hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

// Store keeps every table in maps. Repositories do not lock: callers must
// hold a Tx from TxManager, which serializes units of work.
type Store struct {
	mu   sync.Mutex
	data tables
}

type tables struct {
	chunks     map[world.ChunkIndex]*world.TerrainChunk
	locations  map[uint64]world.Location
	byTile     map[world.OffsetCoordinates]map[uint64]struct{}
	claimTiles map[uint64]territory.ClaimTile
	claims     map[uint64]territory.Claim
	constructs map[uint64]territory.Construct
	networks   map[uint64]territory.DimensionNetwork
	dimensions map[uint32]uint64
	nextID     uint64
}

func NewStore() *Store {
	return &Store{data: tables{
		chunks:     map[world.ChunkIndex]*world.TerrainChunk{},
		locations:  map[uint64]world.Location{},
		byTile:     map[world.OffsetCoordinates]map[uint64]struct{}{},
		claimTiles: map[uint64]territory.ClaimTile{},
		claims:     map[uint64]territory.Claim{},
		constructs: map[uint64]territory.Construct{},
		networks:   map[uint64]territory.DimensionNetwork{},
		dimensions: map[uint32]uint64{},
		nextID:     1,
	}}
}

// clone copies every table. Chunks are immutable once stored, so sharing
// the pointers is safe.
func (t tables) clone() tables {
	out := tables{
		chunks:     maps.Clone(t.chunks),
		locations:  maps.Clone(t.locations),
		byTile:     make(map[world.OffsetCoordinates]map[uint64]struct{}, len(t.byTile)),
		claimTiles: maps.Clone(t.claimTiles),
		claims:     maps.Clone(t.claims),
		constructs: maps.Clone(t.constructs),
		networks:   maps.Clone(t.networks),
		dimensions: maps.Clone(t.dimensions),
		nextID:     t.nextID,
	}
	for k, v := range t.byTile {
		out.byTile[k] = maps.Clone(v)
	}
	return out
}

func (t *tables) observeID(id uint64) {
	if id >= t.nextID {
		t.nextID = id + 1
	}
}

// Seed runs fn with exclusive access, for fixtures and local bootstrapping.
func (s *Store) Seed(fn func(r Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(NewRepos(s))
}
