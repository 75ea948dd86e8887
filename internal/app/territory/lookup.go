package territory

import (
	"errors"
	"fmt"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"
)

// ClaimLookup caches tile to claim associations for one unit of work. It
// loads every claim tile of a chunk the first time a tile of that chunk is
// asked for, so footprint and radius scans hit storage once per chunk.
type ClaimLookup struct {
	tx         ports.Tx
	locations  ports.LocationRepository
	claimTiles ports.ClaimTileRepository

	primed map[world.ChunkIndex]bool
	claims map[world.OffsetCoordinates]uint64
	loads  int
}

func NewClaimLookup(tx ports.Tx, locations ports.LocationRepository, claimTiles ports.ClaimTileRepository) *ClaimLookup {
	return &ClaimLookup{
		tx:         tx,
		locations:  locations,
		claimTiles: claimTiles,
		primed:     map[world.ChunkIndex]bool{},
		claims:     map[world.OffsetCoordinates]uint64{},
	}
}

// ClaimAt returns the claim stored on an overworld tile, or 0.
func (l *ClaimLookup) ClaimAt(tile world.FineTile) (uint64, error) {
	if l.tx.Err() != nil {
		return 0, fmt.Errorf("claim lookup: %w", ports.ErrTxDone)
	}
	index := tile.ChunkIndex()
	if !l.primed[index] {
		if err := l.prime(index); err != nil {
			return 0, err
		}
	}
	return l.claims[tile.ToOffsetCoordinates()], nil
}

func (l *ClaimLookup) prime(index world.ChunkIndex) error {
	ctx := l.tx.Context()
	locs, err := l.locations.FilterByChunk(ctx, index)
	if err != nil {
		return fmt.Errorf("prime claim lookup for chunk %d: %w", index, err)
	}
	for _, loc := range locs {
		if loc.Kind != world.EntityClaimTile {
			continue
		}
		ct, err := l.claimTiles.Find(ctx, loc.EntityID)
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("%w: claim tile location %d has no claim row", ports.ErrInvariantViolation, loc.EntityID)
		}
		if err != nil {
			return fmt.Errorf("prime claim lookup for chunk %d: %w", index, err)
		}
		if prev, ok := l.claims[loc.Tile]; ok && prev != ct.ClaimID {
			return fmt.Errorf("%w: tile (%d, %d) held by claims %d and %d",
				ports.ErrInvariantViolation, loc.Tile.X, loc.Tile.Z, prev, ct.ClaimID)
		}
		l.claims[loc.Tile] = ct.ClaimID
	}
	l.primed[index] = true
	l.loads++
	return nil
}

// set and clear keep the cache in step with writes made by the resolver.
// Tiles of unprimed chunks are left alone; priming reads the new rows.
func (l *ClaimLookup) set(tile world.FineTile, claimID uint64) {
	if l.primed[tile.ChunkIndex()] {
		l.claims[tile.ToOffsetCoordinates()] = claimID
	}
}

func (l *ClaimLookup) clear(tile world.FineTile) {
	delete(l.claims, tile.ToOffsetCoordinates())
}

// ChunkLoads reports how many chunks were read from storage.
func (l *ClaimLookup) ChunkLoads() int {
	return l.loads
}
