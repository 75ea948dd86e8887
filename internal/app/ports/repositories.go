package ports

import (
	"context"

	"hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

// TerrainChunkRepository stores one row per chunk keyed by chunk index.
type TerrainChunkRepository interface {
	Find(ctx context.Context, index world.ChunkIndex) (*world.TerrainChunk, error)
	All(ctx context.Context) ([]*world.TerrainChunk, error)
	Save(ctx context.Context, chunk *world.TerrainChunk) error
}

type LocationRepository interface {
	Find(ctx context.Context, entityID uint64) (world.Location, error)
	FilterByTile(ctx context.Context, tile world.OffsetCoordinates) ([]world.Location, error)
	FilterByChunk(ctx context.Context, index world.ChunkIndex) ([]world.Location, error)
	FilterByOwner(ctx context.Context, ownerEntityID uint64) ([]world.Location, error)
	Insert(ctx context.Context, loc world.Location) error
	Update(ctx context.Context, loc world.Location) error
	Delete(ctx context.Context, entityID uint64) error
}

// ClaimTileRepository is keyed by the claim tile's location entity.
type ClaimTileRepository interface {
	Find(ctx context.Context, entityID uint64) (territory.ClaimTile, error)
	FilterByClaim(ctx context.Context, claimID uint64) ([]territory.ClaimTile, error)
	Insert(ctx context.Context, tile territory.ClaimTile) error
	Delete(ctx context.Context, entityID uint64) error
}

type ClaimRepository interface {
	Find(ctx context.Context, claimID uint64) (territory.Claim, error)
	FindByTotem(ctx context.Context, totemEntityID uint64) (territory.Claim, error)
	Insert(ctx context.Context, claim territory.Claim) error
	Update(ctx context.Context, claim territory.Claim) error
}

type ConstructRepository interface {
	Find(ctx context.Context, entityID uint64) (territory.Construct, error)
	Insert(ctx context.Context, c territory.Construct) error
	Update(ctx context.Context, c territory.Construct) error
}

type DimensionRepository interface {
	NetworkByDimension(ctx context.Context, dimension uint32) (territory.DimensionNetwork, error)
	SaveNetwork(ctx context.Context, network territory.DimensionNetwork, dimensions []uint32) error
}

type EntityIDAllocator interface {
	NextEntityID(ctx context.Context) (uint64, error)
}
