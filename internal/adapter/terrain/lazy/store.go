// Package lazy fills chunk misses from a generator and writes the result
// through to the backing repository.
package lazy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"
)

type Generator interface {
	Chunk(coord world.ChunkCoordinate) *world.TerrainChunk
}

// Store wraps a TerrainChunkRepository. Only dimensions listed in
// Dimensions are generated; misses elsewhere stay ErrNotFound.
type Store struct {
	Backing    ports.TerrainChunkRepository
	Generator  Generator
	Dimensions []uint32
	Logger     *slog.Logger
}

func New(backing ports.TerrainChunkRepository, gen Generator, dimensions ...uint32) Store {
	if len(dimensions) == 0 {
		dimensions = []uint32{world.OverworldDimension}
	}
	return Store{Backing: backing, Generator: gen, Dimensions: dimensions}
}

func (s Store) Find(ctx context.Context, index world.ChunkIndex) (*world.TerrainChunk, error) {
	chunk, err := s.Backing.Find(ctx, index)
	if err == nil || !errors.Is(err, ports.ErrNotFound) {
		return chunk, err
	}
	coord := index.Coordinates()
	if index == 0 || !coord.Valid() || coord.Index() != index || !s.generates(coord.Dimension) {
		return nil, err
	}
	chunk = s.Generator.Chunk(coord)
	if saveErr := s.Backing.Save(ctx, chunk); saveErr != nil {
		return nil, fmt.Errorf("save generated chunk %d: %w", index, saveErr)
	}
	s.logger().Debug("terrain chunk generated", "chunk_x", coord.X, "chunk_z", coord.Z, "dimension", coord.Dimension)
	return chunk.Clone(), nil
}

// All lists stored chunks only.
func (s Store) All(ctx context.Context) ([]*world.TerrainChunk, error) {
	return s.Backing.All(ctx)
}

func (s Store) Save(ctx context.Context, chunk *world.TerrainChunk) error {
	return s.Backing.Save(ctx, chunk)
}

func (s Store) generates(dimension uint32) bool {
	for _, d := range s.Dimensions {
		if d == dimension {
			return true
		}
	}
	return false
}

func (s Store) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
