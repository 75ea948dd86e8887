package terrain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid terrain request")

type UseCase struct {
	TxManager ports.TxManager
	Chunks    ports.TerrainChunkRepository
	Metrics   ports.SpatialMetrics
	Logger    *slog.Logger
}

func (u UseCase) cache(tx ports.Tx) *ChunkCache {
	return NewChunkCache(tx, u.Chunks, WithMetrics(u.Metrics), WithLogger(u.Logger))
}

// Cell returns ports.ErrNotFound for tiles outside stored terrain.
func (u UseCase) Cell(ctx context.Context, tile world.TerrainTile) (world.TerrainCell, error) {
	var out world.TerrainCell
	err := u.TxManager.RunInTx(ctx, func(tx ports.Tx) error {
		cell, ok, err := u.cache(tx).TerrainCell(tile)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("terrain cell (%d, %d, %d): %w", tile.X, tile.Z, tile.Dimension, ports.ErrNotFound)
		}
		out = cell
		return nil
	})
	return out, err
}

// Cells reads a batch of tiles through one cache so each chunk loads once.
// Tiles outside stored terrain are skipped.
func (u UseCase) Cells(ctx context.Context, tiles []world.TerrainTile) ([]world.TerrainCell, error) {
	out := make([]world.TerrainCell, 0, len(tiles))
	err := u.TxManager.RunInTx(ctx, func(tx ports.Tx) error {
		cache := u.cache(tx)
		for _, tile := range tiles {
			cell, ok, err := cache.TerrainCell(tile)
			if err != nil {
				return err
			}
			if ok {
				out = append(out, cell)
			}
		}
		return nil
	})
	return out, err
}

type SetElevationRequest struct {
	Tile      world.TerrainTile `json:"tile"`
	Elevation int16             `json:"elevation"`
}

// SetElevation changes the current elevation of a stored cell and persists
// its chunk. OriginalElevation keeps the generated value.
func (u UseCase) SetElevation(ctx context.Context, req SetElevationRequest) (world.TerrainCell, error) {
	if !req.Tile.ChunkCoordinates().Valid() {
		return world.TerrainCell{}, ErrInvalidRequest
	}
	var out world.TerrainCell
	err := u.TxManager.RunInTx(ctx, func(tx ports.Tx) error {
		cache := u.cache(tx)
		index := req.Tile.ChunkIndex()
		chunk, ok, err := cache.Chunk(index)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("chunk %d: %w", index, ports.ErrNotFound)
		}
		chunk.SetElevation(req.Tile, req.Elevation)
		cell, _ := chunk.Cell(req.Tile)
		if _, err := cache.Persist(index); err != nil {
			return err
		}
		out = cell
		return nil
	})
	return out, err
}
