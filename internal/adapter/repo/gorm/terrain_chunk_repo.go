package gormrepo

import (
	"context"
	"fmt"
	"time"

	"hexworld/internal/adapter/chunkcodec"
	"hexworld/internal/adapter/repo/gorm/model"
	"hexworld/internal/domain/world"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TerrainChunkRepo struct {
	db *gorm.DB
}

func NewTerrainChunkRepo(db *gorm.DB) TerrainChunkRepo {
	return TerrainChunkRepo{db: db}
}

func (r TerrainChunkRepo) Find(ctx context.Context, index world.ChunkIndex) (*world.TerrainChunk, error) {
	var row model.TerrainChunk
	if err := conn(ctx, r.db).Where("chunk_index = ?", int64(index)).First(&row).Error; err != nil {
		return nil, mapErr(err)
	}
	return decodeChunkRow(row)
}

func (r TerrainChunkRepo) All(ctx context.Context) ([]*world.TerrainChunk, error) {
	var rows []model.TerrainChunk
	if err := conn(ctx, r.db).Order("chunk_index").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*world.TerrainChunk, 0, len(rows))
	for _, row := range rows {
		c, err := decodeChunkRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r TerrainChunkRepo) Save(ctx context.Context, chunk *world.TerrainChunk) error {
	payload, err := chunkcodec.Encode(chunk)
	if err != nil {
		return err
	}
	row := model.TerrainChunk{
		ChunkIndex: int64(chunk.Index),
		ChunkX:     int32(chunk.X),
		ChunkZ:     int32(chunk.Z),
		Dimension:  int64(chunk.Dimension),
		Payload:    payload,
		UpdatedAt:  time.Now().UTC(),
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chunk_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

func decodeChunkRow(row model.TerrainChunk) (*world.TerrainChunk, error) {
	coord := world.ChunkCoordinate{X: int(row.ChunkX), Z: int(row.ChunkZ), Dimension: uint32(row.Dimension)}
	c, err := chunkcodec.Decode(coord, row.Payload)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", row.ChunkIndex, err)
	}
	if c.Index != world.ChunkIndex(row.ChunkIndex) {
		return nil, fmt.Errorf("chunk row %d stores coordinates of chunk %d", row.ChunkIndex, c.Index)
	}
	return c, nil
}
