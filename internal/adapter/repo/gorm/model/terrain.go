package model

import "time"

const TableNameTerrainChunk = "terrain_chunks"

// TerrainChunk is one chunk row. Payload holds the compressed cell arrays.
type TerrainChunk struct {
	ChunkIndex int64     `gorm:"column:chunk_index;primaryKey"`
	ChunkX     int32     `gorm:"column:chunk_x;not null"`
	ChunkZ     int32     `gorm:"column:chunk_z;not null"`
	Dimension  int64     `gorm:"column:dimension;not null"`
	Payload    []byte    `gorm:"column:payload;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (*TerrainChunk) TableName() string {
	return TableNameTerrainChunk
}
