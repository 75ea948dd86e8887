package model

const TableNameLocation = "locations"

type Location struct {
	EntityID      int64 `gorm:"column:entity_id;primaryKey"`
	Kind          int16 `gorm:"column:kind;not null"`
	OwnerEntityID int64 `gorm:"column:owner_entity_id;not null"`
	X             int32 `gorm:"column:x;not null"`
	Z             int32 `gorm:"column:z;not null"`
	Dimension     int64 `gorm:"column:dimension;not null"`
	ChunkIndex    int64 `gorm:"column:chunk_index;not null"`
}

func (*Location) TableName() string {
	return TableNameLocation
}
