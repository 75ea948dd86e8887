package model

const (
	TableNameClaim            = "claims"
	TableNameClaimTile        = "claim_tiles"
	TableNameConstruct        = "constructs"
	TableNameDimensionNetwork = "dimension_networks"
	TableNameDimension        = "dimensions"
)

type Claim struct {
	EntityID      int64  `gorm:"column:entity_id;primaryKey"`
	TotemEntityID int64  `gorm:"column:totem_entity_id;not null"`
	OwnerPlayerID int64  `gorm:"column:owner_player_id;not null"`
	Name          string `gorm:"column:name;not null"`
	Neutral       bool   `gorm:"column:neutral;not null"`
	Radius        int32  `gorm:"column:radius;not null"`
}

func (*Claim) TableName() string { return TableNameClaim }

type ClaimTile struct {
	EntityID int64 `gorm:"column:entity_id;primaryKey"`
	ClaimID  int64 `gorm:"column:claim_id;not null"`
}

func (*ClaimTile) TableName() string { return TableNameClaimTile }

type Construct struct {
	EntityID      int64 `gorm:"column:entity_id;primaryKey"`
	DescriptionID int64 `gorm:"column:description_id;not null"`
	Kind          int16 `gorm:"column:kind;not null"`
	Rotation      int16 `gorm:"column:rotation;not null"`
	ClaimEntityID int64 `gorm:"column:claim_entity_id;not null"`
}

func (*Construct) TableName() string { return TableNameConstruct }

type DimensionNetwork struct {
	EntityID         int64 `gorm:"column:entity_id;primaryKey"`
	BuildingEntityID int64 `gorm:"column:building_entity_id;not null"`
	ClaimEntityID    int64 `gorm:"column:claim_entity_id;not null"`
}

func (*DimensionNetwork) TableName() string { return TableNameDimensionNetwork }

// Dimension maps a private dimension to the network it belongs to.
type Dimension struct {
	Dimension       int64 `gorm:"column:dimension;primaryKey"`
	NetworkEntityID int64 `gorm:"column:network_entity_id;not null"`
}

func (*Dimension) TableName() string { return TableNameDimension }
