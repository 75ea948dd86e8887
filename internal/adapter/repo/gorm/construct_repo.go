package gormrepo

import (
	"context"
	"fmt"

	"hexworld/internal/adapter/repo/gorm/model"
	"hexworld/internal/domain/territory"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConstructRepo struct {
	db *gorm.DB
}

func NewConstructRepo(db *gorm.DB) ConstructRepo {
	return ConstructRepo{db: db}
}

func (r ConstructRepo) Find(ctx context.Context, entityID uint64) (territory.Construct, error) {
	var row model.Construct
	if err := conn(ctx, r.db).Where("entity_id = ?", int64(entityID)).First(&row).Error; err != nil {
		return territory.Construct{}, mapErr(err)
	}
	kind, err := territory.ConstructKindFromTag(int(row.Kind))
	if err != nil {
		return territory.Construct{}, fmt.Errorf("construct %d: %w", row.EntityID, err)
	}
	return territory.Construct{
		EntityID:      uint64(row.EntityID),
		DescriptionID: uint64(row.DescriptionID),
		Kind:          kind,
		Rotation:      int(row.Rotation),
		ClaimEntityID: uint64(row.ClaimEntityID),
	}, nil
}

func (r ConstructRepo) Insert(ctx context.Context, c territory.Construct) error {
	row := fromConstruct(c)
	return mapErr(conn(ctx, r.db).Create(&row).Error)
}

func (r ConstructRepo) Update(ctx context.Context, c territory.Construct) error {
	row := fromConstruct(c)
	return affected(conn(ctx, r.db).Model(&model.Construct{}).
		Where("entity_id = ?", row.EntityID).
		Updates(map[string]any{
			"description_id":  row.DescriptionID,
			"kind":            row.Kind,
			"rotation":        row.Rotation,
			"claim_entity_id": row.ClaimEntityID,
		}))
}

func fromConstruct(c territory.Construct) model.Construct {
	return model.Construct{
		EntityID:      int64(c.EntityID),
		DescriptionID: int64(c.DescriptionID),
		Kind:          int16(c.Kind),
		Rotation:      int16(c.Rotation),
		ClaimEntityID: int64(c.ClaimEntityID),
	}
}

type DimensionRepo struct {
	db *gorm.DB
}

func NewDimensionRepo(db *gorm.DB) DimensionRepo {
	return DimensionRepo{db: db}
}

func (r DimensionRepo) NetworkByDimension(ctx context.Context, dimension uint32) (territory.DimensionNetwork, error) {
	var row model.DimensionNetwork
	err := conn(ctx, r.db).
		Joins("JOIN dimensions ON dimensions.network_entity_id = dimension_networks.entity_id").
		Where("dimensions.dimension = ?", int64(dimension)).
		First(&row).Error
	if err != nil {
		return territory.DimensionNetwork{}, mapErr(err)
	}
	return territory.DimensionNetwork{
		EntityID:         uint64(row.EntityID),
		BuildingEntityID: uint64(row.BuildingEntityID),
		ClaimEntityID:    uint64(row.ClaimEntityID),
	}, nil
}

// SaveNetwork upserts the network and points every listed dimension at it.
func (r DimensionRepo) SaveNetwork(ctx context.Context, network territory.DimensionNetwork, dimensions []uint32) error {
	db := conn(ctx, r.db)
	row := model.DimensionNetwork{
		EntityID:         int64(network.EntityID),
		BuildingEntityID: int64(network.BuildingEntityID),
		ClaimEntityID:    int64(network.ClaimEntityID),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"building_entity_id", "claim_entity_id"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save network %d: %w", network.EntityID, err)
	}
	for _, d := range dimensions {
		link := model.Dimension{Dimension: int64(d), NetworkEntityID: row.EntityID}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dimension"}},
			DoUpdates: clause.AssignmentColumns([]string{"network_entity_id"}),
		}).Create(&link).Error
		if err != nil {
			return fmt.Errorf("link dimension %d: %w", d, err)
		}
	}
	return nil
}

// IDAllocator draws entity ids from entity_id_seq.
type IDAllocator struct {
	db *gorm.DB
}

func NewIDAllocator(db *gorm.DB) IDAllocator {
	return IDAllocator{db: db}
}

func (a IDAllocator) NextEntityID(ctx context.Context) (uint64, error) {
	var id int64
	if err := conn(ctx, a.db).Raw("SELECT nextval('entity_id_seq')").Scan(&id).Error; err != nil {
		return 0, fmt.Errorf("next entity id: %w", err)
	}
	return uint64(id), nil
}
