package gormrepo

import (
	"context"

	"hexworld/internal/adapter/repo/gorm/model"
	"hexworld/internal/domain/territory"

	"gorm.io/gorm"
)

type ClaimTileRepo struct {
	db *gorm.DB
}

func NewClaimTileRepo(db *gorm.DB) ClaimTileRepo {
	return ClaimTileRepo{db: db}
}

func (r ClaimTileRepo) Find(ctx context.Context, entityID uint64) (territory.ClaimTile, error) {
	var row model.ClaimTile
	if err := conn(ctx, r.db).Where("entity_id = ?", int64(entityID)).First(&row).Error; err != nil {
		return territory.ClaimTile{}, mapErr(err)
	}
	return territory.ClaimTile{EntityID: uint64(row.EntityID), ClaimID: uint64(row.ClaimID)}, nil
}

func (r ClaimTileRepo) FilterByClaim(ctx context.Context, claimID uint64) ([]territory.ClaimTile, error) {
	var rows []model.ClaimTile
	if err := conn(ctx, r.db).Where("claim_id = ?", int64(claimID)).Order("entity_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]territory.ClaimTile, 0, len(rows))
	for _, row := range rows {
		out = append(out, territory.ClaimTile{EntityID: uint64(row.EntityID), ClaimID: uint64(row.ClaimID)})
	}
	return out, nil
}

func (r ClaimTileRepo) Insert(ctx context.Context, ct territory.ClaimTile) error {
	row := model.ClaimTile{EntityID: int64(ct.EntityID), ClaimID: int64(ct.ClaimID)}
	return mapErr(conn(ctx, r.db).Create(&row).Error)
}

func (r ClaimTileRepo) Delete(ctx context.Context, entityID uint64) error {
	return affected(conn(ctx, r.db).Where("entity_id = ?", int64(entityID)).Delete(&model.ClaimTile{}))
}

type ClaimRepo struct {
	db *gorm.DB
}

func NewClaimRepo(db *gorm.DB) ClaimRepo {
	return ClaimRepo{db: db}
}

func (r ClaimRepo) Find(ctx context.Context, claimID uint64) (territory.Claim, error) {
	return r.first(ctx, "entity_id = ?", int64(claimID))
}

func (r ClaimRepo) FindByTotem(ctx context.Context, totemEntityID uint64) (territory.Claim, error) {
	return r.first(ctx, "totem_entity_id = ?", int64(totemEntityID))
}

func (r ClaimRepo) first(ctx context.Context, query string, arg any) (territory.Claim, error) {
	var row model.Claim
	if err := conn(ctx, r.db).Where(query, arg).First(&row).Error; err != nil {
		return territory.Claim{}, mapErr(err)
	}
	return territory.Claim{
		EntityID:      uint64(row.EntityID),
		TotemEntityID: uint64(row.TotemEntityID),
		OwnerPlayerID: uint64(row.OwnerPlayerID),
		Name:          row.Name,
		Neutral:       row.Neutral,
		Radius:        int(row.Radius),
	}, nil
}

func (r ClaimRepo) Insert(ctx context.Context, c territory.Claim) error {
	row := fromClaim(c)
	return mapErr(conn(ctx, r.db).Create(&row).Error)
}

func (r ClaimRepo) Update(ctx context.Context, c territory.Claim) error {
	row := fromClaim(c)
	return affected(conn(ctx, r.db).Model(&model.Claim{}).
		Where("entity_id = ?", row.EntityID).
		Updates(map[string]any{
			"totem_entity_id": row.TotemEntityID,
			"owner_player_id": row.OwnerPlayerID,
			"name":            row.Name,
			"neutral":         row.Neutral,
			"radius":          row.Radius,
		}))
}

func fromClaim(c territory.Claim) model.Claim {
	return model.Claim{
		EntityID:      int64(c.EntityID),
		TotemEntityID: int64(c.TotemEntityID),
		OwnerPlayerID: int64(c.OwnerPlayerID),
		Name:          c.Name,
		Neutral:       c.Neutral,
		Radius:        int32(c.Radius),
	}
}
