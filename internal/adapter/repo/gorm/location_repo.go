package gormrepo

import (
	"context"

	"hexworld/internal/adapter/repo/gorm/model"
	"hexworld/internal/domain/world"

	"gorm.io/gorm"
)

type LocationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepo {
	return LocationRepo{db: db}
}

func (r LocationRepo) Find(ctx context.Context, entityID uint64) (world.Location, error) {
	var row model.Location
	if err := conn(ctx, r.db).Where("entity_id = ?", int64(entityID)).First(&row).Error; err != nil {
		return world.Location{}, mapErr(err)
	}
	return toLocation(row), nil
}

func (r LocationRepo) FilterByTile(ctx context.Context, tile world.OffsetCoordinates) ([]world.Location, error) {
	return r.filter(ctx, "dimension = ? AND z = ? AND x = ?", int64(tile.Dimension), tile.Z, tile.X)
}

func (r LocationRepo) FilterByChunk(ctx context.Context, index world.ChunkIndex) ([]world.Location, error) {
	return r.filter(ctx, "chunk_index = ?", int64(index))
}

func (r LocationRepo) FilterByOwner(ctx context.Context, ownerEntityID uint64) ([]world.Location, error) {
	return r.filter(ctx, "owner_entity_id = ?", int64(ownerEntityID))
}

func (r LocationRepo) filter(ctx context.Context, query string, args ...any) ([]world.Location, error) {
	var rows []model.Location
	if err := conn(ctx, r.db).Where(query, args...).Order("entity_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]world.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLocation(row))
	}
	return out, nil
}

func (r LocationRepo) Insert(ctx context.Context, loc world.Location) error {
	row := fromLocation(loc)
	return mapErr(conn(ctx, r.db).Create(&row).Error)
}

func (r LocationRepo) Update(ctx context.Context, loc world.Location) error {
	row := fromLocation(loc)
	return affected(conn(ctx, r.db).Model(&model.Location{}).
		Where("entity_id = ?", row.EntityID).
		Updates(map[string]any{
			"kind":            row.Kind,
			"owner_entity_id": row.OwnerEntityID,
			"x":               row.X,
			"z":               row.Z,
			"dimension":       row.Dimension,
			"chunk_index":     row.ChunkIndex,
		}))
}

func (r LocationRepo) Delete(ctx context.Context, entityID uint64) error {
	return affected(conn(ctx, r.db).Where("entity_id = ?", int64(entityID)).Delete(&model.Location{}))
}

func toLocation(row model.Location) world.Location {
	return world.Location{
		EntityID:      uint64(row.EntityID),
		Kind:          world.EntityKind(row.Kind),
		OwnerEntityID: uint64(row.OwnerEntityID),
		Tile:          world.OffsetCoordinates{X: int(row.X), Z: int(row.Z), Dimension: uint32(row.Dimension)},
		ChunkIndex:    world.ChunkIndex(row.ChunkIndex),
	}
}

func fromLocation(loc world.Location) model.Location {
	return model.Location{
		EntityID:      int64(loc.EntityID),
		Kind:          int16(loc.Kind),
		OwnerEntityID: int64(loc.OwnerEntityID),
		X:             int32(loc.Tile.X),
		Z:             int32(loc.Tile.Z),
		Dimension:     int64(loc.Tile.Dimension),
		ChunkIndex:    int64(loc.ChunkIndex),
	}
}
