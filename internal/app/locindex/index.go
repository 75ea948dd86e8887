// Package locindex maps entities to the fine tile they occupy and answers
// reverse lookups by tile, chunk and radius.
package locindex

import (
	"errors"
	"fmt"
	"sort"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

// Index is a view of the location rows scoped to one unit of work.
type Index struct {
	tx   ports.Tx
	repo ports.LocationRepository
	ids  ports.EntityIDAllocator
}

func New(tx ports.Tx, repo ports.LocationRepository, ids ports.EntityIDAllocator) *Index {
	return &Index{tx: tx, repo: repo, ids: ids}
}

func (x *Index) live() error {
	if x.tx.Err() != nil {
		return fmt.Errorf("location index: %w", ports.ErrTxDone)
	}
	return nil
}

// Place inserts the entity or moves it to tile.
func (x *Index) Place(entityID uint64, kind world.EntityKind, owner uint64, tile world.FineTile) (world.Location, error) {
	if err := x.live(); err != nil {
		return world.Location{}, err
	}
	loc := world.NewLocation(entityID, kind, owner, tile)
	if err := loc.Validate(); err != nil {
		return world.Location{}, err
	}
	ctx := x.tx.Context()
	_, err := x.repo.Find(ctx, entityID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		err = x.repo.Insert(ctx, loc)
	case err == nil:
		err = x.repo.Update(ctx, loc)
	}
	if err != nil {
		return world.Location{}, fmt.Errorf("place entity %d: %w", entityID, err)
	}
	return loc, nil
}

// Remove reports false when the entity had no location.
func (x *Index) Remove(entityID uint64) (bool, error) {
	if err := x.live(); err != nil {
		return false, err
	}
	err := x.repo.Delete(x.tx.Context(), entityID)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove entity %d: %w", entityID, err)
	}
	return true, nil
}

func (x *Index) Find(entityID uint64) (world.Location, bool, error) {
	if err := x.live(); err != nil {
		return world.Location{}, false, err
	}
	loc, err := x.repo.Find(x.tx.Context(), entityID)
	if errors.Is(err, ports.ErrNotFound) {
		return world.Location{}, false, nil
	}
	if err != nil {
		return world.Location{}, false, fmt.Errorf("find entity %d: %w", entityID, err)
	}
	return loc, true, nil
}

func (x *Index) TileOf(entityID uint64) (world.FineTile, bool, error) {
	loc, ok, err := x.Find(entityID)
	if err != nil || !ok {
		return world.FineTile{}, false, err
	}
	return loc.FineTile(), true, nil
}

func (x *Index) EntitiesAt(tile world.FineTile) ([]world.Location, error) {
	if err := x.live(); err != nil {
		return nil, err
	}
	locs, err := x.repo.FilterByTile(x.tx.Context(), tile.ToOffsetCoordinates())
	if err != nil {
		return nil, fmt.Errorf("entities at (%d, %d, %d): %w", tile.X, tile.Z, tile.Dimension, err)
	}
	return locs, nil
}

// EntitiesAtOfKind keeps rows whose kind is one of kinds.
func (x *Index) EntitiesAtOfKind(tile world.FineTile, kinds ...world.EntityKind) ([]world.Location, error) {
	locs, err := x.EntitiesAt(tile)
	if err != nil {
		return nil, err
	}
	return filterKinds(locs, kinds), nil
}

func (x *Index) EntitiesInChunk(index world.ChunkIndex) ([]world.Location, error) {
	if err := x.live(); err != nil {
		return nil, err
	}
	locs, err := x.repo.FilterByChunk(x.tx.Context(), index)
	if err != nil {
		return nil, fmt.Errorf("entities in chunk %d: %w", index, err)
	}
	return locs, nil
}

// EntitiesInRadius returns rows within radius of center, center included,
// ordered by entity id. An empty kinds list matches every kind.
func (x *Index) EntitiesInRadius(center world.FineTile, radius int, kinds ...world.EntityKind) ([]world.Location, error) {
	if radius < 0 {
		return nil, nil
	}
	chunks := map[world.ChunkIndex]struct{}{center.ChunkIndex(): {}}
	for _, tile := range center.CoordinatesInRadius(radius) {
		chunks[tile.ChunkIndex()] = struct{}{}
	}
	var out []world.Location
	for index := range chunks {
		locs, err := x.EntitiesInChunk(index)
		if err != nil {
			return nil, err
		}
		for _, loc := range filterKinds(locs, kinds) {
			tile := loc.FineTile()
			if tile.Dimension == center.Dimension && tile.DistanceTo(center) <= radius {
				out = append(out, loc)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

// IndexFootprint writes one footprint row per occupied tile, owned by the
// construct. Perimeter tiles are not indexed.
func (x *Index) IndexFootprint(ownerID uint64, anchor world.FineTile, footprint []territory.FootprintTile) ([]world.Location, error) {
	if err := x.live(); err != nil {
		return nil, err
	}
	var out []world.Location
	for _, f := range footprint {
		if !f.Kind.Occupies() {
			continue
		}
		id, err := x.ids.NextEntityID(x.tx.Context())
		if err != nil {
			return nil, fmt.Errorf("allocate footprint id: %w", err)
		}
		loc := world.NewLocation(id, world.EntityFootprint, ownerID, f.Tile(anchor))
		if err := loc.Validate(); err != nil {
			return nil, err
		}
		if err := x.repo.Insert(x.tx.Context(), loc); err != nil {
			return nil, fmt.Errorf("index footprint of %d: %w", ownerID, err)
		}
		out = append(out, loc)
	}
	return out, nil
}

func (x *Index) FootprintOf(ownerID uint64) ([]world.Location, error) {
	if err := x.live(); err != nil {
		return nil, err
	}
	locs, err := x.repo.FilterByOwner(x.tx.Context(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("footprint of %d: %w", ownerID, err)
	}
	return filterKinds(locs, []world.EntityKind{world.EntityFootprint}), nil
}

func (x *Index) RemoveFootprint(ownerID uint64) (int, error) {
	locs, err := x.FootprintOf(ownerID)
	if err != nil {
		return 0, err
	}
	for _, loc := range locs {
		if err := x.repo.Delete(x.tx.Context(), loc.EntityID); err != nil {
			return 0, fmt.Errorf("remove footprint of %d: %w", ownerID, err)
		}
	}
	return len(locs), nil
}

func filterKinds(locs []world.Location, kinds []world.EntityKind) []world.Location {
	if len(kinds) == 0 {
		return locs
	}
	out := locs[:0:0]
	for _, loc := range locs {
		for _, k := range kinds {
			if loc.Kind == k {
				out = append(out, loc)
				break
			}
		}
	}
	return out
}
