package memory

import (
	"context"
	"sort"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"
)

type LocationRepo struct {
	store *Store
}

func (r LocationRepo) Find(_ context.Context, entityID uint64) (world.Location, error) {
	loc, ok := r.store.data.locations[entityID]
	if !ok {
		return world.Location{}, ports.ErrNotFound
	}
	return loc, nil
}

func (r LocationRepo) FilterByTile(_ context.Context, tile world.OffsetCoordinates) ([]world.Location, error) {
	ids := r.store.data.byTile[tile]
	out := make([]world.Location, 0, len(ids))
	for id := range ids {
		out = append(out, r.store.data.locations[id])
	}
	return sortLocations(out), nil
}

func (r LocationRepo) FilterByChunk(_ context.Context, index world.ChunkIndex) ([]world.Location, error) {
	return r.filter(func(l world.Location) bool { return l.ChunkIndex == index }), nil
}

func (r LocationRepo) FilterByOwner(_ context.Context, ownerEntityID uint64) ([]world.Location, error) {
	return r.filter(func(l world.Location) bool { return l.OwnerEntityID == ownerEntityID }), nil
}

func (r LocationRepo) filter(keep func(world.Location) bool) []world.Location {
	var out []world.Location
	for _, loc := range r.store.data.locations {
		if keep(loc) {
			out = append(out, loc)
		}
	}
	return sortLocations(out)
}

func (r LocationRepo) Insert(_ context.Context, loc world.Location) error {
	if _, ok := r.store.data.locations[loc.EntityID]; ok {
		return ports.ErrConflict
	}
	if r.claimTileTaken(loc) {
		return ports.ErrConflict
	}
	r.put(loc)
	return nil
}

func (r LocationRepo) Update(_ context.Context, loc world.Location) error {
	old, ok := r.store.data.locations[loc.EntityID]
	if !ok {
		return ports.ErrNotFound
	}
	if r.claimTileTaken(loc) {
		return ports.ErrConflict
	}
	r.unindex(old)
	r.put(loc)
	return nil
}

func (r LocationRepo) Delete(_ context.Context, entityID uint64) error {
	old, ok := r.store.data.locations[entityID]
	if !ok {
		return ports.ErrNotFound
	}
	r.unindex(old)
	delete(r.store.data.locations, entityID)
	return nil
}

// claimTileTaken mirrors the partial unique index on claim tile rows.
func (r LocationRepo) claimTileTaken(loc world.Location) bool {
	if loc.Kind != world.EntityClaimTile {
		return false
	}
	for id := range r.store.data.byTile[loc.Tile] {
		if id != loc.EntityID && r.store.data.locations[id].Kind == world.EntityClaimTile {
			return true
		}
	}
	return false
}

func (r LocationRepo) put(loc world.Location) {
	d := &r.store.data
	d.locations[loc.EntityID] = loc
	ids := d.byTile[loc.Tile]
	if ids == nil {
		ids = map[uint64]struct{}{}
		d.byTile[loc.Tile] = ids
	}
	ids[loc.EntityID] = struct{}{}
	d.observeID(loc.EntityID)
}

func (r LocationRepo) unindex(loc world.Location) {
	ids := r.store.data.byTile[loc.Tile]
	delete(ids, loc.EntityID)
	if len(ids) == 0 {
		delete(r.store.data.byTile, loc.Tile)
	}
}

func sortLocations(locs []world.Location) []world.Location {
	sort.Slice(locs, func(i, j int) bool { return locs[i].EntityID < locs[j].EntityID })
	return locs
}
