package memory

import (
	"context"
	"sort"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/territory"
)

type ClaimTileRepo struct {
	store *Store
}

func (r ClaimTileRepo) Find(_ context.Context, entityID uint64) (territory.ClaimTile, error) {
	ct, ok := r.store.data.claimTiles[entityID]
	if !ok {
		return territory.ClaimTile{}, ports.ErrNotFound
	}
	return ct, nil
}

func (r ClaimTileRepo) FilterByClaim(_ context.Context, claimID uint64) ([]territory.ClaimTile, error) {
	var out []territory.ClaimTile
	for _, ct := range r.store.data.claimTiles {
		if ct.ClaimID == claimID {
			out = append(out, ct)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

func (r ClaimTileRepo) Insert(_ context.Context, ct territory.ClaimTile) error {
	if _, ok := r.store.data.claimTiles[ct.EntityID]; ok {
		return ports.ErrConflict
	}
	r.store.data.claimTiles[ct.EntityID] = ct
	r.store.data.observeID(ct.EntityID)
	return nil
}

func (r ClaimTileRepo) Delete(_ context.Context, entityID uint64) error {
	if _, ok := r.store.data.claimTiles[entityID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.data.claimTiles, entityID)
	return nil
}

type ClaimRepo struct {
	store *Store
}

func (r ClaimRepo) Find(_ context.Context, claimID uint64) (territory.Claim, error) {
	c, ok := r.store.data.claims[claimID]
	if !ok {
		return territory.Claim{}, ports.ErrNotFound
	}
	return c, nil
}

func (r ClaimRepo) FindByTotem(_ context.Context, totemEntityID uint64) (territory.Claim, error) {
	for _, c := range r.store.data.claims {
		if c.TotemEntityID == totemEntityID {
			return c, nil
		}
	}
	return territory.Claim{}, ports.ErrNotFound
}

func (r ClaimRepo) Insert(_ context.Context, c territory.Claim) error {
	if _, ok := r.store.data.claims[c.EntityID]; ok {
		return ports.ErrConflict
	}
	r.store.data.claims[c.EntityID] = c
	r.store.data.observeID(c.EntityID)
	return nil
}

func (r ClaimRepo) Update(_ context.Context, c territory.Claim) error {
	if _, ok := r.store.data.claims[c.EntityID]; !ok {
		return ports.ErrNotFound
	}
	r.store.data.claims[c.EntityID] = c
	return nil
}
