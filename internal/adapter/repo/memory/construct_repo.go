package memory

import (
	"context"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/territory"
)

type ConstructRepo struct {
	store *Store
}

func (r ConstructRepo) Find(_ context.Context, entityID uint64) (territory.Construct, error) {
	c, ok := r.store.data.constructs[entityID]
	if !ok {
		return territory.Construct{}, ports.ErrNotFound
	}
	return c, nil
}

func (r ConstructRepo) Insert(_ context.Context, c territory.Construct) error {
	if _, ok := r.store.data.constructs[c.EntityID]; ok {
		return ports.ErrConflict
	}
	r.store.data.constructs[c.EntityID] = c
	r.store.data.observeID(c.EntityID)
	return nil
}

func (r ConstructRepo) Update(_ context.Context, c territory.Construct) error {
	if _, ok := r.store.data.constructs[c.EntityID]; !ok {
		return ports.ErrNotFound
	}
	r.store.data.constructs[c.EntityID] = c
	return nil
}

type DimensionRepo struct {
	store *Store
}

func (r DimensionRepo) NetworkByDimension(_ context.Context, dimension uint32) (territory.DimensionNetwork, error) {
	id, ok := r.store.data.dimensions[dimension]
	if !ok {
		return territory.DimensionNetwork{}, ports.ErrNotFound
	}
	n, ok := r.store.data.networks[id]
	if !ok {
		return territory.DimensionNetwork{}, ports.ErrNotFound
	}
	return n, nil
}

func (r DimensionRepo) SaveNetwork(_ context.Context, network territory.DimensionNetwork, dimensions []uint32) error {
	r.store.data.networks[network.EntityID] = network
	r.store.data.observeID(network.EntityID)
	for _, d := range dimensions {
		r.store.data.dimensions[d] = network.EntityID
	}
	return nil
}

type IDAllocator struct {
	store *Store
}

func (a IDAllocator) NextEntityID(_ context.Context) (uint64, error) {
	id := a.store.data.nextID
	a.store.data.nextID++
	return id, nil
}
