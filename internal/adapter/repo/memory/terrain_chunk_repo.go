package memory

import (
	"context"
	"sort"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"
)

// TerrainChunkRepo stores copies so that unsaved changes stay private to
// the caller.
type TerrainChunkRepo struct {
	store *Store
}

func (r TerrainChunkRepo) Find(_ context.Context, index world.ChunkIndex) (*world.TerrainChunk, error) {
	c, ok := r.store.data.chunks[index]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return c.Clone(), nil
}

func (r TerrainChunkRepo) All(_ context.Context) ([]*world.TerrainChunk, error) {
	out := make([]*world.TerrainChunk, 0, len(r.store.data.chunks))
	for _, c := range r.store.data.chunks {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r TerrainChunkRepo) Save(_ context.Context, chunk *world.TerrainChunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	r.store.data.chunks[chunk.Index] = chunk.Clone()
	return nil
}
