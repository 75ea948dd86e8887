package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"hexworld/internal/app/ports"
	"hexworld/internal/app/terrain"
	"hexworld/internal/domain/world"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "terrain.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchive_SaveFindAndUpsert(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()
	coord := world.ChunkCoordinate{X: 2, Z: 5, Dimension: world.OverworldDimension}

	if _, err := a.Find(ctx, coord.Index()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	c := world.NewTerrainChunk(coord)
	c.WaterLevels[7] = 4
	if err := a.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.WaterLevels[7] = 5
	if err := a.Save(ctx, c); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := a.Find(ctx, coord.Index())
	if err != nil || got.WaterLevels[7] != 5 {
		t.Fatalf("find after upsert: %v %v", got, err)
	}
}

func TestArchive_SaveAllAndMeta(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()
	var chunks []*world.TerrainChunk
	for x := 3; x >= 0; x-- {
		chunks = append(chunks, world.NewTerrainChunk(world.ChunkCoordinate{X: x, Dimension: world.OverworldDimension}))
	}
	if err := a.SaveAll(ctx, chunks); err != nil {
		t.Fatalf("save all: %v", err)
	}
	all, err := a.All(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("all: %d %v", len(all), err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Index >= all[i].Index {
			t.Fatalf("chunks not ordered by index")
		}
	}

	if _, ok, err := a.Meta(ctx, "seed"); err != nil || ok {
		t.Fatalf("unset meta: %v %v", ok, err)
	}
	if err := a.SetMeta(ctx, "seed", "42"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if v, ok, err := a.Meta(ctx, "seed"); err != nil || !ok || v != "42" {
		t.Fatalf("meta: %q %v %v", v, ok, err)
	}
}

type noTx struct{}

func (noTx) Context() context.Context { return context.Background() }
func (noTx) Commit() error            { return nil }
func (noTx) Rollback() error          { return nil }
func (noTx) Err() error               { return nil }

func TestArchive_BacksChunkCache(t *testing.T) {
	a := openArchive(t)
	coord := world.ChunkCoordinate{X: 1, Z: 1, Dimension: world.OverworldDimension}
	if err := a.Save(context.Background(), world.NewTerrainChunk(coord)); err != nil {
		t.Fatalf("save: %v", err)
	}
	origin := coord.OriginOffset()
	tile := world.TerrainTileFromOffset(world.OffsetCoordinates{X: origin.X + 4, Z: origin.Z + 2, Dimension: origin.Dimension})

	cache := terrain.NewChunkCache(noTx{}, a)
	chunk, err := cache.MustChunk(coord.Index())
	if err != nil {
		t.Fatalf("must chunk: %v", err)
	}
	chunk.SetElevation(tile, 12)
	if _, err := cache.Persist(coord.Index()); err != nil {
		t.Fatalf("persist: %v", err)
	}

	cell, ok, err := terrain.NewChunkCache(noTx{}, a).TerrainCell(tile)
	if err != nil || !ok || cell.Elevation != 12 {
		t.Fatalf("terrain cell after persist: %+v %v %v", cell, ok, err)
	}
}

func TestArchive_OpensInWALModeWithBusyTimeout(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	var mode string
	if err := a.conn.GetContext(ctx, &mode, `PRAGMA journal_mode`); err != nil {
		t.Fatalf("journal mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal mode mismatch: got=%q want=%q", mode, "wal")
	}
	var timeout int
	if err := a.conn.GetContext(ctx, &timeout, `PRAGMA busy_timeout`); err != nil {
		t.Fatalf("busy timeout: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("busy timeout mismatch: got=%d want=%d", timeout, 5000)
	}
}
