package memory

import (
	"context"
	"errors"
	"testing"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

func TestTxManager_RollbackDiscardsWrites(t *testing.T) {
	store := NewStore()
	repos := NewRepos(store)
	txm := NewTxManager(store)
	ctx := context.Background()

	tx, err := txm.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repos.ClaimTiles.Insert(tx.Context(), territory.ClaimTile{EntityID: 10, ClaimID: 5}); err != nil {
		t.Fatalf("insert claim tile: %v", err)
	}
	loc := world.NewLocation(10, world.EntityClaimTile, 0, world.NewFineTile(1, 1, world.OverworldDimension))
	if err := repos.Locations.Insert(tx.Context(), loc); err != nil {
		t.Fatalf("insert location: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if !errors.Is(tx.Err(), ports.ErrTxDone) {
		t.Fatalf("expected finished tx")
	}
	if err := tx.Commit(); !errors.Is(err, ports.ErrTxDone) {
		t.Fatalf("commit after rollback should fail, got %v", err)
	}

	err = txm.RunInTx(ctx, func(tx ports.Tx) error {
		if _, err := repos.ClaimTiles.Find(tx.Context(), 10); !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("rolled back claim tile still present: %v", err)
		}
		locs, err := repos.Locations.FilterByTile(tx.Context(), loc.Tile)
		if err != nil || len(locs) != 0 {
			t.Fatalf("rolled back location still indexed: %v %v", locs, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run in tx: %v", err)
	}
}

func TestTxManager_RunInTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	repos := NewRepos(store)
	txm := NewTxManager(store)
	boom := errors.New("boom")

	err := txm.RunInTx(context.Background(), func(tx ports.Tx) error {
		if err := repos.Claims.Insert(tx.Context(), territory.Claim{EntityID: 3, Name: "north"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	_ = txm.RunInTx(context.Background(), func(tx ports.Tx) error {
		if _, err := repos.Claims.Find(tx.Context(), 3); !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("claim survived rollback: %v", err)
		}
		return nil
	})
}

func TestLocationRepo_IndexesFollowUpdates(t *testing.T) {
	store := NewStore()
	r := NewRepos(store).Locations
	ctx := context.Background()
	from := world.NewFineTile(2, 3, world.OverworldDimension)
	to := world.NewFineTile(400, 3, world.OverworldDimension)

	if err := r.Insert(ctx, world.NewLocation(7, world.EntityPlayer, 0, from)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := r.Insert(ctx, world.NewLocation(7, world.EntityPlayer, 0, from)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on duplicate insert, got %v", err)
	}
	if err := r.Update(ctx, world.NewLocation(7, world.EntityPlayer, 0, to)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if locs, _ := r.FilterByTile(ctx, from.ToOffsetCoordinates()); len(locs) != 0 {
		t.Fatalf("old tile still indexed: %v", locs)
	}
	if locs, _ := r.FilterByChunk(ctx, to.ChunkIndex()); len(locs) != 1 {
		t.Fatalf("expected moved entity in new chunk, got %v", locs)
	}
	id, _ := NewRepos(store).IDs.NextEntityID(ctx)
	if id <= 7 {
		t.Fatalf("allocator must skip stored ids, got %d", id)
	}
}

func TestLocationRepo_OneClaimTilePerTile(t *testing.T) {
	r := NewRepos(NewStore()).Locations
	ctx := context.Background()
	tile := world.NewFineTile(12, 9, world.OverworldDimension)
	other := world.NewFineTile(13, 9, world.OverworldDimension)

	if err := r.Insert(ctx, world.NewLocation(20, world.EntityClaimTile, 0, tile)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := r.Insert(ctx, world.NewLocation(21, world.EntityClaimTile, 0, tile)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict for second claim tile, got %v", err)
	}
	if err := r.Insert(ctx, world.NewLocation(22, world.EntityPlayer, 0, tile)); err != nil {
		t.Fatalf("other kinds may share the tile: %v", err)
	}
	if err := r.Insert(ctx, world.NewLocation(21, world.EntityClaimTile, 0, other)); err != nil {
		t.Fatalf("insert on free tile: %v", err)
	}
	if err := r.Update(ctx, world.NewLocation(21, world.EntityClaimTile, 0, tile)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict moving onto a claimed tile, got %v", err)
	}
	if err := r.Update(ctx, world.NewLocation(20, world.EntityClaimTile, 0, tile)); err != nil {
		t.Fatalf("rewriting a row in place: %v", err)
	}
}

func TestTerrainChunkRepo_StoresCopies(t *testing.T) {
	store := NewStore()
	r := NewRepos(store).Chunks
	ctx := context.Background()
	c := world.NewTerrainChunk(world.ChunkCoordinate{X: 1, Z: 2, Dimension: 1})
	if err := r.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.Elevations[0] = 50
	got, err := r.Find(ctx, c.Index)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Elevations[0] != 0 {
		t.Fatalf("stored chunk shares memory with caller")
	}
	if _, err := r.Find(ctx, c.Index+1); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
