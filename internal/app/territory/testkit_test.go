package territory

import (
	"context"
	"fmt"
	"testing"

	"hexworld/internal/adapter/repo/memory"
	"hexworld/internal/app/ports"
	tdomain "hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

type stubFootprints map[uint64][]tdomain.FootprintTile

func (s stubFootprints) Known(id uint64) bool {
	_, ok := s[id]
	return ok
}

func (s stubFootprints) Footprint(_ context.Context, descriptionID uint64, _ int) ([]tdomain.FootprintTile, error) {
	fp, ok := s[descriptionID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown descriptor %d", ports.ErrInvariantViolation, descriptionID)
	}
	return append([]tdomain.FootprintTile(nil), fp...), nil
}

type claimCounter struct {
	byOutcome map[ports.ClaimOutcome]int
}

func (c *claimCounter) RecordChunkLoad(bool)   {}
func (c *claimCounter) RecordChunkPersist(int) {}
func (c *claimCounter) RecordClaim(outcome ports.ClaimOutcome, tiles int) {
	if c.byOutcome == nil {
		c.byOutcome = map[ports.ClaimOutcome]int{}
	}
	c.byOutcome[outcome]++
}

type fixture struct {
	store   *memory.Store
	repos   memory.Repos
	txm     memory.TxManager
	metrics *claimCounter
	deps    Deps
}

func newFixture(footprints stubFootprints) *fixture {
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	metrics := &claimCounter{}
	return &fixture{
		store:   store,
		repos:   repos,
		txm:     memory.NewTxManager(store),
		metrics: metrics,
		deps: Deps{
			Locations:  repos.Locations,
			ClaimTiles: repos.ClaimTiles,
			Claims:     repos.Claims,
			Constructs: repos.Constructs,
			Dimensions: repos.Dimensions,
			Chunks:     repos.Chunks,
			IDs:        repos.IDs,
			Footprints: footprints,
			Metrics:    metrics,
		},
	}
}

func (f *fixture) useCase() UseCase {
	return UseCase{TxManager: f.txm, Deps: f.deps}
}

// with runs fn on a fresh resolver and commits.
func (f *fixture) with(t *testing.T, fn func(r *Resolver)) {
	t.Helper()
	tx, err := f.txm.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() {
		if tx.Err() == nil {
			_ = tx.Commit()
		}
	}()
	fn(NewResolver(tx, f.deps, Config{}))
}

func (f *fixture) seed(t *testing.T, fn func(ctx context.Context, r memory.Repos) error) {
	t.Helper()
	if err := f.store.Seed(func(r memory.Repos) error { return fn(context.Background(), r) }); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// seedClaim stores a claim and a building location for its totem.
func (f *fixture) seedClaim(t *testing.T, c tdomain.Claim, totem world.FineTile) {
	t.Helper()
	f.seed(t, func(ctx context.Context, r memory.Repos) error {
		if err := r.Locations.Insert(ctx, world.NewLocation(c.TotemEntityID, world.EntityBuilding, 0, totem)); err != nil {
			return err
		}
		return r.Claims.Insert(ctx, c)
	})
}

// seedClaimTile writes a claim tile row directly, bypassing spacing rules.
func (f *fixture) seedClaimTile(t *testing.T, entityID, claimID uint64, tile world.FineTile) {
	t.Helper()
	f.seed(t, func(ctx context.Context, r memory.Repos) error {
		if err := r.Locations.Insert(ctx, world.NewLocation(entityID, world.EntityClaimTile, 0, tile)); err != nil {
			return err
		}
		return r.ClaimTiles.Insert(ctx, tdomain.ClaimTile{EntityID: entityID, ClaimID: claimID})
	})
}

func (f *fixture) claimAt(t *testing.T, tile world.FineTile) uint64 {
	t.Helper()
	var id uint64
	f.with(t, func(r *Resolver) {
		ct, ok, err := r.ClaimOnTile(tile)
		if err != nil {
			t.Fatalf("claim on tile: %v", err)
		}
		if ok {
			id = ct.ClaimID
		}
	})
	return id
}

func (f *fixture) construct(t *testing.T, id uint64) tdomain.Construct {
	t.Helper()
	var c tdomain.Construct
	f.seed(t, func(ctx context.Context, r memory.Repos) error {
		var err error
		c, err = r.Constructs.Find(ctx, id)
		return err
	})
	return c
}

// base keeps fixtures inside the packable chunk range.
const base = 300

// fine returns the overworld tile at (x, z) relative to base.
func fine(x, z int) world.FineTile {
	return world.NewFineTile(base+x, base+z, world.OverworldDimension)
}
