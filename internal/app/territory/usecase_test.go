package territory

import (
	"context"
	"errors"
	"testing"

	"hexworld/internal/adapter/repo/memory"
	"hexworld/internal/app/ports"
	"hexworld/internal/domain/hexgrid"
	tdomain "hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

var hutFootprint = []tdomain.FootprintTile{
	{Offset: hexgrid.Coordinates{X: 0, Z: 0}, Kind: tdomain.FootprintWalkable},
	{Offset: hexgrid.Coordinates{X: 1, Z: 0}, Kind: tdomain.FootprintHitbox},
	{Offset: hexgrid.Coordinates{X: 0, Z: 1}, Kind: tdomain.FootprintPerimeter},
}

func placeTotem(t *testing.T, f *fixture, id uint64, tile world.FineTile) {
	t.Helper()
	f.seed(t, func(ctx context.Context, r memory.Repos) error {
		return r.Locations.Insert(ctx, world.NewLocation(id, world.EntityBuilding, 0, tile))
	})
}

func TestUseCase_FoundClaimCoversPlacedConstruct(t *testing.T) {
	f := newFixture(stubFootprints{1: hutFootprint})
	uc := f.useCase()
	ctx := context.Background()

	hut, err := uc.PlaceConstruct(ctx, PlaceConstructRequest{DescriptionID: 1, Kind: tdomain.ConstructBuilding, Anchor: fine(1, 1)})
	if err != nil {
		t.Fatalf("place construct: %v", err)
	}
	if hut.ClaimEntityID != 0 {
		t.Fatalf("construct on wild land has claim %d", hut.ClaimEntityID)
	}

	placeTotem(t, f, 100, fine(0, 0))
	claim, err := uc.FoundClaim(ctx, FoundClaimRequest{TotemEntityID: 100, OwnerPlayerID: 7, Name: "camp", Radius: 3})
	if err != nil {
		t.Fatalf("found claim: %v", err)
	}
	if claim.Radius != 3 || claim.OwnerPlayerID != 7 {
		t.Fatalf("unexpected claim %+v", claim)
	}
	if got := f.construct(t, hut.EntityID); got.ClaimEntityID != claim.EntityID {
		t.Fatalf("construct not covered by new claim, got %d", got.ClaimEntityID)
	}

	res, err := uc.ClaimUnderConstruct(ctx, ConstructQuery{DescriptionID: 1, Anchor: fine(1, 1)})
	if err != nil || res.ClaimID != claim.EntityID || len(res.Partial) != 1 {
		t.Fatalf("claim under construct: %+v %v", res, err)
	}

	if ok, err := uc.UnclaimTile(ctx, fine(2, 1)); err != nil || !ok {
		t.Fatalf("unclaim hitbox tile: %v %v", ok, err)
	}
	if got := f.construct(t, hut.EntityID); got.ClaimEntityID != 0 {
		t.Fatalf("construct kept claim after losing a tile, got %d", got.ClaimEntityID)
	}

	if _, err := uc.GrowClaim(ctx, GrowClaimRequest{ClaimID: claim.EntityID, Radius: 3}); err != nil {
		t.Fatalf("grow claim: %v", err)
	}
	if got := f.construct(t, hut.EntityID); got.ClaimEntityID != claim.EntityID {
		t.Fatalf("regrown claim did not cover construct, got %d", got.ClaimEntityID)
	}
	if f.metrics.byOutcome[ports.ClaimOutcomeFounded] != 1 {
		t.Fatalf("expected one founded sample, got %v", f.metrics.byOutcome)
	}
}

func TestUseCase_FoundClaimTooCloseIsRejectedAndRolledBack(t *testing.T) {
	f := newFixture(nil)
	uc := f.useCase()
	ctx := context.Background()
	placeTotem(t, f, 100, fine(0, 0))
	placeTotem(t, f, 200, fine(5, 0))
	placeTotem(t, f, 300, fine(30, 0))

	if _, err := uc.FoundClaim(ctx, FoundClaimRequest{TotemEntityID: 100, Radius: 1}); err != nil {
		t.Fatalf("found first claim: %v", err)
	}
	_, err := uc.FoundClaim(ctx, FoundClaimRequest{TotemEntityID: 200, Radius: 1})
	var rejected *tdomain.ClaimRejectedError
	if !errors.As(err, &rejected) || !errors.Is(err, tdomain.ErrClaimConflict) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if f.metrics.byOutcome[ports.ClaimOutcomeRejected] != 1 {
		t.Fatalf("rejection not recorded: %v", f.metrics.byOutcome)
	}
	f.seed(t, func(ctx context.Context, r memory.Repos) error {
		if _, err := r.Claims.FindByTotem(ctx, 200); !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("rejected claim persisted: %v", err)
		}
		return nil
	})

	if _, err := uc.FoundClaim(ctx, FoundClaimRequest{TotemEntityID: 300, Radius: 2}); err != nil {
		t.Fatalf("found distant claim: %v", err)
	}
	if _, err := uc.FoundClaim(ctx, FoundClaimRequest{TotemEntityID: 300, Radius: 2}); !errors.Is(err, tdomain.ErrClaimConflict) {
		t.Fatalf("totem cannot found twice, got %v", err)
	}
}

func TestUseCase_PlaceConstructAcrossClaimsIsRejected(t *testing.T) {
	f := newFixture(stubFootprints{1: hutFootprint})
	f.seedClaimTile(t, 101, 5, fine(10, 10))
	f.seedClaimTile(t, 102, 7, fine(11, 10))
	uc := f.useCase()

	_, err := uc.PlaceConstruct(context.Background(), PlaceConstructRequest{DescriptionID: 1, Kind: tdomain.ConstructBuilding, Anchor: fine(10, 10)})
	if !errors.Is(err, tdomain.ErrClaimConflict) {
		t.Fatalf("expected conflict for footprint across claims, got %v", err)
	}
	if _, err := uc.PlaceConstruct(context.Background(), PlaceConstructRequest{DescriptionID: 1, Kind: tdomain.ConstructBuilding, Rotation: 12}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid rotation, got %v", err)
	}
}

func TestUseCase_UnknownDescriptorIsInvalidRequest(t *testing.T) {
	f := newFixture(stubFootprints{1: hutFootprint})
	uc := f.useCase()
	ctx := context.Background()

	_, err := uc.ClaimUnderConstruct(ctx, ConstructQuery{DescriptionID: 42, Anchor: fine(0, 0)})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for unknown descriptor, got %v", err)
	}
	_, err = uc.PlaceConstruct(ctx, PlaceConstructRequest{DescriptionID: 42, Kind: tdomain.ConstructBuilding, Anchor: fine(0, 0)})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for unknown descriptor, got %v", err)
	}
	f.with(t, func(r *Resolver) {
		if locs, err := r.index.EntitiesAt(fine(0, 0)); err != nil || len(locs) != 0 {
			t.Fatalf("rejected construct left rows: %v %v", locs, err)
		}
	})
}

func TestUseCase_ReleaseClaimAndRadiusLimits(t *testing.T) {
	f := newFixture(nil)
	uc := f.useCase()
	ctx := context.Background()
	placeTotem(t, f, 100, fine(0, 0))
	claim, err := uc.FoundClaim(ctx, FoundClaimRequest{TotemEntityID: 100, Radius: 1})
	if err != nil {
		t.Fatalf("found claim: %v", err)
	}
	if _, err := uc.GrowClaim(ctx, GrowClaimRequest{ClaimID: claim.EntityID, Radius: 99}); !errors.Is(err, tdomain.ErrInvalidRadius) {
		t.Fatalf("expected invalid radius, got %v", err)
	}
	n, err := uc.ReleaseClaim(ctx, claim.EntityID)
	if err != nil || n != 7 {
		t.Fatalf("release claim: %d %v", n, err)
	}
	if _, ok, err := uc.ClaimOnTile(ctx, fine(0, 0)); err != nil || ok {
		t.Fatalf("released tile still claimed: %v %v", ok, err)
	}
}
