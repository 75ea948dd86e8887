package territory

import (
	"errors"
	"strings"
	"testing"

	"hexworld/internal/domain/hexgrid"
	"hexworld/internal/domain/world"
)

func TestFootprintKindDecoding(t *testing.T) {
	for _, tc := range []struct {
		tag  int
		want FootprintKind
	}{
		{0, FootprintWalkable},
		{1, FootprintHitbox},
		{2, FootprintPerimeter},
	} {
		got, err := FootprintKindFromTag(tc.tag)
		if err != nil || got != tc.want {
			t.Fatalf("tag %d = %v, %v", tc.tag, got, err)
		}
		parsed, err := ParseFootprintKind(got.String())
		if err != nil || parsed != got {
			t.Fatalf("parse %q = %v, %v", got.String(), parsed, err)
		}
	}
	if _, err := FootprintKindFromTag(3); !errors.Is(err, world.ErrUnknownTag) {
		t.Fatalf("expected unknown tag, got %v", err)
	}
	if _, err := ParseFootprintKind("roof"); !errors.Is(err, world.ErrUnknownTag) {
		t.Fatalf("expected unknown tag for name, got %v", err)
	}
	if FootprintPerimeter.Occupies() || !FootprintHitbox.Occupies() || !FootprintWalkable.Occupies() {
		t.Fatalf("only walkable and hitbox tiles occupy")
	}
}

func TestConstructKindDecoding(t *testing.T) {
	if _, err := ConstructKindFromTag(0); !errors.Is(err, world.ErrUnknownTag) {
		t.Fatalf("zero construct kind must be rejected, got %v", err)
	}
	k, err := ConstructKindFromTag(3)
	if err != nil || k != ConstructDeployable {
		t.Fatalf("tag 3 = %v, %v", k, err)
	}
	if k.EntityKind() != world.EntityDeployable {
		t.Fatalf("unexpected entity kind %v", k.EntityKind())
	}
}

func TestFootprintTileTakesAnchorDimension(t *testing.T) {
	anchor := world.NewFineTile(10, -4, 7)
	f := FootprintTile{Offset: hexgrid.Coordinates{X: 1, Z: 2}, Kind: FootprintHitbox}
	got := f.Tile(anchor)
	if got != world.NewFineTile(11, -2, 7) {
		t.Fatalf("unexpected footprint tile %+v", got)
	}
}

func TestClaimRejectedErrorUnwraps(t *testing.T) {
	err := Rejected(ErrClaimConflict, world.NewFineTile(1, 2, 1), "claim %d is within %d tiles", 4, 2)
	if !errors.Is(err, ErrClaimConflict) {
		t.Fatalf("expected claim conflict cause")
	}
	var rejected *ClaimRejectedError
	if !errors.As(err, &rejected) || !strings.Contains(rejected.Reason, "claim 4") {
		t.Fatalf("unexpected rejection %v", err)
	}
	if ValidRotation(12) || ValidRotation(-1) || !ValidRotation(11) {
		t.Fatalf("rotation bounds wrong")
	}
}
