package world

import (
	"errors"
	"testing"
)

func TestLocationValidity(t *testing.T) {
	l := NewLocation(42, EntityBuilding, 0, NewFineTile(10, 20, OverworldDimension))
	if err := l.Validate(); err != nil {
		t.Fatalf("expected valid location, got %v", err)
	}
	if l.FineTile() != NewFineTile(10, 20, OverworldDimension) {
		t.Fatalf("location tile round trip failed: %+v", l.FineTile())
	}
	if l.ChunkIndex != NewFineTile(10, 20, OverworldDimension).ChunkIndex() {
		t.Fatalf("unexpected chunk index %d", l.ChunkIndex)
	}

	bad := Location{EntityID: 0, Kind: EntityBuilding}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected invalid location for zero id, got %v", err)
	}
	orphan := Location{EntityID: 9, Kind: EntityFootprint}
	if err := orphan.Validate(); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected invalid location for ownerless footprint, got %v", err)
	}
	west := NewLocation(9, EntityPlayer, 0, NewFineTile(-3, 0, OverworldDimension))
	if err := west.Validate(); !errors.Is(err, ErrChunkOutOfRange) {
		t.Fatalf("expected chunk out of range, got %v", err)
	}
	stale := l
	stale.ChunkIndex++
	if err := stale.Validate(); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected mismatched chunk index to be invalid, got %v", err)
	}
}

func TestStoredTagsDecodeExhaustively(t *testing.T) {
	for _, tag := range []int{1, 2, 3, 4, 5, 6, 7, 8} {
		if _, err := EntityKindFromTag(tag); err != nil {
			t.Fatalf("entity kind %d: %v", tag, err)
		}
	}
	for _, tag := range []int{0, 9, 255, 256, -1} {
		if _, err := EntityKindFromTag(tag); !errors.Is(err, ErrUnknownTag) {
			t.Fatalf("expected unknown tag for entity kind %d, got %v", tag, err)
		}
	}
	if _, err := BiomeFromTag(int(BiomeSavannah) + 1); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected unknown biome, got %v", err)
	}
	if b, err := BiomeFromTag(int(BiomeDesert)); err != nil || b != BiomeDesert {
		t.Fatalf("expected desert, got %v %v", b, err)
	}
	if _, err := ZoningFromTag(4); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected unknown zoning, got %v", err)
	}

	c := NewTerrainChunk(ChunkCoordinate{X: 1, Z: 1, Dimension: 1})
	if err := ValidateChunkTags(c); err != nil {
		t.Fatalf("empty chunk tags should be valid: %v", err)
	}
	c.Biomes[100] = 200
	if err := ValidateChunkTags(c); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected bad biome in chunk, got %v", err)
	}
}
