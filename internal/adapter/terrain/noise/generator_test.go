package noise

import (
	"testing"

	"hexworld/internal/domain/world"
)

func TestGenerator_IsDeterministicPerSeed(t *testing.T) {
	coord := world.ChunkCoordinate{X: 4, Z: 9, Dimension: world.OverworldDimension}
	a := New(Config{Seed: 7}).Chunk(coord)
	b := New(Config{Seed: 7}).Chunk(coord)
	c := New(Config{Seed: 8}).Chunk(coord)

	same, differs := true, false
	for i := 0; i < world.ChunkCells; i++ {
		if a.Elevations[i] != b.Elevations[i] || a.Biomes[i] != b.Biomes[i] {
			same = false
		}
		if a.Elevations[i] != c.Elevations[i] {
			differs = true
		}
	}
	if !same {
		t.Fatalf("same seed produced different terrain")
	}
	if !differs {
		t.Fatalf("different seeds produced identical elevations")
	}
}

func TestGenerator_ChunksAreValidAndConsistent(t *testing.T) {
	cfg := DefaultConfig()
	g := New(cfg)
	chunks := g.Region(world.OverworldDimension, 0, 0, 1, 1)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			t.Fatalf("validate: %v", err)
		}
		if err := world.ValidateChunkTags(c); err != nil {
			t.Fatalf("tags: %v", err)
		}
		for i, cell := range c.Cells() {
			if cell.Elevation != cell.OriginalElevation {
				t.Fatalf("slot %d starts modified", i)
			}
			if cell.Biome == world.BiomeOcean && !cell.IsSubmerged() {
				t.Fatalf("ocean cell %d above water", i)
			}
		}
	}
}

func TestGenerator_RegionSkipsUnpackableChunks(t *testing.T) {
	got := New(DefaultConfig()).Region(world.OverworldDimension, -1, 0, 0, 0)
	if len(got) != 1 || got[0].X != 0 {
		t.Fatalf("expected only chunk 0, got %d chunks", len(got))
	}
}
