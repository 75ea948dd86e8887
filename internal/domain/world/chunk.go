package world

import (
	"errors"
	"fmt"
)

const (
	ChunkWidth  = 32
	ChunkHeight = 32
	ChunkCells  = ChunkWidth * ChunkHeight

	// Packed chunk index radix. Chunk axes must stay in [0, chunkAxisLimit).
	chunkAxisLimit      = 1_000
	chunkDimensionRadix = 1_000_000
)

var ErrChunkOutOfRange = errors.New("chunk coordinate out of range")

// ChunkCoordinate addresses a 32x32 block of terrain cells in offset space.
type ChunkCoordinate struct {
	X         int    `json:"chunk_x"`
	Z         int    `json:"chunk_z"`
	Dimension uint32 `json:"dimension"`
}

// ChunkIndex is the packed storage and cache key of a chunk:
// dimension*10^6 + z*10^3 + x + 1.
type ChunkIndex uint64

func (c ChunkCoordinate) Valid() bool {
	return c.X >= 0 && c.X < chunkAxisLimit && c.Z >= 0 && c.Z < chunkAxisLimit
}

// Index packs c. Coordinates outside the packable range produce an index
// that does not decode back to c; check Valid first.
func (c ChunkCoordinate) Index() ChunkIndex {
	return ChunkIndex(uint64(c.Dimension)*chunkDimensionRadix + uint64(c.Z)*chunkAxisLimit + uint64(c.X) + 1)
}

func (c ChunkCoordinate) CheckedIndex() (ChunkIndex, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: (%d, %d) in dimension %d", ErrChunkOutOfRange, c.X, c.Z, c.Dimension)
	}
	return c.Index(), nil
}

func (i ChunkIndex) Coordinates() ChunkCoordinate {
	v := uint64(i) - 1
	return ChunkCoordinate{
		X:         int(v % chunkAxisLimit),
		Z:         int((v % chunkDimensionRadix) / chunkAxisLimit),
		Dimension: uint32(v / chunkDimensionRadix),
	}
}

// OriginOffset is the offset coordinate of the chunk's first cell.
func (c ChunkCoordinate) OriginOffset() OffsetCoordinates {
	return OffsetCoordinates{X: c.X * ChunkWidth, Z: c.Z * ChunkHeight, Dimension: c.Dimension}
}

// TerrainChunk stores per-cell terrain data as parallel arrays indexed by
// LocalIndex. It is mutated in place and persisted as one row.
type TerrainChunk struct {
	Index              ChunkIndex
	X                  int
	Z                  int
	Dimension          uint32
	Biomes             []uint8
	BiomeDensities     []uint32
	Elevations         []int16
	WaterLevels        []int16
	OriginalElevations []int16
	Zoning             []uint8
}

// NewTerrainChunk allocates an empty chunk for c.
func NewTerrainChunk(c ChunkCoordinate) *TerrainChunk {
	return &TerrainChunk{
		Index:              c.Index(),
		X:                  c.X,
		Z:                  c.Z,
		Dimension:          c.Dimension,
		Biomes:             make([]uint8, ChunkCells),
		BiomeDensities:     make([]uint32, ChunkCells),
		Elevations:         make([]int16, ChunkCells),
		WaterLevels:        make([]int16, ChunkCells),
		OriginalElevations: make([]int16, ChunkCells),
		Zoning:             make([]uint8, ChunkCells),
	}
}

func (c *TerrainChunk) Coordinates() ChunkCoordinate {
	return ChunkCoordinate{X: c.X, Z: c.Z, Dimension: c.Dimension}
}

// Validate checks that every parallel array has one entry per cell.
func (c *TerrainChunk) Validate() error {
	lens := map[string]int{
		"biomes":              len(c.Biomes),
		"biome_densities":     len(c.BiomeDensities),
		"elevations":          len(c.Elevations),
		"water_levels":        len(c.WaterLevels),
		"original_elevations": len(c.OriginalElevations),
		"zoning":              len(c.Zoning),
	}
	for name, n := range lens {
		if n != ChunkCells {
			return fmt.Errorf("chunk %d %s length mismatch: got %d want %d", c.Index, name, n, ChunkCells)
		}
	}
	if c.Index != c.Coordinates().Index() {
		return fmt.Errorf("chunk index %d does not match coordinates (%d, %d, %d)", c.Index, c.X, c.Z, c.Dimension)
	}
	return nil
}

// LocalIndex returns the array slot of t, or false when t lies outside c.
func (c *TerrainChunk) LocalIndex(t TerrainTile) (int, bool) {
	if t.Dimension != c.Dimension {
		return 0, false
	}
	o := t.ToOffsetCoordinates()
	lx := o.X - c.X*ChunkWidth
	lz := o.Z - c.Z*ChunkHeight
	if lx < 0 || lx >= ChunkWidth || lz < 0 || lz >= ChunkHeight {
		return 0, false
	}
	return lz*ChunkWidth + lx, true
}

// TileAt returns the terrain tile stored in slot i.
func (c *TerrainChunk) TileAt(i int) TerrainTile {
	o := OffsetCoordinates{
		X:         c.X*ChunkWidth + floorMod(i, ChunkWidth),
		Z:         c.Z*ChunkHeight + i/ChunkWidth,
		Dimension: c.Dimension,
	}
	return TerrainTileFromOffset(o)
}

func (c *TerrainChunk) Cell(t TerrainTile) (TerrainCell, bool) {
	i, ok := c.LocalIndex(t)
	if !ok {
		return TerrainCell{}, false
	}
	return c.cellAt(i), true
}

func (c *TerrainChunk) cellAt(i int) TerrainCell {
	return TerrainCell{
		Tile:              c.TileAt(i),
		Biome:             Biome(c.Biomes[i]),
		BiomeDensity:      c.BiomeDensities[i],
		Elevation:         c.Elevations[i],
		WaterLevel:        c.WaterLevels[i],
		OriginalElevation: c.OriginalElevations[i],
		Zoning:            ZoningType(c.Zoning[i]),
	}
}

// Cells returns every cell of the chunk in slot order.
func (c *TerrainChunk) Cells() []TerrainCell {
	out := make([]TerrainCell, ChunkCells)
	for i := range out {
		out[i] = c.cellAt(i)
	}
	return out
}

// SetCell writes every field of cell into the slot of cell.Tile.
func (c *TerrainChunk) SetCell(cell TerrainCell) bool {
	i, ok := c.LocalIndex(cell.Tile)
	if !ok {
		return false
	}
	c.Biomes[i] = uint8(cell.Biome)
	c.BiomeDensities[i] = cell.BiomeDensity
	c.Elevations[i] = cell.Elevation
	c.WaterLevels[i] = cell.WaterLevel
	c.OriginalElevations[i] = cell.OriginalElevation
	c.Zoning[i] = uint8(cell.Zoning)
	return true
}

func (c *TerrainChunk) SetElevation(t TerrainTile, elevation int16) bool {
	i, ok := c.LocalIndex(t)
	if !ok {
		return false
	}
	c.Elevations[i] = elevation
	return true
}

// Clone deep-copies c.
func (c *TerrainChunk) Clone() *TerrainChunk {
	out := *c
	out.Biomes = append([]uint8(nil), c.Biomes...)
	out.BiomeDensities = append([]uint32(nil), c.BiomeDensities...)
	out.Elevations = append([]int16(nil), c.Elevations...)
	out.WaterLevels = append([]int16(nil), c.WaterLevels...)
	out.OriginalElevations = append([]int16(nil), c.OriginalElevations...)
	out.Zoning = append([]uint8(nil), c.Zoning...)
	return &out
}

// TerrainCell is one cell read out of a chunk.
type TerrainCell struct {
	Tile              TerrainTile `json:"tile"`
	Biome             Biome       `json:"biome"`
	BiomeDensity      uint32      `json:"biome_density"`
	Elevation         int16       `json:"elevation"`
	WaterLevel        int16       `json:"water_level"`
	OriginalElevation int16       `json:"original_elevation"`
	Zoning            ZoningType  `json:"zoning"`
}

func (c TerrainCell) IsSubmerged() bool {
	return c.WaterLevel > c.Elevation
}

func (c TerrainCell) WaterDepth() int {
	if !c.IsSubmerged() {
		return 0
	}
	return int(c.WaterLevel) - int(c.Elevation)
}

// MaxWadeDepth is the deepest water a player can walk through.
const MaxWadeDepth = 2

// Walkable reports whether ground movement may enter the cell.
func (c TerrainCell) Walkable() bool {
	if c.Zoning == ZoningBlocked {
		return false
	}
	return c.WaterDepth() <= MaxWadeDepth
}
