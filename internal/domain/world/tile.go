// Package world holds the multi-resolution tile types and terrain chunk
// layout built on the hexgrid engine.
package world

import (
	"hexworld/internal/domain/hexgrid"
)

// OverworldDimension is the shared world instance. Every other dimension is
// a private instance such as a building interior.
const OverworldDimension uint32 = 1

// TerrainScale is the number of fine tiles per terrain cell along each axis.
const TerrainScale = 3

// FineTile is the placement-resolution tile used by buildings, resources
// and players.
type FineTile struct {
	hexgrid.Coordinates
}

func NewFineTile(x, z int, dimension uint32) FineTile {
	return FineTile{hexgrid.New(x, z, dimension)}
}

func (t FineTile) IsOverworld() bool {
	return t.Dimension == OverworldDimension
}

func (t FineTile) Add(o hexgrid.Coordinates) FineTile {
	return FineTile{t.Coordinates.Add(o)}
}

func (t FineTile) Neighbor(d hexgrid.Direction, n int) FineTile {
	return FineTile{t.Coordinates.Neighbor(d, n)}
}

func (t FineTile) DistanceTo(o FineTile) int {
	return t.Coordinates.DistanceTo(o.Coordinates)
}

func (t FineTile) Direction(o FineTile) hexgrid.Direction {
	return t.Coordinates.Direction(o.Coordinates)
}

func (t FineTile) RotateAround(center FineTile, steps int) FineTile {
	return FineTile{t.Coordinates.RotateAround(center.Coordinates, steps)}
}

func (t FineTile) Ring(radius int) []FineTile {
	return wrapFine(hexgrid.Ring(t.Coordinates, radius))
}

// CoordinatesInRadius excludes t itself.
func (t FineTile) CoordinatesInRadius(radius int) []FineTile {
	return wrapFine(hexgrid.CoordinatesInRadius(t.Coordinates, radius))
}

func (t FineTile) ToContinuous() ContinuousTile {
	return ContinuousTile{X: float64(t.X), Z: float64(t.Z), Dimension: t.Dimension}
}

// ParentLargeTile returns the terrain cell containing t. Tiles equidistant
// from several cell centers resolve by cube rounding.
func (t FineTile) ParentLargeTile() TerrainTile {
	c := ContinuousTile{
		X:         float64(t.X) / TerrainScale,
		Z:         float64(t.Z) / TerrainScale,
		Dimension: t.Dimension,
	}
	r := c.Round()
	return TerrainTile{r.Coordinates}
}

func (t FineTile) ToOffsetCoordinates() OffsetCoordinates {
	return axialToOffset(t.Coordinates)
}

func FineTileFromOffset(o OffsetCoordinates) FineTile {
	return FineTile{offsetToAxial(o)}
}

func (t FineTile) ChunkCoordinates() ChunkCoordinate {
	return t.ParentLargeTile().ChunkCoordinates()
}

func (t FineTile) ChunkIndex() ChunkIndex {
	return t.ChunkCoordinates().Index()
}

func wrapFine(cs []hexgrid.Coordinates) []FineTile {
	out := make([]FineTile, len(cs))
	for i, c := range cs {
		out[i] = FineTile{c}
	}
	return out
}

// TerrainTile addresses one terrain cell on the coarse lattice.
type TerrainTile struct {
	hexgrid.Coordinates
}

func NewTerrainTile(x, z int, dimension uint32) TerrainTile {
	return TerrainTile{hexgrid.New(x, z, dimension)}
}

// CenterFineTile is the reference fine tile of the cell. Converting a fine
// tile to its terrain cell and back yields this tile, not the original.
func (t TerrainTile) CenterFineTile() FineTile {
	return FineTile{t.Coordinates.Scale(TerrainScale)}
}

func (t TerrainTile) Neighbor(d hexgrid.Direction, n int) TerrainTile {
	return TerrainTile{t.Coordinates.Neighbor(d, n)}
}

func (t TerrainTile) DistanceTo(o TerrainTile) int {
	return t.Coordinates.DistanceTo(o.Coordinates)
}

func (t TerrainTile) ToOffsetCoordinates() OffsetCoordinates {
	return axialToOffset(t.Coordinates)
}

func TerrainTileFromOffset(o OffsetCoordinates) TerrainTile {
	return TerrainTile{offsetToAxial(o)}
}

func (t TerrainTile) ChunkCoordinates() ChunkCoordinate {
	o := t.ToOffsetCoordinates()
	return ChunkCoordinate{
		X:         floorDiv(o.X, ChunkWidth),
		Z:         floorDiv(o.Z, ChunkHeight),
		Dimension: t.Dimension,
	}
}

func (t TerrainTile) ChunkIndex() ChunkIndex {
	return t.ChunkCoordinates().Index()
}

// OffsetCoordinates is the odd-row offset form used for storage keys and
// rectangular chunking.
type OffsetCoordinates struct {
	X         int    `json:"x"`
	Z         int    `json:"z"`
	Dimension uint32 `json:"dimension"`
}

func axialToOffset(c hexgrid.Coordinates) OffsetCoordinates {
	return OffsetCoordinates{
		X:         c.X + (c.Z-(c.Z&1))/2,
		Z:         c.Z,
		Dimension: c.Dimension,
	}
}

func offsetToAxial(o OffsetCoordinates) hexgrid.Coordinates {
	return hexgrid.Coordinates{
		X:         o.X - (o.Z-(o.Z&1))/2,
		Z:         o.Z,
		Dimension: o.Dimension,
	}
}

func floorDiv(a, b int) int {
	if a >= 0 {
		return a / b
	}
	return -(((-a) + b - 1) / b)
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
