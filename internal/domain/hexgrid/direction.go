package hexgrid

import (
	"math"
)

// Direction indexes the twelve neighbor offsets of the placement lattice,
// 30 degrees apart, counter-clockwise from east. Even directions are the six
// edge neighbors; odd directions reach the nearest tile of the interleaved
// lattice between two edge neighbors.
type Direction int

const (
	NoDirection Direction = -1

	East Direction = iota - 1
	EastNorthEast
	NorthEast
	North
	NorthWest
	WestNorthWest
	West
	WestSouthWest
	SouthWest
	South
	SouthEast
	EastSouthEast
)

const DirectionCount = 12

type offset struct {
	dx, dz int
}

// The table is the lattice definition; adjacency math elsewhere depends on
// this exact ordering.
var directionOffsets = [DirectionCount]offset{
	{1, 0},   // E
	{2, -1},  // ENE
	{1, -1},  // NE
	{1, -2},  // N
	{0, -1},  // NW
	{-1, -1}, // WNW
	{-1, 0},  // W
	{-2, 1},  // WSW
	{-1, 1},  // SW
	{-1, 2},  // S
	{0, 1},   // SE
	{1, 1},   // ESE
}

var directionNames = [DirectionCount]string{
	"E", "ENE", "NE", "N", "NW", "WNW", "W", "WSW", "SW", "S", "SE", "ESE",
}

func (d Direction) Valid() bool {
	return d >= 0 && d < DirectionCount
}

func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return directionNames[d]
}

// IsEdge reports whether d points at a tile sharing an edge with the origin.
func (d Direction) IsEdge() bool {
	return d.Valid() && d%2 == 0
}

// Rotate turns d by steps twelfths of a turn.
func (d Direction) Rotate(steps int) Direction {
	if !d.Valid() {
		return NoDirection
	}
	v := (int(d) + steps) % DirectionCount
	if v < 0 {
		v += DirectionCount
	}
	return Direction(v)
}

func (d Direction) Opposite() Direction {
	return d.Rotate(DirectionCount / 2)
}

// Offset returns the axial step of d.
func (d Direction) Offset() (dx, dz int) {
	if !d.Valid() {
		return 0, 0
	}
	o := directionOffsets[d]
	return o.dx, o.dz
}

// Angle is the world-space bearing of d in radians.
func (d Direction) Angle() float64 {
	return float64(d) * math.Pi / 6
}

// DirectionFromAngle returns the direction nearest to a world-space bearing.
func DirectionFromAngle(rad float64) Direction {
	sector := int(math.Round(rad / (math.Pi / 6)))
	sector %= DirectionCount
	if sector < 0 {
		sector += DirectionCount
	}
	return Direction(sector)
}

// EdgeDirections lists the six edge neighbors in counter-clockwise order.
var EdgeDirections = [6]Direction{East, NorthEast, NorthWest, West, SouthWest, SouthEast}
