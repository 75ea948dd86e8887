// Package hexgrid implements axial/cube arithmetic for the placement lattice.
// Coordinates are axial (X, Z); the third cube axis Y = -X - Z is derived.
package hexgrid

import "math"

// Coordinates is an axial hex coordinate tagged with the world instance it
// belongs to. Coordinates in different dimensions are never adjacent and
// never compare equal.
type Coordinates struct {
	X         int    `json:"x"`
	Z         int    `json:"z"`
	Dimension uint32 `json:"dimension"`
}

func New(x, z int, dimension uint32) Coordinates {
	return Coordinates{X: x, Z: z, Dimension: dimension}
}

// Y returns the implicit third cube coordinate.
func (c Coordinates) Y() int {
	return -c.X - c.Z
}

func (c Coordinates) Add(o Coordinates) Coordinates {
	return Coordinates{X: c.X + o.X, Z: c.Z + o.Z, Dimension: c.Dimension}
}

func (c Coordinates) Sub(o Coordinates) Coordinates {
	return Coordinates{X: c.X - o.X, Z: c.Z - o.Z, Dimension: c.Dimension}
}

func (c Coordinates) Scale(k int) Coordinates {
	return Coordinates{X: c.X * k, Z: c.Z * k, Dimension: c.Dimension}
}

// Neighbor steps n units along d. NoDirection leaves c unchanged.
func (c Coordinates) Neighbor(d Direction, n int) Coordinates {
	if !d.Valid() {
		return c
	}
	off := directionOffsets[d]
	return Coordinates{X: c.X + off.dx*n, Z: c.Z + off.dz*n, Dimension: c.Dimension}
}

// DistanceTo is the cube distance. Coordinates in different dimensions are
// measured as if they shared one; callers compare dimensions first.
func (c Coordinates) DistanceTo(o Coordinates) int {
	dx := abs(c.X - o.X)
	dy := abs(c.Y() - o.Y())
	dz := abs(c.Z - o.Z)
	return (dx + dy + dz) / 2
}

// Direction returns the direction whose single step leads from c to o, or
// NoDirection when o is not one of the twelve neighbors of c.
func (c Coordinates) Direction(o Coordinates) Direction {
	if c.Dimension != o.Dimension {
		return NoDirection
	}
	dx := o.X - c.X
	dz := o.Z - c.Z
	for d, off := range directionOffsets {
		if off.dx == dx && off.dz == dz {
			return Direction(d)
		}
	}
	return NoDirection
}

// RotateAround rotates c around center by steps sixths of a turn,
// counter-clockwise. Six (and therefore twelve) steps are the identity.
func (c Coordinates) RotateAround(center Coordinates, steps int) Coordinates {
	steps %= 6
	if steps < 0 {
		steps += 6
	}
	x, y, z := c.X-center.X, c.Y()-center.Y(), c.Z-center.Z
	for i := 0; i < steps; i++ {
		x, y, z = -y, -z, -x
	}
	return Coordinates{X: center.X + x, Z: center.Z + z, Dimension: c.Dimension}
}

// World returns the rendered position of c on a pointy-top layout with unit
// corner radius. North is negative Z.
func (c Coordinates) World() (wx, wy float64) {
	return worldPosition(float64(c.X), float64(c.Z))
}

// Angle returns the bearing from c to o in radians, measured
// counter-clockwise from east in world space.
func (c Coordinates) Angle(o Coordinates) float64 {
	ax, ay := c.World()
	bx, by := o.World()
	return math.Atan2(by-ay, bx-ax)
}

// ApproximateDirection returns the direction whose bearing is nearest to the
// bearing from c to o. Equal coordinates have no direction.
func (c Coordinates) ApproximateDirection(o Coordinates) Direction {
	if c.X == o.X && c.Z == o.Z {
		return NoDirection
	}
	return DirectionFromAngle(c.Angle(o))
}

func worldPosition(x, z float64) (float64, float64) {
	return math.Sqrt(3) * (x + z/2), -1.5 * z
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
