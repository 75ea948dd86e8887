package world

import (
	"math"

	"hexworld/internal/domain/hexgrid"
)

// ContinuousTile is a real-valued fine-lattice position used while
// interpolating movement.
type ContinuousTile struct {
	X         float64 `json:"x"`
	Z         float64 `json:"z"`
	Dimension uint32  `json:"dimension"`
}

func (t ContinuousTile) Y() float64 {
	return -t.X - t.Z
}

func (t ContinuousTile) DistanceTo(o ContinuousTile) float64 {
	dx := math.Abs(t.X - o.X)
	dy := math.Abs(t.Y() - o.Y())
	dz := math.Abs(t.Z - o.Z)
	return (dx + dy + dz) / 2
}

// Lerp moves from t toward o by fraction f in [0, 1].
func (t ContinuousTile) Lerp(o ContinuousTile, f float64) ContinuousTile {
	return ContinuousTile{
		X:         t.X + (o.X-t.X)*f,
		Z:         t.Z + (o.Z-t.Z)*f,
		Dimension: t.Dimension,
	}
}

func (t ContinuousTile) World() (wx, wy float64) {
	return math.Sqrt(3) * (t.X + t.Z/2), -1.5 * t.Z
}

// ContinuousFromWorld inverts World.
func ContinuousFromWorld(wx, wy float64, dimension uint32) ContinuousTile {
	z := -wy / 1.5
	x := wx/math.Sqrt(3) - z/2
	return ContinuousTile{X: x, Z: z, Dimension: dimension}
}

// Round returns the nearest fine tile. The axis with the largest rounding
// error is recomputed from the other two so that x+y+z stays zero.
func (t ContinuousTile) Round() FineTile {
	x := math.Round(t.X)
	y := math.Round(t.Y())
	z := math.Round(t.Z)
	dx := math.Abs(x - t.X)
	dy := math.Abs(y - t.Y())
	dz := math.Abs(z - t.Z)
	switch {
	case dx > dy && dx > dz:
		x = -y - z
	case dy > dz:
		// y is derived; nothing to store
	default:
		z = -x - y
	}
	return FineTile{hexgrid.New(int(x), int(z), t.Dimension)}
}
