package hexgrid

// Hashcode packing bounds. Values outside these ranges alias.
const (
	HashcodeAxisBits      = 12
	HashcodeDimensionBits = 8
	HashcodeAxisMin       = -(1 << (HashcodeAxisBits - 1))
	HashcodeAxisMax       = 1<<(HashcodeAxisBits-1) - 1
	HashcodeDimensionMax  = 1<<HashcodeDimensionBits - 1

	HashcodeLongAxisBits      = 20
	HashcodeLongDimensionBits = 24
	HashcodeLongAxisMin       = -(1 << (HashcodeLongAxisBits - 1))
	HashcodeLongAxisMax       = 1<<(HashcodeLongAxisBits-1) - 1
	HashcodeLongDimensionMax  = 1<<HashcodeLongDimensionBits - 1
)

// Hashcode packs the coordinate into 32 bits:
// dimension(8) | z(12) | x(12), axes in two's complement.
func (c Coordinates) Hashcode() uint32 {
	const mask = 1<<HashcodeAxisBits - 1
	x := uint32(c.X) & mask
	z := uint32(c.Z) & mask
	d := c.Dimension & HashcodeDimensionMax
	return d<<(2*HashcodeAxisBits) | z<<HashcodeAxisBits | x
}

// HashcodeLong packs the coordinate into 64 bits:
// dimension(24) | z(20) | x(20), axes in two's complement.
func (c Coordinates) HashcodeLong() uint64 {
	const mask = 1<<HashcodeLongAxisBits - 1
	x := uint64(int64(c.X)) & mask
	z := uint64(int64(c.Z)) & mask
	d := uint64(c.Dimension) & HashcodeLongDimensionMax
	return d<<(2*HashcodeLongAxisBits) | z<<HashcodeLongAxisBits | x
}

// FromHashcodeLong inverts HashcodeLong for in-range coordinates.
func FromHashcodeLong(h uint64) Coordinates {
	const mask = 1<<HashcodeLongAxisBits - 1
	return Coordinates{
		X:         signExtend(int64(h&mask), HashcodeLongAxisBits),
		Z:         signExtend(int64((h>>HashcodeLongAxisBits)&mask), HashcodeLongAxisBits),
		Dimension: uint32(h >> (2 * HashcodeLongAxisBits)),
	}
}

// HashcodeInRange reports whether c packs injectively into Hashcode.
func (c Coordinates) HashcodeInRange() bool {
	return c.X >= HashcodeAxisMin && c.X <= HashcodeAxisMax &&
		c.Z >= HashcodeAxisMin && c.Z <= HashcodeAxisMax &&
		c.Dimension <= HashcodeDimensionMax
}

// HashcodeLongInRange reports whether c packs injectively into HashcodeLong.
func (c Coordinates) HashcodeLongInRange() bool {
	return c.X >= HashcodeLongAxisMin && c.X <= HashcodeLongAxisMax &&
		c.Z >= HashcodeLongAxisMin && c.Z <= HashcodeLongAxisMax &&
		c.Dimension <= HashcodeLongDimensionMax
}

func signExtend(v int64, bits uint) int {
	shift := 64 - bits
	return int((v << shift) >> shift)
}
