package hexgrid

// ringStart is the edge direction whose multiple marks the first tile of a
// ring; ringFirst is the edge walked first. The walk then turns to the
// previous edge direction after every side.
const (
	ringFirst = 0
	ringStart = 2
)

// Ring returns the 6*radius tiles at exactly radius from center, in walk
// order. Radius 0 yields only the center; negative radii yield nothing.
func Ring(center Coordinates, radius int) []Coordinates {
	if radius < 0 {
		return nil
	}
	if radius == 0 {
		return []Coordinates{center}
	}
	out := make([]Coordinates, 0, 6*radius)
	it := NewRingIterator(center, radius)
	for {
		c, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

// RingIterator walks a ring lazily. It is finite and cannot be rewound;
// start a new iterator to walk the ring again.
type RingIterator struct {
	cur    Coordinates
	radius int
	side   int
	step   int
	done   bool
	center bool
}

func NewRingIterator(center Coordinates, radius int) *RingIterator {
	if radius < 0 {
		return &RingIterator{done: true}
	}
	if radius == 0 {
		return &RingIterator{cur: center, center: true}
	}
	return &RingIterator{
		cur:    center.Neighbor(EdgeDirections[ringStart], radius),
		radius: radius,
	}
}

func (it *RingIterator) Next() (Coordinates, bool) {
	if it.done {
		return Coordinates{}, false
	}
	if it.center {
		it.done = true
		return it.cur, true
	}
	out := it.cur
	it.cur = it.cur.Neighbor(EdgeDirections[ringEdge(it.side)], 1)
	it.step++
	if it.step == it.radius {
		it.step = 0
		it.side++
		if it.side == 6 {
			it.done = true
		}
	}
	return out, true
}

func ringEdge(side int) int {
	return ((ringFirst-side)%6 + 6) % 6
}

// CoordinatesInRadius returns the union of rings 1..radius around center,
// excluding center itself: 3*radius*(radius+1) tiles.
func CoordinatesInRadius(center Coordinates, radius int) []Coordinates {
	if radius <= 0 {
		return nil
	}
	out := make([]Coordinates, 0, 3*radius*(radius+1))
	for r := 1; r <= radius; r++ {
		out = append(out, Ring(center, r)...)
	}
	return out
}

// RadiusIterator lazily walks center followed by rings 1..radius.
type RadiusIterator struct {
	center Coordinates
	radius int
	r      int
	ring   *RingIterator
}

// NewRadiusIterator includes the center as its first element.
func NewRadiusIterator(center Coordinates, radius int) *RadiusIterator {
	return &RadiusIterator{center: center, radius: radius, ring: NewRingIterator(center, 0)}
}

func (it *RadiusIterator) Next() (Coordinates, bool) {
	for it.r <= it.radius {
		if c, ok := it.ring.Next(); ok {
			return c, true
		}
		it.r++
		if it.r > it.radius {
			break
		}
		it.ring = NewRingIterator(it.center, it.r)
	}
	return Coordinates{}, false
}
