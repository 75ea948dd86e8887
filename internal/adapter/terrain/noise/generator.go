// Package noise seeds terrain chunks from layered simplex noise for
// development worlds.
package noise

import (
	"math"

	"hexworld/internal/domain/world"

	opensimplex "github.com/ojrac/opensimplex-go"
)

type Config struct {
	Seed         int64   `yaml:"seed"`
	SeaLevel     int16   `yaml:"sea_level"`
	MaxElevation int16   `yaml:"max_elevation"`
	Frequency    float64 `yaml:"frequency"`
	Octaves      int     `yaml:"octaves"`
}

func DefaultConfig() Config {
	return Config{
		Seed:         42,
		SeaLevel:     20,
		MaxElevation: 120,
		Frequency:    0.02,
		Octaves:      4,
	}
}

// Generator is safe for concurrent use; the noise sources are read only.
type Generator struct {
	cfg   Config
	elev  opensimplex.Noise
	moist opensimplex.Noise
	temp  opensimplex.Noise
}

func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.MaxElevation <= 0 {
		cfg.MaxElevation = def.MaxElevation
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = def.Frequency
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = def.Octaves
	}
	return &Generator{
		cfg:   cfg,
		elev:  opensimplex.NewNormalized(cfg.Seed),
		moist: opensimplex.NewNormalized(cfg.Seed + 1),
		temp:  opensimplex.NewNormalized(cfg.Seed + 2),
	}
}

// Chunk builds every cell of coord. Elevation and original elevation start
// equal.
func (g *Generator) Chunk(coord world.ChunkCoordinate) *world.TerrainChunk {
	c := world.NewTerrainChunk(coord)
	for i := 0; i < world.ChunkCells; i++ {
		x, y := c.TileAt(i).World()
		e := octave(g.elev, x, y, g.cfg.Octaves, g.cfg.Frequency)
		m := octave(g.moist, x, y, 3, g.cfg.Frequency*0.7)
		t := octave(g.temp, x, y, 2, g.cfg.Frequency*0.5)

		elevation := int16(math.Round(e * float64(g.cfg.MaxElevation)))
		biome := classify(elevation, g.cfg.SeaLevel, m, t)
		c.Biomes[i] = uint8(biome)
		c.BiomeDensities[i] = uint32(m * 1000)
		c.Elevations[i] = elevation
		c.OriginalElevations[i] = elevation
		if elevation < g.cfg.SeaLevel {
			c.WaterLevels[i] = g.cfg.SeaLevel
		}
		if biome == world.BiomeSafeMeadows {
			c.Zoning[i] = uint8(world.ZoningSafe)
		}
	}
	return c
}

// Region returns the chunks of dimension with chunk x in [minX, maxX] and
// z in [minZ, maxZ], row by row.
func (g *Generator) Region(dimension uint32, minX, minZ, maxX, maxZ int) []*world.TerrainChunk {
	var out []*world.TerrainChunk
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			coord := world.ChunkCoordinate{X: x, Z: z, Dimension: dimension}
			if !coord.Valid() {
				continue
			}
			out = append(out, g.Chunk(coord))
		}
	}
	return out
}

func classify(elevation, seaLevel int16, moisture, temperature float64) world.Biome {
	switch {
	case elevation < seaLevel:
		return world.BiomeOcean
	case elevation > seaLevel*5:
		return world.BiomeSnowyPeaks
	case temperature < 0.3:
		if moisture > 0.5 {
			return world.BiomePineWoods
		}
		return world.BiomeTundra
	case temperature > 0.65:
		switch {
		case moisture < 0.3:
			return world.BiomeDesert
		case moisture > 0.65:
			return world.BiomeJungle
		}
		return world.BiomeSavannah
	case moisture > 0.7:
		return world.BiomeSwamp
	case moisture > 0.45:
		return world.BiomeCalmForest
	case elevation < seaLevel+3:
		return world.BiomeSafeMeadows
	}
	return world.BiomeBreezyPlains
}

func octave(n opensimplex.Noise, x, y float64, octaves int, frequency float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxVal
}
