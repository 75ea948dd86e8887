package world

import (
	"errors"
	"fmt"
)

// ErrUnknownTag is returned when a stored small-integer tag has no
// matching enum value.
var ErrUnknownTag = errors.New("unknown stored tag")

type Biome uint8

const (
	BiomeDev Biome = iota
	BiomeCalmForest
	BiomePineWoods
	BiomeSnowyPeaks
	BiomeBreezyPlains
	BiomeAutumnForest
	BiomeTundra
	BiomeDesert
	BiomeSwamp
	BiomeCanyon
	BiomeOcean
	BiomeSafeMeadows
	BiomeCave
	BiomeJungle
	BiomeSavannah
)

var biomeNames = map[Biome]string{
	BiomeDev:          "dev",
	BiomeCalmForest:   "calm_forest",
	BiomePineWoods:    "pine_woods",
	BiomeSnowyPeaks:   "snowy_peaks",
	BiomeBreezyPlains: "breezy_plains",
	BiomeAutumnForest: "autumn_forest",
	BiomeTundra:       "tundra",
	BiomeDesert:       "desert",
	BiomeSwamp:        "swamp",
	BiomeCanyon:       "canyon",
	BiomeOcean:        "ocean",
	BiomeSafeMeadows:  "safe_meadows",
	BiomeCave:         "cave",
	BiomeJungle:       "jungle",
	BiomeSavannah:     "savannah",
}

func (b Biome) String() string {
	if n, ok := biomeNames[b]; ok {
		return n
	}
	return fmt.Sprintf("biome(%d)", uint8(b))
}

// BiomeFromTag decodes a stored biome byte.
func BiomeFromTag(tag int) (Biome, error) {
	if tag < 0 || tag > int(BiomeSavannah) {
		return 0, fmt.Errorf("%w: biome %d", ErrUnknownTag, tag)
	}
	return Biome(tag), nil
}

// ZoningType marks cells reserved by world rules.
type ZoningType uint8

const (
	ZoningNone ZoningType = iota
	ZoningSafe
	ZoningNoClaim
	ZoningBlocked
)

func ZoningFromTag(tag int) (ZoningType, error) {
	if tag >= 0 && tag <= 0xff {
		switch z := ZoningType(tag); z {
		case ZoningNone, ZoningSafe, ZoningNoClaim, ZoningBlocked:
			return z, nil
		}
	}
	return 0, fmt.Errorf("%w: zoning %d", ErrUnknownTag, tag)
}

func (z ZoningType) String() string {
	switch z {
	case ZoningNone:
		return "none"
	case ZoningSafe:
		return "safe"
	case ZoningNoClaim:
		return "no_claim"
	case ZoningBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("zoning(%d)", uint8(z))
	}
}

// ValidateChunkTags checks every stored biome and zoning byte of c.
func ValidateChunkTags(c *TerrainChunk) error {
	for i := range c.Biomes {
		if _, err := BiomeFromTag(int(c.Biomes[i])); err != nil {
			return fmt.Errorf("chunk %d slot %d: %w", c.Index, i, err)
		}
		if _, err := ZoningFromTag(int(c.Zoning[i])); err != nil {
			return fmt.Errorf("chunk %d slot %d: %w", c.Index, i, err)
		}
	}
	return nil
}
