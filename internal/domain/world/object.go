package world

import (
	"errors"
	"fmt"
)

// EntityKind tags what a location row points at.
type EntityKind uint8

const (
	EntityPlayer EntityKind = iota + 1
	EntityBuilding
	EntityProjectSite
	EntityDeployable
	EntityResource
	EntityClaimTile
	EntityFootprint
	EntityDimensionPortal
)

func EntityKindFromTag(tag int) (EntityKind, error) {
	if tag >= 0 && tag <= 0xff {
		switch k := EntityKind(tag); k {
		case EntityPlayer, EntityBuilding, EntityProjectSite, EntityDeployable,
			EntityResource, EntityClaimTile, EntityFootprint, EntityDimensionPortal:
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: entity kind %d", ErrUnknownTag, tag)
}

func (k EntityKind) String() string {
	switch k {
	case EntityPlayer:
		return "player"
	case EntityBuilding:
		return "building"
	case EntityProjectSite:
		return "project_site"
	case EntityDeployable:
		return "deployable"
	case EntityResource:
		return "resource"
	case EntityClaimTile:
		return "claim_tile"
	case EntityFootprint:
		return "footprint"
	case EntityDimensionPortal:
		return "dimension_portal"
	default:
		return fmt.Sprintf("entity_kind(%d)", uint8(k))
	}
}

// Location places one entity on one fine tile. Footprint rows carry the
// construct they belong to in OwnerEntityID.
type Location struct {
	EntityID      uint64            `json:"entity_id"`
	Kind          EntityKind        `json:"kind"`
	OwnerEntityID uint64            `json:"owner_entity_id,omitempty"`
	Tile          OffsetCoordinates `json:"tile"`
	ChunkIndex    ChunkIndex        `json:"chunk_index"`
}

var ErrInvalidLocation = errors.New("invalid location")

// NewLocation derives the stored form of a placement.
func NewLocation(entityID uint64, kind EntityKind, owner uint64, tile FineTile) Location {
	return Location{
		EntityID:      entityID,
		Kind:          kind,
		OwnerEntityID: owner,
		Tile:          tile.ToOffsetCoordinates(),
		ChunkIndex:    tile.ChunkIndex(),
	}
}

func (l Location) FineTile() FineTile {
	return FineTileFromOffset(l.Tile)
}

func (l Location) Validate() error {
	if l.EntityID == 0 {
		return fmt.Errorf("%w: zero entity id", ErrInvalidLocation)
	}
	if _, err := EntityKindFromTag(int(l.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if l.Kind == EntityFootprint && l.OwnerEntityID == 0 {
		return fmt.Errorf("%w: footprint without owner", ErrInvalidLocation)
	}
	chunk := l.FineTile().ChunkCoordinates()
	if !chunk.Valid() {
		return fmt.Errorf("%w: %w: tile %v lies in chunk (%d, %d)", ErrInvalidLocation, ErrChunkOutOfRange, l.Tile, chunk.X, chunk.Z)
	}
	if chunk.Index() != l.ChunkIndex {
		return fmt.Errorf("%w: chunk index %d does not match tile %v", ErrInvalidLocation, l.ChunkIndex, l.Tile)
	}
	return nil
}
