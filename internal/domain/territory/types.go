// Package territory holds claim, construct and footprint types shared by
// territory resolution and its storage adapters.
package territory

import (
	"errors"
	"fmt"

	"hexworld/internal/domain/hexgrid"
	"hexworld/internal/domain/world"
)

// NoClaim is the claim id reported for unclaimed or not uniformly claimed
// footprints.
const NoClaim uint64 = 0

// RotationCount is the number of footprint rotation indices.
const RotationCount = 12

type FootprintKind uint8

const (
	FootprintWalkable FootprintKind = iota
	FootprintHitbox
	FootprintPerimeter
)

func FootprintKindFromTag(tag int) (FootprintKind, error) {
	if tag >= 0 && tag <= 0xff {
		switch k := FootprintKind(tag); k {
		case FootprintWalkable, FootprintHitbox, FootprintPerimeter:
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: footprint kind %d", world.ErrUnknownTag, tag)
}

// ParseFootprintKind accepts the names used by descriptor catalogs.
func ParseFootprintKind(s string) (FootprintKind, error) {
	switch s {
	case "walkable":
		return FootprintWalkable, nil
	case "hitbox":
		return FootprintHitbox, nil
	case "perimeter":
		return FootprintPerimeter, nil
	}
	return 0, fmt.Errorf("%w: footprint kind %q", world.ErrUnknownTag, s)
}

func (k FootprintKind) String() string {
	switch k {
	case FootprintWalkable:
		return "walkable"
	case FootprintHitbox:
		return "hitbox"
	case FootprintPerimeter:
		return "perimeter"
	default:
		return fmt.Sprintf("footprint_kind(%d)", uint8(k))
	}
}

// Occupies reports whether the tile is part of the construct's body.
// Perimeter tiles only pad placement and never take part in claim checks.
func (k FootprintKind) Occupies() bool {
	return k == FootprintWalkable || k == FootprintHitbox
}

// FootprintTile is one footprint entry relative to the construct anchor.
type FootprintTile struct {
	Offset hexgrid.Coordinates `json:"offset"`
	Kind   FootprintKind       `json:"kind"`
}

// Tile places the entry on the anchor's lattice and dimension.
func (f FootprintTile) Tile(anchor world.FineTile) world.FineTile {
	o := f.Offset
	o.Dimension = anchor.Dimension
	return anchor.Add(o)
}

// ClaimTile associates one claimed tile entity with its claim.
type ClaimTile struct {
	EntityID uint64 `json:"entity_id"`
	ClaimID  uint64 `json:"claim_id"`
}

type Claim struct {
	EntityID      uint64 `json:"entity_id"`
	TotemEntityID uint64 `json:"totem_entity_id"`
	OwnerPlayerID uint64 `json:"owner_player_id"`
	Name          string `json:"name"`
	// Neutral claims belong to no player, e.g. ruins.
	Neutral bool `json:"neutral"`
	Radius  int  `json:"radius"`
}

type ConstructKind uint8

const (
	ConstructBuilding ConstructKind = iota + 1
	ConstructProjectSite
	ConstructDeployable
)

func ConstructKindFromTag(tag int) (ConstructKind, error) {
	if tag >= 0 && tag <= 0xff {
		switch k := ConstructKind(tag); k {
		case ConstructBuilding, ConstructProjectSite, ConstructDeployable:
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: construct kind %d", world.ErrUnknownTag, tag)
}

// EntityKind is the location kind used for the construct's anchor row.
func (k ConstructKind) EntityKind() world.EntityKind {
	switch k {
	case ConstructProjectSite:
		return world.EntityProjectSite
	case ConstructDeployable:
		return world.EntityDeployable
	default:
		return world.EntityBuilding
	}
}

// Construct is a building, project site or deployable that can be covered
// by a claim.
type Construct struct {
	EntityID      uint64        `json:"entity_id"`
	DescriptionID uint64        `json:"description_id"`
	Kind          ConstructKind `json:"kind"`
	Rotation      int           `json:"rotation"`
	ClaimEntityID uint64        `json:"claim_entity_id"`
}

// DimensionNetwork groups the dimensions of one interior. A nonzero
// ClaimEntityID makes every tile of those dimensions resolve to that claim.
type DimensionNetwork struct {
	EntityID         uint64 `json:"entity_id"`
	BuildingEntityID uint64 `json:"building_entity_id"`
	ClaimEntityID    uint64 `json:"claim_entity_id"`
}

var (
	ErrClaimConflict      = errors.New("claim conflict")
	ErrTileAlreadyClaimed = errors.New("tile already claimed")
	ErrTileNotClaimable   = errors.New("tile not claimable")
	ErrInvalidRadius      = errors.New("invalid claim radius")
	ErrInvalidRotation    = errors.New("invalid rotation")
)

// ClaimRejectedError carries the human readable reason of a rejected
// claim action.
type ClaimRejectedError struct {
	Cause  error
	Reason string
	Tile   world.FineTile
}

func (e *ClaimRejectedError) Error() string {
	return fmt.Sprintf("%v at (%d, %d, %d): %s", e.Cause, e.Tile.X, e.Tile.Z, e.Tile.Dimension, e.Reason)
}

func (e *ClaimRejectedError) Unwrap() error {
	return e.Cause
}

func Rejected(cause error, tile world.FineTile, format string, args ...any) error {
	return &ClaimRejectedError{Cause: cause, Tile: tile, Reason: fmt.Sprintf(format, args...)}
}

// ValidRotation reports whether r is a footprint rotation index.
func ValidRotation(r int) bool {
	return r >= 0 && r < RotationCount
}
