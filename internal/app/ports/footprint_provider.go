package ports

import (
	"context"

	"hexworld/internal/domain/territory"
)

// FootprintProvider resolves static construct descriptors. Offsets are
// relative to the anchor tile. Footprint reports unknown descriptors as
// ErrInvariantViolation since stored constructs must reference a known one.
// Callers check Known first for ids that come from a request.
type FootprintProvider interface {
	Known(descriptionID uint64) bool
	Footprint(ctx context.Context, descriptionID uint64, rotation int) ([]territory.FootprintTile, error)
}
