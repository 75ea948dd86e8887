package territory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hexworld/internal/app/ports"
	tdomain "hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid territory request")

// UseCase runs each request in its own unit of work with a fresh Resolver.
type UseCase struct {
	TxManager ports.TxManager
	Deps      Deps
	Config    Config
}

func (u UseCase) logger() *slog.Logger {
	if u.Deps.Logger != nil {
		return u.Deps.Logger
	}
	return slog.Default()
}

// within commits when fn succeeds. Any error, rejections included, rolls
// the unit of work back.
func (u UseCase) within(ctx context.Context, fn func(r *Resolver) error) (err error) {
	tx, err := u.TxManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err == nil {
			return
		}
		if tx.Err() == nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				u.logger().Warn("territory rollback failed", "error", rbErr)
			}
		}
		u.observe(err)
	}()
	if err = fn(NewResolver(tx, u.Deps, u.Config)); err != nil {
		return err
	}
	return tx.Commit()
}

func (u UseCase) observe(err error) {
	var rejected *tdomain.ClaimRejectedError
	switch {
	case errors.As(err, &rejected):
		if u.Deps.Metrics != nil {
			u.Deps.Metrics.RecordClaim(ports.ClaimOutcomeRejected, 0)
		}
		u.logger().Info("claim rejected", "reason", rejected.Reason, "x", rejected.Tile.X, "z", rejected.Tile.Z, "dimension", rejected.Tile.Dimension)
	case errors.Is(err, ports.ErrInvariantViolation):
		u.logger().Error("territory invariant violated", "error", err)
	}
}

func (u UseCase) ClaimOnTile(ctx context.Context, tile world.FineTile) (tdomain.ClaimTile, bool, error) {
	var (
		out   tdomain.ClaimTile
		found bool
	)
	err := u.within(ctx, func(r *Resolver) error {
		var err error
		out, found, err = r.ClaimOnTile(tile)
		return err
	})
	return out, found, err
}

type ConstructQuery struct {
	DescriptionID uint64         `json:"description_id"`
	Anchor        world.FineTile `json:"anchor"`
	Rotation      int            `json:"rotation"`
}

type ConstructClaims struct {
	// ClaimID is NoClaim unless one claim covers every occupied tile.
	ClaimID uint64   `json:"claim_id"`
	Partial []uint64 `json:"partial"`
}

// ClaimUnderConstruct resolves the claims a construct would stand on.
func (u UseCase) ClaimUnderConstruct(ctx context.Context, q ConstructQuery) (ConstructClaims, error) {
	if !tdomain.ValidRotation(q.Rotation) {
		return ConstructClaims{}, fmt.Errorf("%w: rotation %d", ErrInvalidRequest, q.Rotation)
	}
	if !u.Deps.Footprints.Known(q.DescriptionID) {
		return ConstructClaims{}, fmt.Errorf("%w: unknown description_id %d", ErrInvalidRequest, q.DescriptionID)
	}
	var out ConstructClaims
	err := u.within(ctx, func(r *Resolver) error {
		footprint, err := u.Deps.Footprints.Footprint(ctx, q.DescriptionID, q.Rotation)
		if err != nil {
			return err
		}
		if out.ClaimID, err = r.ClaimUnderFootprintCached(q.Anchor, footprint); err != nil {
			return err
		}
		out.Partial, err = r.PartialClaimsUnderFootprint(q.Anchor, footprint)
		return err
	})
	return out, err
}

func (u UseCase) FoundClaim(ctx context.Context, req FoundClaimRequest) (tdomain.Claim, error) {
	if req.TotemEntityID == 0 {
		return tdomain.Claim{}, fmt.Errorf("%w: totem_entity_id is required", ErrInvalidRequest)
	}
	var out tdomain.Claim
	err := u.within(ctx, func(r *Resolver) error {
		var err error
		out, err = r.FoundClaim(req)
		return err
	})
	return out, err
}

type GrowClaimRequest struct {
	ClaimID       uint64 `json:"claim_id"`
	Radius        int    `json:"radius"`
	IgnoreNeutral bool   `json:"ignore_neutral"`
}

// GrowClaim extends a claim to every free tile within radius of its totem.
func (u UseCase) GrowClaim(ctx context.Context, req GrowClaimRequest) (int, error) {
	if req.ClaimID == 0 {
		return 0, fmt.Errorf("%w: claim_id is required", ErrInvalidRequest)
	}
	var claimed int
	err := u.within(ctx, func(r *Resolver) error {
		var err error
		claimed, err = r.ClaimAreaAroundTotem(req.ClaimID, req.Radius, req.IgnoreNeutral)
		return err
	})
	return claimed, err
}

func (u UseCase) UnclaimTile(ctx context.Context, tile world.FineTile) (bool, error) {
	var done bool
	err := u.within(ctx, func(r *Resolver) error {
		var err error
		done, err = r.UnclaimTile(tile)
		return err
	})
	return done, err
}

func (u UseCase) ReleaseClaim(ctx context.Context, claimID uint64) (int, error) {
	var released int
	err := u.within(ctx, func(r *Resolver) error {
		var err error
		released, err = r.ReleaseClaim(claimID)
		return err
	})
	return released, err
}

type PlaceConstructRequest struct {
	DescriptionID uint64                `json:"description_id"`
	Kind          tdomain.ConstructKind `json:"kind"`
	Anchor        world.FineTile        `json:"anchor"`
	Rotation      int                   `json:"rotation"`
}

// PlaceConstruct stores a construct, indexes its footprint and records the
// claim it stands on. Footprints touching more than one claim are rejected.
func (u UseCase) PlaceConstruct(ctx context.Context, req PlaceConstructRequest) (tdomain.Construct, error) {
	if !tdomain.ValidRotation(req.Rotation) {
		return tdomain.Construct{}, fmt.Errorf("%w: rotation %d", ErrInvalidRequest, req.Rotation)
	}
	if _, err := tdomain.ConstructKindFromTag(int(req.Kind)); err != nil {
		return tdomain.Construct{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !u.Deps.Footprints.Known(req.DescriptionID) {
		return tdomain.Construct{}, fmt.Errorf("%w: unknown description_id %d", ErrInvalidRequest, req.DescriptionID)
	}
	var out tdomain.Construct
	err := u.within(ctx, func(r *Resolver) error {
		footprint, err := u.Deps.Footprints.Footprint(ctx, req.DescriptionID, req.Rotation)
		if err != nil {
			return err
		}
		partial, err := r.PartialClaimsUnderFootprint(req.Anchor, footprint)
		if err != nil {
			return err
		}
		if len(partial) > 1 {
			return tdomain.Rejected(tdomain.ErrClaimConflict, req.Anchor, "footprint spans claims %v", partial)
		}
		claimID, err := r.ClaimUnderFootprintCached(req.Anchor, footprint)
		if err != nil {
			return err
		}

		txCtx := r.tx.Context()
		id, err := u.Deps.IDs.NextEntityID(txCtx)
		if err != nil {
			return fmt.Errorf("allocate construct id: %w", err)
		}
		out = tdomain.Construct{
			EntityID:      id,
			DescriptionID: req.DescriptionID,
			Kind:          req.Kind,
			Rotation:      req.Rotation,
			ClaimEntityID: claimID,
		}
		if err := u.Deps.Constructs.Insert(txCtx, out); err != nil {
			return fmt.Errorf("insert construct: %w", err)
		}
		if _, err := r.Index().Place(id, req.Kind.EntityKind(), 0, req.Anchor); err != nil {
			return err
		}
		_, err = r.Index().IndexFootprint(id, req.Anchor, footprint)
		return err
	})
	return out, err
}
