package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"hexworld/internal/adapter/metrics/inmemory"
	"hexworld/internal/app/ports"
	"hexworld/internal/app/terrain"
	"hexworld/internal/app/territory"
	"hexworld/internal/domain/hexgrid"
	tdomain "hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// maxRingRadius bounds geometry queries so a single request stays small.
const maxRingRadius = 64

type Handler struct {
	TerritoryUC territory.UseCase
	TerrainUC   terrain.UseCase
	Metrics     snapshotProvider
}

type snapshotProvider interface {
	Snapshot() inmemory.Snapshot
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/terrain/cell", h.terrainCell)
	api.POST("/terrain/cells", h.terrainCells)
	api.POST("/terrain/elevation", h.setElevation)

	api.GET("/territory/claim", h.claimOnTile)
	api.POST("/territory/construct/claims", h.claimUnderConstruct)
	api.POST("/territory/constructs", h.placeConstruct)
	api.POST("/territory/claims", h.foundClaim)
	api.POST("/territory/claims/grow", h.growClaim)
	api.POST("/territory/claims/release", h.releaseClaim)
	api.POST("/territory/unclaim", h.unclaimTile)

	api.GET("/geometry/ring", h.ring)
	s.GET("/ops/metrics", h.metrics)
}

func (h Handler) terrainCell(c context.Context, ctx *app.RequestContext) {
	x, z, dim, err := tileQuery(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}
	cell, err := h.TerrainUC.Cell(c, world.NewTerrainTile(x, z, dim))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, cell)
}

type terrainCellsRequest struct {
	Tiles []world.TerrainTile `json:"tiles"`
}

func (h Handler) terrainCells(c context.Context, ctx *app.RequestContext) {
	var body terrainCellsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	cells, err := h.TerrainUC.Cells(c, body.Tiles)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"cells": cells})
}

func (h Handler) setElevation(c context.Context, ctx *app.RequestContext) {
	var body terrain.SetElevationRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	cell, err := h.TerrainUC.SetElevation(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, cell)
}

type claimOnTileResponse struct {
	Tile    world.FineTile `json:"tile"`
	Claimed bool           `json:"claimed"`
	ClaimID uint64         `json:"claim_id"`
	// ClaimTileEntityID is zero when the tile was resolved through a
	// dimension network.
	ClaimTileEntityID uint64 `json:"claim_tile_entity_id,omitempty"`
}

func (h Handler) claimOnTile(c context.Context, ctx *app.RequestContext) {
	x, z, dim, err := tileQuery(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}
	tile := world.NewFineTile(x, z, dim)
	ct, ok, err := h.TerritoryUC.ClaimOnTile(c, tile)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, claimOnTileResponse{Tile: tile, Claimed: ok, ClaimID: ct.ClaimID, ClaimTileEntityID: ct.EntityID})
}

func (h Handler) claimUnderConstruct(c context.Context, ctx *app.RequestContext) {
	var body territory.ConstructQuery
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.TerritoryUC.ClaimUnderConstruct(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) placeConstruct(c context.Context, ctx *app.RequestContext) {
	var body territory.PlaceConstructRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	construct, err := h.TerritoryUC.PlaceConstruct(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, construct)
}

func (h Handler) foundClaim(c context.Context, ctx *app.RequestContext) {
	var body territory.FoundClaimRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	claim, err := h.TerritoryUC.FoundClaim(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, claim)
}

func (h Handler) growClaim(c context.Context, ctx *app.RequestContext) {
	var body territory.GrowClaimRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	n, err := h.TerritoryUC.GrowClaim(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"claim_id": body.ClaimID, "tiles_claimed": n})
}

type releaseClaimRequest struct {
	ClaimID uint64 `json:"claim_id"`
}

func (h Handler) releaseClaim(c context.Context, ctx *app.RequestContext) {
	var body releaseClaimRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	n, err := h.TerritoryUC.ReleaseClaim(c, body.ClaimID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"claim_id": body.ClaimID, "tiles_released": n})
}

type unclaimRequest struct {
	Tile world.FineTile `json:"tile"`
}

func (h Handler) unclaimTile(c context.Context, ctx *app.RequestContext) {
	var body unclaimRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	ok, err := h.TerritoryUC.UnclaimTile(c, body.Tile)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"tile": body.Tile, "unclaimed": ok})
}

func (h Handler) ring(_ context.Context, ctx *app.RequestContext) {
	x, z, dim, err := tileQuery(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}
	radius, err := strconv.Atoi(string(ctx.Query("radius")))
	if err != nil || radius < 0 || radius > maxRingRadius {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", fmt.Sprintf("radius must be in [0, %d]", maxRingRadius))
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"tiles": hexgrid.Ring(hexgrid.New(x, z, dim), radius)})
}

func (h Handler) metrics(_ context.Context, ctx *app.RequestContext) {
	if h.Metrics == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "metrics not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.Metrics.Snapshot())
}

// tileQuery reads x, z and an optional dimension (default overworld).
func tileQuery(ctx *app.RequestContext) (x, z int, dim uint32, err error) {
	if x, err = strconv.Atoi(string(ctx.Query("x"))); err != nil {
		return 0, 0, 0, errors.New("x must be an integer")
	}
	if z, err = strconv.Atoi(string(ctx.Query("z"))); err != nil {
		return 0, 0, 0, errors.New("z must be an integer")
	}
	dim = world.OverworldDimension
	if raw := string(ctx.Query("dimension")); raw != "" {
		d, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, 0, 0, errors.New("dimension must be an unsigned integer")
		}
		dim = uint32(d)
	}
	return x, z, dim, nil
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var rejected *tdomain.ClaimRejectedError
	switch {
	case errors.As(err, &rejected):
		status := consts.StatusConflict
		if errors.Is(err, tdomain.ErrInvalidRadius) {
			status = consts.StatusBadRequest
		}
		writeRejected(ctx, status, rejected)
	case errors.Is(err, territory.ErrInvalidRequest),
		errors.Is(err, terrain.ErrInvalidRequest),
		errors.Is(err, tdomain.ErrInvalidRotation),
		errors.Is(err, world.ErrInvalidLocation):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ports.ErrInvariantViolation):
		writeErrorBody(ctx, consts.StatusInternalServerError, "invariant_violation", "internal error")
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeRejected(ctx *app.RequestContext, status int, rejected *tdomain.ClaimRejectedError) {
	ctx.JSON(status, map[string]any{
		"error": map[string]any{
			"code":    rejectionCode(rejected.Cause),
			"message": rejected.Error(),
			"details": map[string]any{
				"reason": rejected.Reason,
				"tile":   rejected.Tile,
			},
		},
	})
}

func rejectionCode(cause error) string {
	switch {
	case errors.Is(cause, tdomain.ErrClaimConflict):
		return "claim_conflict"
	case errors.Is(cause, tdomain.ErrTileAlreadyClaimed):
		return "tile_already_claimed"
	case errors.Is(cause, tdomain.ErrTileNotClaimable):
		return "tile_not_claimable"
	case errors.Is(cause, tdomain.ErrInvalidRadius):
		return "invalid_radius"
	default:
		return "claim_rejected"
	}
}
