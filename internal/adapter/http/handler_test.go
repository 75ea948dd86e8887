package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"hexworld/internal/adapter/metrics/inmemory"
	"hexworld/internal/adapter/repo/memory"
	"hexworld/internal/app/ports"
	"hexworld/internal/app/terrain"
	"hexworld/internal/app/territory"
	"hexworld/internal/domain/hexgrid"
	tdomain "hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type stubFootprints map[uint64][]tdomain.FootprintTile

func (s stubFootprints) Known(id uint64) bool {
	_, ok := s[id]
	return ok
}

func (s stubFootprints) Footprint(_ context.Context, id uint64, _ int) ([]tdomain.FootprintTile, error) {
	fp, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown descriptor %d", ports.ErrInvariantViolation, id)
	}
	return append([]tdomain.FootprintTile(nil), fp...), nil
}

type testEnv struct {
	h       Handler
	repos   memory.Repos
	txm     memory.TxManager
	metrics *inmemory.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	txm := memory.NewTxManager(store)
	metrics := inmemory.NewRecorder()
	footprints := stubFootprints{1: {
		{Offset: hexgrid.Coordinates{}, Kind: tdomain.FootprintWalkable},
		{Offset: hexgrid.Coordinates{X: 1}, Kind: tdomain.FootprintHitbox},
	}}
	env := &testEnv{repos: repos, txm: txm, metrics: metrics}
	env.h = Handler{
		TerritoryUC: territory.UseCase{
			TxManager: txm,
			Config:    territory.DefaultConfig(),
			Deps: territory.Deps{
				Locations:  repos.Locations,
				ClaimTiles: repos.ClaimTiles,
				Claims:     repos.Claims,
				Constructs: repos.Constructs,
				Dimensions: repos.Dimensions,
				Chunks:     repos.Chunks,
				IDs:        repos.IDs,
				Footprints: footprints,
				Metrics:    metrics,
			},
		},
		TerrainUC: terrain.UseCase{TxManager: txm, Chunks: repos.Chunks, Metrics: metrics},
		Metrics:   metrics,
	}
	return env
}

func (e *testEnv) seed(t *testing.T, fn func(ctx context.Context) error) {
	t.Helper()
	err := e.txm.RunInTx(context.Background(), func(tx ports.Tx) error {
		return fn(tx.Context())
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (e *testEnv) placeTotem(t *testing.T, id uint64, x, z int) {
	t.Helper()
	e.seed(t, func(ctx context.Context) error {
		tile := world.NewFineTile(x, z, world.OverworldDimension)
		return e.repos.Locations.Insert(ctx, world.NewLocation(id, world.EntityBuilding, 0, tile))
	})
}

func post(body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.SetMethod(consts.MethodPost)
	ctx.Request.SetBody([]byte(body))
	return ctx
}

func get(uri string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.SetMethod(consts.MethodGet)
	ctx.Request.SetRequestURI(uri)
	return ctx
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, ctx *app.RequestContext) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHandler_FoundGrowAndReleaseClaim(t *testing.T) {
	env := newTestEnv(t)
	env.placeTotem(t, 100, 300, 300)

	ctx := post(`{"totem_entity_id":100,"owner_player_id":7,"name":"camp","radius":1}`)
	env.h.foundClaim(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("found status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var claim tdomain.Claim
	if err := json.Unmarshal(ctx.Response.Body(), &claim); err != nil {
		t.Fatalf("decode claim: %v", err)
	}
	if claim.EntityID == 0 || claim.OwnerPlayerID != 7 {
		t.Fatalf("unexpected claim %+v", claim)
	}

	ctx = get("/api/territory/claim?x=301&z=300")
	env.h.claimOnTile(context.Background(), ctx)
	var onTile claimOnTileResponse
	if err := json.Unmarshal(ctx.Response.Body(), &onTile); err != nil {
		t.Fatalf("decode claim on tile: %v", err)
	}
	if !onTile.Claimed || onTile.ClaimID != claim.EntityID {
		t.Fatalf("tile not claimed by new claim: %s", ctx.Response.Body())
	}

	ctx = post(fmt.Sprintf(`{"claim_id":%d,"radius":2}`, claim.EntityID))
	env.h.growClaim(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("grow status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}

	ctx = post(fmt.Sprintf(`{"claim_id":%d}`, claim.EntityID))
	env.h.releaseClaim(context.Background(), ctx)
	var released struct {
		TilesReleased int `json:"tiles_released"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &released); err != nil {
		t.Fatalf("decode release: %v", err)
	}
	if released.TilesReleased != 19 {
		t.Fatalf("expected 19 released tiles, got %s", ctx.Response.Body())
	}
}

func TestHandler_ClaimTooCloseMapsToConflict(t *testing.T) {
	env := newTestEnv(t)
	env.placeTotem(t, 100, 300, 300)
	env.placeTotem(t, 200, 304, 300)

	env.h.foundClaim(context.Background(), post(`{"totem_entity_id":100,"radius":1}`))
	ctx := post(`{"totem_entity_id":200,"radius":1}`)
	env.h.foundClaim(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeError(t, ctx)
	if body.Error.Code != "claim_conflict" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if _, ok := body.Error.Details["reason"]; !ok {
		t.Fatalf("missing rejection reason in %s", ctx.Response.Body())
	}
	if _, ok := body.Error.Details["tile"]; !ok {
		t.Fatalf("missing rejection tile in %s", ctx.Response.Body())
	}
	if got := env.metrics.Snapshot().ClaimsByResult[string(ports.ClaimOutcomeRejected)]; got != 1 {
		t.Fatalf("rejection not recorded, got %d", got)
	}
}

func TestHandler_InvalidRadiusIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	env.placeTotem(t, 100, 300, 300)
	ctx := post(`{"totem_entity_id":100,"radius":1}`)
	env.h.foundClaim(context.Background(), ctx)
	var claim tdomain.Claim
	if err := json.Unmarshal(ctx.Response.Body(), &claim); err != nil {
		t.Fatalf("decode claim: %v", err)
	}

	ctx = post(`{"totem_entity_id":100,"radius":1}`)
	env.h.foundClaim(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("refounding a totem should conflict, got %d", got)
	}

	ctx = post(fmt.Sprintf(`{"claim_id":%d,"radius":99}`, claim.EntityID))
	env.h.growClaim(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	if body := decodeError(t, ctx); body.Error.Code != "invalid_radius" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
}

func TestHandler_UnknownDescriptorIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := post(`{"description_id":42,"anchor":{"x":300,"z":300,"dimension":1}}`)
	env.h.claimUnderConstruct(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if body := decodeError(t, ctx); body.Error.Code != "bad_request" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}

	ctx = post(`{"description_id":42,"kind":1,"anchor":{"x":300,"z":300,"dimension":1}}`)
	env.h.placeConstruct(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestHandler_PlaceConstructRejectsBadRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := post(`{"description_id":1,"kind":1,"anchor":{"x":0,"z":0,"dimension":1},"rotation":12}`)
	env.h.placeConstruct(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = post(`{"description_id":1,"kind":1,"anchor":{"x":3,"z":3,"dimension":1}}`)
	env.h.placeConstruct(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
}

func TestHandler_TerrainCell(t *testing.T) {
	env := newTestEnv(t)
	chunk := world.NewTerrainChunk(world.ChunkCoordinate{X: 0, Z: 0, Dimension: world.OverworldDimension})
	env.seed(t, func(ctx context.Context) error {
		return env.repos.Chunks.Save(ctx, chunk)
	})

	ctx := get("/api/terrain/cell?x=abc&z=1")
	env.h.terrainCell(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = post(`{"tile":{"x":2,"z":3,"dimension":1},"elevation":12}`)
	env.h.setElevation(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("set elevation status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}

	ctx = get("/api/terrain/cell?x=2&z=3")
	env.h.terrainCell(context.Background(), ctx)
	var cell world.TerrainCell
	if err := json.Unmarshal(ctx.Response.Body(), &cell); err != nil {
		t.Fatalf("decode cell: %v", err)
	}
	if cell.Elevation != 12 {
		t.Fatalf("elevation not persisted: %s", ctx.Response.Body())
	}

	ctx = get("/api/terrain/cell?x=500&z=500&dimension=1")
	env.h.terrainCell(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("missing chunk status mismatch: got=%d want=%d", got, want)
	}
}

func TestHandler_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	ctx := post(`{`)
	env.h.growClaim(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if body := decodeError(t, ctx); body.Error.Code != "invalid_json" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
}

func TestHandler_RingAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := get("/api/geometry/ring?x=0&z=0&radius=2")
	env.h.ring(context.Background(), ctx)
	var ring struct {
		Tiles []hexgrid.Coordinates `json:"tiles"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &ring); err != nil {
		t.Fatalf("decode ring: %v", err)
	}
	if len(ring.Tiles) != 12 {
		t.Fatalf("expected 12 ring tiles, got %d", len(ring.Tiles))
	}

	ctx = get("/api/geometry/ring?x=0&z=0&radius=500")
	env.h.ring(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = get("/ops/metrics")
	env.h.metrics(context.Background(), ctx)
	var snap map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &snap); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if _, ok := snap["claims_by_outcome"]; !ok {
		t.Fatalf("missing claims_by_outcome in %s", ctx.Response.Body())
	}

	ctx = get("/ops/metrics")
	Handler{}.metrics(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("unconfigured metrics status mismatch: got=%d want=%d", got, want)
	}
}
