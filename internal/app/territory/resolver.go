// Package territory resolves which claim owns a tile or a construct
// footprint and grows or shrinks claims.
package territory

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"hexworld/internal/app/locindex"
	"hexworld/internal/app/ports"
	"hexworld/internal/app/terrain"
	"hexworld/internal/domain/hexgrid"
	tdomain "hexworld/internal/domain/territory"
	"hexworld/internal/domain/world"
)

type Config struct {
	// ClaimSpacing is the gap an individually claimed tile must keep from
	// every claimed tile and claim totem.
	ClaimSpacing int `yaml:"claim_spacing"`
	// MinTotemDistance is the minimum distance between claim totems.
	MinTotemDistance int `yaml:"min_totem_distance"`
	MaxClaimRadius   int `yaml:"max_claim_radius"`
}

func DefaultConfig() Config {
	return Config{ClaimSpacing: 2, MinTotemDistance: 10, MaxClaimRadius: 20}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ClaimSpacing <= 0 {
		c.ClaimSpacing = def.ClaimSpacing
	}
	if c.MinTotemDistance <= 0 {
		c.MinTotemDistance = def.MinTotemDistance
	}
	if c.MaxClaimRadius <= 0 {
		c.MaxClaimRadius = def.MaxClaimRadius
	}
	return c
}

// Deps lists the storage capabilities the resolver needs. Chunks is
// optional; without it terrain zoning is not consulted.
type Deps struct {
	Locations  ports.LocationRepository
	ClaimTiles ports.ClaimTileRepository
	Claims     ports.ClaimRepository
	Constructs ports.ConstructRepository
	Dimensions ports.DimensionRepository
	Chunks     ports.TerrainChunkRepository
	IDs        ports.EntityIDAllocator
	Footprints ports.FootprintProvider
	Metrics    ports.SpatialMetrics
	Logger     *slog.Logger
}

var constructKinds = []world.EntityKind{world.EntityBuilding, world.EntityProjectSite, world.EntityDeployable}

// Resolver answers claim questions inside one unit of work. It must not be
// shared across units of work.
type Resolver struct {
	tx      ports.Tx
	deps    Deps
	cfg     Config
	logger  *slog.Logger
	metrics ports.SpatialMetrics

	index  *locindex.Index
	lookup *ClaimLookup
	chunks *terrain.ChunkCache
	claims map[uint64]tdomain.Claim

	// bulkDepth > 0 while a bulk claim runs. ClaimTile skips its spacing
	// check then, since the bulk operation checked the whole area first.
	bulkDepth int
}

func NewResolver(tx ports.Tx, deps Deps, cfg Config) *Resolver {
	r := &Resolver{
		tx:      tx,
		deps:    deps,
		cfg:     cfg.withDefaults(),
		logger:  deps.Logger,
		metrics: deps.Metrics,
		index:   locindex.New(tx, deps.Locations, deps.IDs),
		lookup:  NewClaimLookup(tx, deps.Locations, deps.ClaimTiles),
		claims:  map[uint64]tdomain.Claim{},
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = ports.NopMetrics{}
	}
	if deps.Chunks != nil {
		r.chunks = terrain.NewChunkCache(tx, deps.Chunks, terrain.WithMetrics(r.metrics), terrain.WithLogger(r.logger))
	}
	return r
}

func (r *Resolver) live() error {
	if r.tx.Err() != nil {
		return fmt.Errorf("territory resolver: %w", ports.ErrTxDone)
	}
	return nil
}

func (r *Resolver) Index() *locindex.Index {
	return r.index
}

func (r *Resolver) Lookup() *ClaimLookup {
	return r.lookup
}

// ClaimOnTile returns the claim covering tile. Tiles outside the overworld
// take the claim of their dimension network and never read claim tile rows.
func (r *Resolver) ClaimOnTile(tile world.FineTile) (tdomain.ClaimTile, bool, error) {
	if err := r.live(); err != nil {
		return tdomain.ClaimTile{}, false, err
	}
	if !tile.IsOverworld() {
		id, err := r.proxiedClaim(tile.Dimension)
		if err != nil || id == tdomain.NoClaim {
			return tdomain.ClaimTile{}, false, err
		}
		return tdomain.ClaimTile{ClaimID: id}, true, nil
	}
	loc, ok, err := r.claimTileLocation(tile)
	if err != nil || !ok {
		return tdomain.ClaimTile{}, false, err
	}
	ct, err := r.deps.ClaimTiles.Find(r.tx.Context(), loc.EntityID)
	if errors.Is(err, ports.ErrNotFound) {
		return tdomain.ClaimTile{}, false, fmt.Errorf("%w: claim tile location %d has no claim row", ports.ErrInvariantViolation, loc.EntityID)
	}
	if err != nil {
		return tdomain.ClaimTile{}, false, fmt.Errorf("claim on tile: %w", err)
	}
	return ct, true, nil
}

func (r *Resolver) proxiedClaim(dimension uint32) (uint64, error) {
	network, err := r.deps.Dimensions.NetworkByDimension(r.tx.Context(), dimension)
	if errors.Is(err, ports.ErrNotFound) {
		return tdomain.NoClaim, nil
	}
	if err != nil {
		return tdomain.NoClaim, fmt.Errorf("dimension %d network: %w", dimension, err)
	}
	return network.ClaimEntityID, nil
}

func (r *Resolver) claimTileLocation(tile world.FineTile) (world.Location, bool, error) {
	locs, err := r.index.EntitiesAtOfKind(tile, world.EntityClaimTile)
	if err != nil {
		return world.Location{}, false, err
	}
	switch len(locs) {
	case 0:
		return world.Location{}, false, nil
	case 1:
		return locs[0], true, nil
	default:
		return world.Location{}, false, fmt.Errorf("%w: %d claim tiles on (%d, %d)", ports.ErrInvariantViolation, len(locs), tile.X, tile.Z)
	}
}

func (r *Resolver) claimID(tile world.FineTile, cached bool) (uint64, error) {
	if cached && tile.IsOverworld() {
		return r.lookup.ClaimAt(tile)
	}
	ct, ok, err := r.ClaimOnTile(tile)
	if err != nil || !ok {
		return tdomain.NoClaim, err
	}
	return ct.ClaimID, nil
}

// ClaimUnderFootprint returns the claim covering every walkable and hitbox
// tile of the footprint, or NoClaim when a tile is unclaimed or two tiles
// disagree. Perimeter tiles are ignored.
func (r *Resolver) ClaimUnderFootprint(anchor world.FineTile, footprint []tdomain.FootprintTile) (uint64, error) {
	return r.claimUnderFootprint(anchor, footprint, false)
}

// ClaimUnderFootprintCached is ClaimUnderFootprint through the lookup cache.
func (r *Resolver) ClaimUnderFootprintCached(anchor world.FineTile, footprint []tdomain.FootprintTile) (uint64, error) {
	return r.claimUnderFootprint(anchor, footprint, true)
}

func (r *Resolver) claimUnderFootprint(anchor world.FineTile, footprint []tdomain.FootprintTile, cached bool) (uint64, error) {
	if err := r.live(); err != nil {
		return tdomain.NoClaim, err
	}
	tiles := occupiedTiles(anchor, footprint)
	if len(tiles) == 0 {
		return tdomain.NoClaim, nil
	}
	if !anchor.IsOverworld() {
		return r.proxiedClaim(anchor.Dimension)
	}
	claim := tdomain.NoClaim
	for _, tile := range tiles {
		id, err := r.claimID(tile, cached)
		if err != nil {
			return tdomain.NoClaim, err
		}
		if id == tdomain.NoClaim {
			return tdomain.NoClaim, nil
		}
		if claim != tdomain.NoClaim && id != claim {
			return tdomain.NoClaim, nil
		}
		claim = id
	}
	return claim, nil
}

// PartialClaimsUnderFootprint returns the sorted distinct claims touched by
// the footprint's walkable and hitbox tiles.
func (r *Resolver) PartialClaimsUnderFootprint(anchor world.FineTile, footprint []tdomain.FootprintTile) ([]uint64, error) {
	if err := r.live(); err != nil {
		return nil, err
	}
	tiles := occupiedTiles(anchor, footprint)
	if len(tiles) == 0 {
		return nil, nil
	}
	if !anchor.IsOverworld() {
		id, err := r.proxiedClaim(anchor.Dimension)
		if err != nil || id == tdomain.NoClaim {
			return nil, err
		}
		return []uint64{id}, nil
	}
	seen := map[uint64]struct{}{}
	for _, tile := range tiles {
		id, err := r.lookup.ClaimAt(tile)
		if err != nil {
			return nil, err
		}
		if id != tdomain.NoClaim {
			seen[id] = struct{}{}
		}
	}
	return sortedIDs(seen), nil
}

func occupiedTiles(anchor world.FineTile, footprint []tdomain.FootprintTile) []world.FineTile {
	var out []world.FineTile
	for _, f := range footprint {
		if f.Kind.Occupies() {
			out = append(out, f.Tile(anchor))
		}
	}
	return out
}

func (r *Resolver) claim(claimID uint64) (tdomain.Claim, error) {
	if c, ok := r.claims[claimID]; ok {
		return c, nil
	}
	c, err := r.deps.Claims.Find(r.tx.Context(), claimID)
	if err != nil {
		return tdomain.Claim{}, fmt.Errorf("claim %d: %w", claimID, err)
	}
	r.claims[claimID] = c
	return c, nil
}

// ClaimTile assigns tile to the claim. Outside a bulk claim the tile must
// keep ClaimSpacing from every claimed tile and claim totem.
func (r *Resolver) ClaimTile(claimID uint64, tile world.FineTile, alsoClaimBuildings bool) error {
	if err := r.live(); err != nil {
		return err
	}
	if _, err := r.claim(claimID); err != nil {
		return err
	}
	if !tile.IsOverworld() {
		return tdomain.Rejected(tdomain.ErrTileNotClaimable, tile, "claims only cover the overworld")
	}
	if !tile.ChunkCoordinates().Valid() {
		return tdomain.Rejected(tdomain.ErrTileNotClaimable, tile, "tile lies outside the chunk grid")
	}
	existing, err := r.claimID(tile, false)
	if err != nil {
		return err
	}
	if existing == claimID {
		return nil
	}
	if existing != tdomain.NoClaim {
		return tdomain.Rejected(tdomain.ErrTileAlreadyClaimed, tile, "tile belongs to claim %d", existing)
	}
	if err := r.checkZoning(tile); err != nil {
		return err
	}
	if r.bulkDepth == 0 {
		if err := r.checkSpacing(tile); err != nil {
			return err
		}
	}

	ctx := r.tx.Context()
	id, err := r.deps.IDs.NextEntityID(ctx)
	if err != nil {
		return fmt.Errorf("allocate claim tile id: %w", err)
	}
	if _, err := r.index.Place(id, world.EntityClaimTile, 0, tile); err != nil {
		return err
	}
	if err := r.deps.ClaimTiles.Insert(ctx, tdomain.ClaimTile{EntityID: id, ClaimID: claimID}); err != nil {
		return fmt.Errorf("insert claim tile: %w", err)
	}
	r.lookup.set(tile, claimID)

	if alsoClaimBuildings {
		constructs, err := r.constructsTouching(tile)
		if err != nil {
			return err
		}
		if _, err := r.reevaluate(constructs); err != nil {
			return err
		}
	}
	if r.bulkDepth == 0 {
		r.metrics.RecordClaim(ports.ClaimOutcomeClaimed, 1)
	}
	return nil
}

func (r *Resolver) checkZoning(tile world.FineTile) error {
	if r.chunks == nil {
		return nil
	}
	cell, ok, err := r.chunks.TerrainCell(tile.ParentLargeTile())
	if err != nil {
		return err
	}
	if ok && cell.Zoning == world.ZoningNoClaim {
		return tdomain.Rejected(tdomain.ErrTileNotClaimable, tile, "terrain is zoned %s", cell.Zoning)
	}
	return nil
}

func (r *Resolver) checkSpacing(tile world.FineTile) error {
	spacing := r.cfg.ClaimSpacing
	if id, found, err := r.AnyClaimWithinRadius(tile, spacing, tdomain.NoClaim, false); err != nil {
		return err
	} else if found {
		return tdomain.Rejected(tdomain.ErrClaimConflict, tile, "claim %d is within %d tiles", id, spacing)
	}
	totems, err := r.ClaimTotemsWithinRadius(tile, spacing)
	if err != nil {
		return err
	}
	if len(totems) > 0 {
		return tdomain.Rejected(tdomain.ErrClaimConflict, tile, "totem of claim %d is within %d tiles", totems[0].EntityID, spacing)
	}
	return nil
}

// UnclaimTile removes the tile from its claim and strips the claim from
// constructs that relied on it. It reports false for unclaimed tiles.
func (r *Resolver) UnclaimTile(tile world.FineTile) (bool, error) {
	if err := r.live(); err != nil {
		return false, err
	}
	if !tile.IsOverworld() {
		return false, nil
	}
	loc, ok, err := r.claimTileLocation(tile)
	if err != nil || !ok {
		return false, err
	}
	ctx := r.tx.Context()
	ct, err := r.deps.ClaimTiles.Find(ctx, loc.EntityID)
	if err != nil {
		return false, fmt.Errorf("%w: claim tile location %d has no claim row", ports.ErrInvariantViolation, loc.EntityID)
	}
	if err := r.deps.ClaimTiles.Delete(ctx, loc.EntityID); err != nil {
		return false, fmt.Errorf("delete claim tile: %w", err)
	}
	if _, err := r.index.Remove(loc.EntityID); err != nil {
		return false, err
	}
	r.lookup.clear(tile)

	constructs, err := r.constructsTouching(tile)
	if err != nil {
		return false, err
	}
	for _, id := range constructs {
		c, err := r.deps.Constructs.Find(ctx, id)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("construct %d: %w", id, err)
		}
		if c.ClaimEntityID != ct.ClaimID {
			continue
		}
		c.ClaimEntityID = tdomain.NoClaim
		if err := r.deps.Constructs.Update(ctx, c); err != nil {
			return false, fmt.Errorf("update construct %d: %w", id, err)
		}
	}
	r.metrics.RecordClaim(ports.ClaimOutcomeUnclaimed, 1)
	return true, nil
}

// constructsTouching lists constructs anchored on tile or with a footprint
// row on it.
func (r *Resolver) constructsTouching(tile world.FineTile) ([]uint64, error) {
	locs, err := r.index.EntitiesAt(tile)
	if err != nil {
		return nil, err
	}
	seen := map[uint64]struct{}{}
	for _, loc := range locs {
		switch loc.Kind {
		case world.EntityFootprint:
			seen[loc.OwnerEntityID] = struct{}{}
		case world.EntityBuilding, world.EntityProjectSite, world.EntityDeployable:
			seen[loc.EntityID] = struct{}{}
		}
	}
	return sortedIDs(seen), nil
}

// reevaluate resolves each construct's footprint again and stores the
// claim it now falls under. It returns how many constructs changed.
func (r *Resolver) reevaluate(constructs []uint64) (int, error) {
	ctx := r.tx.Context()
	changed := 0
	for _, id := range constructs {
		c, err := r.deps.Constructs.Find(ctx, id)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("construct %d: %w", id, err)
		}
		claimID, err := r.ConstructClaim(c)
		if err != nil {
			return 0, err
		}
		if claimID == tdomain.NoClaim || claimID == c.ClaimEntityID {
			continue
		}
		c.ClaimEntityID = claimID
		if err := r.deps.Constructs.Update(ctx, c); err != nil {
			return 0, fmt.Errorf("update construct %d: %w", id, err)
		}
		changed++
	}
	return changed, nil
}

// ConstructClaim resolves the uniform claim under a stored construct.
func (r *Resolver) ConstructClaim(c tdomain.Construct) (uint64, error) {
	anchor, ok, err := r.index.TileOf(c.EntityID)
	if err != nil {
		return tdomain.NoClaim, err
	}
	if !ok {
		return tdomain.NoClaim, fmt.Errorf("%w: construct %d has no location", ports.ErrInvariantViolation, c.EntityID)
	}
	footprint, err := r.deps.Footprints.Footprint(r.tx.Context(), c.DescriptionID, c.Rotation)
	if err != nil {
		return tdomain.NoClaim, err
	}
	return r.ClaimUnderFootprintCached(anchor, footprint)
}

// ClaimAreaAroundTotem claims the totem tile and every tile within radius
// of it, then re-evaluates constructs in the area. Tiles of other claims
// are never taken. The spacing check runs once for the whole area before
// any tile is written.
func (r *Resolver) ClaimAreaAroundTotem(claimID uint64, radius int, ignoreNeutral bool) (int, error) {
	if err := r.live(); err != nil {
		return 0, err
	}
	c, err := r.claim(claimID)
	if err != nil {
		return 0, err
	}
	totem, ok, err := r.index.TileOf(c.TotemEntityID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: totem %d of claim %d has no location", ports.ErrInvariantViolation, c.TotemEntityID, claimID)
	}
	if radius < 0 || radius > r.cfg.MaxClaimRadius {
		return 0, tdomain.Rejected(tdomain.ErrInvalidRadius, totem, "radius %d outside [0, %d]", radius, r.cfg.MaxClaimRadius)
	}
	if !totem.IsOverworld() {
		return 0, tdomain.Rejected(tdomain.ErrTileNotClaimable, totem, "claims only cover the overworld")
	}
	if other, found, err := r.AnyClaimWithinRadius(totem, radius+r.cfg.ClaimSpacing, claimID, ignoreNeutral); err != nil {
		return 0, err
	} else if found {
		return 0, tdomain.Rejected(tdomain.ErrClaimConflict, totem, "claim %d is within %d tiles", other, radius+r.cfg.ClaimSpacing)
	}

	r.bulkDepth++
	defer func() { r.bulkDepth-- }()

	claimed := 0
	touched := map[uint64]struct{}{}
	it := hexgrid.NewRadiusIterator(totem.Coordinates, radius)
	for coords, ok := it.Next(); ok; coords, ok = it.Next() {
		tile := world.FineTile{Coordinates: coords}
		existing, err := r.lookup.ClaimAt(tile)
		if err != nil {
			return 0, err
		}
		if existing != tdomain.NoClaim {
			continue
		}
		err = r.ClaimTile(claimID, tile, false)
		if errors.Is(err, tdomain.ErrTileNotClaimable) {
			continue
		}
		if err != nil {
			return 0, err
		}
		claimed++
		ids, err := r.constructsTouching(tile)
		if err != nil {
			return 0, err
		}
		for _, id := range ids {
			touched[id] = struct{}{}
		}
	}
	changed, err := r.reevaluate(sortedIDs(touched))
	if err != nil {
		return 0, err
	}
	if radius > c.Radius {
		c.Radius = radius
		if err := r.deps.Claims.Update(r.tx.Context(), c); err != nil {
			return 0, fmt.Errorf("update claim %d: %w", claimID, err)
		}
		r.claims[claimID] = c
	}
	r.metrics.RecordClaim(ports.ClaimOutcomeClaimed, claimed)
	r.logger.Info("claim area grown", "claim_id", claimID, "radius", radius, "tiles", claimed, "constructs", changed)
	return claimed, nil
}

// AnyClaimWithinRadius reports the first claim other than exclude found
// within radius of center, center included. Neutral claims are skipped when
// ignoreNeutral is set.
func (r *Resolver) AnyClaimWithinRadius(center world.FineTile, radius int, exclude uint64, ignoreNeutral bool) (uint64, bool, error) {
	if err := r.live(); err != nil {
		return tdomain.NoClaim, false, err
	}
	it := hexgrid.NewRadiusIterator(center.Coordinates, radius)
	for coords, ok := it.Next(); ok; coords, ok = it.Next() {
		id, err := r.claimID(world.FineTile{Coordinates: coords}, true)
		if err != nil {
			return tdomain.NoClaim, false, err
		}
		if id == tdomain.NoClaim || id == exclude {
			continue
		}
		if ignoreNeutral {
			c, err := r.claim(id)
			if err != nil {
				return tdomain.NoClaim, false, err
			}
			if c.Neutral {
				continue
			}
		}
		return id, true, nil
	}
	return tdomain.NoClaim, false, nil
}

// ClaimTotemsWithinRadius returns the claims whose totem stands within
// radius of center, ordered by claim id.
func (r *Resolver) ClaimTotemsWithinRadius(center world.FineTile, radius int) ([]tdomain.Claim, error) {
	if err := r.live(); err != nil {
		return nil, err
	}
	locs, err := r.index.EntitiesInRadius(center, radius, constructKinds...)
	if err != nil {
		return nil, err
	}
	var out []tdomain.Claim
	for _, loc := range locs {
		c, err := r.deps.Claims.FindByTotem(r.tx.Context(), loc.EntityID)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("claim of totem %d: %w", loc.EntityID, err)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

type FoundClaimRequest struct {
	TotemEntityID uint64 `json:"totem_entity_id"`
	OwnerPlayerID uint64 `json:"owner_player_id"`
	Name          string `json:"name"`
	Neutral       bool   `json:"neutral"`
	Radius        int    `json:"radius"`
}

// FoundClaim creates a claim around an already placed totem and claims its
// initial area.
func (r *Resolver) FoundClaim(req FoundClaimRequest) (tdomain.Claim, error) {
	if err := r.live(); err != nil {
		return tdomain.Claim{}, err
	}
	totem, ok, err := r.index.TileOf(req.TotemEntityID)
	if err != nil {
		return tdomain.Claim{}, err
	}
	if !ok {
		return tdomain.Claim{}, fmt.Errorf("totem %d: %w", req.TotemEntityID, ports.ErrNotFound)
	}
	if !totem.IsOverworld() {
		return tdomain.Claim{}, tdomain.Rejected(tdomain.ErrTileNotClaimable, totem, "claims only cover the overworld")
	}
	ctx := r.tx.Context()
	if existing, err := r.deps.Claims.FindByTotem(ctx, req.TotemEntityID); err == nil {
		return tdomain.Claim{}, tdomain.Rejected(tdomain.ErrClaimConflict, totem, "totem already holds claim %d", existing.EntityID)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return tdomain.Claim{}, fmt.Errorf("claim of totem %d: %w", req.TotemEntityID, err)
	}
	totems, err := r.ClaimTotemsWithinRadius(totem, r.cfg.MinTotemDistance)
	if err != nil {
		return tdomain.Claim{}, err
	}
	if len(totems) > 0 {
		return tdomain.Claim{}, tdomain.Rejected(tdomain.ErrClaimConflict, totem,
			"totem of claim %d is within %d tiles", totems[0].EntityID, r.cfg.MinTotemDistance)
	}

	id, err := r.deps.IDs.NextEntityID(ctx)
	if err != nil {
		return tdomain.Claim{}, fmt.Errorf("allocate claim id: %w", err)
	}
	c := tdomain.Claim{
		EntityID:      id,
		TotemEntityID: req.TotemEntityID,
		OwnerPlayerID: req.OwnerPlayerID,
		Name:          req.Name,
		Neutral:       req.Neutral,
	}
	if err := r.deps.Claims.Insert(ctx, c); err != nil {
		return tdomain.Claim{}, fmt.Errorf("insert claim: %w", err)
	}
	r.claims[id] = c
	if _, err := r.ClaimAreaAroundTotem(id, req.Radius, true); err != nil {
		return tdomain.Claim{}, err
	}
	r.metrics.RecordClaim(ports.ClaimOutcomeFounded, 0)
	return r.claims[id], nil
}

// ReleaseClaim unclaims every tile of the claim. The claim row itself is
// left to its owner.
func (r *Resolver) ReleaseClaim(claimID uint64) (int, error) {
	if err := r.live(); err != nil {
		return 0, err
	}
	ctx := r.tx.Context()
	tiles, err := r.deps.ClaimTiles.FilterByClaim(ctx, claimID)
	if err != nil {
		return 0, fmt.Errorf("tiles of claim %d: %w", claimID, err)
	}
	released := 0
	for _, ct := range tiles {
		tile, ok, err := r.index.TileOf(ct.EntityID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: claim tile %d has no location", ports.ErrInvariantViolation, ct.EntityID)
		}
		done, err := r.UnclaimTile(tile)
		if err != nil {
			return 0, err
		}
		if done {
			released++
		}
	}
	r.logger.Info("claim released", "claim_id", claimID, "tiles", released)
	return released, nil
}

func sortedIDs(set map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
