package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"hexworld/db/migrations"
	staticfootprint "hexworld/internal/adapter/footprint/static"
	httpadapter "hexworld/internal/adapter/http"
	metricsinmem "hexworld/internal/adapter/metrics/inmemory"
	gormrepo "hexworld/internal/adapter/repo/gorm"
	"hexworld/internal/adapter/repo/memory"
	"hexworld/internal/adapter/repo/sqlite"
	"hexworld/internal/adapter/terrain/lazy"
	"hexworld/internal/adapter/terrain/noise"
	"hexworld/internal/app/ports"
	"hexworld/internal/app/terrain"
	"hexworld/internal/app/territory"
	"hexworld/internal/config"
	"hexworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// devRegionChunks is the square of overworld chunks generated for the
// memory store so terrain queries answer without a seeded database.
const devRegionChunks = 4

func main() {
	configPath := flag.String("config", os.Getenv("HEXWORLD_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()
	st, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("build storage", "error", err)
		os.Exit(1)
	}
	defer st.close(logger)

	footprints, err := staticfootprint.Load(cfg.Footprints.Root, cfg.Footprints.CacheItems)
	if err != nil {
		logger.Error("load footprint catalog", "root", cfg.Footprints.Root, "error", err)
		os.Exit(1)
	}
	defer footprints.Close()
	logger.Info("footprint catalog loaded", "descriptors", len(footprints.DescriptorIDs()))

	recorder := metricsinmem.NewRecorder()
	h := httpadapter.Handler{
		TerritoryUC: territory.UseCase{
			TxManager: st.txm,
			Config:    cfg.Territory,
			Deps: territory.Deps{
				Locations:  st.locations,
				ClaimTiles: st.claimTiles,
				Claims:     st.claims,
				Constructs: st.constructs,
				Dimensions: st.dimensions,
				Chunks:     st.chunks,
				IDs:        st.ids,
				Footprints: footprints,
				Metrics:    recorder,
				Logger:     logger.With("component", "territory"),
			},
		},
		TerrainUC: terrain.UseCase{
			TxManager: st.txm,
			Chunks:    st.chunks,
			Metrics:   recorder,
			Logger:    logger.With("component", "terrain"),
		},
		Metrics: recorder,
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	logger.Info("hexworld server listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver, "terrain", cfg.Terrain.Source)
	s.Spin()
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// storage holds the repositories every use case shares. chunks may come from
// a different backend than the rest.
type storage struct {
	txm        ports.TxManager
	locations  ports.LocationRepository
	claimTiles ports.ClaimTileRepository
	claims     ports.ClaimRepository
	constructs ports.ConstructRepository
	dimensions ports.DimensionRepository
	chunks     ports.TerrainChunkRepository
	ids        ports.EntityIDAllocator
	closers    []func() error
}

func (s *storage) close(logger *slog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	st := &storage{}
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := gormrepo.OpenPostgres(cfg.Storage.DSN, gormrepo.PoolConfig{
			MaxOpenConns:    cfg.Storage.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Storage.ConnMaxLifetimeSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			st.closers = append(st.closers, sqlDB.Close)
		}
		if cfg.Storage.AutoMigrate {
			applied, err := gormrepo.ApplyMigrations(ctx, db, migrations.FS)
			if err != nil {
				st.close(logger)
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("migrations applied", "files", applied)
		}
		repos := gormrepo.NewRepos(db)
		st.txm = gormrepo.NewTxManager(db)
		st.locations, st.claimTiles, st.claims = repos.Locations, repos.ClaimTiles, repos.Claims
		st.constructs, st.dimensions, st.ids = repos.Constructs, repos.Dimensions, repos.IDs
		st.chunks = repos.Chunks
	case config.StorageMemory:
		store := memory.NewStore()
		repos := memory.NewRepos(store)
		st.txm = memory.NewTxManager(store)
		st.locations, st.claimTiles, st.claims = repos.Locations, repos.ClaimTiles, repos.Claims
		st.constructs, st.dimensions, st.ids = repos.Constructs, repos.Dimensions, repos.IDs
		st.chunks = repos.Chunks
		if cfg.Terrain.Source == config.TerrainFromStore {
			if err := seedDevRegion(ctx, st.txm, st.chunks, cfg.Terrain.Noise); err != nil {
				return nil, fmt.Errorf("seed memory terrain: %w", err)
			}
			logger.Info("memory terrain generated", "chunks", devRegionChunks*devRegionChunks, "seed", cfg.Terrain.Noise.Seed)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Terrain.Source == config.TerrainFromSQLite {
		archive, err := sqlite.Open(cfg.Terrain.ArchivePath)
		if err != nil {
			st.close(logger)
			return nil, fmt.Errorf("open terrain archive: %w", err)
		}
		st.closers = append(st.closers, archive.Close)
		st.chunks = archive
		if seed, ok, err := archive.Meta(ctx, "seed"); err == nil && ok {
			logger.Info("terrain archive opened", "path", cfg.Terrain.ArchivePath, "seed", seed)
		}
	}
	if cfg.Terrain.GenerateMissing {
		gen := lazy.New(st.chunks, noise.New(cfg.Terrain.Noise))
		gen.Logger = logger.With("component", "terrain_gen")
		st.chunks = gen
	}
	return st, nil
}

func seedDevRegion(ctx context.Context, txm ports.TxManager, chunks ports.TerrainChunkRepository, cfg noise.Config) error {
	gen := noise.New(cfg)
	region := gen.Region(world.OverworldDimension, 0, 0, devRegionChunks-1, devRegionChunks-1)
	if len(region) == 0 {
		return errors.New("generator produced no chunks")
	}
	return txm.RunInTx(ctx, func(tx ports.Tx) error {
		for _, c := range region {
			if err := chunks.Save(tx.Context(), c); err != nil {
				return err
			}
		}
		return nil
	})
}
