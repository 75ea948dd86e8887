// Command terrainseed generates noise terrain and writes it to the sqlite
// archive or the postgres chunk table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"hexworld/db/migrations"
	gormrepo "hexworld/internal/adapter/repo/gorm"
	"hexworld/internal/adapter/repo/sqlite"
	"hexworld/internal/adapter/terrain/noise"
	"hexworld/internal/app/ports"
	"hexworld/internal/config"
	"hexworld/internal/domain/world"
)

type options struct {
	configPath string
	target     string
	dimension  uint
	minX, minZ int
	maxX, maxZ int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", os.Getenv("HEXWORLD_CONFIG"), "path to a YAML config file")
	flag.StringVar(&opts.target, "target", config.TerrainFromSQLite, "sqlite or postgres")
	flag.UintVar(&opts.dimension, "dimension", uint(world.OverworldDimension), "dimension to generate")
	flag.IntVar(&opts.minX, "min-x", 0, "first chunk x")
	flag.IntVar(&opts.minZ, "min-z", 0, "first chunk z")
	flag.IntVar(&opts.maxX, "max-x", 15, "last chunk x")
	flag.IntVar(&opts.maxZ, "max-z", 15, "last chunk z")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("terrain seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.maxX < opts.minX || opts.maxZ < opts.minZ {
		return errors.New("chunk range is empty")
	}
	start := time.Now()
	chunks := noise.New(cfg.Terrain.Noise).Region(uint32(opts.dimension), opts.minX, opts.minZ, opts.maxX, opts.maxZ)
	if len(chunks) == 0 {
		return errors.New("no valid chunk coordinates in range")
	}

	switch opts.target {
	case config.TerrainFromSQLite:
		err = writeArchive(ctx, cfg.Terrain.ArchivePath, cfg.Terrain.Noise, chunks)
	case config.StoragePostgres:
		err = writePostgres(ctx, cfg.Storage, chunks)
	default:
		err = fmt.Errorf("unknown target %q", opts.target)
	}
	if err != nil {
		return err
	}
	logger.Info("terrain seeded", "target", opts.target, "chunks", len(chunks), "seed", cfg.Terrain.Noise.Seed, "elapsed", time.Since(start).String())
	return nil
}

func writeArchive(ctx context.Context, path string, gen noise.Config, chunks []*world.TerrainChunk) error {
	archive, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("open terrain archive: %w", err)
	}
	defer archive.Close()
	if err := archive.SaveAll(ctx, chunks); err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}
	if err := archive.SetMeta(ctx, "seed", strconv.FormatInt(gen.Seed, 10)); err != nil {
		return err
	}
	return archive.SetMeta(ctx, "generated_at", time.Now().UTC().Format(time.RFC3339))
}

func writePostgres(ctx context.Context, st config.StorageConfig, chunks []*world.TerrainChunk) error {
	if st.DSN == "" {
		return errors.New("postgres target needs storage.dsn or HEXWORLD_DB_DSN")
	}
	db, err := gormrepo.OpenPostgres(st.DSN, gormrepo.PoolConfig{MaxOpenConns: 4, MaxIdleConns: 1})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if _, err := gormrepo.ApplyMigrations(ctx, db, migrations.FS); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	repo := gormrepo.NewTerrainChunkRepo(db)
	return gormrepo.NewTxManager(db).RunInTx(ctx, func(tx ports.Tx) error {
		for _, c := range chunks {
			if err := repo.Save(tx.Context(), c); err != nil {
				return fmt.Errorf("save chunk %d: %w", c.Index, err)
			}
		}
		return nil
	})
}
