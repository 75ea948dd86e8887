package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"hexworld/internal/adapter/repo/sqlite"
)

func TestRun_WritesArchiveWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.db")
	t.Setenv("HEXWORLD_TERRAIN_ARCHIVE", path)

	opts := options{target: "sqlite", dimension: 1, maxX: 1, maxZ: 1}
	if err := run(context.Background(), opts, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("run: %v", err)
	}

	archive, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer archive.Close()
	rows, err := archive.All(context.Background())
	if err != nil {
		t.Fatalf("list chunks: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(rows))
	}
	if seed, ok, err := archive.Meta(context.Background(), "seed"); err != nil || !ok || seed != "42" {
		t.Fatalf("seed meta = %q %v %v", seed, ok, err)
	}
}

func TestRun_RejectsEmptyRange(t *testing.T) {
	opts := options{target: "sqlite", dimension: 1, minX: 3, maxX: 1}
	if err := run(context.Background(), opts, slog.Default()); err == nil {
		t.Fatalf("expected error for empty range")
	}
}

func TestRun_PostgresNeedsDSN(t *testing.T) {
	t.Setenv("HEXWORLD_DB_DSN", "")
	opts := options{target: "postgres", dimension: 1}
	if err := run(context.Background(), opts, slog.Default()); err == nil {
		t.Fatalf("expected error without dsn")
	}
}
