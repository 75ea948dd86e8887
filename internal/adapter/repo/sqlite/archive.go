// Package sqlite keeps terrain chunks in a local SQLite file. It serves
// development worlds and the terrain seeding tool; writes are not part of a
// postgres transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hexworld/internal/adapter/chunkcodec"
	"hexworld/internal/app/ports"
	"hexworld/internal/domain/world"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Archive struct {
	conn *sqlx.DB
}

type chunkRow struct {
	ChunkIndex int64  `db:"chunk_index"`
	ChunkX     int    `db:"chunk_x"`
	ChunkZ     int    `db:"chunk_z"`
	Dimension  int64  `db:"dimension"`
	Payload    []byte `db:"payload"`
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// Pragmas are per connection; one pooled connection keeps them applied.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	a := &Archive{conn: conn}
	if err := a.initPragmas(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("configure archive: %w", err)
	}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) initPragmas() error {
	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := a.conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS terrain_chunks (
		chunk_index INTEGER PRIMARY KEY,
		chunk_x INTEGER NOT NULL,
		chunk_z INTEGER NOT NULL,
		dimension INTEGER NOT NULL,
		payload BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS archive_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := a.conn.Exec(schema)
	return err
}

func (a *Archive) Find(ctx context.Context, index world.ChunkIndex) (*world.TerrainChunk, error) {
	var row chunkRow
	err := a.conn.GetContext(ctx, &row, `SELECT chunk_index, chunk_x, chunk_z, dimension, payload FROM terrain_chunks WHERE chunk_index = ?`, int64(index))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find chunk %d: %w", index, err)
	}
	return row.decode()
}

func (a *Archive) All(ctx context.Context) ([]*world.TerrainChunk, error) {
	var rows []chunkRow
	if err := a.conn.SelectContext(ctx, &rows, `SELECT chunk_index, chunk_x, chunk_z, dimension, payload FROM terrain_chunks ORDER BY chunk_index`); err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	out := make([]*world.TerrainChunk, 0, len(rows))
	for _, row := range rows {
		c, err := row.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (a *Archive) Save(ctx context.Context, chunk *world.TerrainChunk) error {
	payload, err := chunkcodec.Encode(chunk)
	if err != nil {
		return err
	}
	_, err = a.conn.NamedExecContext(ctx, `
	INSERT INTO terrain_chunks (chunk_index, chunk_x, chunk_z, dimension, payload)
	VALUES (:chunk_index, :chunk_x, :chunk_z, :dimension, :payload)
	ON CONFLICT(chunk_index) DO UPDATE SET payload = excluded.payload`, chunkRow{
		ChunkIndex: int64(chunk.Index),
		ChunkX:     chunk.X,
		ChunkZ:     chunk.Z,
		Dimension:  int64(chunk.Dimension),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("save chunk %d: %w", chunk.Index, err)
	}
	return nil
}

// SaveAll writes chunks in one SQLite transaction.
func (a *Archive) SaveAll(ctx context.Context, chunks []*world.TerrainChunk) error {
	tx, err := a.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `
	INSERT INTO terrain_chunks (chunk_index, chunk_x, chunk_z, dimension, payload)
	VALUES (:chunk_index, :chunk_x, :chunk_z, :dimension, :payload)
	ON CONFLICT(chunk_index) DO UPDATE SET payload = excluded.payload`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range chunks {
		payload, err := chunkcodec.Encode(c)
		if err != nil {
			return err
		}
		row := chunkRow{ChunkIndex: int64(c.Index), ChunkX: c.X, ChunkZ: c.Z, Dimension: int64(c.Dimension), Payload: payload}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("save chunk %d: %w", c.Index, err)
		}
	}
	return tx.Commit()
}

func (a *Archive) SetMeta(ctx context.Context, key, value string) error {
	_, err := a.conn.ExecContext(ctx, `INSERT INTO archive_meta (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Meta reports false when key was never set.
func (a *Archive) Meta(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := a.conn.GetContext(ctx, &v, `SELECT value FROM archive_meta WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r chunkRow) decode() (*world.TerrainChunk, error) {
	coord := world.ChunkCoordinate{X: r.ChunkX, Z: r.ChunkZ, Dimension: uint32(r.Dimension)}
	c, err := chunkcodec.Decode(coord, r.Payload)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", r.ChunkIndex, err)
	}
	return c, nil
}
