// Package chunkcodec packs the per-cell arrays of a terrain chunk into one
// zstd-compressed payload. Chunk coordinates live in the row, not the payload.
package chunkcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"hexworld/internal/domain/world"

	"github.com/klauspost/compress/zstd"
)

var magic = [4]byte{'H', 'X', 'C', '1'}

var ErrCorrupt = errors.New("corrupt chunk payload")

var (
	encOnce  sync.Once
	enc      *zstd.Encoder
	dec      *zstd.Decoder
	codecErr error
)

func codecs() (*zstd.Encoder, *zstd.Decoder, error) {
	encOnce.Do(func() {
		enc, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if codecErr != nil {
			return
		}
		dec, codecErr = zstd.NewReader(nil)
	})
	return enc, dec, codecErr
}

// Encode validates c and returns its compressed arrays.
func Encode(c *world.TerrainChunk) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	e, _, err := codecs()
	if err != nil {
		return nil, fmt.Errorf("init zstd: %w", err)
	}
	var raw bytes.Buffer
	raw.Grow(len(magic) + world.ChunkCells*12)
	raw.Write(magic[:])
	for _, arr := range []any{c.Biomes, c.BiomeDensities, c.Elevations, c.WaterLevels, c.OriginalElevations, c.Zoning} {
		if err := binary.Write(&raw, binary.LittleEndian, arr); err != nil {
			return nil, fmt.Errorf("encode chunk %d: %w", c.Index, err)
		}
	}
	return e.EncodeAll(raw.Bytes(), nil), nil
}

// Decode rebuilds the chunk at coord from payload. Unknown biome or zoning
// tags are rejected.
func Decode(coord world.ChunkCoordinate, payload []byte) (*world.TerrainChunk, error) {
	_, d, err := codecs()
	if err != nil {
		return nil, fmt.Errorf("init zstd: %w", err)
	}
	raw, err := d.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	r := bytes.NewReader(raw)
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil || head != magic {
		return nil, fmt.Errorf("%w: bad header", ErrCorrupt)
	}
	c := world.NewTerrainChunk(coord)
	for _, arr := range []any{c.Biomes, c.BiomeDensities, c.Elevations, c.WaterLevels, c.OriginalElevations, c.Zoning} {
		if err := binary.Read(r, binary.LittleEndian, arr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	if err := world.ValidateChunkTags(c); err != nil {
		return nil, err
	}
	return c, nil
}
