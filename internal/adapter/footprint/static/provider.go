// Package staticfootprint serves construct footprints from a YAML catalog on
// disk. Rotated footprints are cached across units of work.
package staticfootprint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hexworld/internal/app/ports"
	"hexworld/internal/domain/hexgrid"
	"hexworld/internal/domain/territory"

	"github.com/dgraph-io/ristretto/v2"
	"gopkg.in/yaml.v3"
)

const IndexFile = "footprints.yaml"

var ErrInvalidCatalogPath = errors.New("invalid footprint catalog path")

type tileSpec struct {
	X    int    `yaml:"x"`
	Z    int    `yaml:"z"`
	Kind string `yaml:"kind"`
}

type descriptorSpec struct {
	ID        uint64     `yaml:"id"`
	Name      string     `yaml:"name"`
	Footprint []tileSpec `yaml:"footprint"`
	// Include names a file under the catalog root holding the footprint list.
	Include string `yaml:"include"`
}

type catalogSpec struct {
	Descriptors []descriptorSpec `yaml:"descriptors"`
}

type Provider struct {
	footprints map[uint64][]territory.FootprintTile
	names      map[uint64]string
	cache      *ristretto.Cache[uint64, []territory.FootprintTile]
}

// Load reads root/footprints.yaml. cacheItems bounds the number of rotated
// footprints kept in memory.
func Load(root string, cacheItems int64) (*Provider, error) {
	raw, err := os.ReadFile(filepath.Join(root, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("read footprint catalog: %w", err)
	}
	var catalog catalogSpec
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse footprint catalog: %w", err)
	}

	p := &Provider{
		footprints: make(map[uint64][]territory.FootprintTile, len(catalog.Descriptors)),
		names:      make(map[uint64]string, len(catalog.Descriptors)),
	}
	for _, d := range catalog.Descriptors {
		if d.ID == 0 {
			return nil, fmt.Errorf("footprint %q: zero id", d.Name)
		}
		if _, dup := p.footprints[d.ID]; dup {
			return nil, fmt.Errorf("footprint %d: duplicate id", d.ID)
		}
		tiles := d.Footprint
		if d.Include != "" {
			if tiles, err = loadInclude(root, d.Include); err != nil {
				return nil, fmt.Errorf("footprint %d: %w", d.ID, err)
			}
		}
		fp, err := decodeTiles(tiles)
		if err != nil {
			return nil, fmt.Errorf("footprint %d: %w", d.ID, err)
		}
		p.footprints[d.ID] = fp
		p.names[d.ID] = d.Name
	}

	if cacheItems <= 0 {
		cacheItems = 1024
	}
	p.cache, err = ristretto.NewCache(&ristretto.Config[uint64, []territory.FootprintTile]{
		NumCounters: cacheItems * 10,
		MaxCost:     cacheItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("footprint cache: %w", err)
	}
	return p, nil
}

func (p *Provider) Close() {
	p.cache.Close()
}

// Footprint returns the descriptor's tiles rotated by rotation/2 sixth
// turns around the anchor. Odd rotations face a diagonal and share the
// layout of the edge direction before them.
func (p *Provider) Footprint(_ context.Context, descriptionID uint64, rotation int) ([]territory.FootprintTile, error) {
	if !territory.ValidRotation(rotation) {
		return nil, fmt.Errorf("%w: %d", territory.ErrInvalidRotation, rotation)
	}
	key := descriptionID<<4 | uint64(rotation)
	if fp, ok := p.cache.Get(key); ok {
		return append([]territory.FootprintTile(nil), fp...), nil
	}
	base, ok := p.footprints[descriptionID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown construct descriptor %d", ports.ErrInvariantViolation, descriptionID)
	}
	rotated := make([]territory.FootprintTile, len(base))
	for i, t := range base {
		rotated[i] = territory.FootprintTile{
			Offset: t.Offset.RotateAround(hexgrid.Coordinates{}, rotation/2),
			Kind:   t.Kind,
		}
	}
	p.cache.Set(key, rotated, 1)
	return append([]territory.FootprintTile(nil), rotated...), nil
}

func (p *Provider) Known(descriptionID uint64) bool {
	_, ok := p.footprints[descriptionID]
	return ok
}

// Name is empty for unknown descriptors.
func (p *Provider) Name(descriptionID uint64) string {
	return p.names[descriptionID]
}

func (p *Provider) DescriptorIDs() []uint64 {
	ids := make([]uint64, 0, len(p.footprints))
	for id := range p.footprints {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func loadInclude(root, rel string) ([]tileSpec, error) {
	path, err := secureJoin(root, rel)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	var tiles []tileSpec
	if err := yaml.Unmarshal(raw, &tiles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return tiles, nil
}

func decodeTiles(specs []tileSpec) ([]territory.FootprintTile, error) {
	out := make([]territory.FootprintTile, 0, len(specs))
	seen := map[hexgrid.Coordinates]bool{}
	for _, s := range specs {
		kind, err := territory.ParseFootprintKind(s.Kind)
		if err != nil {
			return nil, err
		}
		off := hexgrid.Coordinates{X: s.X, Z: s.Z}
		if seen[off] {
			return nil, fmt.Errorf("offset (%d, %d) listed twice", s.X, s.Z)
		}
		seen[off] = true
		out = append(out, territory.FootprintTile{Offset: off, Kind: kind})
	}
	return out, nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidCatalogPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	if !strings.HasPrefix(target, rootAbs+string(filepath.Separator)) {
		return "", ErrInvalidCatalogPath
	}
	return target, nil
}
