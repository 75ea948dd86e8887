// Package config loads server settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hexworld/internal/adapter/terrain/noise"
	"hexworld/internal/app/territory"

	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	TerrainFromStore  = "store"
	TerrainFromSQLite = "sqlite"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Territory  territory.Config `yaml:"territory"`
	Footprints FootprintConfig  `yaml:"footprints"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
}

type StorageConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
	AutoMigrate            bool   `yaml:"auto_migrate"`
}

// TerrainConfig selects where chunk rows live. "store" keeps them with the
// other rows; "sqlite" reads them from a local archive.
type TerrainConfig struct {
	Source      string `yaml:"source"`
	ArchivePath string `yaml:"archive_path"`
	// GenerateMissing fills overworld chunk misses from Noise.
	GenerateMissing bool         `yaml:"generate_missing"`
	Noise           noise.Config `yaml:"noise"`
}

type FootprintConfig struct {
	Root       string `yaml:"root"`
	CacheItems int64  `yaml:"cache_items"`
}

func Default() Config {
	return Config{
		Server:     ServerConfig{Addr: ":8080", LogLevel: "info"},
		Storage:    StorageConfig{Driver: StorageMemory, MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetimeSeconds: 1800},
		Terrain:    TerrainConfig{Source: TerrainFromStore, ArchivePath: "terrain.db", Noise: noise.DefaultConfig()},
		Territory:  territory.DefaultConfig(),
		Footprints: FootprintConfig{Root: "./footprints", CacheItems: 4096},
	}
}

// Load reads path over the defaults, then applies HEXWORLD_* overrides. An
// empty path uses defaults and the environment only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = stringEnv("HEXWORLD_HTTP_ADDR", c.Server.Addr)
	c.Server.LogLevel = stringEnv("HEXWORLD_LOG_LEVEL", c.Server.LogLevel)
	if dsn := strings.TrimSpace(os.Getenv("HEXWORLD_DB_DSN")); dsn != "" {
		c.Storage.DSN = dsn
		c.Storage.Driver = StoragePostgres
	}
	c.Storage.Driver = stringEnv("HEXWORLD_STORAGE", c.Storage.Driver)
	if path := strings.TrimSpace(os.Getenv("HEXWORLD_TERRAIN_ARCHIVE")); path != "" {
		c.Terrain.ArchivePath = path
		c.Terrain.Source = TerrainFromSQLite
	}
	c.Terrain.GenerateMissing = boolEnv("HEXWORLD_TERRAIN_GENERATE", c.Terrain.GenerateMissing)
	c.Footprints.Root = stringEnv("HEXWORLD_FOOTPRINTS_ROOT", c.Footprints.Root)
	c.Territory.ClaimSpacing = intEnv("HEXWORLD_CLAIM_SPACING", c.Territory.ClaimSpacing)
	c.Territory.MinTotemDistance = intEnv("HEXWORLD_MIN_TOTEM_DISTANCE", c.Territory.MinTotemDistance)
	c.Territory.MaxClaimRadius = intEnv("HEXWORLD_MAX_CLAIM_RADIUS", c.Territory.MaxClaimRadius)
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Terrain.Source {
	case TerrainFromStore:
	case TerrainFromSQLite:
		if c.Terrain.ArchivePath == "" {
			errs = append(errs, errors.New("terrain.archive_path is required for the sqlite source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown terrain source %q", c.Terrain.Source))
	}
	if c.Territory.ClaimSpacing < 0 || c.Territory.MinTotemDistance < 0 || c.Territory.MaxClaimRadius < 0 {
		errs = append(errs, errors.New("territory distances must not be negative"))
	}
	return errors.Join(errs...)
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
