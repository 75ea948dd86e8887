package gormrepo

import "gorm.io/gorm"

// Repos bundles every postgres repository over one connection pool.
type Repos struct {
	Chunks     TerrainChunkRepo
	Locations  LocationRepo
	ClaimTiles ClaimTileRepo
	Claims     ClaimRepo
	Constructs ConstructRepo
	Dimensions DimensionRepo
	IDs        IDAllocator
}

func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Chunks:     NewTerrainChunkRepo(db),
		Locations:  NewLocationRepo(db),
		ClaimTiles: NewClaimTileRepo(db),
		Claims:     NewClaimRepo(db),
		Constructs: NewConstructRepo(db),
		Dimensions: NewDimensionRepo(db),
		IDs:        NewIDAllocator(db),
	}
}
