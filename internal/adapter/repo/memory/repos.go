package memory

// Repos bundles every repository over one store.
type Repos struct {
	Chunks     TerrainChunkRepo
	Locations  LocationRepo
	ClaimTiles ClaimTileRepo
	Claims     ClaimRepo
	Constructs ConstructRepo
	Dimensions DimensionRepo
	IDs        IDAllocator
}

func NewRepos(store *Store) Repos {
	return Repos{
		Chunks:     TerrainChunkRepo{store: store},
		Locations:  LocationRepo{store: store},
		ClaimTiles: ClaimTileRepo{store: store},
		Claims:     ClaimRepo{store: store},
		Constructs: ConstructRepo{store: store},
		Dimensions: DimensionRepo{store: store},
		IDs:        IDAllocator{store: store},
	}
}
