package inmemory

import (
	"sync"

	"hexworld/internal/app/ports"
)

type Snapshot struct {
	ChunkLoads     uint64            `json:"chunk_loads"`
	ChunkMisses    uint64            `json:"chunk_misses"`
	ChunksPersist  uint64            `json:"chunks_persisted"`
	ClaimOps       uint64            `json:"claim_ops"`
	ClaimTiles     uint64            `json:"claim_tiles"`
	ClaimsByResult map[string]uint64 `json:"claims_by_outcome"`
}

// Recorder implements ports.SpatialMetrics with process-local counters.
type Recorder struct {
	mu        sync.Mutex
	loads     uint64
	misses    uint64
	persisted uint64
	tiles     uint64
	byOutcome map[ports.ClaimOutcome]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOutcome: map[ports.ClaimOutcome]uint64{},
	}
}

func (r *Recorder) RecordChunkLoad(found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if found {
		r.loads++
	} else {
		r.misses++
	}
}

func (r *Recorder) RecordChunkPersist(chunks int) {
	if chunks <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persisted += uint64(chunks)
}

func (r *Recorder) RecordClaim(outcome ports.ClaimOutcome, tiles int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOutcome[outcome]++
	if tiles > 0 && outcome != ports.ClaimOutcomeRejected {
		r.tiles += uint64(tiles)
	}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ChunkLoads:     r.loads,
		ChunkMisses:    r.misses,
		ChunksPersist:  r.persisted,
		ClaimTiles:     r.tiles,
		ClaimsByResult: make(map[string]uint64, len(r.byOutcome)),
	}
	for k, v := range r.byOutcome {
		out.ClaimsByResult[string(k)] = v
		out.ClaimOps += v
	}
	return out
}
