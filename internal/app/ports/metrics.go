package ports

type ClaimOutcome string

const (
	ClaimOutcomeClaimed   ClaimOutcome = "claimed"
	ClaimOutcomeUnclaimed ClaimOutcome = "unclaimed"
	ClaimOutcomeRejected  ClaimOutcome = "rejected"
	ClaimOutcomeFounded   ClaimOutcome = "founded"
)

type SpatialMetrics interface {
	RecordChunkLoad(found bool)
	RecordChunkPersist(chunks int)
	RecordClaim(outcome ClaimOutcome, tiles int)
}

// NopMetrics discards every sample.
type NopMetrics struct{}

func (NopMetrics) RecordChunkLoad(bool)          {}
func (NopMetrics) RecordChunkPersist(int)        {}
func (NopMetrics) RecordClaim(ClaimOutcome, int) {}
