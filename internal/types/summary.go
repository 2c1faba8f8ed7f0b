package types

// SourceSummary aggregates sentiment over all enriched posts that share a
// source URL. Groups with zero posts are never emitted, so Posts >= 1 and
// the three ratios sum to 1.0 within floating-point tolerance.
type SourceSummary struct {
	SourceURL     string  `json:"source_url"`
	Posts         int     `json:"posts"`
	AvgCompound   float64 `json:"avg_compound"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
}
