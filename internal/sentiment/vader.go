package sentiment

import (
	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the VADER valence model.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a VADER-backed scorer.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Name() string { return EngineVader }

// Score implements Scorer.
func (v *VaderScorer) Score(s string) Score {
	cleaned := reduce(s)
	if cleaned == "" {
		return neutralScore()
	}

	polarity := v.analyzer.PolarityScores(cleaned)
	return Score{
		Compound: polarity.Compound,
		Pos:      polarity.Positive,
		Neg:      polarity.Negative,
		Neu:      polarity.Neutral,
		Label:    LabelFromCompound(polarity.Compound),
	}
}
