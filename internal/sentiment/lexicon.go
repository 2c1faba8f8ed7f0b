package sentiment

import (
	"math"
	"strings"
)

// Market-sentiment word sets for offline scoring.
var positiveWords = map[string]struct{}{
	"buy": {}, "long": {}, "up": {}, "bull": {}, "bullish": {},
	"gain": {}, "gains": {}, "profit": {}, "profits": {}, "green": {},
	"strong": {}, "beat": {}, "beats": {}, "outperform": {}, "great": {},
	"good": {}, "positive": {}, "surge": {}, "rally": {},
}

var negativeWords = map[string]struct{}{
	"sell": {}, "short": {}, "down": {}, "bear": {}, "bearish": {},
	"loss": {}, "losses": {}, "red": {}, "weak": {}, "miss": {},
	"missed": {}, "underperform": {}, "bad": {}, "negative": {},
	"fall": {}, "plunge": {}, "crash": {},
}

// LexiconScorer counts hits against fixed positive/negative word sets.
// It needs no model data and is fully deterministic.
type LexiconScorer struct{}

// NewLexiconScorer creates the fallback lexicon scorer.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

func (l *LexiconScorer) Name() string { return EngineLexicon }

// Score implements Scorer. The compound score is
// (pos_hits - neg_hits) / sqrt(total_tokens).
func (l *LexiconScorer) Score(s string) Score {
	cleaned := reduce(s)
	if cleaned == "" {
		return neutralScore()
	}

	tokens := strings.Fields(strings.ToLower(cleaned))
	total := len(tokens)

	var posHits, negHits int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			posHits++
		} else if _, ok := negativeWords[tok]; ok {
			negHits++
		}
	}

	neuHits := total - posHits - negHits
	if neuHits < 0 {
		neuHits = 0
	}

	compound := float64(posHits-negHits) / math.Sqrt(float64(total))
	return Score{
		Compound: compound,
		Pos:      float64(posHits) / float64(total),
		Neg:      float64(negHits) / float64(total),
		Neu:      float64(neuHits) / float64(total),
		Label:    LabelFromCompound(compound),
	}
}
