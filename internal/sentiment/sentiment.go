// Package sentiment scores forum text and maps it to a discrete label.
//
// Two interchangeable scorers are provided: a VADER model and a small
// market-term lexicon for offline use. Callers hold the Scorer interface
// and never branch on which one is active.
package sentiment

import (
	"fmt"
	"strings"

	"github.com/forumsent/forumsent/internal/text"
)

// Label values derived from the compound score.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Engine identifiers accepted by New.
const (
	EngineVader   = "vader"
	EngineLexicon = "lexicon"
)

// Score is the result of scoring one text.
type Score struct {
	Compound float64
	Pos      float64
	Neg      float64
	Neu      float64
	Label    string
}

// Scorer scores a raw text. Implementations must be deterministic for
// empty input: compound 0, neu 1, label neutral.
type Scorer interface {
	Score(s string) Score
	Name() string
}

// New returns the scorer for the given engine name.
func New(engine string) (Scorer, error) {
	switch engine {
	case EngineVader, "":
		return NewVaderScorer(), nil
	case EngineLexicon:
		return NewLexiconScorer(), nil
	default:
		return nil, fmt.Errorf("unknown sentiment engine %q", engine)
	}
}

// LabelFromCompound applies the fixed label thresholds.
func LabelFromCompound(compound float64) string {
	switch {
	case compound >= 0.05:
		return LabelPositive
	case compound <= -0.05:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// reduce rewrites s as a space-joined sequence of word-like tokens.
// Empty output means there is nothing to score.
func reduce(s string) string {
	return strings.Join(text.Tokens(s), " ")
}

func neutralScore() Score {
	return Score{Compound: 0, Pos: 0, Neg: 0, Neu: 1, Label: LabelNeutral}
}
