// Package pipeline drives one backend over a list of thread URLs, scores
// every extracted post, and aggregates per-thread sentiment.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/forumsent/forumsent/internal/scrape"
	"github.com/forumsent/forumsent/internal/sentiment"
	"github.com/forumsent/forumsent/internal/types"
)

// Result holds everything one run produced.
type Result struct {
	Posts      []types.EnrichedPost
	Summaries  []types.SourceSummary
	FailedURLs []string
}

// Pipeline processes thread URLs strictly sequentially: one URL is fully
// fetched, extracted, and scored before the next begins.
type Pipeline struct {
	backend scrape.Backend
	scorer  sentiment.Scorer
	logger  *slog.Logger
}

// New creates a Pipeline over the given backend and scorer.
func New(backend scrape.Backend, scorer sentiment.Scorer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		backend: backend,
		scorer:  scorer,
		logger:  logger.With("component", "pipeline"),
	}
}

// Run processes every URL. A failure on one URL is recorded and the run
// continues with the next; posts collected before the failure are kept.
// Backend cleanup is always attempted and its error swallowed.
func (p *Pipeline) Run(ctx context.Context, urls []string) *Result {
	defer func() {
		if err := p.backend.Close(); err != nil {
			p.logger.Debug("backend close failed", "error", err)
		}
	}()

	result := &Result{}

	for i, url := range urls {
		p.logger.Info("processing thread", "index", i+1, "total", len(urls), "url", url)

		posts, err := p.backend.Scrape(ctx, url)
		for _, post := range posts {
			result.Posts = append(result.Posts, p.enrich(post))
		}

		if err != nil {
			p.logger.Warn("thread failed", "url", url, "error", err)
			result.FailedURLs = append(result.FailedURLs, url)
			continue
		}
		p.logger.Info("thread done", "url", url, "posts", len(posts))
	}

	result.Summaries = Aggregate(result.Posts)
	return result
}

// enrich scores one post.
func (p *Pipeline) enrich(post types.Post) types.EnrichedPost {
	score := p.scorer.Score(post.Content())
	return types.EnrichedPost{
		Post:              post,
		SentimentCompound: score.Compound,
		SentimentLabel:    score.Label,
		SentimentPos:      score.Pos,
		SentimentNeg:      score.Neg,
		SentimentNeu:      score.Neu,
	}
}

// Aggregate groups enriched posts by source URL and computes one summary
// per group, in first-seen order. Groups with zero posts never exist, so
// every summary has Posts >= 1 and label ratios that sum to 1.
func Aggregate(posts []types.EnrichedPost) []types.SourceSummary {
	groups := make(map[string][]types.EnrichedPost)
	var order []string

	for _, post := range posts {
		if _, seen := groups[post.SourceURL]; !seen {
			order = append(order, post.SourceURL)
		}
		groups[post.SourceURL] = append(groups[post.SourceURL], post)
	}

	summaries := make([]types.SourceSummary, 0, len(order))
	for _, url := range order {
		group := groups[url]
		count := len(group)

		var sum float64
		var pos, neg int
		for _, p := range group {
			sum += p.SentimentCompound
			switch p.SentimentLabel {
			case sentiment.LabelPositive:
				pos++
			case sentiment.LabelNegative:
				neg++
			}
		}
		neutral := count - pos - neg

		summaries = append(summaries, types.SourceSummary{
			SourceURL:     url,
			Posts:         count,
			AvgCompound:   sum / float64(count),
			PositiveRatio: float64(pos) / float64(count),
			NegativeRatio: float64(neg) / float64(count),
			NeutralRatio:  float64(neutral) / float64(count),
		})
	}

	return summaries
}
