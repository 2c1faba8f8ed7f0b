package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/forumsent/forumsent/internal/config"
	"github.com/forumsent/forumsent/internal/fetcher"
	"github.com/forumsent/forumsent/internal/text"
	"github.com/forumsent/forumsent/internal/types"
)

// minFallbackTextLen is the cleaned-text threshold for the last-resort
// block-element matcher.
const minFallbackTextLen = 80

// Keyword sets for the descendant metadata scan.
var (
	authorKeywords  = []string{"author", "user", "name", "by"}
	postedKeywords  = []string{"time", "date", "posted"}
	headingKeywords = []string{"heading", "title"}
)

// MatchStrategy is one step of the post-discovery chain. Strategies are
// tried in order and the first one returning any elements wins; results
// are never merged across strategies.
type MatchStrategy struct {
	Name string
	Find func(doc *goquery.Document) *goquery.Selection
}

// selectorStrategy wraps a plain CSS selector as a MatchStrategy.
func selectorStrategy(selector string) MatchStrategy {
	return MatchStrategy{
		Name: selector,
		Find: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(selector)
		},
	}
}

// DefaultStrategies is the prioritized discovery chain for forum post
// blocks: id/class fragments first, then explicit post-id data attributes,
// then any sizeable block element.
func DefaultStrategies() []MatchStrategy {
	return []MatchStrategy{
		selectorStrategy("div[id*='cmt'], li[id*='cmt'], article[id*='cmt']"),
		selectorStrategy("div[class*='cmt'], li[class*='cmt'], article[class*='cmt']"),
		selectorStrategy("div[id*='comment'], li[id*='comment'], article[id*='comment']"),
		selectorStrategy("div[class*='comment'], li[class*='comment'], article[class*='comment']"),
		selectorStrategy("div[id*='post'], li[id*='post'], article[id*='post']"),
		selectorStrategy("div[class*='post'], li[class*='post'], article[class*='post']"),
		selectorStrategy("[data-post-id], [data-msgid]"),
		{
			Name: "text_length_fallback",
			Find: func(doc *goquery.Document) *goquery.Selection {
				return doc.Find("article, li, div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
					return len(text.Clean(sel.Text())) > minFallbackTextLen
				})
			},
		},
	}
}

// StaticBackend fetches thread pages one at a time over plain HTTP and
// locates post blocks heuristically.
type StaticBackend struct {
	fetcher    *fetcher.HTTPFetcher
	cfg        *config.ScrapeConfig
	strategies []MatchStrategy
	logger     *slog.Logger
}

// NewStaticBackend creates the static HTTP backend.
func NewStaticBackend(cfg *config.Config, logger *slog.Logger) (*StaticBackend, error) {
	httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &StaticBackend{
		fetcher:    httpFetcher,
		cfg:        &cfg.Scrape,
		strategies: DefaultStrategies(),
		logger:     logger.With("component", "static_backend"),
	}, nil
}

func (b *StaticBackend) Type() string { return config.BackendStatic }

// Close releases the underlying HTTP client.
func (b *StaticBackend) Close() error {
	return b.fetcher.Close()
}

// Scrape walks the thread page by page, bounded by max_pages, with a fixed
// delay between successive fetches. Posts collected before a failed fetch
// are returned alongside the error.
func (b *StaticBackend) Scrape(ctx context.Context, startURL string) ([]types.Post, error) {
	var posts []types.Post
	current := startURL

	for page := 0; page < b.cfg.MaxPages; page++ {
		body, err := b.fetcher.Fetch(ctx, current)
		if err != nil {
			return posts, err
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return posts, &types.ParseError{URL: current, Err: err}
		}

		pagePosts := b.ParsePosts(doc, current, startURL)
		posts = append(posts, pagePosts...)
		b.logger.Debug("page parsed", "url", current, "page", page+1, "posts", len(pagePosts))

		next := NextPageURL(doc, current)
		if next == "" {
			break
		}
		current = next

		select {
		case <-time.After(b.cfg.PageDelay):
		case <-ctx.Done():
			return posts, ctx.Err()
		}
	}

	return posts, nil
}

// ParsePosts extracts posts from one page. Deduplication by cleaned text is
// scoped to this page only: identical text on different pages of the same
// thread is kept, and downstream aggregation assumes that.
func (b *StaticBackend) ParsePosts(doc *goquery.Document, pageURL, sourceURL string) []types.Post {
	elements := b.findPostElements(doc)
	if elements == nil {
		return nil
	}

	var posts []types.Post
	seen := make(map[string]struct{})

	elements.Each(func(_ int, sel *goquery.Selection) {
		body := text.Clean(sel.Text())
		if body == "" {
			return
		}
		if _, dup := seen[body]; dup {
			return
		}
		seen[body] = struct{}{}

		posts = append(posts, types.Post{
			SourceURL: sourceURL,
			PageURL:   pageURL,
			PostID:    firstAttr(sel, "id", "data-post-id", "data-msgid"),
			Author:    findFirstText(sel, authorKeywords),
			PostedAt:  findFirstText(sel, postedKeywords),
			Heading:   findFirstText(sel, headingKeywords),
			Text:      body,
		})
	})

	return posts
}

// findPostElements runs the strategy chain; first non-empty result wins.
func (b *StaticBackend) findPostElements(doc *goquery.Document) *goquery.Selection {
	for _, strategy := range b.strategies {
		matches := strategy.Find(doc)
		if matches.Length() > 0 {
			b.logger.Debug("post elements matched", "strategy", strategy.Name, "count", matches.Length())
			return matches
		}
	}
	return nil
}

// firstAttr returns the first non-empty attribute value among names.
func firstAttr(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if val, ok := sel.Attr(name); ok && val != "" {
			return val
		}
	}
	return ""
}

// findFirstText scans descendants for any element whose attribute values
// contain one of the keywords and returns its cleaned text. Returns "" when
// no descendant matches, which simply leaves the field absent.
func findFirstText(el *goquery.Selection, keywords []string) string {
	var found string

	el.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(sel.Nodes) == 0 {
			return true
		}

		var attrs strings.Builder
		for _, a := range sel.Nodes[0].Attr {
			attrs.WriteString(a.Val)
			attrs.WriteByte(' ')
		}
		joined := strings.ToLower(attrs.String())

		for _, kw := range keywords {
			if strings.Contains(joined, kw) {
				if t := text.Clean(sel.Text()); t != "" {
					found = t
					return false
				}
			}
		}
		return true
	})

	return found
}
