package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/forumsent/forumsent/internal/config"
	"github.com/forumsent/forumsent/internal/text"
	"github.com/forumsent/forumsent/internal/types"
)

// Fixed selectors for the React-rendered post list. Heading and body nodes
// are paired positionally by index.
const (
	postTextSelector    = "div.postItem_text_paragraph__3XhZQ"
	postHeadingSelector = "div.postItem_heading__2odZU"
)

// DynamicBackend renders thread pages in a headless browser so that
// lazy-loaded posts become visible, then extracts them with the fixed
// selectors above. Pagination reuses the same next-link detection as the
// static backend.
type DynamicBackend struct {
	browser *rod.Browser
	cfg     *config.Config
	logger  *slog.Logger
}

// NewDynamicBackend launches a headless Chromium and connects to it.
func NewDynamicBackend(cfg *config.Config, logger *slog.Logger) (*DynamicBackend, error) {
	l := launcher.New().
		Headless(cfg.Browser.Headless).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	b := &DynamicBackend{
		browser: browser,
		cfg:     cfg,
		logger:  logger.With("component", "dynamic_backend"),
	}

	b.logger.Info("browser ready",
		"headless", cfg.Browser.Headless,
		"stealth", cfg.Browser.Stealth,
	)
	return b, nil
}

func (b *DynamicBackend) Type() string { return config.BackendDynamic }

// Close shuts down the browser. Errors are reported but the pipeline
// swallows them.
func (b *DynamicBackend) Close() error {
	if b.browser != nil {
		return b.browser.Close()
	}
	return nil
}

// Scrape renders the thread page by page, scrolling each page to the bottom
// until its content stabilizes.
func (b *DynamicBackend) Scrape(ctx context.Context, startURL string) ([]types.Post, error) {
	var posts []types.Post
	current := startURL

	for page := 0; page < b.cfg.Scrape.MaxPages; page++ {
		html, err := b.renderPage(ctx, current)
		if err != nil {
			return posts, err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return posts, &types.ParseError{URL: current, Err: err}
		}

		pagePosts := ParseRenderedPosts(doc, current, startURL)
		posts = append(posts, pagePosts...)
		b.logger.Debug("page rendered", "url", current, "page", page+1, "posts", len(pagePosts))

		next := NextPageURL(doc, current)
		if next == "" {
			break
		}
		current = next

		select {
		case <-time.After(b.cfg.Scrape.PageDelay):
		case <-ctx.Done():
			return posts, ctx.Err()
		}
	}

	return posts, nil
}

// renderPage navigates to rawURL, waits for post content, scrolls until
// lazy loading stops producing new content, and returns the final HTML.
func (b *DynamicBackend) renderPage(ctx context.Context, rawURL string) (string, error) {
	page, err := b.newPage()
	if err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}
	defer page.Close()

	page = page.Context(ctx)
	timeout := b.cfg.Scrape.RequestTimeout

	if err := page.Timeout(timeout).Navigate(rawURL); err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	if _, err := page.Timeout(timeout).Element(b.cfg.Browser.WaitSelector); err != nil {
		return "", &types.FetchError{URL: rawURL, Err: fmt.Errorf("wait for %q: %w", b.cfg.Browser.WaitSelector, err), Retryable: true}
	}

	loops := scrollToEnd(&rodScroller{
		page:     page,
		selector: b.cfg.Browser.WaitSelector,
		pause:    b.cfg.Browser.ScrollPause,
		timeout:  b.cfg.Browser.ScrollPause * 3,
	}, b.cfg.Browser.ScrollMax, b.cfg.Browser.ScrollLimit)
	b.logger.Debug("scrolling done", "url", rawURL, "attempts", loops)

	html, err := page.HTML()
	if err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}
	return html, nil
}

// newPage creates a browser page, with stealth patches when configured.
func (b *DynamicBackend) newPage() (*rod.Page, error) {
	if b.cfg.Browser.Stealth {
		return stealth.Page(b.browser)
	}
	return b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// ParseRenderedPosts pairs heading and body nodes by index. A post is
// emitted for every index where at least one of the two is non-empty.
// PostID, author, and timestamp are not present in the rendered markup.
func ParseRenderedPosts(doc *goquery.Document, pageURL, sourceURL string) []types.Post {
	headings := doc.Find(postHeadingSelector)
	bodies := doc.Find(postTextSelector)

	count := headings.Length()
	if bodies.Length() > count {
		count = bodies.Length()
	}

	var posts []types.Post
	for i := 0; i < count; i++ {
		var heading, body string
		if i < headings.Length() {
			heading = text.Clean(headings.Eq(i).Text())
		}
		if i < bodies.Length() {
			body = text.Clean(bodies.Eq(i).Text())
		}
		if heading == "" && body == "" {
			continue
		}

		posts = append(posts, types.Post{
			SourceURL: sourceURL,
			PageURL:   pageURL,
			Heading:   heading,
			Text:      body,
		})
	}

	return posts
}
