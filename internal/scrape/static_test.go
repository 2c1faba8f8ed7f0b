package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/forumsent/forumsent/internal/config"
	"github.com/forumsent/forumsent/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestStaticBackend(t *testing.T) *StaticBackend {
	t.Helper()
	b, err := NewStaticBackend(config.DefaultConfig(), testLogger)
	if err != nil {
		t.Fatalf("NewStaticBackend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func makeDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse HTML: %v", err)
	}
	return doc
}

const forumPageHTML = `<!DOCTYPE html>
<html><body>
<div class="cmt_block" id="cmt-101">
  <span class="user_nick">alice</span>
  <span class="post_date">2024-01-02 10:00</span>
  <p>Stock looks strong, buying more on every dip.</p>
</div>
<div class="cmt_block" id="cmt-102">
  <span class="user_nick">bob</span>
  <p>Results were weak, I am selling my position.</p>
</div>
<div class="cmt_block" id="cmt-103">
  <p>Waiting for the quarterly numbers before deciding.</p>
</div>
<div class="cmt_block" id="cmt-104">
  <span class="user_nick">alice</span>
  <span class="post_date">2024-01-02 10:00</span>
  <p>Stock looks strong, buying more on every dip.</p>
</div>
</body></html>`

func TestStaticParsePostsDedupsByText(t *testing.T) {
	b := newTestStaticBackend(t)
	doc := makeDoc(t, forumPageHTML)

	posts := b.ParsePosts(doc, "https://example.com/thread-1?page=1", "https://example.com/thread-1")

	// cmt-104 duplicates cmt-101's text and must be dropped.
	if len(posts) != 3 {
		t.Fatalf("expected 3 unique posts, got %d", len(posts))
	}

	if posts[0].PostID != "cmt-101" {
		t.Errorf("post_id = %q, want cmt-101", posts[0].PostID)
	}
	if posts[0].SourceURL != "https://example.com/thread-1" {
		t.Errorf("source_url = %q", posts[0].SourceURL)
	}
	if posts[0].PageURL != "https://example.com/thread-1?page=1" {
		t.Errorf("page_url = %q", posts[0].PageURL)
	}
}

func TestStaticMetadataScan(t *testing.T) {
	b := newTestStaticBackend(t)
	doc := makeDoc(t, forumPageHTML)

	posts := b.ParsePosts(doc, "https://example.com/t", "https://example.com/t")
	if len(posts) == 0 {
		t.Fatal("no posts parsed")
	}

	if posts[0].Author != "alice" {
		t.Errorf("author = %q, want alice (matched via class keyword)", posts[0].Author)
	}
	if posts[0].PostedAt != "2024-01-02 10:00" {
		t.Errorf("posted_at = %q", posts[0].PostedAt)
	}
	// Third post has no metadata descendants at all.
	if posts[2].Author != "" || posts[2].PostedAt != "" {
		t.Errorf("expected absent metadata, got author=%q posted_at=%q", posts[2].Author, posts[2].PostedAt)
	}
}

func TestStaticStrategyPriority(t *testing.T) {
	// Both a cmt-id element and a comment-class element exist; the chain
	// must stop at the first matching pattern and never merge.
	html := `<html><body>
	<div id="cmt_1"><p>First strategy element with some text in it.</p></div>
	<div class="comment"><p>Should not be selected when cmt ids match.</p></div>
	</body></html>`

	b := newTestStaticBackend(t)
	posts := b.ParsePosts(makeDoc(t, html), "u", "u")

	if len(posts) != 1 {
		t.Fatalf("expected 1 post from first strategy only, got %d", len(posts))
	}
	if !strings.Contains(posts[0].Text, "First strategy") {
		t.Errorf("wrong element selected: %q", posts[0].Text)
	}
}

func TestStaticTextLengthFallback(t *testing.T) {
	long := strings.Repeat("lengthy forum discussion text ", 4) // > 80 chars
	html := `<html><body>
	<div><p>` + long + `</p></div>
	<div><p>short</p></div>
	</body></html>`

	b := newTestStaticBackend(t)
	posts := b.ParsePosts(makeDoc(t, html), "u", "u")

	if len(posts) == 0 {
		t.Fatal("fallback matched nothing")
	}
	for _, p := range posts {
		if len(p.Text) <= minFallbackTextLen {
			t.Errorf("fallback accepted short text: %q", p.Text)
		}
	}
}

func TestStaticNoMatchNoPosts(t *testing.T) {
	b := newTestStaticBackend(t)
	posts := b.ParsePosts(makeDoc(t, `<html><body><p>tiny</p></body></html>`), "u", "u")
	if len(posts) != 0 {
		t.Errorf("expected no posts, got %d", len(posts))
	}
}

func TestStaticScrapeFollowsNextLinks(t *testing.T) {
	fetches := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/thread-1", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprint(w, `<html><body>
		<div class="cmt"><p>Post on page one with enough words.</p></div>
		<a rel="next" href="/thread-1/page-2">Next</a>
		</body></html>`)
	})
	mux.HandleFunc("/thread-1/page-2", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprint(w, `<html><body>
		<div class="cmt"><p>Post on page two with enough words.</p></div>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Scrape.PageDelay = 0
	b, err := NewStaticBackend(cfg, testLogger)
	if err != nil {
		t.Fatalf("NewStaticBackend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	posts, err := b.Scrape(context.Background(), srv.URL+"/thread-1")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
	if len(posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(posts))
	}
	for _, p := range posts {
		if p.SourceURL != srv.URL+"/thread-1" {
			t.Errorf("source_url = %q", p.SourceURL)
		}
	}
	if posts[1].PageURL != srv.URL+"/thread-1/page-2" {
		t.Errorf("page 2 post has page_url %q", posts[1].PageURL)
	}
}

func TestStaticScrapeMaxPagesCap(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		// Every page links onward forever.
		fmt.Fprintf(w, `<html><body>
		<div class="cmt"><p>Endless page %d with yet another pile of words.</p></div>
		<a rel="next" href="/page-%d">Next</a>
		</body></html>`, fetches, fetches+1)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Scrape.PageDelay = 0
	cfg.Scrape.MaxPages = 2
	b, err := NewStaticBackend(cfg, testLogger)
	if err != nil {
		t.Fatalf("NewStaticBackend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	posts, err := b.Scrape(context.Background(), srv.URL+"/page-1")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want max_pages cap of 2", fetches)
	}
	if len(posts) != 2 {
		t.Errorf("posts = %d, want 2", len(posts))
	}
}

func TestStaticScrapeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	b := newTestStaticBackend(t)
	_, err := b.Scrape(context.Background(), srv.URL+"/thread-1")

	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", fetchErr.StatusCode)
	}
}
