package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Common next-page glyphs used by forum pagers.
var nextGlyphs = map[string]bool{
	">": true, "›": true, "»": true,
}

// NextPageURL finds the next-page link in doc and resolves it against
// currentURL. An anchor with rel containing "next" wins; otherwise any
// anchor whose label, class, or aria-label contains "next" (or whose label
// is a bare pager glyph) is used. Returns "" when there is no next page.
func NextPageURL(doc *goquery.Document, currentURL string) string {
	base, err := url.Parse(currentURL)
	if err != nil {
		return ""
	}

	var found string

	doc.Find("a[rel]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rel, _ := sel.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "next") {
			return true
		}
		if href, ok := sel.Attr("href"); ok && href != "" {
			found = href
			return false
		}
		return true
	})

	if found == "" {
		doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			label := strings.ToLower(strings.TrimSpace(sel.Text()))
			class, _ := sel.Attr("class")
			aria, _ := sel.Attr("aria-label")

			if strings.Contains(label, "next") ||
				strings.Contains(strings.ToLower(class), "next") ||
				strings.Contains(strings.ToLower(aria), "next") ||
				nextGlyphs[label] {
				if href, ok := sel.Attr("href"); ok && href != "" {
					found = href
					return false
				}
			}
			return true
		})
	}

	if found == "" {
		return ""
	}

	ref, err := url.Parse(found)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
