package scrape

import (
	"time"

	"github.com/go-rod/rod"
)

// scroller abstracts the browser operations of the lazy-load loop so the
// termination logic can be exercised without a browser.
type scroller interface {
	// ScrollToBottom scrolls the page to its current bottom.
	ScrollToBottom() error

	// Pause waits the configured interval between scrolls.
	Pause()

	// ElementCount returns how many post elements are currently rendered.
	ElementCount() int

	// WaitMoreElements blocks (bounded by a timeout) until the element
	// count exceeds last, returning the new count and whether it grew.
	WaitMoreElements(last int) (int, bool)

	// PageHeight returns the current document height.
	PageHeight() float64
}

// scrollToEnd repeatedly scrolls to the bottom to trigger lazy loading.
// An iteration makes progress when the post-element count grows or, failing
// that, when the page height changed. The loop stops after noProgressMax
// consecutive iterations without progress, or after loopLimit iterations
// total. Returns the number of scroll attempts performed.
func scrollToEnd(s scroller, noProgressMax, loopLimit int) int {
	loops := 0
	noProgress := 0
	lastCount := s.ElementCount()
	lastHeight := s.PageHeight()

	for noProgress < noProgressMax && loops < loopLimit {
		loops++
		if err := s.ScrollToBottom(); err != nil {
			break
		}
		s.Pause()

		if n, grew := s.WaitMoreElements(lastCount); grew {
			lastCount = n
			noProgress = 0
			lastHeight = s.PageHeight()
			continue
		}

		if h := s.PageHeight(); h != lastHeight {
			// Height moved even though the count did not; keep going
			// without counting this as a stall.
			lastHeight = h
			continue
		}
		noProgress++
	}

	return loops
}

// rodScroller implements scroller on a live rod page.
type rodScroller struct {
	page     *rod.Page
	selector string
	pause    time.Duration
	timeout  time.Duration
}

func (r *rodScroller) ScrollToBottom() error {
	_, err := r.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

func (r *rodScroller) Pause() {
	time.Sleep(r.pause)
}

func (r *rodScroller) ElementCount() int {
	els, err := r.page.Elements(r.selector)
	if err != nil {
		return 0
	}
	return len(els)
}

func (r *rodScroller) WaitMoreElements(last int) (int, bool) {
	deadline := time.Now().Add(r.timeout)
	for {
		if n := r.ElementCount(); n > last {
			return n, true
		}
		if time.Now().After(deadline) {
			return last, false
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (r *rodScroller) PageHeight() float64 {
	obj, err := r.page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0
	}
	return obj.Value.Num()
}
