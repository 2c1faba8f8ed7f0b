package scrape

import (
	"testing"
)

// fakeScroller scripts a lazy-load sequence: counts[i] is the rendered
// element count after i scroll attempts (counts[0] is the initial count),
// and heights follows the same indexing. Past the end of a slice the last
// value repeats.
type fakeScroller struct {
	counts  []int
	heights []float64
	scrolls int
}

func (f *fakeScroller) ScrollToBottom() error {
	f.scrolls++
	return nil
}

func (f *fakeScroller) Pause() {}

func (f *fakeScroller) ElementCount() int {
	if len(f.counts) == 0 {
		return 0
	}
	i := f.scrolls
	if i >= len(f.counts) {
		i = len(f.counts) - 1
	}
	return f.counts[i]
}

func (f *fakeScroller) WaitMoreElements(last int) (int, bool) {
	n := f.ElementCount()
	return n, n > last
}

func (f *fakeScroller) PageHeight() float64 {
	if len(f.heights) == 0 {
		return 100
	}
	i := f.scrolls
	if i >= len(f.heights) {
		i = len(f.heights) - 1
	}
	return f.heights[i]
}

func TestScrollStopsAfterConsecutiveNoProgress(t *testing.T) {
	// Content grows on the first two scrolls, then stalls. With a
	// no-progress limit of 3 the loop must make exactly 2+3=5 attempts.
	s := &fakeScroller{counts: []int{10, 20, 30}}

	loops := scrollToEnd(s, 3, 20)

	if loops != 5 {
		t.Errorf("scroll attempts = %d, want 5", loops)
	}
	if s.scrolls != 5 {
		t.Errorf("scroller saw %d scrolls, want 5", s.scrolls)
	}
}

func TestScrollHardIterationCap(t *testing.T) {
	// Content grows on every scroll; the hard cap must end the loop.
	counts := make([]int, 100)
	for i := range counts {
		counts[i] = i * 10
	}
	s := &fakeScroller{counts: counts}

	loops := scrollToEnd(s, 3, 7)

	if loops != 7 {
		t.Errorf("scroll attempts = %d, want hard cap 7", loops)
	}
}

func TestScrollHeightChangeIsNotAStall(t *testing.T) {
	// Element count never grows, but the page height moves for the first
	// two scrolls. Those iterations must not count toward the stall limit.
	s := &fakeScroller{
		counts:  []int{10},
		heights: []float64{100, 200, 300},
	}

	loops := scrollToEnd(s, 2, 20)

	// Scrolls 1-2 change height, then 2 stalls reach the limit.
	if loops != 4 {
		t.Errorf("scroll attempts = %d, want 4", loops)
	}
}

func TestScrollNoContent(t *testing.T) {
	s := &fakeScroller{counts: []int{0}}
	loops := scrollToEnd(s, 2, 20)
	if loops != 2 {
		t.Errorf("scroll attempts = %d, want 2", loops)
	}
}
