package storage

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/forumsent/forumsent/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestWriter(t *testing.T) (*Writer, string, string) {
	t.Helper()
	dir := t.TempDir()
	postsPath := filepath.Join(dir, "out", "posts.csv")
	summaryPath := filepath.Join(dir, "out", "summary.json")
	return NewWriter(postsPath, summaryPath, testLogger), postsPath, summaryPath
}

func TestWritePosts(t *testing.T) {
	w, postsPath, _ := newTestWriter(t)

	posts := []types.EnrichedPost{
		{
			Post: types.Post{
				SourceURL: "https://example.com/t1",
				PageURL:   "https://example.com/t1?page=1",
				PostID:    "cmt-1",
				Author:    "alice",
				PostedAt:  "2024-01-02",
				Heading:   "strong quarter",
				Text:      "buying more",
			},
			SentimentCompound: 0.42,
			SentimentLabel:    "positive",
			SentimentPos:      0.5,
			SentimentNeu:      0.5,
		},
		{
			Post:           types.Post{SourceURL: "https://example.com/t1", PageURL: "https://example.com/t1", Text: "meh"},
			SentimentLabel: "neutral",
			SentimentNeu:   1,
		},
	}

	if err := w.WritePosts(posts); err != nil {
		t.Fatalf("WritePosts: %v", err)
	}

	f, err := os.Open(postsPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	header := rows[0]
	if len(header) != len(types.PostColumns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(types.PostColumns))
	}
	for i, col := range types.PostColumns {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}

	if rows[1][3] != "alice" || rows[1][8] != "positive" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[1][7] != "0.42" {
		t.Errorf("compound column = %q, want 0.42", rows[1][7])
	}
}

func TestWritePostsEmptyFile(t *testing.T) {
	w, postsPath, _ := newTestWriter(t)

	if err := w.WritePosts(nil); err != nil {
		t.Fatalf("WritePosts: %v", err)
	}

	info, err := os.Stat(postsPath)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestWriteSummary(t *testing.T) {
	w, _, summaryPath := newTestWriter(t)

	summaries := []types.SourceSummary{
		{
			SourceURL:     "https://example.com/t1",
			Posts:         10,
			AvgCompound:   0.12,
			PositiveRatio: 0.6,
			NegativeRatio: 0.2,
			NeutralRatio:  0.2,
		},
	}

	if err := w.WriteSummary(summaries); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var decoded []types.SourceSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != summaries[0] {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSummaryEmptyIsArray(t *testing.T) {
	w, _, summaryPath := newTestWriter(t)

	if err := w.WriteSummary(nil); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var decoded []types.SourceSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Errorf("expected empty array, got %v", decoded)
	}
}
