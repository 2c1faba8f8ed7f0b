// Package storage writes the run's flat-file outputs: the post-level CSV
// table and the per-thread summary JSON document.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/forumsent/forumsent/internal/types"
)

// Writer persists one run's outputs.
type Writer struct {
	postsPath   string
	summaryPath string
	logger      *slog.Logger
}

// NewWriter creates a Writer targeting the two output paths.
func NewWriter(postsPath, summaryPath string, logger *slog.Logger) *Writer {
	return &Writer{
		postsPath:   postsPath,
		summaryPath: summaryPath,
		logger:      logger.With("component", "storage"),
	}
}

// WritePosts writes one CSV row per enriched post in the fixed column
// order. With zero posts an empty file is still produced, without a header.
func (w *Writer) WritePosts(posts []types.EnrichedPost) error {
	f, err := createFile(w.postsPath)
	if err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}
	defer f.Close()

	if len(posts) == 0 {
		w.logger.Info("CSV written", "path", w.postsPath, "posts", 0)
		return nil
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(types.PostColumns); err != nil {
		return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write header: %w", err)}
	}

	for _, p := range posts {
		row := []string{
			p.SourceURL,
			p.PageURL,
			p.PostID,
			p.Author,
			p.PostedAt,
			p.Heading,
			p.Text,
			formatFloat(p.SentimentCompound),
			p.SentimentLabel,
			formatFloat(p.SentimentPos),
			formatFloat(p.SentimentNeg),
			formatFloat(p.SentimentNeu),
		}
		if err := writer.Write(row); err != nil {
			return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write row: %w", err)}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}

	w.logger.Info("CSV written", "path", w.postsPath, "posts", len(posts))
	return nil
}

// WriteSummary writes the per-thread summaries as an indented JSON array.
func (w *Writer) WriteSummary(summaries []types.SourceSummary) error {
	f, err := createFile(w.summaryPath)
	if err != nil {
		return &types.StorageError{Backend: "json", Err: err}
	}
	defer f.Close()

	if summaries == nil {
		summaries = []types.SourceSummary{}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("encode JSON: %w", err)}
	}

	w.logger.Info("summary written", "path", w.summaryPath, "threads", len(summaries))
	return nil
}

// createFile creates path, making parent directories as needed.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.Create(path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
