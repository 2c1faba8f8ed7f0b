// Package urls resolves the thread URL list from direct arguments, a
// newline-delimited file, or a CSV column.
package urls

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// DefaultCSVColumn is the CSV column holding thread URLs when none is
// specified.
const DefaultCSVColumn = "forum_topics_url"

// Load gathers thread URLs, in order, from direct args, then the URL file,
// then the CSV column. Blank lines and lines starting with '#' are skipped.
func Load(direct []string, urlsFile, urlsCSV, csvColumn string) ([]string, error) {
	urls := append([]string(nil), direct...)

	if urlsFile != "" {
		fromFile, err := loadFile(urlsFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}

	if urlsCSV != "" {
		if csvColumn == "" {
			csvColumn = DefaultCSVColumn
		}
		fromCSV, err := loadCSV(urlsCSV, csvColumn)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromCSV...)
	}

	return urls, nil
}

func loadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URL file %q: %w", path, err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

func loadCSV(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header of %q: %w", path, err)
	}

	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in CSV %q (available: %s)",
			column, path, strings.Join(header, ", "))
	}

	var urls []string
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if col >= len(record) {
			continue
		}
		url := strings.TrimSpace(record[col])
		if url == "" || strings.HasPrefix(url, "#") {
			continue
		}
		urls = append(urls, url)
	}
	return urls, nil
}
