package ranking

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one ranked journal from the SCImago export.
type Record struct {
	Title      string
	Quartile   string
	Categories string
}

// Table is an in-memory lookup from normalized journal title to its ranking
// record. It is built once per cycle and read-only afterward.
type Table struct {
	records map[string]Record
}

// Normalize produces the lookup key for a journal title. Source adapters and
// the quality filter must use the same normalization.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Load reads a semicolon-delimited SCImago CSV from disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ranking dataset: %w", err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// Parse builds a Table from semicolon-delimited rows with at least
// {Title, SJR Quartile, Categories} columns.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleIdx, quartileIdx, categoriesIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Title":
			titleIdx = i
		case "SJR Quartile", "SJR Best Quartile":
			quartileIdx = i
		case "Categories":
			categoriesIdx = i
		}
	}
	if titleIdx < 0 || quartileIdx < 0 || categoriesIdx < 0 {
		return nil, fmt.Errorf("missing required columns, got %v", header)
	}

	records := make(map[string]Record)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) <= titleIdx || len(row) <= quartileIdx || len(row) <= categoriesIdx {
			continue
		}

		title := strings.TrimSpace(row[titleIdx])
		if title == "" {
			continue
		}

		records[Normalize(title)] = Record{
			Title:      title,
			Quartile:   strings.TrimSpace(row[quartileIdx]),
			Categories: row[categoriesIdx],
		}
	}

	return &Table{records: records}, nil
}

// Lookup returns the record for a journal title, normalizing it first.
func (t *Table) Lookup(journal string) (Record, bool) {
	rec, ok := t.records[Normalize(journal)]
	return rec, ok
}

// Len reports how many journals are loaded.
func (t *Table) Len() int {
	return len(t.records)
}
