package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const ChurnColumn = "Churn"

var ErrNoChurnColumn = errors.New("dataset has no Churn column")

// Frame is a numeric, column-oriented view of the churn dataset. Every column
// has one value per row.
type Frame struct {
	Columns []string
	Values  map[string][]float64
	Skipped int
}

func (f *Frame) Len() int {
	return len(f.Values[ChurnColumn])
}

func (f *Frame) Has(col string) bool {
	_, ok := f.Values[col]
	return ok
}

func LoadFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read parses a CSV with a header row. Columns with any non-numeric value
// are dropped; rows with an empty or unparsable numeric cell are skipped.
func Read(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ReplaceAll(headers[i], "\ufeff", ""))
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		records = append(records, rec)
	}

	numeric := make([]bool, len(headers))
	for i := range headers {
		numeric[i] = len(records) == 0 || isNumericColumn(records, i)
	}

	frame := &Frame{Values: map[string][]float64{}}
	for i, h := range headers {
		if numeric[i] && h != "" {
			frame.Columns = append(frame.Columns, h)
			frame.Values[h] = nil
		}
	}
	if !frame.Has(ChurnColumn) {
		return nil, ErrNoChurnColumn
	}

rows:
	for _, rec := range records {
		row := make([]float64, len(headers))
		for i, h := range headers {
			if !numeric[i] || h == "" {
				continue
			}
			if i >= len(rec) {
				frame.Skipped++
				continue rows
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				frame.Skipped++
				continue rows
			}
			row[i] = v
		}
		for i, h := range headers {
			if numeric[i] && h != "" {
				frame.Values[h] = append(frame.Values[h], row[i])
			}
		}
	}
	return frame, nil
}

// isNumericColumn reports whether every non-empty cell of the column parses
// as a number.
func isNumericColumn(records [][]string, col int) bool {
	seen := false
	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[col])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
