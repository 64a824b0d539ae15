package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Input loading errors.
var (
	// ErrNoColumn indicates the requested column is absent from the file.
	ErrNoColumn = errors.New("column not found")
	// ErrEmptySeries indicates the file yielded no numeric observations.
	ErrEmptySeries = errors.New("no numeric observations in input")
)

// LoadSeries reads a scalar series from a CSV file (or stdin when path is
// "-"). The column selector is a header name or a zero-based index; empty
// selects the first column. A non-numeric first row is treated as a
// header.
func LoadSeries(path, column string) (string, []float64, error) {
	reader, name, closer, err := openInput(path)
	if err != nil {
		return "", nil, err
	}
	defer closer()

	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return "", nil, ErrEmptySeries
	}

	col, records, err := resolveColumn(records, column)
	if err != nil {
		return "", nil, err
	}

	values := make([]float64, 0, len(records))

	for _, record := range records {
		if col >= len(record) {
			continue
		}

		v, parseErr := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if parseErr != nil {
			continue
		}

		values = append(values, v)
	}

	if len(values) == 0 {
		return "", nil, ErrEmptySeries
	}

	return name, values, nil
}

func openInput(path string) (io.Reader, string, func(), error) {
	if path == "-" {
		return os.Stdin, "stdin", func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open input: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return f, name, func() { _ = f.Close() }, nil
}

// resolveColumn maps the selector to a column index and strips the header
// row when one is present.
func resolveColumn(records [][]string, column string) (int, [][]string, error) {
	header := records[0]
	hasHeader := !isNumericRow(header)

	if column == "" {
		if hasHeader {
			return 0, records[1:], nil
		}

		return 0, records, nil
	}

	if idx, err := strconv.Atoi(column); err == nil {
		if idx < 0 || idx >= len(header) {
			return 0, nil, fmt.Errorf("%w: index %d out of range", ErrNoColumn, idx)
		}

		if hasHeader {
			return idx, records[1:], nil
		}

		return idx, records, nil
	}

	if !hasHeader {
		return 0, nil, fmt.Errorf("%w: %q (input has no header row)", ErrNoColumn, column)
	}

	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			return i, records[1:], nil
		}
	}

	return 0, nil, fmt.Errorf("%w: %q", ErrNoColumn, column)
}

func isNumericRow(row []string) bool {
	for _, cell := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
	}

	return len(row) > 0
}
