package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadSeries(t *testing.T) {
	t.Parallel()

	t.Run("headerless_first_column", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "plain.csv", "1.5\n2.5\n3.5\n")

		name, values, err := LoadSeries(path, "")
		require.NoError(t, err)

		assert.Equal(t, "plain", name)
		assert.Equal(t, []float64{1.5, 2.5, 3.5}, values)
	})

	t.Run("column_by_header_name", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "metrics.csv", "time,cpu,mem\n0,0.1,50\n1,0.2,60\n2,0.3,70\n")

		name, values, err := LoadSeries(path, "cpu")
		require.NoError(t, err)

		assert.Equal(t, "metrics", name)
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, values)
	})

	t.Run("header_name_case_insensitive", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "metrics.csv", "Time,CPU\n0,1\n1,2\n")

		_, values, err := LoadSeries(path, "cpu")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, values)
	})

	t.Run("column_by_index", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "pairs.csv", "1,10\n2,20\n3,30\n")

		_, values, err := LoadSeries(path, "1")
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 20, 30}, values)
	})

	t.Run("header_skipped_with_index_selector", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "tagged.csv", "a,b\n1,10\n2,20\n")

		_, values, err := LoadSeries(path, "1")
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 20}, values)
	})

	t.Run("unparsable_cells_skipped", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "holes.csv", "value\n1\nn/a\n3\n")

		_, values, err := LoadSeries(path, "value")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3}, values)
	})

	t.Run("unknown_column_name", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "metrics.csv", "time,cpu\n0,1\n")

		_, _, err := LoadSeries(path, "disk")
		require.ErrorIs(t, err, ErrNoColumn)
	})

	t.Run("index_out_of_range", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "narrow.csv", "1\n2\n")

		_, _, err := LoadSeries(path, "3")
		require.ErrorIs(t, err, ErrNoColumn)
	})

	t.Run("name_selector_without_header", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "plain.csv", "1\n2\n3\n")

		_, _, err := LoadSeries(path, "cpu")
		require.ErrorIs(t, err, ErrNoColumn)
	})

	t.Run("empty_file", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "empty.csv", "")

		_, _, err := LoadSeries(path, "")
		require.ErrorIs(t, err, ErrEmptySeries)
	})

	t.Run("header_only", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, "headeronly.csv", "value\n")

		_, _, err := LoadSeries(path, "")
		require.ErrorIs(t, err, ErrEmptySeries)
	})

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()

		_, _, err := LoadSeries(filepath.Join(t.TempDir(), "absent.csv"), "")
		require.Error(t, err)
	})
}
