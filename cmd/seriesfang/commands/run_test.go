package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seriesfang/internal/config"
	"github.com/Sumatoshi-tech/seriesfang/pkg/features"
	"github.com/Sumatoshi-tech/seriesfang/pkg/report"
)

func testDocument() *report.Document {
	return report.NewDocument("test", 10, "", map[string]features.Report{
		"general": {"length": 10, "binmean_rate": 0.5},
	})
}

func TestSelectFlags(t *testing.T) {
	t.Parallel()

	t.Run("cli_wins", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{extractors: []string{"embed"}}
		cfg := &config.Config{Extractors: []string{"general"}}

		assert.Equal(t, []string{"embed"}, rc.selectFlags(cfg))
	})

	t.Run("config_second", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{}
		cfg := &config.Config{Extractors: []string{"general", "model"}}

		assert.Equal(t, []string{"general", "model"}, rc.selectFlags(cfg))
	})

	t.Run("registry_fallback", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{}

		assert.Equal(t, features.Flags(), rc.selectFlags(&config.Config{}))
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("json_to_stdout", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{format: formatJSON}

		var buf bytes.Buffer

		require.NoError(t, rc.write(testDocument(), &buf))

		decoded, err := report.DecodeJSON(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "test", decoded.Series.Name)
	})

	t.Run("yaml_to_stdout", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{format: formatYAML}

		var buf bytes.Buffer

		require.NoError(t, rc.write(testDocument(), &buf))
		assert.Contains(t, buf.String(), "name: test")
	})

	t.Run("table_to_stdout", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{format: formatTable, noColor: true}

		var buf bytes.Buffer

		require.NoError(t, rc.write(testDocument(), &buf))
		assert.Contains(t, buf.String(), "binmean_rate")
	})

	t.Run("output_file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.json")
		rc := &RunCommand{format: formatJSON, outputPath: path}

		var buf bytes.Buffer

		require.NoError(t, rc.write(testDocument(), &buf))
		assert.Empty(t, buf.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, report.ValidateJSON(data))
	})

	t.Run("unknown_format", func(t *testing.T) {
		t.Parallel()

		rc := &RunCommand{format: "xml"}

		err := rc.write(testDocument(), &bytes.Buffer{})
		require.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestRunRender(t *testing.T) {
	t.Parallel()

	t.Run("round_trip", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		reportPath := filepath.Join(dir, "report.json")
		htmlPath := filepath.Join(dir, "report.html")

		data, err := testDocument().EncodeJSON()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(reportPath, data, 0o644))

		require.NoError(t, runRender(reportPath, htmlPath))

		html, err := os.ReadFile(htmlPath)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(html), "seriesfang: test"))
	})

	t.Run("rejects_invalid_report", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		reportPath := filepath.Join(dir, "bad.json")

		require.NoError(t, os.WriteFile(reportPath, []byte(`{"groups": {}}`), 0o644))

		err := runRender(reportPath, filepath.Join(dir, "out.html"))
		require.ErrorIs(t, err, report.ErrSchemaViolation)
	})

	t.Run("missing_report", func(t *testing.T) {
		t.Parallel()

		err := runRender(filepath.Join(t.TempDir(), "absent.json"), "out.html")
		require.Error(t, err)
	})
}
