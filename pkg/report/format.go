package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// arrayPreviewLen caps how many elements of a vector feature the table
// shows before eliding the rest.
const arrayPreviewLen = 6

// FormatConfig controls text rendering.
type FormatConfig struct {
	ShowTables bool
	MaxItems   int
	NoColor    bool
}

// Formatter renders documents for terminal display.
type Formatter struct {
	config FormatConfig
}

// NewFormatter creates a Formatter.
func NewFormatter(config FormatConfig) *Formatter {
	return &Formatter{config: config}
}

// Format renders the whole document: a colored header line per group
// followed by its feature table.
func (f *Formatter) Format(doc *Document) string {
	header := color.New(color.FgCyan, color.Bold)
	if f.config.NoColor {
		header.DisableColor()
	}

	var parts []string

	parts = append(parts, fmt.Sprintf("series %q: %s observations",
		doc.Series.Name, humanize.Comma(int64(doc.Series.Length))))

	for _, flag := range doc.GroupFlags() {
		parts = append(parts, header.Sprintf("=== %s ===", strings.ToUpper(flag)))

		if f.config.ShowTables {
			parts = append(parts, f.formatGroup(doc.Groups[flag]))
		}
	}

	return strings.Join(parts, "\n\n")
}

// formatGroup renders one feature map as a two-column table sorted by
// feature name.
func (f *Formatter) formatGroup(group map[string]any) string {
	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	if f.config.MaxItems > 0 && len(keys) > f.config.MaxItems {
		keys = keys[:f.config.MaxItems]
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Feature", "Value"})

	for _, k := range keys {
		t.AppendRow(table.Row{k, formatValue(group[k])})
	}

	t.SetStyle(table.StyleLight)

	return t.Render()
}

// formatValue renders a feature value compactly; vectors are previewed and
// elided past arrayPreviewLen elements.
func formatValue(value any) string {
	switch v := value.(type) {
	case float64:
		return formatScalar(v)
	case []float64:
		return formatVector(v)
	case []any:
		parts := make([]float64, 0, len(v))

		for _, x := range v {
			if f, ok := x.(float64); ok {
				parts = append(parts, f)
			} else {
				parts = append(parts, math.NaN())
			}
		}

		return formatVector(parts)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatScalar(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}

	return fmt.Sprintf("%.6g", v)
}

func formatVector(v []float64) string {
	shown := v
	elided := 0

	if len(shown) > arrayPreviewLen {
		elided = len(shown) - arrayPreviewLen
		shown = shown[:arrayPreviewLen]
	}

	parts := make([]string, len(shown))
	for i, x := range shown {
		parts[i] = formatScalar(x)
	}

	out := "[" + strings.Join(parts, ", ")
	if elided > 0 {
		out += fmt.Sprintf(", … +%d", elided)
	}

	return out + "]"
}
