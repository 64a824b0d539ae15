// Package report renders feature extraction results as JSON, YAML, and
// human-readable text. JSON output sanitizes non-finite values to null,
// since the encoding cannot carry NaN or infinities; YAML keeps them
// as-is.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/seriesfang/pkg/features"
)

// SeriesInfo identifies the analyzed series inside a document.
type SeriesInfo struct {
	Name        string    `json:"name"               yaml:"name"`
	Length      int       `json:"length"             yaml:"length"`
	Digest      string    `json:"digest,omitempty"   yaml:"digest,omitempty"`
	GeneratedAt time.Time `json:"generated_at"       yaml:"generated_at"`
}

// Document is the top-level output: series identity plus one feature map
// per executed group.
type Document struct {
	Series SeriesInfo                 `json:"series" yaml:"series"`
	Groups map[string]features.Report `json:"groups" yaml:"groups"`
}

// NewDocument assembles a document from extraction results.
func NewDocument(name string, length int, digest string, groups map[string]features.Report) *Document {
	return &Document{
		Series: SeriesInfo{
			Name:        name,
			Length:      length,
			Digest:      digest,
			GeneratedAt: time.Now().UTC(),
		},
		Groups: groups,
	}
}

// EncodeJSON marshals the document with non-finite feature values mapped
// to null.
func (d *Document) EncodeJSON() ([]byte, error) {
	sanitized := Document{
		Series: d.Series,
		Groups: make(map[string]features.Report, len(d.Groups)),
	}

	for flag, group := range d.Groups {
		sanitized.Groups[flag] = sanitizeGroup(group)
	}

	data, err := json.MarshalIndent(sanitized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return data, nil
}

// EncodeYAML marshals the document as YAML, non-finite values included.
func (d *Document) EncodeYAML() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	return data, nil
}

// DecodeJSON parses a document previously written by EncodeJSON.
func DecodeJSON(data []byte) (*Document, error) {
	var doc Document

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	return &doc, nil
}

// GroupFlags returns the document's group names in sorted order.
func (d *Document) GroupFlags() []string {
	flags := make([]string, 0, len(d.Groups))
	for f := range d.Groups {
		flags = append(flags, f)
	}

	sort.Strings(flags)

	return flags
}

// sanitizeGroup replaces NaN and infinities with nil so the group survives
// JSON encoding.
func sanitizeGroup(group features.Report) features.Report {
	out := make(features.Report, len(group))

	for key, value := range group {
		out[key] = sanitizeValue(value)
	}

	return out
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case float64:
		if !finite(v) {
			return nil
		}

		return v
	case []float64:
		out := make([]any, len(v))

		for i, x := range v {
			if finite(x) {
				out[i] = x
			}
		}

		return out
	default:
		return value
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
