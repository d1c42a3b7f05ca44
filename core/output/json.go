package output

import (
	"encoding/json"
	"io"

	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

// JSONFormatter renders the result record tree as JSON
type JSONFormatter struct {
	indent bool
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter(indent bool) *JSONFormatter {
	return &JSONFormatter{indent: indent}
}

func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes {"chart_type": ..., "chart": ..., "metadata": ...}
func (f *JSONFormatter) Render(w io.Writer, result *Result) error {
	if err := result.validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(envelope{
		Kind:     kindOf(result),
		Chart:    result.Chart,
		Stars:    result.Stars,
		Metadata: result.Metadata,
	})
}

// Restamp rewrites a previously rendered result with fresh metadata,
// leaving the chart payload untouched.
func (f *JSONFormatter) Restamp(w io.Writer, rendered []byte, meta Metadata) error {
	var stored struct {
		Kind     string          `json:"chart_type"`
		Chart    json.RawMessage `json:"chart,omitempty"`
		Stars    json.RawMessage `json:"fixed_stars,omitempty"`
		Metadata Metadata        `json:"metadata"`
	}
	if err := json.Unmarshal(rendered, &stored); err != nil {
		return apperrors.Internal("rendered result is not a chart envelope", err)
	}
	stored.Metadata = meta
	enc := json.NewEncoder(w)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(stored)
}

type envelope struct {
	Kind     string                 `json:"chart_type"`
	Chart    types.Chart            `json:"chart,omitempty"`
	Stars    *types.FixedStarReport `json:"fixed_stars,omitempty"`
	Metadata Metadata               `json:"metadata"`
}

func kindOf(r *Result) string {
	if r.Chart != nil {
		return string(r.Chart.Kind())
	}
	return "fixed_stars"
}
