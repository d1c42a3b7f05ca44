// Package output provides output formatting interfaces.
// This package produces human and machine-readable chart outputs.
package output

import (
	"io"
	"sort"
	"sync"

	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable text table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result is what a command produced: a chart or a fixed-star report
type Result struct {
	// Chart is any chart variant
	Chart types.Chart `json:"chart,omitempty"`

	// Stars is a fixed-star report
	Stars *types.FixedStarReport `json:"fixed_stars,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the calculation was performed
	Timestamp string `json:"timestamp"`

	// Duration is how long the calculation took
	Duration string `json:"duration,omitempty"`

	// Provider names the position provider
	Provider string `json:"provider"`

	// Version is the tool version
	Version string `json:"version"`

	// Cached is set when the chart was served from the cache
	Cached bool `json:"cached,omitempty"`
}

func (r *Result) validate() error {
	if r == nil || (r.Chart == nil && r.Stars == nil) {
		return apperrors.Input("nothing to render")
	}
	return nil
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// DefaultRegistry returns a registry holding the table and JSON formatters
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(NewTableFormatter())
	_ = r.Register(NewJSONFormatter(true))
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[f.Format()]; exists {
		return apperrors.Newf(apperrors.TypeConfig, "formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format type
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, apperrors.NotFound("output format", string(format))
	}
	return f, nil
}

// Formats lists the registered formats in ascending order
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
