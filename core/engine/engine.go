// Package engine provides the chart calculation engine.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"astrochart/core/aspect"
	"astrochart/core/catalog"
	"astrochart/core/ephemeris"
	"astrochart/core/pattern"
	"astrochart/core/returns"
	"astrochart/core/types"
)

// AllHouseSystems requests a chart cast in every catalogued house system
const AllHouseSystems = "All"

// Engine composes the provider, house locator, aspect engine, pattern
// detector and return finder into charts. It holds no mutable state and
// may be shared between goroutines.
type Engine struct {
	catalog  *catalog.Catalog
	provider ephemeris.Provider
	stars    *ephemeris.StarCatalog

	aspects  *aspect.Engine
	patterns *pattern.Detector
	finder   *returns.Finder

	logger *zap.Logger
	newID  func(seed string) string
}

// Config configures the engine
type Config struct {
	// ReturnWorkers bounds concurrent provider calls during return searches.
	// Zero selects GOMAXPROCS.
	ReturnWorkers int

	// Stars is the catalog behind fixed-star reports. Nil selects the
	// built-in catalog.
	Stars *ephemeris.StarCatalog

	// Logger receives omission and fallback diagnostics
	Logger *zap.Logger

	// NewID turns a chart seed into its identifier. Nil selects name-based
	// UUIDs, so equal inputs always yield the same identifier.
	NewID func(seed string) string
}

// New creates an engine over an immutable catalog and a provider
func New(cat *catalog.Catalog, provider ephemeris.Provider, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stars := cfg.Stars
	if stars == nil {
		stars = ephemeris.DefaultStars()
	}
	newID := cfg.NewID
	if newID == nil {
		newID = NameBasedID
	}

	finderOpts := []returns.Option{returns.WithLogger(logger.Named("returns"))}
	if cfg.ReturnWorkers > 0 {
		finderOpts = append(finderOpts, returns.WithWorkers(cfg.ReturnWorkers))
	}

	return &Engine{
		catalog:  cat,
		provider: provider,
		stars:    stars,
		aspects:  aspect.NewEngine(cat),
		patterns: pattern.NewDetector(cat),
		finder:   returns.NewFinder(provider, finderOpts...),
		logger:   logger,
		newID:    newID,
	}
}

// Catalog returns the catalog the engine was built with
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Provider returns the position provider
func (e *Engine) Provider() ephemeris.Provider {
	return e.provider
}

var chartNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("astrochart/chart"))

// NameBasedID derives a version 5 UUID from a chart seed
func NameBasedID(seed string) string {
	return uuid.NewSHA1(chartNamespace, []byte(seed)).String()
}

// chartSeed lists every input that determines a chart's content
func chartSeed(kind string, t time.Time, loc types.Location, system, parent string) string {
	return strings.Join([]string{
		kind,
		t.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
		system,
		parent,
	}, "|")
}
