// Package returns - Return finder
// Locates the instant a body's longitude comes back to a target by a
// bounded two-phase search around an approximate instant.
package returns

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"astrochart/core/ephemeris"
	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// Search window defaults
const (
	DefaultCoarseWindow = 48 * time.Hour
	DefaultCoarseStep   = time.Hour
	DefaultFineWindow   = 2 * time.Hour
)

// Search describes one return search
type Search struct {
	Body      string
	Target    float64
	Approx    time.Time
	Precision float64

	// FineStep is the sampling interval of the second phase
	FineStep time.Duration

	// Zero values select the defaults above
	CoarseWindow time.Duration
	CoarseStep   time.Duration
	FineWindow   time.Duration
}

// Result is the chosen sample
type Result struct {
	Instant   time.Time
	Longitude float64

	// Residual is the minimal arc between Longitude and the target
	Residual float64

	// Converged is false when no sample came within the precision and the
	// closest one was returned instead
	Converged bool

	Samples int
}

// Finder runs return searches against a provider
type Finder struct {
	provider ephemeris.Provider
	workers  int
	logger   *zap.Logger
}

// Option configures a Finder
type Option func(*Finder)

// WithWorkers bounds concurrent provider calls; values below 1 mean one
func WithWorkers(n int) Option {
	return func(f *Finder) {
		if n < 1 {
			n = 1
		}
		f.workers = n
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFinder creates a finder. By default samples are taken on GOMAXPROCS workers.
func NewFinder(p ephemeris.Provider, opts ...Option) *Finder {
	f := &Finder{provider: p, workers: runtime.GOMAXPROCS(0), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type sample struct {
	at       time.Time
	lon      float64
	distance float64
}

// Find scans ±CoarseWindow hourly for the closest sample, then walks
// ±FineWindow around it at FineStep. The earliest fine sample under the
// precision wins; failing that, the closest sample of the fine pass.
// Equal distances resolve to the earlier instant.
func (f *Finder) Find(ctx context.Context, s Search) (Result, error) {
	if s.Precision <= 0 {
		return Result{}, apperrors.Inputf("return precision must be positive, got %v", s.Precision)
	}
	if s.FineStep <= 0 {
		return Result{}, apperrors.Inputf("return fine step must be positive, got %v", s.FineStep)
	}
	coarseWindow := orDefault(s.CoarseWindow, DefaultCoarseWindow)
	coarseStep := orDefault(s.CoarseStep, DefaultCoarseStep)
	fineWindow := orDefault(s.FineWindow, DefaultFineWindow)
	target := zodiac.Normalize(s.Target)

	coarse, err := f.scan(ctx, s.Body, target, s.Approx, coarseWindow, coarseStep)
	if err != nil {
		return Result{}, err
	}
	best := closest(coarse)

	fine, err := f.scan(ctx, s.Body, target, best.at, fineWindow, s.FineStep)
	if err != nil {
		return Result{}, err
	}

	res := Result{Samples: len(coarse) + len(fine)}
	chosen, ok := firstWithin(fine, s.Precision)
	if !ok {
		chosen = closest(fine)
	}
	res.Instant = chosen.at
	res.Longitude = chosen.lon
	res.Residual = chosen.distance
	res.Converged = ok

	f.logger.Debug("return search finished",
		zap.String("body", s.Body),
		zap.Float64("target", target),
		zap.Time("instant", res.Instant),
		zap.Float64("residual", res.Residual),
		zap.Bool("converged", res.Converged),
		zap.Int("samples", res.Samples),
	)
	if !ok {
		f.logger.Warn("return search did not reach precision",
			zap.String("body", s.Body),
			zap.Float64("precision", s.Precision),
			zap.Float64("residual", res.Residual),
		)
	}
	return res, nil
}

// scan samples [center-window, center+window] every step, in time order
func (f *Finder) scan(parent context.Context, body string, target float64, center time.Time, window, step time.Duration) ([]sample, error) {
	if err := parent.Err(); err != nil {
		return nil, err
	}
	n := int(window/step)*2 + 1
	start := center.Add(-time.Duration(n/2) * step)
	samples := make([]sample, n)

	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(f.workers)
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * step)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := f.provider.Position(ctx, at, body)
			if err != nil {
				return err
			}
			samples[i] = sample{at: at, lon: c.Longitude, distance: zodiac.Separation(c.Longitude, target)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if parent.Err() != nil {
			return nil, parent.Err()
		}
		return nil, apperrors.Provider("return search could not sample "+body, err).WithContext("body", body)
	}
	return samples, nil
}

// closest is a stable minimum: samples are in time order, so the first of
// equal distances is the earliest.
func closest(samples []sample) sample {
	best := samples[0]
	for _, s := range samples[1:] {
		if s.distance < best.distance {
			best = s
		}
	}
	return best
}

func firstWithin(samples []sample, precision float64) (sample, bool) {
	for _, s := range samples {
		if s.distance < precision {
			return s, true
		}
	}
	return sample{}, false
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
