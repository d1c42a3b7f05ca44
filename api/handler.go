package api

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"astrochart/api/envelope"
	"astrochart/core/engine"
	"astrochart/core/output"
	"astrochart/internal/cache"
)

// compute runs the engine for a normalized request
type compute func(ctx context.Context) (*output.Result, error)

// serve seals the normalized request, answers from the cache when it can,
// and otherwise computes, renders and stores the result.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, operation string, normalized interface{}, run compute) {
	ctx := r.Context()
	start := time.Now()

	env, err := envelope.Seal(operation, normalized)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry := envelope.NewAuditEntry(env, requestID(ctx), clientIP(r))
	defer func() {
		entry.SetDuration(time.Since(start))
		s.audit.Log(entry)
	}()
	w.Header().Set("X-Input-Hash", env.InputHash)

	key := cache.Key(operation, env.InputHash)
	body, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		var buf bytes.Buffer
		rerr := s.json.Restamp(&buf, body, s.metadata(start, true))
		if rerr == nil {
			entry.Cached = true
			w.Header().Set("X-Cache", "HIT")
			s.writeBody(w, buf.Bytes(), http.StatusOK)
			return
		}
		s.logger.Warn("cached entry unreadable, recomputing", zap.String("key", key), zap.Error(rerr))
	}

	result, err := run(ctx)
	if err != nil {
		entry.MarkFailed(err)
		s.writeError(w, r, err)
		return
	}
	result.Metadata = s.metadata(start, false)

	var buf bytes.Buffer
	if err := s.json.Render(&buf, result); err != nil {
		entry.MarkFailed(err)
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, buf.Bytes()); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	w.Header().Set("X-Cache", "MISS")
	s.writeBody(w, buf.Bytes(), http.StatusOK)
}

// metadata describes this response; cached hits get their own timestamp
func (s *Server) metadata(start time.Time, cached bool) output.Metadata {
	return output.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  time.Since(start).String(),
		Provider:  s.engine.Provider().Name(),
		Version:   s.version,
		Cached:    cached,
	}
}

// handleNatal handles POST /natal-chart
func (s *Server) handleNatal(w http.ResponseWriter, r *http.Request) {
	var in envelope.Birth
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serve(w, r, "natal-chart", req, func(ctx context.Context) (*output.Result, error) {
		chart, err := s.engine.Cast(ctx, req)
		if err != nil {
			return nil, err
		}
		return &output.Result{Chart: chart}, nil
	})
}

// handleTransits handles POST /transits
func (s *Server) handleTransits(w http.ResponseWriter, r *http.Request) {
	var in envelope.TransitInput
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serve(w, r, "transits", req, func(ctx context.Context) (*output.Result, error) {
		natal, err := s.engine.Natal(ctx, req.Natal)
		if err != nil {
			return nil, err
		}
		chart, err := s.engine.Transit(ctx, engine.TransitRequest{
			Natal:       natal,
			Time:        req.Time,
			Location:    req.Location,
			HouseSystem: req.HouseSystem,
		})
		if err != nil {
			return nil, err
		}
		return &output.Result{Chart: chart}, nil
	})
}

// handleProgressions handles POST /progressions
func (s *Server) handleProgressions(w http.ResponseWriter, r *http.Request) {
	var in envelope.ProgressionInput
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serve(w, r, "progressions", req, func(ctx context.Context) (*output.Result, error) {
		natal, err := s.engine.Natal(ctx, req.Natal)
		if err != nil {
			return nil, err
		}
		chart, err := s.engine.Progressed(ctx, engine.ProgressionRequest{
			Natal:       natal,
			Date:        req.Date,
			HouseSystem: req.HouseSystem,
		})
		if err != nil {
			return nil, err
		}
		return &output.Result{Chart: chart}, nil
	})
}

// handleSolarReturn handles POST /solar-return
func (s *Server) handleSolarReturn(w http.ResponseWriter, r *http.Request) {
	var in envelope.SolarReturnInput
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serve(w, r, "solar-return", req, func(ctx context.Context) (*output.Result, error) {
		natal, err := s.engine.Natal(ctx, req.Natal)
		if err != nil {
			return nil, err
		}
		chart, err := s.engine.SolarReturn(ctx, engine.SolarReturnRequest{
			Natal:       natal,
			Year:        req.Year,
			Location:    req.Location,
			HouseSystem: req.HouseSystem,
		})
		if err != nil {
			return nil, err
		}
		return &output.Result{Chart: chart}, nil
	})
}

// handleLunarReturn handles POST /lunar-return
func (s *Server) handleLunarReturn(w http.ResponseWriter, r *http.Request) {
	var in envelope.LunarReturnInput
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serve(w, r, "lunar-return", req, func(ctx context.Context) (*output.Result, error) {
		natal, err := s.engine.Natal(ctx, req.Natal)
		if err != nil {
			return nil, err
		}
		chart, err := s.engine.LunarReturn(ctx, engine.LunarReturnRequest{
			Natal:       natal,
			Approx:      req.Approx,
			Location:    req.Location,
			HouseSystem: req.HouseSystem,
		})
		if err != nil {
			return nil, err
		}
		return &output.Result{Chart: chart}, nil
	})
}

// handleFixedStars handles POST /fixed-stars
func (s *Server) handleFixedStars(w http.ResponseWriter, r *http.Request) {
	var in envelope.FixedStarsInput
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serve(w, r, "fixed-stars", req, func(ctx context.Context) (*output.Result, error) {
		fr := engine.FixedStarsRequest{Time: req.Time, Orb: req.Orb}
		if req.Natal != nil {
			natal, err := s.engine.Natal(ctx, *req.Natal)
			if err != nil {
				return nil, err
			}
			fr.Natal = natal
		}
		report, err := s.engine.FixedStars(ctx, fr)
		if err != nil {
			return nil, err
		}
		return &output.Result{Stars: report}, nil
	})
}

// handleConfig handles GET /config
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cat := s.engine.Catalog()
	rs := cat.Returns()
	s.writeJSON(w, ConfigResponse{
		Provider:           s.engine.Provider().Name(),
		Aspects:            cat.Aspects(),
		OrbMultipliers:     cat.OrbMultipliers(),
		HouseSystems:       cat.HouseSystems(),
		DefaultHouseSystem: cat.DefaultHouseSystem(),
		BodyGroups:         cat.BodyGroups(),
		CalculatedPoints:   cat.CalculatedPoints(),
		FixedStars:         cat.FixedStars(),
		Patterns:           cat.Patterns(),
		Returns: ReturnsConfig{
			SolarPrecision: rs.SolarPrecision,
			LunarPrecision: rs.LunarPrecision,
			SolarFineStep:  rs.SolarFineStep.String(),
			LunarFineStep:  rs.LunarFineStep.String(),
		},
		TransitOrbScale: cat.TransitOrbScale(),
	}, http.StatusOK)
}

// pinger is implemented by stores that hold a connection
type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "healthy",
		Version:  s.version,
		Time:     time.Now().UTC(),
		Provider: s.engine.Provider().Name(),
		Cache:    "disabled",
	}
	switch c := s.cache.(type) {
	case cache.Nop:
	case pinger:
		resp.Cache = "ok"
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			resp.Cache = "unavailable"
			resp.Status = "degraded"
		}
	default:
		resp.Cache = "ok"
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, VersionResponse{
		Version:    s.version,
		Engine:     "astrochart",
		APIVersion: "v1",
	}, http.StatusOK)
}
