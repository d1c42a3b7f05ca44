package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"astrochart/core/catalog"
	"astrochart/core/engine"
	"astrochart/core/ephemeris"
	"astrochart/internal/cache"
	apperrors "astrochart/internal/errors"
)

const birth = `{"datetime": "1990-06-15T08:45:00Z", "latitude": 51.5074, "longitude": -0.1278, "location_name": "London"}`

type testServer struct {
	*Server
	cache *cache.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	n := 0
	eng := engine.New(catalog.Default(), ephemeris.NewAnalytic(), engine.Config{
		ReturnWorkers: 4,
	})
	mem := cache.NewMemory(0)
	s := NewServer(eng, Options{
		Version: "test",
		Cache:   mem,
		NewRequestID: func() string {
			n++
			return "req-" + string(rune('0'+n))
		},
	})
	return &testServer{Server: s, cache: mem}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

type chartEnvelope struct {
	Kind  string          `json:"chart_type"`
	Chart json.RawMessage `json:"chart"`
	Stars json.RawMessage `json:"fixed_stars"`

	Metadata struct {
		Cached bool `json:"cached"`
	} `json:"metadata"`
}

func decodeChart(t *testing.T, rec *httptest.ResponseRecorder) chartEnvelope {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var env chartEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error.Code
}

func TestNatalChartIsCached(t *testing.T) {
	s := newTestServer(t)

	first := s.do(http.MethodPost, "/natal-chart", birth)
	env := decodeChart(t, first)
	if env.Kind != "natal" {
		t.Errorf("chart_type = %q", env.Kind)
	}
	if first.Header().Get("X-Cache") != "MISS" || first.Header().Get("X-Request-ID") != "req-1" {
		t.Errorf("headers %v", first.Header())
	}

	// the same instant written with an offset normalizes to the same request
	second := s.do(http.MethodPost, "/natal-chart", strings.Replace(birth, "08:45:00Z", "10:45:00+02:00", 1))
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %q", second.Header().Get("X-Cache"))
	}
	again := decodeChart(t, second)
	var a, b map[string]interface{}
	if err := json.Unmarshal(env.Chart, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(again.Chart, &b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("cached chart differs")
	}
	if id, _ := a["id"].(string); id == "" || a["id"] != b["id"] {
		t.Errorf("chart ids %v and %v", a["id"], b["id"])
	}
	if env.Metadata.Cached || !again.Metadata.Cached {
		t.Errorf("cached flags %v then %v", env.Metadata.Cached, again.Metadata.Cached)
	}
	if first.Header().Get("X-Input-Hash") != second.Header().Get("X-Input-Hash") {
		t.Error("input hashes differ")
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache holds %d entries", s.cache.Len())
	}
}

func TestChartEndpoints(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		path, body, kind string
	}{
		{"/natal-chart", strings.Replace(birth, "}", `, "house_system": "All"}`, 1), "multi_house_natal"},
		{"/natal-chart", strings.Replace(birth, "}", `, "house_system": "Whole Sign"}`, 1), "natal"},
		{"/transits", `{"natal": ` + birth + `, "transit_datetime": "2024-01-01T00:00:00Z"}`, "transit"},
		{"/progressions", `{"natal": ` + birth + `, "progressed_date": "2024-06-15"}`, "progressed"},
		{"/solar-return", `{"natal": ` + birth + `, "return_year": 2024, "return_location_latitude": 40.71, "return_location_longitude": -74.0}`, "return"},
		{"/lunar-return", `{"natal": ` + birth + `, "approximate_date": "2024-05-01"}`, "return"},
		{"/fixed-stars", `{"calculation_date": "2000-01-01", "natal": ` + birth + `}`, "fixed_stars"},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.kind, func(t *testing.T) {
			env := decodeChart(t, s.do(http.MethodPost, tt.path, tt.body))
			if env.Kind != tt.kind {
				t.Errorf("chart_type = %q, want %q", env.Kind, tt.kind)
			}
		})
	}
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name, path, body string
		status           int
		code             string
	}{
		{"invalid json", "/natal-chart", `{"datetime":`, http.StatusBadRequest, "INPUT_ERROR"},
		{"missing datetime", "/natal-chart", `{"latitude": 1}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"unknown timezone", "/natal-chart", `{"datetime": "1990-06-15T08:45", "timezone": "Nowhere/City"}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"latitude", "/natal-chart", `{"datetime": "1990-06-15T08:45:00Z", "latitude": 95}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"house system", "/natal-chart", strings.Replace(birth, "}", `, "house_system": "Koch"}`, 1), http.StatusBadRequest, "INPUT_ERROR"},
		{"polar placidus", "/natal-chart", `{"datetime": "1990-06-15T08:45:00Z", "latitude": 69.65, "longitude": 18.96}`, http.StatusBadGateway, "PROVIDER_ERROR"},
		{"return year", "/solar-return", `{"natal": ` + birth + `}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"half location", "/solar-return", `{"natal": ` + birth + `, "return_year": 2024, "return_location_latitude": 1}`, http.StatusBadRequest, "INPUT_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if code := errorCode(t, rec); code != tt.code {
				t.Errorf("code = %q", code)
			}
		})
	}
	if s.cache.Len() != 0 {
		t.Error("failures must not be cached")
	}
}

func TestSupportingEndpoints(t *testing.T) {
	s := newTestServer(t)

	var cfg ConfigResponse
	rec := s.do(http.MethodGet, "/config", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "analytic" || cfg.DefaultHouseSystem != "Placidus" || len(cfg.Aspects) != 11 || cfg.Returns.SolarFineStep != "1m0s" {
		t.Errorf("config = %+v", cfg)
	}

	var health HealthResponse
	rec = s.do(http.MethodGet, "/health", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.Cache != "ok" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}

	var version VersionResponse
	rec = s.do(http.MethodGet, "/version", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &version); err != nil {
		t.Fatal(err)
	}
	if version.Engine != "astrochart" || version.APIVersion != "v1" {
		t.Errorf("version = %+v", version)
	}

	if rec := s.do(http.MethodGet, "/natal-chart", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /natal-chart status %d", rec.Code)
	}
}

func TestClientRequestIDIsKept(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("request id = %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperrors.Input("x"), http.StatusBadRequest},
		{apperrors.NotFound("star", "x"), http.StatusNotFound},
		{apperrors.NotSupported("x"), http.StatusUnprocessableEntity},
		{apperrors.Provider("x", nil), http.StatusBadGateway},
		{apperrors.Configf("x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.status {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
}
