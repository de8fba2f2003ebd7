package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/banshee-data/wifi-heatmap/internal/floorplan"
	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
	"github.com/banshee-data/wifi-heatmap/internal/store"
	"github.com/banshee-data/wifi-heatmap/internal/survey"
	"github.com/banshee-data/wifi-heatmap/internal/testutil"
	"github.com/banshee-data/wifi-heatmap/internal/wifi"
)

type fakeScanner struct {
	info  wifi.Info
	err   error
	calls atomic.Int32
}

func (f *fakeScanner) Scan(ctx context.Context) (wifi.Info, error) {
	f.calls.Add(1)
	return f.info, f.err
}

type brokenBackground struct{}

func (brokenBackground) Background() (image.Image, error) {
	return nil, errors.New("floor plan is not a decodable image")
}

type testServer struct {
	*Server
	mux     *http.ServeMux
	plans   *floorplan.Store
	scanner *fakeScanner
}

type setupOption func(*Options, *survey.BackgroundSource)

func withoutDB() setupOption {
	return func(o *Options, _ *survey.BackgroundSource) { o.DB = nil }
}

func withoutScanner() setupOption {
	return func(o *Options, _ *survey.BackgroundSource) { o.Scanner = nil }
}

func withScanRate(perMinute int) setupOption {
	return func(o *Options, _ *survey.BackgroundSource) { o.ScanRatePerMinute = perMinute }
}

func withBackground(bg survey.BackgroundSource) setupOption {
	return func(_ *Options, b *survey.BackgroundSource) { *b = bg }
}

func setupTestServer(t *testing.T, opts ...setupOption) *testServer {
	t.Helper()

	plans, err := floorplan.NewStore(filepath.Join(t.TempDir(), "uploads"), 0)
	testutil.AssertNoError(t, err)

	ro := heatmap.DefaultRenderOptions()
	ro.RasterMaxPx = 80
	ro.Width = 300
	ro.Height = 240
	ro.LegendWidth = 60
	renderer, err := heatmap.NewRenderer(ro)
	testutil.AssertNoError(t, err)

	scanner := &fakeScanner{info: wifi.ParseWdutil("    SSID : HomeNet\n    RSSI : -54 dBm\n    Noise : -93 dBm\n")}
	defaults := survey.DefaultParams()
	defaults.Resolution = 20

	o := Options{
		FloorPlan:   plans,
		Scanner:     scanner,
		DB:          cloneAPITestDB(t),
		Defaults:    defaults,
		ChartWidth:  400,
		ChartHeight: 300,
	}
	var bg survey.BackgroundSource = plans
	for _, opt := range opts {
		opt(&o, &bg)
	}
	o.Survey = survey.NewService(store.New(), bg, renderer)

	srv := NewServer(o)
	return &testServer{Server: srv, mux: srv.ServeMux(), plans: plans, scanner: scanner}
}

func (ts *testServer) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.mux.ServeHTTP(w, req)
	return w
}

func (ts *testServer) addExampleSamples(t *testing.T) {
	t.Helper()
	for _, in := range testutil.ExampleInputs() {
		if _, err := ts.survey.AddSample(in); err != nil {
			t.Fatalf("AddSample failed: %v", err)
		}
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestMeasurements_AddAndList(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/measurements", `{"x": 10, "y": 20, "value": -45}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)
	var created map[string]interface{}
	decodeBody(t, w, &created)
	if created["id"] == "" || created["band"] != "excellent" || created["value"] != -45.0 {
		t.Errorf("unexpected created measurement %v", created)
	}

	ts.do(t, http.MethodPost, "/api/measurements", `{"x": 30, "y": 40, "value": -72}`)

	w = ts.do(t, http.MethodGet, "/api/measurements", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	var list struct {
		Measurements []struct {
			ID    string  `json:"id"`
			X     float64 `json:"x"`
			Value float64 `json:"value"`
			Band  string  `json:"band"`
		} `json:"measurements"`
		Count int `json:"count"`
	}
	decodeBody(t, w, &list)
	if list.Count != 2 || len(list.Measurements) != 2 {
		t.Fatalf("expected 2 measurements, got %+v", list)
	}
	if list.Measurements[0].X != 10 || list.Measurements[1].Band != "poor" {
		t.Errorf("unexpected listing order or band: %+v", list.Measurements)
	}
}

func TestMeasurements_Validation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing value", `{"x": 1, "y": 2}`, "value"},
		{"missing x", `{"y": 2, "value": -50}`, "x"},
		{"null y", `{"x": 1, "y": null, "value": -50}`, "y"},
		{"string x", `{"x": "abc", "y": 2, "value": -50}`, ""},
		{"unknown field", `{"x": 1, "y": 2, "value": -50, "z": 3}`, ""},
		{"empty body", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/measurements", tt.body)
			testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
			if tt.wantField != "" {
				var resp map[string]string
				decodeBody(t, w, &resp)
				if resp["field"] != tt.wantField {
					t.Errorf("field = %q, want %q", resp["field"], tt.wantField)
				}
			}
		})
	}
	if n := len(ts.survey.ListSamples()); n != 0 {
		t.Errorf("invalid submissions stored %d samples", n)
	}
}

func TestHeatmap_InsufficientThenOK(t *testing.T) {
	ts := setupTestServer(t)

	ts.do(t, http.MethodPost, "/api/measurements", `{"x": 50, "y": 50, "value": -40}`)
	ts.do(t, http.MethodPost, "/api/measurements", `{"x": 100, "y": 50, "value": -60}`)

	w := ts.do(t, http.MethodGet, "/api/heatmap", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusUnprocessableEntity)

	ts.do(t, http.MethodPost, "/api/measurements", `{"x": 75, "y": 100, "value": -80}`)
	w = ts.do(t, http.MethodGet, "/api/heatmap", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img := testutil.DecodePNG(t, w.Body.Bytes())
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 240 {
		t.Errorf("image size = %v, want 300x240", b)
	}
	if got := w.Header().Get("X-Heatmap-Domain"); got != "0,150,0,150" {
		t.Errorf("X-Heatmap-Domain = %q", got)
	}
	if w.Header().Get(renderWarningHeader) != "" {
		t.Errorf("unexpected warning header %q", w.Header().Get(renderWarningHeader))
	}
}

func TestHeatmap_BadParams(t *testing.T) {
	ts := setupTestServer(t)
	ts.addExampleSamples(t)

	tests := []struct {
		query string
		param string
	}{
		{"resolution=1", "resolution"},
		{"resolution=abc", "resolution"},
		{"resolution=1000000", "resolution"},
		{"power=0", "power"},
		{"power=-2", "power"},
		{"padding=-5", "padding"},
		{"padding=wide", "padding"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, "/api/heatmap?"+tt.query, "")
			testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
			var resp map[string]string
			decodeBody(t, w, &resp)
			if resp["param"] != tt.param {
				t.Errorf("param = %q, want %q", resp["param"], tt.param)
			}
		})
	}

	w := ts.do(t, http.MethodGet, "/api/heatmap?resolution=10&power=3&padding=0", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if got := w.Header().Get("X-Heatmap-Domain"); got != "50,100,50,100" {
		t.Errorf("X-Heatmap-Domain = %q, want zero padding", got)
	}
}

func TestHeatmap_BackgroundWarningHeader(t *testing.T) {
	ts := setupTestServer(t, withBackground(brokenBackground{}))
	ts.addExampleSamples(t)

	w := ts.do(t, http.MethodGet, "/api/heatmap", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if got := w.Header().Get(renderWarningHeader); !strings.Contains(got, "not a decodable image") {
		t.Errorf("%s = %q", renderWarningHeader, got)
	}
}

func TestFloorPlan_UploadAndFetch(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/floor-plan", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)

	pngData := testutil.SolidPNG(t, 300, 150, color.White)
	body, contentType := testutil.MultipartFile(t, "file", "office.png", pngData)
	req := httptest.NewRequest(http.MethodPost, "/api/floor-plan", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	ts.mux.ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	w = ts.do(t, http.MethodGet, "/api/floor-plan", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	var meta floorplan.FloorPlan
	decodeBody(t, w, &meta)
	if meta.Filename != "office.png" || meta.Width != 300 || meta.Height != 150 {
		t.Errorf("unexpected metadata %+v", meta)
	}

	w = ts.do(t, http.MethodGet, "/api/floor-plan/image", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if !bytes.Equal(w.Body.Bytes(), pngData) {
		t.Error("served image differs from upload")
	}

	// The uploaded plan is used as the heat map background without warnings.
	ts.addExampleSamples(t)
	w = ts.do(t, http.MethodGet, "/api/heatmap", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if w.Header().Get(renderWarningHeader) != "" {
		t.Errorf("unexpected warning %q", w.Header().Get(renderWarningHeader))
	}
}

func TestFloorPlan_Rejections(t *testing.T) {
	ts := setupTestServer(t)

	body, contentType := testutil.MultipartFile(t, "file", "plan.gif", []byte("GIF89a"))
	req := httptest.NewRequest(http.MethodPost, "/api/floor-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	ts.mux.ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)

	body, contentType = testutil.MultipartFile(t, "upload", "plan.png", []byte("x"))
	req = httptest.NewRequest(http.MethodPost, "/api/floor-plan", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	ts.mux.ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)

	w = ts.do(t, http.MethodGet, "/api/floor-plan/image", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestWifiInfo(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/wifi/info", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	var info map[string]interface{}
	decodeBody(t, w, &info)
	if info["SSID"] != "HomeNet" || info["RSSI"] != -54.0 {
		t.Errorf("unexpected info %v", info)
	}

	ts.scanner.err = wifi.ErrNoInfo
	w = ts.do(t, http.MethodGet, "/api/wifi/info", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusInternalServerError)

	noScan := setupTestServer(t, withoutScanner())
	w = noScan.do(t, http.MethodGet, "/api/wifi/info", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusServiceUnavailable)
}

func TestWifiInfo_RateLimited(t *testing.T) {
	ts := setupTestServer(t, withScanRate(2))

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodGet, "/api/wifi/info", "")
		testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	}
	w := ts.do(t, http.MethodGet, "/api/wifi/info", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusTooManyRequests)
	if got := ts.scanner.calls.Load(); got != 2 {
		t.Errorf("scanner ran %d times, want 2", got)
	}

	// Manual measurements are not limited.
	w = ts.do(t, http.MethodPost, "/api/measurements", `{"x": 1, "y": 1, "value": -50}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)
}

func TestMeasurementScan(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/measurements/scan", `{"y": 5}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
	if ts.scanner.calls.Load() != 0 {
		t.Error("scanner should not run for an invalid position")
	}

	w = ts.do(t, http.MethodPost, "/api/measurements/scan", `{"x": 12, "y": 34}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)
	samples := ts.survey.ListSamples()
	if len(samples) != 1 || samples[0].X != 12 || samples[0].Y != 34 || samples[0].Value != -54 {
		t.Errorf("unexpected stored samples %+v", samples)
	}

	ts.scanner.info = wifi.Info{"SSID": "HomeNet"}
	w = ts.do(t, http.MethodPost, "/api/measurements/scan", `{"x": 1, "y": 1}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusInternalServerError)
	if len(ts.survey.ListSamples()) != 1 {
		t.Error("a scan without RSSI must not store a sample")
	}
}

func TestSessions_SaveListRestoreDelete(t *testing.T) {
	ts := setupTestServer(t)
	ts.addExampleSamples(t)
	original := ts.survey.ListSamples()

	w := ts.do(t, http.MethodPost, "/api/session", `{"name": "level 2"}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)
	var saved struct {
		ID          string `json:"session_id"`
		SampleCount int    `json:"sample_count"`
	}
	decodeBody(t, w, &saved)
	if saved.ID == "" || saved.SampleCount != 3 {
		t.Fatalf("unexpected save response %+v", saved)
	}

	w = ts.do(t, http.MethodGet, "/api/sessions", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	var list struct {
		Count int `json:"count"`
	}
	decodeBody(t, w, &list)
	if list.Count != 1 {
		t.Errorf("count = %d, want 1", list.Count)
	}

	ts.do(t, http.MethodPost, "/api/reset", "")
	if len(ts.survey.ListSamples()) != 0 {
		t.Fatal("reset should clear samples")
	}

	w = ts.do(t, http.MethodPut, "/api/session", `{"session_id": "`+saved.ID+`"}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	restored := ts.survey.ListSamples()
	if len(restored) != len(original) {
		t.Fatalf("restored %d samples, want %d", len(restored), len(original))
	}
	for i := range original {
		if restored[i] != original[i] {
			t.Errorf("sample %d = %+v, want %+v", i, restored[i], original[i])
		}
	}

	w = ts.do(t, http.MethodGet, "/api/sessions/"+saved.ID, "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	w = ts.do(t, http.MethodDelete, "/api/sessions/"+saved.ID, "")
	testutil.AssertStatusCode(t, w.Code, http.StatusNoContent)
	w = ts.do(t, http.MethodDelete, "/api/sessions/"+saved.ID, "")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestSessions_RestoreReportsFloorPlanMismatch(t *testing.T) {
	ts := setupTestServer(t)
	ts.addExampleSamples(t)
	if _, err := ts.plans.Save("level1.png", bytes.NewReader(testutil.SolidPNG(t, 20, 20, color.White))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	w := ts.do(t, http.MethodPost, "/api/session", `{"name": "level 1"}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)
	var saved struct {
		ID        string `json:"session_id"`
		FloorPlan string `json:"floor_plan"`
	}
	decodeBody(t, w, &saved)
	if saved.FloorPlan != "level1.png" {
		t.Fatalf("floor_plan = %q, want level1.png", saved.FloorPlan)
	}

	type restoreResult struct {
		ID                string `json:"session_id"`
		CurrentFloorPlan  string `json:"current_floor_plan"`
		FloorPlanMismatch bool   `json:"floor_plan_mismatch"`
		Warning           string `json:"warning"`
	}
	restore := func() restoreResult {
		t.Helper()
		w := ts.do(t, http.MethodPut, "/api/session", `{"session_id": "`+saved.ID+`"}`)
		testutil.AssertStatusCode(t, w.Code, http.StatusOK)
		var got restoreResult
		decodeBody(t, w, &got)
		return got
	}

	if got := restore(); got.FloorPlanMismatch || got.Warning != "" || got.ID != saved.ID {
		t.Errorf("same floor plan: unexpected %+v", got)
	}

	if _, err := ts.plans.Save("level2.png", bytes.NewReader(testutil.SolidPNG(t, 20, 20, color.Black))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := restore()
	if !got.FloorPlanMismatch || got.CurrentFloorPlan != "level2.png" || !strings.Contains(got.Warning, "level1.png") {
		t.Errorf("different floor plan: unexpected %+v", got)
	}

	if err := ts.plans.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := restore(); !got.FloorPlanMismatch || got.CurrentFloorPlan != "" {
		t.Errorf("no floor plan: unexpected %+v", got)
	}
}

func TestSessions_Errors(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPut, "/api/session", `{"session_id": "nope"}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)

	w = ts.do(t, http.MethodPut, "/api/session", `{}`)
	testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)

	// Saving with no body and no samples is allowed.
	w = ts.do(t, http.MethodPost, "/api/session", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)

	noDB := setupTestServer(t, withoutDB())
	for _, path := range []string{"/api/session", "/api/sessions", "/api/sessions/abc"} {
		method := http.MethodGet
		if path == "/api/session" {
			method = http.MethodPost
		}
		w := noDB.do(t, method, path, "")
		testutil.AssertStatusCode(t, w.Code, http.StatusServiceUnavailable)
	}
}

func TestReset_ClearsFloorPlan(t *testing.T) {
	ts := setupTestServer(t)
	ts.addExampleSamples(t)
	if _, err := ts.plans.Save("plan.png", bytes.NewReader(testutil.SolidPNG(t, 10, 10, color.Black))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	w := ts.do(t, http.MethodPost, "/api/reset", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if _, ok := ts.plans.Current(); ok {
		t.Error("floor plan should be cleared")
	}
	w = ts.do(t, http.MethodGet, "/api/heatmap", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusUnprocessableEntity)
}

func TestSignalChart(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/signal-chart", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusUnprocessableEntity)

	ts.addExampleSamples(t)
	w = ts.do(t, http.MethodGet, "/api/signal-chart", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	testutil.DecodePNG(t, w.Body.Bytes())

	w = ts.do(t, http.MethodGet, "/api/signal-chart?format=html", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}

	w = ts.do(t, http.MethodGet, "/api/signal-chart?format=svg", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
}

func TestVersionAndMetrics(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/version", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	var v map[string]string
	decodeBody(t, w, &v)
	if v["version"] == "" {
		t.Errorf("missing version in %v", v)
	}

	ts.addExampleSamples(t)
	ts.do(t, http.MethodGet, "/api/heatmap", "")
	w = ts.do(t, http.MethodGet, "/metrics", "")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "heatmap_renders_total") {
		t.Error("metrics output missing heatmap_renders_total")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t)

	cases := map[string]string{
		"/api/measurements":      http.MethodDelete,
		"/api/measurements/scan": http.MethodGet,
		"/api/wifi/info":         http.MethodPost,
		"/api/floor-plan":        http.MethodDelete,
		"/api/floor-plan/image":  http.MethodPost,
		"/api/heatmap":           http.MethodPost,
		"/api/signal-chart":      http.MethodPost,
		"/api/session":           http.MethodGet,
		"/api/sessions":          http.MethodPost,
		"/api/reset":             http.MethodGet,
		"/api/version":           http.MethodPost,
	}
	for path, method := range cases {
		w := ts.do(t, method, path, "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status %d, want 405", method, path, w.Code)
		}
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/measurements", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestStatusCodeColor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, colorBoldGreen + "200" + colorReset},
		{304, colorYellow + "304" + colorReset},
		{422, colorBoldRed + "422" + colorReset},
		{500, colorBoldRed + "500" + colorReset},
		{101, "101"},
	}
	for _, tt := range tests {
		if got := statusCodeColor(tt.code); got != tt.want {
			t.Errorf("statusCodeColor(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
