package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/acos-forecaster/internal/ingest"
	"github.com/AngelCh415/acos-forecaster/internal/metrics"
	"github.com/AngelCh415/acos-forecaster/internal/models"
	"github.com/AngelCh415/acos-forecaster/internal/store"
	"github.com/AngelCh415/acos-forecaster/internal/utils"
)

func newTestRouter(t *testing.T, reportURL string) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	return buildRouter(reportURL, reg, utils.NewInstruments(reg))
}

func buildRouter(reportURL string, reg *prometheus.Registry, ins *utils.Instruments) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := metrics.NewService(store.NewMemoryStore(), metrics.DefaultSweep, ins.Evaluations.Inc)
	im := ingest.NewImporter(ingest.NewHTTPClient(time.Second), reportURL, log).
		WithBackoff(utils.NewBackoff(time.Millisecond, 1))
	return NewRouter(log, svc, im, ins, reg)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, "")
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/readyz", ""); rec.Code != 200 {
		t.Fatalf("readyz: %d", rec.Code)
	}
}

func TestForecastGet(t *testing.T) {
	h := newTestRouter(t, "")
	rec := do(t, h, http.MethodGet, "/v1/forecast?spend=300&sales=1000&clicks=500&orders=50&new_cpc=0.60&new_cvr_pct=12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	ev := decode[models.Evaluation](t, rec)
	if ev.Display.NewACoS != "25.00%" || ev.Display.Delta != "-5.00%" || ev.Display.EstOrders != "60" {
		t.Fatalf("display = %+v", ev.Display)
	}
	if len(ev.Sensitivity) != 15 {
		t.Fatalf("series = %d", len(ev.Sensitivity))
	}
}

func TestForecastPost(t *testing.T) {
	h := newTestRouter(t, "")
	body := `{"spend":"300","sales":1000,"clicks":"500","orders":50,"new_cpc":0.6,"new_cvr_pct":null}`
	rec := do(t, h, http.MethodPost, "/v1/forecast?sweep_start=10&sweep_end=20&sweep_step=5", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	ev := decode[models.Evaluation](t, rec)
	if ev.Display.ACoS != "30.00%" || ev.Forecast.NewACoS != 0 {
		t.Fatalf("evaluation = %+v", ev)
	}
	if len(ev.Sensitivity) != 3 || ev.Sensitivity[0].Label != "10%" {
		t.Fatalf("series = %+v", ev.Sensitivity)
	}
}

func TestForecastPostRejectsBadBody(t *testing.T) {
	h := newTestRouter(t, "")
	for _, body := range []string{`{`, `{"spend":true}`, `{"budget":"1"}`} {
		if rec := do(t, h, http.MethodPost, "/v1/forecast", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestWorksheetFlow(t *testing.T) {
	h := newTestRouter(t, "")

	rec := do(t, h, http.MethodPost, "/v1/worksheets", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	ws := decode[models.WorksheetView](t, rec)
	if rec.Header().Get("Location") != "/v1/worksheets/"+ws.ID {
		t.Fatalf("location = %q", rec.Header().Get("Location"))
	}
	if ws.Evaluation.Display.ACoS != "30.00%" {
		t.Fatalf("acos = %s", ws.Evaluation.Display.ACoS)
	}

	rec = do(t, h, http.MethodPatch, "/v1/worksheets/"+ws.ID, `{"clicks":"0"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	ws = decode[models.WorksheetView](t, rec)
	if ws.Evaluation.Display.CPC != "$0.00" || ws.Evaluation.Display.CVR != "0.00%" || ws.Revision != 2 {
		t.Fatalf("after patch = %+v", ws)
	}

	rec = do(t, h, http.MethodGet, "/v1/worksheets?limit=10", "")
	list := decode[[]models.WorksheetView](t, rec)
	if len(list) != 1 || list[0].ID != ws.ID {
		t.Fatalf("list = %+v", list)
	}

	if rec := do(t, h, http.MethodPatch, "/v1/worksheets/"+ws.ID, `{"nope":"1"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/v1/worksheets/"+ws.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/v1/worksheets/"+ws.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}

func TestWorksheetImport(t *testing.T) {
	report := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"date":"2025-08-01","campaign_id":"C-1","spend":300,"sales":1200,"clicks":400,"orders":40}]`)
	}))
	defer report.Close()

	h := newTestRouter(t, report.URL)
	ws := decode[models.WorksheetView](t, do(t, h, http.MethodPost, "/v1/worksheets", `{"new_cvr_pct":"10"}`))

	rec := do(t, h, http.MethodPost, "/v1/worksheets/"+ws.ID+"/import?since=2025-08-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d body=%s", rec.Code, rec.Body.String())
	}
	out := decode[struct {
		Imported  models.PeriodTotals  `json:"imported"`
		Worksheet models.WorksheetView `json:"worksheet"`
	}](t, rec)
	if out.Imported.Rows != 1 || out.Worksheet.Inputs.Clicks != "400" {
		t.Fatalf("import = %+v", out)
	}
	if out.Worksheet.Evaluation.Display.ACoS != "25.00%" {
		t.Fatalf("acos = %s", out.Worksheet.Evaluation.Display.ACoS)
	}

	if rec := do(t, h, http.MethodPost, "/v1/worksheets/"+ws.ID+"/import?since=yesterday", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad since status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/v1/worksheets/missing/import", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing worksheet status = %d", rec.Code)
	}
}

func TestWorksheetImportErrors(t *testing.T) {
	h := newTestRouter(t, "")
	ws := decode[models.WorksheetView](t, do(t, h, http.MethodPost, "/v1/worksheets", ""))
	if rec := do(t, h, http.MethodPost, "/v1/worksheets/"+ws.ID+"/import", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured status = %d", rec.Code)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer down.Close()
	h = newTestRouter(t, down.URL)
	ws = decode[models.WorksheetView](t, do(t, h, http.MethodPost, "/v1/worksheets", ""))
	if rec := do(t, h, http.MethodPost, "/v1/worksheets/"+ws.ID+"/import", ""); rec.Code != http.StatusBadGateway {
		t.Fatalf("upstream failure status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, "")
	do(t, h, http.MethodGet, "/v1/forecast?spend=1", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"acos_evaluations_total 1", `acos_http_requests_total{method="GET",route="/v1/forecast",status="200"} 1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestRoutersShareInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	ins := utils.NewInstruments(reg)
	a := buildRouter("", reg, ins)
	b := buildRouter("", reg, ins)
	do(t, a, http.MethodGet, "/v1/forecast?spend=1", "")
	do(t, b, http.MethodGet, "/v1/forecast?spend=1", "")
	body := do(t, a, http.MethodGet, "/metrics", "").Body.String()
	if !strings.Contains(body, "acos_evaluations_total 2") {
		t.Fatalf("metrics:\n%s", body)
	}
}

func TestForecastOverflowingInputs(t *testing.T) {
	h := newTestRouter(t, "")
	rec := do(t, h, http.MethodGet, "/v1/forecast?spend=1e308&sales=1e-10&clicks=1e-10&orders=1e308&new_cpc=1e308&new_cvr_pct=12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	ev := decode[models.Evaluation](t, rec)
	if ev.Display.ACoS != "0.00%" || ev.Display.CPC != "$0.00" {
		t.Fatalf("display = %+v", ev.Display)
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"v": math.NaN()})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}
}
