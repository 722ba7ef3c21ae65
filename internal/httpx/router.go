package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/acos-forecaster/internal/ingest"
	"github.com/AngelCh415/acos-forecaster/internal/metrics"
	"github.com/AngelCh415/acos-forecaster/internal/models"
	"github.com/AngelCh415/acos-forecaster/internal/store"
	"github.com/AngelCh415/acos-forecaster/internal/utils"
)

const maxBody = 1 << 16

// NewRouter serves the API. ins records request metrics and g backs /metrics.
func NewRouter(log *slog.Logger, mSvc *metrics.Service, im *ingest.Importer, ins *utils.Instruments, g prometheus.Gatherer) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(ins.Middleware)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	mux.Route("/v1", func(r chi.Router) {
		r.Get("/forecast", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, mSvc.EvaluateQuery(r.URL.Query()))
		})

		r.Post("/forecast", func(w http.ResponseWriter, r *http.Request) {
			fields, err := decodeFields(w, r, false)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			var raw models.RawInputs
			if err := metrics.ApplyFields(&raw, fields); err != nil {
				writeErr(w, err)
				return
			}
			sweep := metrics.SweepFromQuery(r.URL.Query(), mSvc.Sweep())
			writeJSON(w, http.StatusOK, mSvc.EvaluateWith(raw, sweep))
		})

		r.Route("/worksheets", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				fields, err := decodeFields(w, r, true)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				v, err := mSvc.CreateWorksheet(fields)
				if err != nil {
					writeErr(w, err)
					return
				}
				w.Header().Set("Location", "/v1/worksheets/"+v.ID)
				writeJSON(w, http.StatusCreated, v)
			})

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				limit := metrics.AtoiDef(q.Get("limit"), 100)
				offset := metrics.AtoiDef(q.Get("offset"), 0)
				writeJSON(w, http.StatusOK, mSvc.ListWorksheets(limit, offset))
			})

			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				v, err := mSvc.Worksheet(chi.URLParam(r, "id"))
				if err != nil {
					writeErr(w, err)
					return
				}
				writeJSON(w, http.StatusOK, v)
			})

			r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
				fields, err := decodeFields(w, r, false)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				v, err := mSvc.UpdateWorksheet(chi.URLParam(r, "id"), fields)
				if err != nil {
					writeErr(w, err)
					return
				}
				writeJSON(w, http.StatusOK, v)
			})

			r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
				if err := mSvc.DeleteWorksheet(chi.URLParam(r, "id")); err != nil {
					writeErr(w, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Post("/{id}/import", func(w http.ResponseWriter, r *http.Request) {
				id := chi.URLParam(r, "id")
				if _, err := mSvc.Worksheet(id); err != nil {
					writeErr(w, err)
					return
				}
				var since *time.Time
				if q := r.URL.Query().Get("since"); q != "" {
					t, err := time.Parse("2006-01-02", q)
					if err != nil {
						http.Error(w, "bad since (YYYY-MM-DD)", http.StatusBadRequest)
						return
					}
					since = &t
				}
				tot, err := im.FetchTotals(r.Context(), since)
				if err != nil {
					log.Warn("import failed", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
					writeErr(w, err)
					return
				}
				v, err := mSvc.ApplyTotals(id, tot)
				if err != nil {
					writeErr(w, err)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"imported": tot, "worksheet": v})
			})
		})
	})

	return mux
}

// decodeFields reads a JSON object of input fields. Values may be strings,
// numbers or null; they are kept as text.
func decodeFields(w http.ResponseWriter, r *http.Request, allowEmpty bool) (map[string]string, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case nil:
			out[k] = ""
		default:
			return nil, fmt.Errorf("field %q: expected string or number", k)
		}
	}
	return out, nil
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrUnknownField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ingest.ErrNoSource):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

// writeJSON encodes before writing the status so an encode failure can still
// become a 500.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
