package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/acos-forecaster/internal/config"
	"github.com/AngelCh415/acos-forecaster/internal/httpx"
	"github.com/AngelCh415/acos-forecaster/internal/ingest"
	"github.com/AngelCh415/acos-forecaster/internal/metrics"
	"github.com/AngelCh415/acos-forecaster/internal/store"
	"github.com/AngelCh415/acos-forecaster/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	im := ingest.NewImporter(cl, cfg.AdsReportURL, logger)
	st := store.NewMemoryStore()
	ins := utils.NewInstruments(reg)
	mSvc := metrics.NewService(st, cfg.Sweep, ins.Evaluations.Inc)

	r := httpx.NewRouter(logger, mSvc, im, ins, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server",
		slog.String("port", cfg.Port),
		slog.Bool("ads_report", im.Configured()),
		slog.Float64("sweep_start", cfg.Sweep.StartPct),
		slog.Float64("sweep_end", cfg.Sweep.EndPct),
		slog.Float64("sweep_step", cfg.Sweep.StepPct))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
