package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AngelCh415/acos-forecaster/internal/models"
)

type Config struct {
	AdsReportURL string
	Port         string
	HTTPTimeout  time.Duration
	LogLevel     slog.Level
	Sweep        models.SweepRange
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		AdsReportURL: os.Getenv("ADS_REPORT_URL"),
		Port:         envOr("PORT", "8080"),
		HTTPTimeout:  to,
		LogLevel:     lvl,
		Sweep: models.SweepRange{
			StartPct: envFloat("SWEEP_START_PCT", 2),
			EndPct:   envFloat("SWEEP_END_PCT", 30),
			StepPct:  envFloat("SWEEP_STEP_PCT", 2),
		},
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}
