package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AngelCh415/acos-forecaster/internal/models"
	"github.com/AngelCh415/acos-forecaster/internal/utils"
)

var ErrNoSource = errors.New("ads report url not configured")

// Importer pulls current-period totals from an ads report endpoint.
type Importer struct {
	c       HTTPClient
	url     string
	log     *slog.Logger
	backoff utils.Backoff
}

func NewImporter(c HTTPClient, url string, log *slog.Logger) *Importer {
	return &Importer{c: c, url: url, log: log, backoff: DefaultBackoff}
}

func (im *Importer) WithBackoff(b utils.Backoff) *Importer {
	im.backoff = b
	return im
}

func (im *Importer) Configured() bool { return im != nil && im.url != "" }

type reportResp []struct {
	Date       string  `json:"date"`
	CampaignID string  `json:"campaign_id"`
	Spend      float64 `json:"spend"`
	Sales      float64 `json:"sales"`
	Clicks     float64 `json:"clicks"`
	Orders     float64 `json:"orders"`
}

// FetchTotals sums every report row on or after since (all rows when nil).
func (im *Importer) FetchTotals(ctx context.Context, since *time.Time) (models.PeriodTotals, error) {
	if !im.Configured() {
		return models.PeriodTotals{}, ErrNoSource
	}
	var rows reportResp
	if err := GetJSONWithRetry(ctx, im.c, im.url, &rows, im.backoff); err != nil {
		return models.PeriodTotals{}, fmt.Errorf("fetch ads report: %w", err)
	}

	var t models.PeriodTotals
	seen := make(map[string]struct{}, len(rows))
	skipped := 0
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(r.Date))
		if err != nil {
			skipped++
			continue
		}
		if since != nil && dayUTC(d).Before(dayUTC(*since)) {
			continue
		}
		key := r.Date + "|" + strings.TrimSpace(r.CampaignID)
		if _, dup := seen[key]; dup {
			skipped++
			continue
		} // idempotencia
		seen[key] = struct{}{}

		t.Spend += maxf(r.Spend)
		t.Sales += maxf(r.Sales)
		t.Clicks += maxf(r.Clicks)
		t.Orders += maxf(r.Orders)
		t.Rows++
	}

	im.log.Info("ads report imported",
		slog.Int("rows", t.Rows),
		slog.Int("skipped", skipped),
		slog.Float64("spend", t.Spend),
		slog.Float64("clicks", t.Clicks))
	return t, nil
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
