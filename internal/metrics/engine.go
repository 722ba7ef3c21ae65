package metrics

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/AngelCh415/acos-forecaster/internal/format"
	"github.com/AngelCh415/acos-forecaster/internal/models"
)

// DefaultSweep is the conversion-rate range charted when none is given.
var DefaultSweep = models.SweepRange{StartPct: 2, EndPct: 30, StepPct: 2}

// MaxSweepPoints bounds a single sensitivity series.
const MaxSweepPoints = 500

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of text, ignoring grouping
// commas. Anything that does not yield a finite number reads as 0.
func ParseNumber(text string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	lit := numberPrefix.FindString(s)
	if lit == "" {
		return 0
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SafeDivide returns n/d for positive d and 0 otherwise. A quotient that
// overflows or is undefined also reads as 0.
func SafeDivide(n, d float64) float64 {
	if d > 0 {
		return finite(n / d)
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func ComputeCurrentMetrics(spend, sales, clicks, orders float64) models.CurrentMetrics {
	return models.CurrentMetrics{
		Spend:  spend,
		Sales:  sales,
		Clicks: clicks,
		Orders: orders,
		ACoS:   SafeDivide(spend, sales),
		CPC:    SafeDivide(spend, clicks),
		CVR:    SafeDivide(orders, clicks),
		AOV:    SafeDivide(sales, orders),
	}
}

// ComputeForecast holds click volume fixed and applies a new CPC and
// conversion rate (in percent) to it.
func ComputeForecast(clicks, aov, currentAcos, newCpc, newCvrPercent float64) models.Forecast {
	cvr := finite(newCvrPercent / 100)
	estOrders := finite(clicks * cvr)
	estSpend := finite(clicks * newCpc)
	estSales := finite(estOrders * aov)
	newAcos := SafeDivide(estSpend, estSales)
	return models.Forecast{
		CPC:       newCpc,
		CVR:       cvr,
		Clicks:    clicks,
		EstOrders: estOrders,
		EstSpend:  estSpend,
		EstSales:  estSales,
		NewACoS:   newAcos,
		Delta:     finite(newAcos - currentAcos),
	}
}

// ComputeSensitivitySeries sweeps the conversion rate across r and reports
// ACoS (in percent) at each step. Invalid ranges produce no points.
func ComputeSensitivitySeries(clicks, aov, newCpc float64, r models.SweepRange) []models.SensitivityPoint {
	n := sweepLen(r)
	points := make([]models.SensitivityPoint, 0, n)
	for i := 0; i < n; i++ {
		// recorta el ruido de punto flotante (1+3*0.1 = 1.3000000000000003)
		pct := math.Round((r.StartPct+float64(i)*r.StepPct)*1e9) / 1e9
		cvr := pct / 100
		orders := finite(clicks * cvr)
		spend := finite(clicks * newCpc)
		sales := finite(orders * aov)
		acos := finite(SafeDivide(spend, sales) * 100)
		points = append(points, models.SensitivityPoint{
			Label:       strconv.FormatFloat(pct, 'f', -1, 64) + "%",
			CVR:         cvr,
			ACoSPercent: acos,
		})
	}
	return points
}

func sweepLen(r models.SweepRange) int {
	for _, v := range []float64{r.StartPct, r.EndPct, r.StepPct} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
	}
	if r.StepPct <= 0 || r.EndPct < r.StartPct {
		return 0
	}
	steps := math.Floor((r.EndPct-r.StartPct)/r.StepPct + 1e-9)
	if steps+1 > MaxSweepPoints {
		return MaxSweepPoints
	}
	return int(steps) + 1
}

// Evaluate parses raw inputs and derives every structure the calculator shows.
func Evaluate(raw models.RawInputs, r models.SweepRange) models.Evaluation {
	cur := ComputeCurrentMetrics(
		ParseNumber(raw.Spend),
		ParseNumber(raw.Sales),
		ParseNumber(raw.Clicks),
		ParseNumber(raw.Orders),
	)
	newCpc := ParseNumber(raw.NewCPC)
	fc := ComputeForecast(cur.Clicks, cur.AOV, cur.ACoS, newCpc, ParseNumber(raw.NewCVRPct))
	return models.Evaluation{
		Inputs:           raw,
		Current:          cur,
		Forecast:         fc,
		Sweep:            r,
		Sensitivity:      ComputeSensitivitySeries(cur.Clicks, cur.AOV, newCpc, r),
		ReferenceACoSPct: finite(cur.ACoS * 100),
		Display: models.Display{
			ACoS:      format.Percent(cur.ACoS),
			CPC:       format.Money(cur.CPC),
			CVR:       format.Percent(cur.CVR),
			AOV:       format.Money(cur.AOV),
			NewACoS:   format.Percent(fc.NewACoS),
			Delta:     format.Percent(fc.Delta),
			EstSpend:  format.Money(fc.EstSpend),
			EstOrders: format.Units(fc.EstOrders),
			EstSales:  format.Money(fc.EstSales),
		},
	}
}
