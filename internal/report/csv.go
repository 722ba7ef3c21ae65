package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/AngelCh415/acos-forecaster/internal/models"
)

// Named pairs a scenario name with its evaluation.
type Named struct {
	Name       string
	Evaluation models.Evaluation
}

var csvHeader = []string{
	"scenario", "spend", "sales", "clicks", "orders",
	"acos", "cpc", "cvr", "aov",
	"new_cpc", "new_cvr", "est_orders", "est_spend", "est_sales", "new_acos", "delta",
}

// WriteCSV writes one row per scenario with raw numeric values.
func WriteCSV(w io.Writer, rows []Named) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		c, f := r.Evaluation.Current, r.Evaluation.Forecast
		rec := []string{r.Name}
		for _, v := range []float64{
			c.Spend, c.Sales, c.Clicks, c.Orders,
			c.ACoS, c.CPC, c.CVR, c.AOV,
			f.CPC, f.CVR, f.EstOrders, f.EstSpend, f.EstSales, f.NewACoS, f.Delta,
		} {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepCSV writes the sensitivity series of every scenario in long form.
func WriteSweepCSV(w io.Writer, rows []Named) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", "cvr_label", "cvr", "acos_pct", "reference_acos_pct"}); err != nil {
		return err
	}
	for _, r := range rows {
		ref := strconv.FormatFloat(r.Evaluation.ReferenceACoSPct, 'f', 4, 64)
		for _, p := range r.Evaluation.Sensitivity {
			if err := cw.Write([]string{
				r.Name,
				p.Label,
				strconv.FormatFloat(p.CVR, 'f', 4, 64),
				strconv.FormatFloat(p.ACoSPercent, 'f', 4, 64),
				ref,
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
