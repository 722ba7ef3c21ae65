package models

import (
	"errors"
	"time"
)

var ErrUnknownField = errors.New("unknown input field")

// Field names accepted by RawInputs.Set and the HTTP/CLI surfaces.
const (
	FieldSpend     = "spend"
	FieldSales     = "sales"
	FieldClicks    = "clicks"
	FieldOrders    = "orders"
	FieldNewCPC    = "new_cpc"
	FieldNewCVRPct = "new_cvr_pct"
)

var Fields = []string{FieldSpend, FieldSales, FieldClicks, FieldOrders, FieldNewCPC, FieldNewCVRPct}

// RawInputs keeps the user's text exactly as typed; parsing happens in the engine.
type RawInputs struct {
	Spend     string `json:"spend"`
	Sales     string `json:"sales"`
	Clicks    string `json:"clicks"`
	Orders    string `json:"orders"`
	NewCPC    string `json:"new_cpc"`
	NewCVRPct string `json:"new_cvr_pct"`
}

func DefaultInputs() RawInputs {
	return RawInputs{
		Spend:     "300",
		Sales:     "1000",
		Clicks:    "500",
		Orders:    "50",
		NewCPC:    "0.60",
		NewCVRPct: "12",
	}
}

func (r *RawInputs) Set(field, text string) error {
	switch field {
	case FieldSpend:
		r.Spend = text
	case FieldSales:
		r.Sales = text
	case FieldClicks:
		r.Clicks = text
	case FieldOrders:
		r.Orders = text
	case FieldNewCPC:
		r.NewCPC = text
	case FieldNewCVRPct:
		r.NewCVRPct = text
	default:
		return ErrUnknownField
	}
	return nil
}

func (r RawInputs) Get(field string) (string, bool) {
	switch field {
	case FieldSpend:
		return r.Spend, true
	case FieldSales:
		return r.Sales, true
	case FieldClicks:
		return r.Clicks, true
	case FieldOrders:
		return r.Orders, true
	case FieldNewCPC:
		return r.NewCPC, true
	case FieldNewCVRPct:
		return r.NewCVRPct, true
	}
	return "", false
}

type CurrentMetrics struct {
	Spend  float64 `json:"spend"`
	Sales  float64 `json:"sales"`
	Clicks float64 `json:"clicks"`
	Orders float64 `json:"orders"`
	ACoS   float64 `json:"acos"`
	CPC    float64 `json:"cpc"`
	CVR    float64 `json:"cvr"`
	AOV    float64 `json:"aov"`
}

type Forecast struct {
	CPC       float64 `json:"cpc"`
	CVR       float64 `json:"cvr"`
	Clicks    float64 `json:"clicks"`
	EstOrders float64 `json:"est_orders"`
	EstSpend  float64 `json:"est_spend"`
	EstSales  float64 `json:"est_sales"`
	NewACoS   float64 `json:"new_acos"`
	Delta     float64 `json:"delta"`
}

type SensitivityPoint struct {
	Label       string  `json:"label"`
	CVR         float64 `json:"cvr"`
	ACoSPercent float64 `json:"acos_pct"`
}

// SweepRange is an inclusive conversion-rate range, in percent.
type SweepRange struct {
	StartPct float64 `json:"start_pct" mapstructure:"start"`
	EndPct   float64 `json:"end_pct" mapstructure:"end"`
	StepPct  float64 `json:"step_pct" mapstructure:"step"`
}

// Display holds the formatted strings a presentation layer shows.
type Display struct {
	ACoS      string `json:"acos"`
	CPC       string `json:"cpc"`
	CVR       string `json:"cvr"`
	AOV       string `json:"aov"`
	NewACoS   string `json:"new_acos"`
	Delta     string `json:"delta"`
	EstSpend  string `json:"est_spend"`
	EstOrders string `json:"est_orders"`
	EstSales  string `json:"est_sales"`
}

type Evaluation struct {
	Inputs           RawInputs          `json:"inputs"`
	Current          CurrentMetrics     `json:"current"`
	Forecast         Forecast           `json:"forecast"`
	Sweep            SweepRange         `json:"sweep"`
	Sensitivity      []SensitivityPoint `json:"sensitivity"`
	ReferenceACoSPct float64            `json:"reference_acos_pct"`
	Display          Display            `json:"display"`
}

type Worksheet struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Revision  int       `json:"revision"`
	Inputs    RawInputs `json:"inputs"`
}

type WorksheetView struct {
	Worksheet
	Evaluation Evaluation `json:"evaluation"`
}

// PeriodTotals are current-period sums pulled from an ads report.
type PeriodTotals struct {
	Spend  float64 `json:"spend"`
	Sales  float64 `json:"sales"`
	Clicks float64 `json:"clicks"`
	Orders float64 `json:"orders"`
	Rows   int     `json:"rows"`
}
