package metrics

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/acos-forecaster/internal/models"
	"github.com/AngelCh415/acos-forecaster/internal/store"
)

type Service struct {
	st         *store.MemoryStore
	sweep      models.SweepRange
	onEvaluate func()
}

// NewService builds the service. onEvaluate, if not nil, runs once per evaluation.
func NewService(st *store.MemoryStore, sweep models.SweepRange, onEvaluate func()) *Service {
	return &Service{st: st, sweep: sweep, onEvaluate: onEvaluate}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *Service) Sweep() models.SweepRange { return s.sweep }

func (s *Service) Evaluate(raw models.RawInputs) models.Evaluation {
	return s.EvaluateWith(raw, s.sweep)
}

func (s *Service) EvaluateWith(raw models.RawInputs, r models.SweepRange) models.Evaluation {
	if s.onEvaluate != nil {
		s.onEvaluate()
	}
	return Evaluate(raw, r)
}

// EvaluateQuery reads raw fields and an optional sweep override from query
// parameters. Absent fields are empty text.
func (s *Service) EvaluateQuery(v url.Values) models.Evaluation {
	var raw models.RawInputs
	for _, f := range models.Fields {
		_ = raw.Set(f, v.Get(f))
	}
	return s.EvaluateWith(raw, SweepFromQuery(v, s.sweep))
}

// SweepFromQuery overrides the bounds of def present in v.
func SweepFromQuery(v url.Values, def models.SweepRange) models.SweepRange {
	r := def
	if q := v.Get("sweep_start"); q != "" {
		r.StartPct = ParseNumber(q)
	}
	if q := v.Get("sweep_end"); q != "" {
		r.EndPct = ParseNumber(q)
	}
	if q := v.Get("sweep_step"); q != "" {
		r.StepPct = ParseNumber(q)
	}
	return r
}

// ApplyFields sets each named field on in. Field names are case-insensitive.
func ApplyFields(in *models.RawInputs, fields map[string]string) error {
	for k, v := range fields {
		if err := in.Set(norm(k), v); err != nil {
			return err
		}
	}
	return nil
}

// CreateWorksheet starts from the calculator defaults and applies fields.
func (s *Service) CreateWorksheet(fields map[string]string) (models.WorksheetView, error) {
	in := models.DefaultInputs()
	if err := ApplyFields(&in, fields); err != nil {
		return models.WorksheetView{}, err
	}
	return s.view(s.st.Create(in)), nil
}

func (s *Service) Worksheet(id string) (models.WorksheetView, error) {
	ws, err := s.st.Get(id)
	if err != nil {
		return models.WorksheetView{}, err
	}
	return s.view(ws), nil
}

func (s *Service) ListWorksheets(limit, offset int) []models.WorksheetView {
	all := s.st.All()
	limit, offset = clampLimitOffset(limit, offset, len(all))
	page := paginate(all, limit, offset)
	out := make([]models.WorksheetView, 0, len(page))
	for _, ws := range page {
		out = append(out, s.view(ws))
	}
	return out
}

func (s *Service) UpdateWorksheet(id string, fields map[string]string) (models.WorksheetView, error) {
	ws, err := s.st.Update(id, func(in *models.RawInputs) error { return ApplyFields(in, fields) })
	if err != nil {
		return models.WorksheetView{}, err
	}
	return s.view(ws), nil
}

func (s *Service) DeleteWorksheet(id string) error { return s.st.Delete(id) }

// ApplyTotals replaces the current-period fields of a worksheet with imported totals.
func (s *Service) ApplyTotals(id string, t models.PeriodTotals) (models.WorksheetView, error) {
	return s.UpdateWorksheet(id, TotalsFields(t))
}

func TotalsFields(t models.PeriodTotals) map[string]string {
	return map[string]string{
		models.FieldSpend:  formatNum(t.Spend),
		models.FieldSales:  formatNum(t.Sales),
		models.FieldClicks: formatNum(t.Clicks),
		models.FieldOrders: formatNum(t.Orders),
	}
}

func (s *Service) view(ws models.Worksheet) models.WorksheetView {
	return models.WorksheetView{Worksheet: ws, Evaluation: s.Evaluate(ws.Inputs)}
}

func formatNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func AtoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
