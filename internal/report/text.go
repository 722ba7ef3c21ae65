// Package report renders evaluations for terminals and spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/AngelCh415/acos-forecaster/internal/format"
	"github.com/AngelCh415/acos-forecaster/internal/models"
)

type styles struct {
	title, subtitle, muted, good, bad lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#007AFF")),
		subtitle: r.NewStyle().Italic(true),
		muted:    r.NewStyle().Faint(true),
		good:     r.NewStyle().Foreground(lipgloss.Color("#1A7F37")),
		bad:      r.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
}

// WriteText prints the current metrics, the forecast and the sensitivity chart.
func WriteText(w io.Writer, name string, ev models.Evaluation) error {
	st := newStyles(w)
	var b strings.Builder

	if name != "" {
		fmt.Fprintf(&b, "%s\n\n", st.title.Render("--- "+name+" ---"))
	}

	fmt.Fprintln(&b, st.title.Render("Current Metrics"))
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ACoS\t%s\n", ev.Display.ACoS)
	fmt.Fprintf(tw, "Avg CPC\t%s\n", ev.Display.CPC)
	fmt.Fprintf(tw, "Ad CVR\t%s\n", ev.Display.CVR)
	fmt.Fprintf(tw, "Ad AOV\t%s\n", ev.Display.AOV)
	tw.Flush()

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, st.title.Render("Forecast"))
	fmt.Fprintln(&b, st.subtitle.Render(fmt.Sprintf("New CPC %s, new CVR %s, clicks held at %s",
		format.Money(ev.Forecast.CPC), format.Percent(ev.Forecast.CVR), format.Units(ev.Forecast.Clicks))))
	tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "New ACoS\t%s\n", ev.Display.NewACoS)
	fmt.Fprintf(tw, "Change\t%s\n", deltaStyle(st, ev.Forecast.Delta).Render(ev.Display.Delta))
	fmt.Fprintf(tw, "Est. Spend\t%s\n", ev.Display.EstSpend)
	fmt.Fprintf(tw, "Est. Orders\t%s\n", ev.Display.EstOrders)
	fmt.Fprintf(tw, "Est. Sales\t%s\n", ev.Display.EstSales)
	tw.Flush()

	fmt.Fprintln(&b)
	writeChart(&b, st, ev)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSweep prints only the sensitivity chart.
func WriteSweep(w io.Writer, ev models.Evaluation) error {
	var b strings.Builder
	writeChart(&b, newStyles(w), ev)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeChart(b *strings.Builder, st styles, ev models.Evaluation) {
	fmt.Fprintln(b, st.title.Render("Sensitivity: ACoS vs CVR"))
	if len(ev.Sensitivity) == 0 {
		fmt.Fprintln(b, st.muted.Render("(empty sweep range)"))
		return
	}
	curve, beats := ACoSCurve(ev.Sensitivity, ev.ReferenceACoSPct)
	fmt.Fprintf(b, "%s  %s\n", curve, st.muted.Render("current "+format.PercentValue(ev.ReferenceACoSPct)))
	fmt.Fprintf(b, "%s\n", st.good.Render(beats))

	// Cells are padded as plain text and styled afterwards; escape codes would
	// throw off a tabwriter.
	rows := [][3]string{{"CVR", "ACoS", "vs current"}}
	for _, p := range ev.Sensitivity {
		rows = append(rows, [3]string{p.Label, format.PercentValue(p.ACoSPercent), compare(p.ACoSPercent, ev.ReferenceACoSPct)})
	}
	var width [3]int
	for _, r := range rows {
		for c, cell := range r {
			width[c] = max(width[c], len(cell))
		}
	}
	for i, r := range rows {
		mark := fmt.Sprintf("%*s", width[2], r[2])
		if i > 0 {
			switch r[2] {
			case "below":
				mark = st.good.Render(mark)
			case "above":
				mark = st.bad.Render(mark)
			}
		}
		fmt.Fprintf(b, "%*s  %*s  %s\n", width[0], r[0], width[1], r[1], mark)
	}
}

func compare(acos, ref float64) string {
	switch {
	case acos < ref:
		return "below"
	case acos > ref:
		return "above"
	}
	return "="
}

func deltaStyle(st styles, delta float64) lipgloss.Style {
	if delta < 0 {
		return st.good
	}
	if delta > 0 {
		return st.bad
	}
	return st.muted
}

// ACoSCurve draws the sweep as block characters on a scale that also spans
// the current ACoS, so the bar heights can be read against it. beats has a
// '^' under every CVR point whose ACoS is below the current one.
func ACoSCurve(points []models.SensitivityPoint, refPct float64) (curve, beats string) {
	if len(points) == 0 {
		return "", ""
	}
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := refPct, refPct
	for _, p := range points {
		lo = min(lo, p.ACoSPercent)
		hi = max(hi, p.ACoSPercent)
	}

	out := make([]rune, len(points))
	mark := make([]rune, len(points))
	for i, p := range points {
		idx := len(blocks) / 2
		if hi > lo {
			idx = int((p.ACoSPercent - lo) / (hi - lo) * float64(len(blocks)-1))
			idx = min(max(idx, 0), len(blocks)-1)
		}
		out[i] = blocks[idx]
		mark[i] = ' '
		if p.ACoSPercent < refPct {
			mark[i] = '^'
		}
	}
	return string(out), string(mark)
}
