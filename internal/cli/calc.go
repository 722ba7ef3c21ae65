package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/acos-forecaster/internal/ingest"
	"github.com/AngelCh415/acos-forecaster/internal/metrics"
	"github.com/AngelCh415/acos-forecaster/internal/models"
	"github.com/AngelCh415/acos-forecaster/internal/report"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute current metrics and the ACoS forecast",
	Long: `Compute current metrics and the ACoS forecast.

Values are read as typed: grouping commas are ignored and anything that is not
a number counts as zero.

Examples:
  acos calc --spend 300 --sales 1,000 --clicks 500 --orders 50 --new-cpc 0.60 --new-cvr 12
  acos calc --import --report-url https://ads.example.com/report --since 2025-08-01 --new-cvr 15`,
	RunE: runCalc,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Print ACoS across a range of conversion rates",
	RunE:  runSweep,
}

// Flags
var (
	calcIn     = models.DefaultInputs()
	sweepStart string
	sweepEnd   string
	sweepStep  string
	outFormat  string
	doImport   bool
	reportURL  string
	since      string
)

func init() {
	for _, c := range []*cobra.Command{calcCmd, sweepCmd} {
		c.Flags().StringVar(&calcIn.Spend, "spend", calcIn.Spend, "Ad spend ($)")
		c.Flags().StringVar(&calcIn.Sales, "sales", calcIn.Sales, "Ad sales ($)")
		c.Flags().StringVar(&calcIn.Clicks, "clicks", calcIn.Clicks, "Ad clicks")
		c.Flags().StringVar(&calcIn.Orders, "orders", calcIn.Orders, "Ad orders")
		c.Flags().StringVar(&calcIn.NewCPC, "new-cpc", calcIn.NewCPC, "New CPC ($)")
		c.Flags().StringVar(&calcIn.NewCVRPct, "new-cvr", calcIn.NewCVRPct, "New CVR (%)")
		c.Flags().StringVar(&sweepStart, "sweep-start", "", "Sweep start CVR (%)")
		c.Flags().StringVar(&sweepEnd, "sweep-end", "", "Sweep end CVR (%)")
		c.Flags().StringVar(&sweepStep, "sweep-step", "", "Sweep step (%)")
		c.Flags().StringVar(&outFormat, "format", "text", "Output format: text, json")
	}
	calcCmd.Flags().BoolVar(&doImport, "import", false, "Pull spend/sales/clicks/orders from the ads report")
	calcCmd.Flags().StringVar(&reportURL, "report-url", "", "Ads report URL (defaults to ADS_REPORT_URL)")
	calcCmd.Flags().StringVar(&since, "since", "", "Only report rows on or after this date (YYYY-MM-DD)")
}

func sweepFromFlags() models.SweepRange {
	r := cfg.Sweep
	if sweepStart != "" {
		r.StartPct = metrics.ParseNumber(sweepStart)
	}
	if sweepEnd != "" {
		r.EndPct = metrics.ParseNumber(sweepEnd)
	}
	if sweepStep != "" {
		r.StepPct = metrics.ParseNumber(sweepStep)
	}
	return r
}

func runCalc(cmd *cobra.Command, args []string) error {
	raw := calcIn

	if doImport {
		url := reportURL
		if url == "" {
			url = cfg.AdsReportURL
		}
		var sinceT *time.Time
		if since != "" {
			t, err := time.Parse("2006-01-02", since)
			if err != nil {
				return fmt.Errorf("invalid --since %q: %w", since, err)
			}
			sinceT = &t
		}
		im := ingest.NewImporter(ingest.NewHTTPClient(cfg.HTTPTimeout), url, logger)
		tot, err := im.FetchTotals(cmd.Context(), sinceT)
		if err != nil {
			return err
		}
		if err := metrics.ApplyFields(&raw, metrics.TotalsFields(tot)); err != nil {
			return err
		}
	}

	ev := metrics.Evaluate(raw, sweepFromFlags())
	switch outFormat {
	case "json":
		return writeJSON(cmd, ev)
	case "text":
		return report.WriteText(cmd.OutOrStdout(), "", ev)
	default:
		return fmt.Errorf("invalid output format: %s", outFormat)
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	ev := metrics.Evaluate(calcIn, sweepFromFlags())
	switch outFormat {
	case "json":
		return writeJSON(cmd, ev.Sensitivity)
	case "text":
		return report.WriteSweep(cmd.OutOrStdout(), ev)
	default:
		return fmt.Errorf("invalid output format: %s", outFormat)
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", " ")
	return enc.Encode(v)
}
