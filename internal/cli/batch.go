package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/acos-forecaster/internal/config"
	"github.com/AngelCh415/acos-forecaster/internal/metrics"
	"github.com/AngelCh415/acos-forecaster/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate every scenario in a YAML file",
	Long: `Evaluate every scenario in a YAML file.

Example file:
  output:
    format: pretty   # pretty, csv, sweep-csv
  sweep: {start: 2, end: 30, step: 2}
  scenarios:
    - name: baseline
      spend: "300"
      sales: "1,000"
      clicks: 500
      orders: 50
      new_cpc: "0.60"
      new_cvr_pct: 12`,
	RunE: runBatch,
}

var (
	batchFile   string
	batchFormat string
)

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "scenarios.yaml", "Path to scenario file")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Output format override: pretty, csv, sweep-csv")
}

func runBatch(cmd *cobra.Command, args []string) error {
	sf, err := config.LoadScenarios(batchFile, cfg.Sweep)
	if err != nil {
		return err
	}
	format := sf.Output.Format
	if batchFormat != "" {
		format = batchFormat
	}

	rows := make([]report.Named, 0, len(sf.Scenarios))
	for _, sc := range sf.Scenarios {
		rows = append(rows, report.Named{Name: sc.Name, Evaluation: metrics.Evaluate(sc.Inputs(), sf.Sweep)})
	}
	logger.Debug("batch evaluated", slog.String("file", batchFile), slog.Int("scenarios", len(rows)))

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		for i, r := range rows {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := report.WriteText(out, r.Name, r.Evaluation); err != nil {
				return err
			}
		}
		return nil
	case "csv":
		return report.WriteCSV(out, rows)
	case "sweep-csv":
		return report.WriteSweepCSV(out, rows)
	default:
		return fmt.Errorf("invalid output format: %s", format)
	}
}
