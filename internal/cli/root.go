package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/acos-forecaster/internal/config"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "acos",
	Short: "Advertising cost-of-sales calculator and forecaster",
	Long: `acos derives ACoS, CPC, CVR and AOV from current ad spend, sales, clicks and
orders, forecasts ACoS under a new CPC and conversion rate, and sweeps ACoS
across a range of conversion rates.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(batchCmd)
}
