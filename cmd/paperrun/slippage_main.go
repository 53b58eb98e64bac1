package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperrun/paperrun/internal/stats"
)

func newSlippageCmd() *cobra.Command {
	var (
		expected []float64
		actual   []float64
		baseline float64
	)

	cmd := &cobra.Command{
		Use:   "slippage",
		Short: "Analyze slippage between expected and realized fill prices",
		Example: `  paperrun slippage --expected 100,101,102 --actual 100.1,101.2,101.9
  paperrun slippage --expected 50000,50100 --actual 50025,50130 --baseline 0.001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(expected) == 0 {
				return fmt.Errorf("--expected requires at least one price")
			}
			analysis, err := stats.AnalyzeSlippage(expected, actual, baseline)
			if err != nil {
				return err
			}
			return printJSON(analysis)
		},
	}

	cmd.Flags().Float64SliceVar(&expected, "expected", nil, "expected fill prices (comma-separated)")
	cmd.Flags().Float64SliceVar(&actual, "actual", nil, "realized fill prices (comma-separated)")
	cmd.Flags().Float64Var(&baseline, "baseline", stats.DefaultSlippageBaseline, "assumed baseline slippage fraction")
	return cmd
}
