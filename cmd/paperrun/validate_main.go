package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/paperrun/paperrun/internal/config"
	"github.com/paperrun/paperrun/internal/validate"
)

// validationInput is the JSON document accepted by `validate` and `compare`:
// a stored backtest result plus optional paper/live snapshots.
type validationInput struct {
	Backtest *validate.BacktestMetrics `json:"backtest,omitempty"`
	Paper    *validate.ModeSnapshot    `json:"paper,omitempty"`
	Live     *validate.ModeSnapshot    `json:"live,omitempty"`
}

func loadValidationInput(path string) (*validationInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}
	var input validationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse input %s: %w", path, err)
	}
	return &input, nil
}

func newEngine() (*validate.Engine, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, err
	}
	return validate.NewEngine(&cfg.Validation), nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newValidateCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run a full cross-mode validation from a results file",
		Long: `Reads a JSON document holding backtest metrics plus optional paper/live
snapshots and prints the tiered validation report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadValidationInput(inputPath)
			if err != nil {
				return err
			}
			engine, err := newEngine()
			if err != nil {
				return err
			}

			report := engine.Validate(input.Backtest, input.Paper, input.Live)
			for _, c := range report.Criteria {
				log.Info().
					Str("criterion", c.Name).
					Str("status", string(c.Status)).
					Float64("expected", c.Expected).
					Float64("actual", c.Actual).
					Msg(c.Message)
			}
			log.Info().Str("overall", string(report.Overall)).Msg("Validation complete")

			if err := printJSON(report); err != nil {
				return err
			}
			if report.Overall == validate.StatusFail {
				os.Exit(2)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "results.json", "path to results JSON")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the quick backtest-vs-paper comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadValidationInput(inputPath)
			if err != nil {
				return err
			}
			engine, err := newEngine()
			if err != nil {
				return err
			}

			cmp := engine.Compare(input.Backtest, input.Paper)
			log.Info().
				Bool("passed", cmp.Passed).
				Int("warnings", len(cmp.Warnings)).
				Int("errors", len(cmp.Errors)).
				Msg("Comparison complete")
			return printJSON(cmp)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "results.json", "path to results JSON")
	return cmd
}
