// Package cmd - explain command
package cmd

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"wc-rating/core/explanation"
	"wc-rating/core/rating"
	"wc-rating/internal/config"
)

var (
	explainOpts quoteOptions
	explainJSON bool
)

// explainCmd represents the explain command
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show how a premium is computed, step by step",
	Long: `Compute a quote and print every rating step with its formula and inputs.

Examples:
  wc-rating explain --class 8810 --payroll 100000
  wc-rating explain --plan manual --class 8824 --payroll 100000 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(config.Get().Rating)
		if err != nil {
			return err
		}
		return runExplain(cmd.OutOrStdout(), plan, explainOpts, explainJSON)
	},
}

func init() {
	addRatingFlags(explainCmd, &explainOpts)
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "print the explanation as JSON")
}

func runExplain(out io.Writer, plan *rating.Plan, opts quoteOptions, asJSON bool) error {
	input, err := buildInput(plan, opts)
	if err != nil {
		return err
	}
	result, err := rating.Compute(input, plan)
	if err != nil {
		return err
	}

	e := explanation.Explain(result)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	}
	return e.Render(out)
}
