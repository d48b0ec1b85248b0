// Package cmd - quote command
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wc-rating/core/determinism"
	"wc-rating/core/output"
	"wc-rating/core/rating"
	"wc-rating/core/types"
	"wc-rating/core/ui"
	"wc-rating/internal/config"
	"wc-rating/internal/errors"
	"wc-rating/internal/logging"
)

// quoteOptions are the rating inputs shared by quote and explain
type quoteOptions struct {
	Class         string
	Payroll       string
	ExperienceMod string
	Adjustments   []string
	Credits       []string
	Format        string
	Output        string
}

var quoteOpts quoteOptions

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a premium quote",
	Long: `Compute the net premium for one class code and payroll.

Schedule adjustments are fractions (0.05 is +5%). Credits are toggled by
name; a bare name enables the credit.

Examples:
  wc-rating quote --class 8810 --payroll 100000
  wc-rating quote --class 8824 --payroll "$100,000" --exp-mod 0.95
  wc-rating quote --class 8825 --payroll 50000 --adjust premises=-0.001 --credit drug_screening
  wc-rating quote --plan manual --class 8824 --payroll 100000 --format csv --output .`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(config.Get().Rating)
		if err != nil {
			return err
		}
		return runQuote(cmd.OutOrStdout(), newUI(cmd), plan, quoteOpts)
	},
}

func init() {
	addRatingFlags(quoteCmd, &quoteOpts)
	quoteCmd.Flags().StringVarP(&quoteOpts.Format, "format", "f", "", "output format (text, csv, markdown, json)")
	quoteCmd.Flags().StringVarP(&quoteOpts.Output, "output", "o", "", "write the report to this file or directory")
}

func addRatingFlags(c *cobra.Command, opts *quoteOptions) {
	c.Flags().StringVarP(&opts.Class, "class", "c", "", "class code (required)")
	c.Flags().StringVarP(&opts.Payroll, "payroll", "p", "", "annual payroll in dollars (required)")
	c.Flags().StringVar(&opts.ExperienceMod, "exp-mod", "", "experience modification factor (default from plan)")
	c.Flags().StringArrayVar(&opts.Adjustments, "adjust", nil, "schedule adjustment name=fraction, repeatable")
	c.Flags().StringArrayVar(&opts.Credits, "credit", nil, "program credit name[=true|false], repeatable")
	_ = c.MarkFlagRequired("class")
	_ = c.MarkFlagRequired("payroll")
}

// buildInput turns command line values into a rating input against plan
func buildInput(plan *rating.Plan, opts quoteOptions) (types.RatingInput, error) {
	payroll, err := rating.ParsePayroll(opts.Payroll)
	if err != nil {
		return types.RatingInput{}, err
	}
	input := plan.NewInput(opts.Class, payroll)

	if opts.ExperienceMod != "" {
		mod, err := rating.ParseFactor("experience mod", opts.ExperienceMod)
		if err != nil {
			return input, err
		}
		input.ExperienceMod = mod
	}

	for _, kv := range opts.Adjustments {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return input, errors.Input(fmt.Sprintf("adjustment %q must be name=value", kv))
		}
		name = strings.TrimSpace(name)
		v, err := rating.ParseFactor(name, value)
		if err != nil {
			return input, err
		}
		input.Adjustments[name] = v
	}

	for _, kv := range opts.Credits {
		name, value, hasValue := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		on := true
		if hasValue {
			on, err = strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return input, errors.Input(fmt.Sprintf("credit %s: %q is not a boolean", name, value))
			}
		}
		input.Credits[name] = on
	}

	return input, nil
}

func runQuote(out io.Writer, w *ui.Writer, plan *rating.Plan, opts quoteOptions) error {
	input, err := buildInput(plan, opts)
	if err != nil {
		return err
	}
	result, err := rating.Compute(input, plan)
	if err != nil {
		return err
	}
	logging.Debug("quote computed")

	format := opts.Format
	if format == "" {
		format = config.Get().Output.DefaultFormat
	}

	// the plain terminal view uses the colored table
	if opts.Output == "" && (format == "" || format == string(output.FormatText)) {
		w.RenderExhibit(output.NewExhibit(result))
		w.NewQuoteSummary(result).Render()
		return nil
	}

	formatter, err := output.GetDefault().Get(format)
	if err != nil {
		return err
	}
	report := output.NewReport(result, output.ReportMetadata{
		QuoteID:     uuid.NewString(),
		InputHash:   determinism.HashInput(input).Hex(),
		GeneratedAt: time.Now().UTC(),
		Version:     Version,
	})

	if opts.Output == "" {
		return formatter.Render(out, report)
	}

	path := opts.Output
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, formatter.FileName())
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.TypeInternal, err, "failed to create %s", path)
	}
	defer f.Close()

	if err := formatter.Render(f, report); err != nil {
		return err
	}
	w.Success("report saved to %s", path)
	return nil
}
