// Package cmd - interactive command
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wc-rating/core/output"
	"wc-rating/core/rating"
	"wc-rating/core/session"
	"wc-rating/core/types"
	"wc-rating/core/ui"
	"wc-rating/internal/config"
	"wc-rating/internal/errors"
	"wc-rating/internal/logging"
)

var saveDir string

// interactiveCmd runs the prompt loop
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Quote premiums from a prompt loop",
	Long: `Prompt for a class code and payroll, print the premium exhibit and
offer another calculation. Type QUIT at any prompt to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(config.Get().Rating)
		if err != nil {
			return err
		}
		return runSession(cmd.InOrStdin(), newUI(cmd), plan, saveDir)
	},
}

func init() {
	interactiveCmd.Flags().StringVar(&saveDir, "save", "", "directory to save each quote as a text report")
}

// runSession drives a session from in until it finishes or input ends
func runSession(in io.Reader, w *ui.Writer, plan *rating.Plan, dir string) error {
	s := session.New(rating.NewCalculator(plan))
	scanner := bufio.NewScanner(in)

	w.Header("Workers' Compensation Rating Session")
	w.Println("Plan %s. Available class codes: %v", plan.Name(), plan.Codes())

	for !s.Done() {
		w.Print("%s", s.Prompt())
		if !scanner.Scan() {
			w.Println("")
			break
		}

		out := s.Handle(scanner.Text())
		if out.Err != nil {
			w.Error("%s", message(out.Err))
			continue
		}
		if out.Result == nil {
			continue
		}

		w.RenderExhibit(output.NewExhibit(out.Result))
		w.NewQuoteSummary(out.Result).Render()
		if dir != "" {
			path, err := saveReport(dir, s.Quotes, out.Result)
			if err != nil {
				w.Error("%s", message(err))
				continue
			}
			w.Success("report saved to %s", path)
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.TypeInput, "failed to read input", err)
	}
	logging.Debug("session finished")
	w.Println("Completed %d calculation(s).", s.Quotes)
	return nil
}

// saveReport writes the n-th quote of a session as a numbered text report
func saveReport(dir string, n int, result *types.RatingResult) (string, error) {
	formatter, err := output.GetDefault().Get(string(output.FormatText))
	if err != nil {
		return "", err
	}
	name := formatter.FileName()
	ext := filepath.Ext(name)
	path := filepath.Join(dir, fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(errors.TypeInternal, err, "failed to create %s", path)
	}
	defer f.Close()

	report := output.NewReport(result, output.ReportMetadata{
		GeneratedAt: time.Now().UTC(),
		Version:     Version,
	})
	if err := formatter.Render(f, report); err != nil {
		return "", err
	}
	return path, nil
}

// message returns the user-facing text of err
func message(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return e.Message
	}
	return err.Error()
}
