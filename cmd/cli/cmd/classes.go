// Package cmd - classes command
package cmd

import (
	"github.com/spf13/cobra"

	"wc-rating/core/output"
	"wc-rating/core/rating"
	"wc-rating/core/ui"
	"wc-rating/internal/config"
)

// classesCmd lists the rate table of the active plan
var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List class codes and rates of the active plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(config.Get().Rating)
		if err != nil {
			return err
		}
		renderClasses(newUI(cmd), plan)
		return nil
	},
}

func renderClasses(w *ui.Writer, plan *rating.Plan) {
	w.SubHeader("Plan " + plan.Name())
	table := w.NewTable("Class", "Description", "Rate per $100")
	for _, c := range plan.Classes() {
		table.AddRow(string(c.Code), c.Description, c.Rate.StringFixed(2))
	}
	table.Render()

	if len(plan.Credits()) > 0 {
		w.Println("")
		credits := w.NewTable("Credit", "Label", "Rate")
		for _, c := range plan.Credits() {
			credits.AddRow(c.Name, c.Label, output.RatePercent(c.Rate))
		}
		credits.Render()
	}
	w.Println("Expense constant: %s", output.Currency(plan.ExpenseConstant()))
}
