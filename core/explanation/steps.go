// Package explanation - Step-by-step premium explanation
// Exposes HOW the net premium was reached, not just the total.
package explanation

import (
	"fmt"
	"io"
	"strings"

	"wc-rating/core/output"
	"wc-rating/core/types"
)

// Step is one stage of the rating calculation
type Step struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Formula string  `json:"formula,omitempty"`
	Inputs  []Input `json:"inputs,omitempty"`
	Result  string  `json:"result"`

	// Note carries a remark such as the cap having been applied
	Note string `json:"note,omitempty"`
}

// Input represents an input to a step's formula
type Input struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PremiumExplanation is the narrative of one computation
type PremiumExplanation struct {
	Plan      string `json:"plan"`
	ClassCode string `json:"class_code"`
	Steps     []Step `json:"steps"`
}

// Explain builds the step list for result
func Explain(result *types.RatingResult) *PremiumExplanation {
	e := &PremiumExplanation{Plan: result.Plan, ClassCode: string(result.ClassCode)}
	add := func(s Step) {
		s.Number = len(e.Steps) + 1
		e.Steps = append(e.Steps, s)
	}

	class := string(result.ClassCode)
	if result.Description != "" {
		class += " (" + result.Description + ")"
	}
	add(Step{
		Title:  "Base Rate",
		Inputs: []Input{{Name: "class_code", Value: class}},
		Result: fmt.Sprintf("Base rate for %s is %s per $100 of payroll", class, result.Rate),
	})
	add(Step{
		Title:   "Manual Premium",
		Formula: "payroll / 100 * rate",
		Inputs: []Input{
			{Name: "payroll", Value: output.Currency(result.Payroll)},
			{Name: "rate", Value: result.Rate.String()},
		},
		Result: output.Currency(result.ManualPremium),
	})
	add(Step{
		Title:   "Modified Premium",
		Formula: "manual premium * experience mod",
		Inputs:  []Input{{Name: "experience_mod", Value: result.ExperienceMod.StringFixed(2)}},
		Result:  output.Currency(result.ModifiedPremium),
	})

	sched := Step{
		Title:   "Standard Premium",
		Formula: "modified premium * (1 + schedule adjustment)",
		Result:  output.Currency(result.StandardPremium),
	}
	for _, line := range result.Schedule {
		if line.Value.IsZero() {
			continue
		}
		sched.Inputs = append(sched.Inputs, Input{Name: line.Name, Value: output.Percent(line.Value)})
	}
	sched.Inputs = append(sched.Inputs, Input{Name: "applied_adjustment", Value: output.Percent(result.AppliedAdjustment)})
	if result.Capped {
		sched.Note = fmt.Sprintf("raw adjustment %s truncated to the schedule rating cap", output.Percent(result.RawAdjustment))
	}
	add(sched)

	credits := Step{
		Title:   "Program Credits",
		Formula: "standard premium * credit rate, per enabled credit",
		Result:  "-" + output.Currency(result.TotalCredits),
	}
	for _, c := range result.Credits {
		if !c.Included {
			continue
		}
		value := "-" + output.Currency(c.Amount)
		if c.IsFlag() {
			value = "included"
		}
		credits.Inputs = append(credits.Inputs, Input{Name: c.Name, Value: value})
	}
	if len(credits.Inputs) == 0 {
		credits.Note = "no program credits applied"
	}
	add(credits)

	add(Step{
		Title:   "Net Premium Due",
		Formula: "standard premium - credits + expense constant",
		Inputs:  []Input{{Name: "expense_constant", Value: output.Currency(result.ExpenseConstant)}},
		Result:  output.Currency(result.NetPremium),
	})

	return e
}

// Render writes the explanation as numbered plain-text steps
func (e *PremiumExplanation) Render(w io.Writer) error {
	for _, s := range e.Steps {
		line := fmt.Sprintf("Step %d: %s", s.Number, s.Title)
		if s.Formula != "" {
			line += " (" + s.Formula + ")"
		}
		line += " = " + s.Result
		if len(s.Inputs) > 0 {
			parts := make([]string, 0, len(s.Inputs))
			for _, in := range s.Inputs {
				parts = append(parts, in.Name+"="+in.Value)
			}
			line += "\n        " + strings.Join(parts, ", ")
		}
		if s.Note != "" {
			line += "\n        note: " + s.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
