package rating

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"wc-rating/core/determinism"
	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes premiums against a single plan
type Calculator struct {
	plan *Plan
}

// NewCalculator creates a calculator bound to plan
func NewCalculator(plan *Plan) *Calculator {
	return &Calculator{plan: plan}
}

// Plan returns the plan the calculator rates against
func (c *Calculator) Plan() *Plan {
	return c.plan
}

// Compute rates input against the calculator's plan
func (c *Calculator) Compute(input types.RatingInput) (*types.RatingResult, error) {
	return Compute(input, c.plan)
}

// Compute rates input against plan.
//
//	manual   = payroll / 100 * rate
//	modified = manual * exp_mod
//	standard = modified * (1 + clamp(sum(adjustments), -cap, +cap))
//	net      = standard - sum(standard * credit_rate) + expense_constant
func Compute(input types.RatingInput, plan *Plan) (*types.RatingResult, error) {
	if plan == nil {
		return nil, errors.Internal("no rating plan configured", nil)
	}

	class, ok := plan.Lookup(string(input.ClassCode))
	if !ok {
		return nil, errors.InvalidClassCode(string(input.ClassCode)).
			WithContext("available", plan.Codes())
	}
	if input.Payroll.IsNegative() {
		return nil, errors.InvalidPayroll(fmt.Sprintf("payroll must not be negative, got %s", input.Payroll))
	}
	if input.ExperienceMod.IsNegative() {
		return nil, errors.Input(fmt.Sprintf("experience mod must not be negative, got %s", input.ExperienceMod))
	}

	schedule, raw, err := scheduleLines(input.Adjustments, plan)
	if err != nil {
		return nil, err
	}
	if err := checkCreditNames(input.Credits, plan); err != nil {
		return nil, err
	}

	manual := input.Payroll.Div(hundred).Mul(class.Rate)
	modified := manual.Mul(input.ExperienceMod)

	applied := Clamp(raw, plan.scheduleCap.Neg(), plan.scheduleCap)
	standard := modified.Mul(decimal.NewFromInt(1).Add(applied))

	credits := make([]types.CreditLine, 0, len(plan.credits))
	totalCredits := decimal.Zero
	for _, pc := range plan.credits {
		included := pc.EnabledByDefault
		if v, ok := input.Credits[pc.Name]; ok {
			included = v
		}
		amount := decimal.Zero
		if included {
			amount = standard.Mul(pc.Rate)
		}
		totalCredits = totalCredits.Add(amount)
		credits = append(credits, types.CreditLine{
			Name:     pc.Name,
			Label:    pc.Label,
			Rate:     pc.Rate,
			Amount:   amount,
			Included: included,
		})
	}

	net := standard.Sub(totalCredits).Add(plan.expenseConstant)

	return &types.RatingResult{
		Plan:              plan.name,
		ClassCode:         class.Code,
		Description:       class.Description,
		Rate:              class.Rate,
		Payroll:           input.Payroll,
		ExperienceMod:     input.ExperienceMod,
		ManualPremium:     manual,
		ModifiedPremium:   modified,
		Schedule:          schedule,
		RawAdjustment:     raw,
		ScheduleCap:       plan.scheduleCap,
		AppliedAdjustment: applied,
		Capped:            !applied.Equal(raw),
		StandardPremium:   standard,
		Credits:           credits,
		TotalCredits:      totalCredits,
		ExpenseConstant:   plan.expenseConstant,
		NetPremium:        net,
	}, nil
}

// Clamp bounds s to [lo, hi]
func Clamp(s, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(s, hi))
}

// scheduleLines resolves every plan factor to its value and returns the raw sum.
// Supplied values must name a known factor and lie within its bounds.
func scheduleLines(adjustments map[string]decimal.Decimal, plan *Plan) ([]types.ScheduleLine, decimal.Decimal, error) {
	for _, name := range determinism.SortedKeys(adjustments) {
		f, ok := plan.Factor(name)
		if !ok {
			return nil, decimal.Zero, errors.InvalidAdjustment(name, "unknown schedule factor").
				WithContext("available", factorNames(plan))
		}
		v := adjustments[name]
		if v.LessThan(f.Min) || v.GreaterThan(f.Max) {
			return nil, decimal.Zero, errors.InvalidAdjustment(name,
				fmt.Sprintf("value %s outside [%s, %s]", v, f.Min, f.Max))
		}
	}

	lines := make([]types.ScheduleLine, 0, len(plan.factors))
	raw := decimal.Zero
	for _, f := range plan.factors {
		v := f.Default
		if supplied, ok := adjustments[f.Name]; ok {
			v = supplied
		}
		raw = raw.Add(v)
		lines = append(lines, types.ScheduleLine{Name: f.Name, Label: f.Label, Value: v})
	}
	return lines, raw, nil
}

func checkCreditNames(credits map[string]bool, plan *Plan) error {
	for _, name := range determinism.SortedKeys(credits) {
		if _, ok := plan.Credit(name); !ok {
			names := make([]string, 0, len(plan.credits))
			for _, c := range plan.credits {
				names = append(names, c.Name)
			}
			return errors.Input(fmt.Sprintf("unknown program credit %s (available: %s)", name, strings.Join(names, ", ")))
		}
	}
	return nil
}

func factorNames(plan *Plan) []string {
	names := make([]string, 0, len(plan.factors))
	for _, f := range plan.factors {
		names = append(names, f.Name)
	}
	return names
}
