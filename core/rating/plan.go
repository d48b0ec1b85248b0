// Package rating implements the workers' compensation premium calculation.
//
// A Plan is the immutable rating configuration (rate table, expense constant,
// schedule rating factors and cap, program credits). Compute turns a
// RatingInput into a RatingResult against a Plan with no other state.
package rating

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// DefaultScheduleCap is the regulatory schedule rating cap of +/-25%
var DefaultScheduleCap = decimal.RequireFromString("0.25")

// ScheduleFactor is one schedule rating input with its allowed range
type ScheduleFactor struct {
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Default decimal.Decimal `json:"default"`
}

// ProgramCredit is a percentage credit applied to standard premium.
// A zero Rate makes it a display-only program flag.
type ProgramCredit struct {
	Name             string          `json:"name"`
	Label            string          `json:"label"`
	Rate             decimal.Decimal `json:"rate"`
	EnabledByDefault bool            `json:"enabled_by_default"`
}

// PlanSpec is the unvalidated description of a Plan
type PlanSpec struct {
	Name                 string
	Classes              []types.ClassRate
	ExpenseConstant      decimal.Decimal
	ScheduleCap          *decimal.Decimal
	DefaultExperienceMod *decimal.Decimal
	ScheduleFactors      []ScheduleFactor
	Credits              []ProgramCredit
}

// Plan is a validated, immutable rating configuration.
// It is safe for concurrent use.
type Plan struct {
	name                 string
	rates                map[types.ClassCode]types.ClassRate
	codes                []types.ClassCode
	expenseConstant      decimal.Decimal
	scheduleCap          decimal.Decimal
	defaultExperienceMod decimal.Decimal
	factors              []ScheduleFactor
	factorIndex          map[string]int
	credits              []ProgramCredit
	creditIndex          map[string]int
}

// NewPlan validates spec and builds a Plan
func NewPlan(spec PlanSpec) (*Plan, error) {
	if len(spec.Classes) == 0 {
		return nil, errors.Config("rate table must contain at least one class code")
	}

	p := &Plan{
		name:                 spec.Name,
		rates:                make(map[types.ClassCode]types.ClassRate, len(spec.Classes)),
		expenseConstant:      spec.ExpenseConstant,
		scheduleCap:          DefaultScheduleCap,
		defaultExperienceMod: decimal.NewFromInt(1),
		factorIndex:          make(map[string]int, len(spec.ScheduleFactors)),
		creditIndex:          make(map[string]int, len(spec.Credits)),
	}
	if p.name == "" {
		p.name = "custom"
	}

	for _, c := range spec.Classes {
		code := NormalizeCode(string(c.Code))
		if code == "" {
			return nil, errors.Config("class code must not be empty")
		}
		if _, dup := p.rates[code]; dup {
			return nil, errors.Config(fmt.Sprintf("duplicate class code %s", code))
		}
		if !c.Rate.IsPositive() {
			return nil, errors.Config(fmt.Sprintf("rate for class %s must be positive, got %s", code, c.Rate))
		}
		c.Code = code
		p.rates[code] = c
		p.codes = append(p.codes, code)
	}
	sort.Slice(p.codes, func(i, j int) bool { return p.codes[i] < p.codes[j] })

	if p.expenseConstant.IsNegative() {
		return nil, errors.Config("expense constant must not be negative")
	}

	if spec.ScheduleCap != nil {
		if spec.ScheduleCap.IsNegative() || spec.ScheduleCap.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, errors.Config(fmt.Sprintf("schedule cap must be in [0, 1), got %s", spec.ScheduleCap))
		}
		p.scheduleCap = *spec.ScheduleCap
	}

	if spec.DefaultExperienceMod != nil {
		if spec.DefaultExperienceMod.IsNegative() {
			return nil, errors.Config("default experience mod must not be negative")
		}
		p.defaultExperienceMod = *spec.DefaultExperienceMod
	}

	for _, f := range spec.ScheduleFactors {
		if f.Name == "" {
			return nil, errors.Config("schedule factor name must not be empty")
		}
		if _, dup := p.factorIndex[f.Name]; dup {
			return nil, errors.Config(fmt.Sprintf("duplicate schedule factor %s", f.Name))
		}
		if f.Min.GreaterThan(f.Max) {
			return nil, errors.Config(fmt.Sprintf("schedule factor %s: min %s exceeds max %s", f.Name, f.Min, f.Max))
		}
		if f.Default.LessThan(f.Min) || f.Default.GreaterThan(f.Max) {
			return nil, errors.Config(fmt.Sprintf("schedule factor %s: default %s outside [%s, %s]", f.Name, f.Default, f.Min, f.Max))
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		p.factorIndex[f.Name] = len(p.factors)
		p.factors = append(p.factors, f)
	}

	total := decimal.Zero
	for _, c := range spec.Credits {
		if c.Name == "" {
			return nil, errors.Config("credit name must not be empty")
		}
		if _, dup := p.creditIndex[c.Name]; dup {
			return nil, errors.Config(fmt.Sprintf("duplicate credit %s", c.Name))
		}
		if c.Rate.IsNegative() || c.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errors.Config(fmt.Sprintf("credit %s: rate must be in [0, 1], got %s", c.Name, c.Rate))
		}
		if c.Label == "" {
			c.Label = c.Name
		}
		total = total.Add(c.Rate)
		p.creditIndex[c.Name] = len(p.credits)
		p.credits = append(p.credits, c)
	}
	// Keeps net premium non-negative and monotone in payroll.
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errors.Config(fmt.Sprintf("credit rates sum to %s, must not exceed 1", total))
	}

	return p, nil
}

// MustPlan is NewPlan that panics on error. Used for built-in presets.
func MustPlan(spec PlanSpec) *Plan {
	p, err := NewPlan(spec)
	if err != nil {
		panic(err)
	}
	return p
}

// NormalizeCode trims and upper-cases a class code
func NormalizeCode(code string) types.ClassCode {
	return types.ClassCode(strings.ToUpper(strings.TrimSpace(code)))
}

// Name returns the plan name
func (p *Plan) Name() string { return p.name }

// ExpenseConstant returns the per-policy dollar add-on
func (p *Plan) ExpenseConstant() decimal.Decimal { return p.expenseConstant }

// ScheduleCap returns the symmetric schedule rating cap
func (p *Plan) ScheduleCap() decimal.Decimal { return p.scheduleCap }

// DefaultExperienceMod returns the mod used when a front end supplies none
func (p *Plan) DefaultExperienceMod() decimal.Decimal { return p.defaultExperienceMod }

// Lookup returns the rate table entry for code
func (p *Plan) Lookup(code string) (types.ClassRate, bool) {
	c, ok := p.rates[NormalizeCode(code)]
	return c, ok
}

// Codes returns the class codes in sorted order
func (p *Plan) Codes() []types.ClassCode {
	out := make([]types.ClassCode, len(p.codes))
	copy(out, p.codes)
	return out
}

// Classes returns the rate table in sorted code order
func (p *Plan) Classes() []types.ClassRate {
	out := make([]types.ClassRate, 0, len(p.codes))
	for _, code := range p.codes {
		out = append(out, p.rates[code])
	}
	return out
}

// ScheduleFactors returns the schedule factors in plan order
func (p *Plan) ScheduleFactors() []ScheduleFactor {
	out := make([]ScheduleFactor, len(p.factors))
	copy(out, p.factors)
	return out
}

// Factor returns the schedule factor called name
func (p *Plan) Factor(name string) (ScheduleFactor, bool) {
	i, ok := p.factorIndex[name]
	if !ok {
		return ScheduleFactor{}, false
	}
	return p.factors[i], true
}

// Credits returns the program credits in plan order
func (p *Plan) Credits() []ProgramCredit {
	out := make([]ProgramCredit, len(p.credits))
	copy(out, p.credits)
	return out
}

// Credit returns the program credit called name
func (p *Plan) Credit(name string) (ProgramCredit, bool) {
	i, ok := p.creditIndex[name]
	if !ok {
		return ProgramCredit{}, false
	}
	return p.credits[i], true
}

// NewInput returns an input for code and payroll with the plan's default
// experience mod and empty adjustment and credit maps.
func (p *Plan) NewInput(code string, payroll decimal.Decimal) types.RatingInput {
	return types.RatingInput{
		ClassCode:     NormalizeCode(code),
		Payroll:       payroll,
		ExperienceMod: p.defaultExperienceMod,
		Adjustments:   map[string]decimal.Decimal{},
		Credits:       map[string]bool{},
	}
}
