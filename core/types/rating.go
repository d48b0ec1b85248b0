// Package types - Rating input and result types
package types

import "github.com/shopspring/decimal"

// ClassCode is a workers' compensation classification code (e.g. "8810")
type ClassCode string

// String returns the string representation
func (c ClassCode) String() string {
	return string(c)
}

// ClassRate is a single rate table entry
type ClassRate struct {
	// Code is the classification code
	Code ClassCode `json:"code"`

	// Description is a human-readable class name
	Description string `json:"description,omitempty"`

	// Rate is the manual rate in dollars per $100 of payroll
	Rate decimal.Decimal `json:"rate"`
}

// RatingInput is everything a premium computation depends on
type RatingInput struct {
	// ClassCode must exist in the plan's rate table
	ClassCode ClassCode `json:"class_code"`

	// Payroll is annual payroll in dollars
	Payroll decimal.Decimal `json:"payroll"`

	// ExperienceMod is the experience modification factor (1.00 = neutral)
	ExperienceMod decimal.Decimal `json:"experience_mod"`

	// Adjustments are schedule rating values by factor name, as fractions.
	// Factors not present take the plan default.
	Adjustments map[string]decimal.Decimal `json:"adjustments,omitempty"`

	// Credits toggles program credits by name.
	// Credits not present take the plan default.
	Credits map[string]bool `json:"credits,omitempty"`
}

// ScheduleLine records the value used for one schedule factor
type ScheduleLine struct {
	Name  string          `json:"name"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// CreditLine records one program credit
type CreditLine struct {
	Name  string          `json:"name"`
	Label string          `json:"label"`
	Rate  decimal.Decimal `json:"rate"`

	// Amount is StandardPremium * Rate when included, zero otherwise
	Amount decimal.Decimal `json:"amount"`

	// Included reports whether the credit was enabled
	Included bool `json:"included"`
}

// IsFlag reports whether the credit carries no monetary rate
func (c CreditLine) IsFlag() bool {
	return c.Rate.IsZero()
}

// RatingResult is the full premium breakdown
type RatingResult struct {
	// Plan is the name of the rating plan used
	Plan string `json:"plan"`

	ClassCode   ClassCode       `json:"class_code"`
	Description string          `json:"description,omitempty"`
	Rate        decimal.Decimal `json:"rate"`

	Payroll       decimal.Decimal `json:"payroll"`
	ExperienceMod decimal.Decimal `json:"experience_mod"`

	// ManualPremium is Payroll / 100 * Rate
	ManualPremium decimal.Decimal `json:"manual_premium"`

	// ModifiedPremium is ManualPremium * ExperienceMod
	ModifiedPremium decimal.Decimal `json:"modified_premium"`

	// Schedule lists the value applied per schedule factor, in plan order
	Schedule []ScheduleLine `json:"schedule,omitempty"`

	// RawAdjustment is the uncapped sum of schedule values
	RawAdjustment decimal.Decimal `json:"raw_adjustment"`

	// ScheduleCap is the plan's symmetric bound on the schedule adjustment
	ScheduleCap decimal.Decimal `json:"schedule_cap"`

	// AppliedAdjustment is RawAdjustment clamped to the schedule cap
	AppliedAdjustment decimal.Decimal `json:"applied_adjustment"`

	// Capped reports whether the cap truncated RawAdjustment
	Capped bool `json:"capped"`

	// StandardPremium is ModifiedPremium * (1 + AppliedAdjustment)
	StandardPremium decimal.Decimal `json:"standard_premium"`

	// Credits lists every program credit, in plan order
	Credits []CreditLine `json:"credits,omitempty"`

	TotalCredits    decimal.Decimal `json:"total_credits"`
	ExpenseConstant decimal.Decimal `json:"expense_constant"`

	// NetPremium is StandardPremium - TotalCredits + ExpenseConstant
	NetPremium decimal.Decimal `json:"net_premium"`
}

// FlagCreditsIncluded reports whether any zero-rate program credit is enabled
func (r *RatingResult) FlagCreditsIncluded() bool {
	for _, c := range r.Credits {
		if c.IsFlag() && c.Included {
			return true
		}
	}
	return false
}
