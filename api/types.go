// Package api - HTTP API types
// Request and response shapes for the quoting service.
package api

import (
	"github.com/shopspring/decimal"

	"wc-rating/core/explanation"
	"wc-rating/core/output"
	"wc-rating/core/rating"
	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// QuoteRequest is the body of POST /quote and its variants
type QuoteRequest struct {
	// ClassCode is the classification code to rate
	ClassCode string `json:"class_code"`

	// Payroll is annual payroll in dollars; required
	Payroll *decimal.Decimal `json:"payroll"`

	// ExperienceMod defaults to the plan's default when omitted
	ExperienceMod *decimal.Decimal `json:"experience_mod,omitempty"`

	// Adjustments are schedule rating values as fractions by factor name
	Adjustments map[string]decimal.Decimal `json:"adjustments,omitempty"`

	// Credits toggles program credits by name
	Credits map[string]bool `json:"credits,omitempty"`
}

// ToInput converts the request into a rating input against plan
func (r *QuoteRequest) ToInput(plan *rating.Plan) (types.RatingInput, error) {
	if r.Payroll == nil {
		return types.RatingInput{}, errors.InvalidPayroll("payroll is required")
	}
	input := plan.NewInput(r.ClassCode, *r.Payroll)
	if r.ExperienceMod != nil {
		input.ExperienceMod = *r.ExperienceMod
	}
	for name, v := range r.Adjustments {
		input.Adjustments[name] = v
	}
	for name, on := range r.Credits {
		input.Credits[name] = on
	}
	return input, nil
}

// QuoteResponse is the body returned by POST /quote
type QuoteResponse struct {
	QuoteID   string              `json:"quote_id"`
	InputHash string              `json:"input_hash"`
	Result    *types.RatingResult `json:"result"`
	Exhibit   *output.Exhibit     `json:"exhibit"`
}

// ExplainResponse is the body returned by POST /quote/explain
type ExplainResponse struct {
	QuoteID     string                          `json:"quote_id"`
	InputHash   string                          `json:"input_hash"`
	Result      *types.RatingResult             `json:"result"`
	Explanation *explanation.PremiumExplanation `json:"explanation"`
}

// ClassesResponse lists the rate table
type ClassesResponse struct {
	Plan    string            `json:"plan"`
	Classes []types.ClassRate `json:"classes"`
}

// PlanResponse describes the active rating plan
type PlanResponse struct {
	Name                 string                  `json:"name"`
	ExpenseConstant      decimal.Decimal         `json:"expense_constant"`
	ScheduleCap          decimal.Decimal         `json:"schedule_cap"`
	DefaultExperienceMod decimal.Decimal         `json:"default_experience_mod"`
	Classes              []types.ClassRate       `json:"classes"`
	ScheduleFactors      []rating.ScheduleFactor `json:"schedule_factors"`
	Credits              []rating.ProgramCredit  `json:"credits"`
}

// NewPlanResponse snapshots plan for serialization
func NewPlanResponse(plan *rating.Plan) PlanResponse {
	return PlanResponse{
		Name:                 plan.Name(),
		ExpenseConstant:      plan.ExpenseConstant(),
		ScheduleCap:          plan.ScheduleCap(),
		DefaultExperienceMod: plan.DefaultExperienceMod(),
		Classes:              plan.Classes(),
		ScheduleFactors:      plan.ScheduleFactors(),
		Credits:              plan.Credits(),
	}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
