package rating

import (
	"sort"

	"github.com/shopspring/decimal"

	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// Built-in preset names
const (
	PresetDashboard = "dashboard"
	PresetManual    = "manual"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// DashboardPlan is the slider-driven plan: four class codes, six bounded
// schedule factors, a 5% drug screening credit and two zero-rate program flags.
func DashboardPlan() *Plan {
	return MustPlan(PlanSpec{
		Name: PresetDashboard,
		Classes: []types.ClassRate{
			{Code: "8810", Rate: d("0.45")},
			{Code: "8824", Rate: d("3.50")},
			{Code: "8825", Rate: d("2.65")},
			{Code: "5183", Rate: d("5.12")},
		},
		ExpenseConstant:      d("150.00"),
		ScheduleCap:          dp("0.25"),
		DefaultExperienceMod: dp("1.00"),
		ScheduleFactors: []ScheduleFactor{
			{Name: "premises", Label: "Premises", Min: d("-0.001"), Max: d("0.001")},
			{Name: "class_peculiarities", Label: "Class Peculiarities", Min: d("-0.001"), Max: d("0.001")},
			{Name: "medical_facilities", Label: "Medical Facilities", Min: d("-0.0005"), Max: d("0.0005")},
			{Name: "safety_devices", Label: "Safety Devices", Min: d("-0.005"), Max: d("0")},
			{Name: "selection_training", Label: "Selection & Training", Min: d("-0.005"), Max: d("0.005")},
			{Name: "management_safety", Label: "Management Safety", Min: d("-0.0005"), Max: d("0.0005")},
		},
		Credits: []ProgramCredit{
			{Name: "drug_screening", Label: "Drug Screening Credit", Rate: d("0.05")},
			{Name: "eap", Label: "EAP", Rate: decimal.Zero},
			{Name: "rtw", Label: "RTW", Rate: decimal.Zero},
		},
	})
}

// ManualPlan is the rating-manual plan with fixed modifiers: experience mod
// 0.95, schedule mod 0.90 and a 0.95 discount, plus a $250 expense constant.
func ManualPlan() *Plan {
	return MustPlan(PlanSpec{
		Name: PresetManual,
		Classes: []types.ClassRate{
			{Code: "8810", Description: "Clerical", Rate: d("0.49")},
			{Code: "8825", Description: "Food Service", Rate: d("2.77")},
			{Code: "8824", Description: "Health Care", Rate: d("3.99")},
		},
		ExpenseConstant:      d("250.00"),
		ScheduleCap:          dp("0.25"),
		DefaultExperienceMod: dp("0.95"),
		ScheduleFactors: []ScheduleFactor{
			{Name: "schedule", Label: "Schedule Rating", Min: d("-0.25"), Max: d("0.25"), Default: d("-0.10")},
		},
		Credits: []ProgramCredit{
			{Name: "discount", Label: "Premium Discount", Rate: d("0.05"), EnabledByDefault: true},
		},
	})
}

var presets = map[string]func() *Plan{
	PresetDashboard: DashboardPlan,
	PresetManual:    ManualPlan,
}

// Preset returns the built-in plan called name
func Preset(name string) (*Plan, error) {
	build, ok := presets[name]
	if !ok {
		return nil, errors.NotFound("rating plan", name).WithContext("available", Presets())
	}
	return build(), nil
}

// Presets lists the built-in plan names in sorted order
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
