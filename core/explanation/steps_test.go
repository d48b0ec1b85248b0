package explanation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"wc-rating/core/rating"
	"wc-rating/core/types"
)

func compute(t *testing.T, plan *rating.Plan, input types.RatingInput) *types.RatingResult {
	t.Helper()
	result, err := rating.Compute(input, plan)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return result
}

func TestExplainManualPlan(t *testing.T) {
	plan := rating.ManualPlan()
	result := compute(t, plan, plan.NewInput("8824", decimal.NewFromInt(100000)))

	e := Explain(result)
	if len(e.Steps) != 6 {
		t.Fatalf("got %d steps, want 6", len(e.Steps))
	}
	for i, s := range e.Steps {
		if s.Number != i+1 {
			t.Errorf("step %d numbered %d", i, s.Number)
		}
	}
	if !strings.Contains(e.Steps[0].Result, "8824 (Health Care) is 3.99") {
		t.Errorf("base rate step = %q", e.Steps[0].Result)
	}
	if e.Steps[1].Result != "$3,990.00" {
		t.Errorf("manual step = %q", e.Steps[1].Result)
	}
	if e.Steps[4].Result != "-$170.57" {
		t.Errorf("credit step = %q", e.Steps[4].Result)
	}
	if e.Steps[5].Result != "$3,490.88" {
		t.Errorf("net step = %q", e.Steps[5].Result)
	}
}

func TestExplainNotesCap(t *testing.T) {
	plan, err := rating.NewPlan(rating.PlanSpec{
		Classes: []types.ClassRate{{Code: "8810", Rate: decimal.NewFromInt(1)}},
		ScheduleFactors: []rating.ScheduleFactor{
			{Name: "premises", Min: decimal.NewFromInt(-1), Max: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	input := plan.NewInput("8810", decimal.NewFromInt(1000))
	input.Adjustments["premises"] = decimal.RequireFromString("0.40")

	e := Explain(compute(t, plan, input))
	sched := e.Steps[3]
	if !strings.Contains(sched.Note, "+40.000%") {
		t.Errorf("expected cap note, got %q", sched.Note)
	}
	if e.Steps[4].Note != "no program credits applied" {
		t.Errorf("credit note = %q", e.Steps[4].Note)
	}
}

func TestRender(t *testing.T) {
	plan := rating.DashboardPlan()
	input := plan.NewInput("8810", decimal.NewFromInt(100000))
	input.Credits["eap"] = true

	var buf bytes.Buffer
	if err := Explain(compute(t, plan, input)).Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Step 1: Base Rate", "Step 6: Net Premium Due", "= $600.00", "eap=included"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
