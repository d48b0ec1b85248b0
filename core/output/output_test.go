package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"wc-rating/core/rating"
	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

func dashboardReport(t *testing.T, credits map[string]bool) *Report {
	t.Helper()
	plan := rating.DashboardPlan()
	input := plan.NewInput("8824", decimal.RequireFromString("100000"))
	input.Adjustments["selection_training"] = decimal.RequireFromString("-0.005")
	for k, v := range credits {
		input.Credits[k] = v
	}
	result, err := rating.Compute(input, plan)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return NewReport(result, ReportMetadata{QuoteID: "q-1", GeneratedAt: time.Unix(0, 0).UTC()})
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"450", "$450.00"},
		{"3490.8775", "$3,490.88"},
		{"3241.305", "$3,241.31"},
		{"1234567.891", "$1,234,567.89"},
		{"-170.5725", "-$170.57"},
		{"0.004", "$0.00"},
		{"12345678901234567890123.456", "$12,345,678,901,234,567,890,123.46"},
		{"-100000000000000000000", "-$100,000,000,000,000,000,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Currency(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "+0.000%"},
		{"0.25", "+25.000%"},
		{"-0.005", "-0.500%"},
		{"-0.10", "-10.000%"},
	}
	for _, tt := range tests {
		if got := Percent(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Percent(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := RatePercent(decimal.RequireFromString("0.05")); got != "5%" {
		t.Errorf("RatePercent = %q", got)
	}
}

func TestExhibitRows(t *testing.T) {
	report := dashboardReport(t, map[string]bool{"drug_screening": true})
	rows := report.Exhibit.Rows

	want := []ExhibitRow{
		{Description: "Manual Premium", Value: "$3,500.00"},
		{Description: "Experience Modification", Value: "1.00"},
		{Description: "Modified Premium (Manual x Mod)", Value: "$3,500.00"},
		{Description: "Schedule Adjustment (Capped at 25%)", Value: "-0.500%"},
		{Description: "Standard Premium", Value: "$3,482.50"},
		{Description: "Drug Screening Credit (5%)", Value: "-$174.13"},
		{Description: "EAP / RTW Programs (0%)", Value: "N/A"},
		{Description: "Expense Constant", Value: "$150.00"},
		{Description: "NET PREMIUM DUE", Value: "$3,458.38", Total: true},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestExhibitUsesPlanCap(t *testing.T) {
	limit := decimal.RequireFromString("0.10")
	plan, err := rating.NewPlan(rating.PlanSpec{
		Classes:     []types.ClassRate{{Code: "8810", Rate: decimal.NewFromInt(1)}},
		ScheduleCap: &limit,
	})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	result, err := rating.Compute(plan.NewInput("8810", decimal.RequireFromString("1e25")), plan)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	e := NewExhibit(result)
	if got := e.Rows[3].Description; got != "Schedule Adjustment (Capped at 10%)" {
		t.Errorf("schedule row = %q", got)
	}
	if got := e.Rows[0].Value; got != "$100,000,000,000,000,000,000,000.00" {
		t.Errorf("manual premium row = %q", got)
	}
}

func TestExhibitFlagCreditsIncluded(t *testing.T) {
	report := dashboardReport(t, map[string]bool{"rtw": true})
	for _, row := range report.Exhibit.Rows {
		if strings.HasPrefix(row.Description, "EAP / RTW") {
			if row.Value != "Included" {
				t.Errorf("flag row = %q, want Included", row.Value)
			}
			return
		}
	}
	t.Fatal("flag credit row missing")
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if got := strings.Join(reg.Formats(), ","); got != "csv,json,markdown,text" {
		t.Errorf("Formats() = %s", got)
	}
	if _, err := reg.Get(" CSV "); err != nil {
		t.Errorf("Get should normalize format names: %v", err)
	}
	if _, err := reg.Get("pdf"); !errors.IsType(err, errors.TypeNotSupported) {
		t.Errorf("expected not supported, got %v", err)
	}
	if err := reg.Register(csvFormatter{}); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected duplicate registration to fail, got %v", err)
	}
}

func TestRenderCSV(t *testing.T) {
	report := dashboardReport(t, nil)
	f, _ := GetDefault().Get("csv")

	var buf bytes.Buffer
	if err := f.Render(&buf, report); err != nil {
		t.Fatalf("Render: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != len(report.Exhibit.Rows)+1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0][0] != "Description" || records[0][1] != "Amount / Factor" {
		t.Errorf("header = %v", records[0])
	}
	last := records[len(records)-1]
	if last[0] != "NET PREMIUM DUE" {
		t.Errorf("last row = %v", last)
	}
	if f.FileName() != "WC_Quote.csv" || f.ContentType() != "text/csv" {
		t.Errorf("download metadata = %s %s", f.FileName(), f.ContentType())
	}
}

func TestRenderText(t *testing.T) {
	report := dashboardReport(t, nil)
	f, _ := GetDefault().Get("text")

	var buf bytes.Buffer
	if err := f.Render(&buf, report); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Plan: dashboard", "Class: 8824", "Calculation / Factor", "NET PREMIUM DUE"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	report := dashboardReport(t, nil)
	f, _ := GetDefault().Get("markdown")

	var buf bytes.Buffer
	if err := f.Render(&buf, report); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "| **NET PREMIUM DUE** |") {
		t.Errorf("markdown output missing bold total:\n%s", buf.String())
	}
}

func TestRenderJSON(t *testing.T) {
	report := dashboardReport(t, nil)
	f, _ := GetDefault().Get("json")

	var buf bytes.Buffer
	if err := f.Render(&buf, report); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded struct {
		Result struct {
			NetPremium decimal.Decimal `json:"net_premium"`
		} `json:"result"`
		Metadata ReportMetadata `json:"metadata"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Result.NetPremium.Equal(report.Result.NetPremium) {
		t.Errorf("net premium = %s, want %s", decoded.Result.NetPremium, report.Result.NetPremium)
	}
	if decoded.Metadata.Plan != "dashboard" || decoded.Metadata.QuoteID != "q-1" {
		t.Errorf("metadata = %+v", decoded.Metadata)
	}
}
