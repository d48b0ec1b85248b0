package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"wc-rating/core/types"
)

// Exhibit is the itemized premium calculation table
type Exhibit struct {
	Title string       `json:"title"`
	Rows  []ExhibitRow `json:"rows"`
}

// ExhibitRow is one line of the exhibit
type ExhibitRow struct {
	Description string `json:"description"`
	Value       string `json:"value"`

	// Total marks the final net premium row
	Total bool `json:"total,omitempty"`
}

// NewExhibit builds the premium calculation exhibit for result
func NewExhibit(result *types.RatingResult) *Exhibit {
	e := &Exhibit{Title: "Premium Calculation Exhibit"}
	add := func(desc, value string) {
		e.Rows = append(e.Rows, ExhibitRow{Description: desc, Value: value})
	}

	add("Manual Premium", Currency(result.ManualPremium))
	add("Experience Modification", result.ExperienceMod.StringFixed(2))
	add("Modified Premium (Manual x Mod)", Currency(result.ModifiedPremium))
	add(fmt.Sprintf("Schedule Adjustment (Capped at %s)", RatePercent(result.ScheduleCap)), Percent(result.AppliedAdjustment))
	add("Standard Premium", Currency(result.StandardPremium))

	var flags []string
	for _, c := range result.Credits {
		if c.IsFlag() {
			flags = append(flags, c.Label)
			continue
		}
		add(fmt.Sprintf("%s (%s)", c.Label, RatePercent(c.Rate)), "-"+Currency(c.Amount))
	}
	if len(flags) > 0 {
		v := "N/A"
		if result.FlagCreditsIncluded() {
			v = "Included"
		}
		add(strings.Join(flags, " / ")+" Programs (0%)", v)
	}

	add("Expense Constant", Currency(result.ExpenseConstant))
	e.Rows = append(e.Rows, ExhibitRow{Description: "NET PREMIUM DUE", Value: Currency(result.NetPremium), Total: true})
	return e
}

// Currency renders d as $1,234.56, rounding half away from zero to cents
func Currency(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.BigComma(whole.BigInt()), cents)
}

// Percent renders a fraction as a signed percentage with three decimals (+1.250%)
func Percent(fraction decimal.Decimal) string {
	p := fraction.Shift(2)
	s := p.StringFixed(3)
	if !p.IsNegative() {
		s = "+" + s
	}
	return s + "%"
}

// RatePercent renders a credit rate such as 0.05 as 5%
func RatePercent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}
