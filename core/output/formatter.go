// Package output provides output formatting for premium quotes.
// This package produces human and machine-readable reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"

	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a plain aligned table
	FormatText Format = "text"

	// FormatCSV is a two-column CSV exhibit
	FormatCSV Format = "csv"

	// FormatMarkdown is a markdown table
	FormatMarkdown Format = "markdown"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Report is everything a formatter can render
type Report struct {
	// Result is the computed premium breakdown
	Result *types.RatingResult `json:"result"`

	// Exhibit is the itemized table derived from Result
	Exhibit *Exhibit `json:"exhibit"`

	// Metadata contains execution context
	Metadata ReportMetadata `json:"metadata"`
}

// ReportMetadata contains execution context
type ReportMetadata struct {
	// QuoteID identifies this computation
	QuoteID string `json:"quote_id,omitempty"`

	// InputHash is the fingerprint of the rating input
	InputHash string `json:"input_hash,omitempty"`

	// Plan is the rating plan name
	Plan string `json:"plan"`

	// GeneratedAt is when the report was produced
	GeneratedAt time.Time `json:"generated_at"`

	// Version is the tool version
	Version string `json:"version,omitempty"`
}

// NewReport wraps result with its exhibit
func NewReport(result *types.RatingResult, meta ReportMetadata) *Report {
	if meta.Plan == "" {
		meta.Plan = result.Plan
	}
	return &Report{
		Result:   result,
		Exhibit:  NewExhibit(result),
		Metadata: meta,
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// ContentType is the MIME type of the rendered output
	ContentType() string

	// FileName is the suggested download file name
	FileName() string

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Registry manages formatter registration
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the built-in formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(textFormatter{})
	_ = r.Register(csvFormatter{})
	_ = r.Register(markdownFormatter{})
	_ = r.Register(jsonFormatter{})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Config(fmt.Sprintf("formatter %s already registered", f.Format()))
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for format
func (r *Registry) Get(format string) (Formatter, error) {
	f, ok := r.formatters[Format(strings.ToLower(strings.TrimSpace(format)))]
	if !ok {
		return nil, errors.NotSupported("output format " + format).WithContext("available", r.Formats())
	}
	return f, nil
}

// Formats lists registered formats in sorted order
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

var defaultRegistry = NewRegistry()

// GetDefault returns the default formatter registry
func GetDefault() *Registry {
	return defaultRegistry
}

type textFormatter struct{}

func (textFormatter) Format() Format      { return FormatText }
func (textFormatter) ContentType() string { return "text/plain; charset=utf-8" }
func (textFormatter) FileName() string    { return "WC_Premium_Quote.txt" }

func (textFormatter) Render(w io.Writer, report *Report) error {
	r := report.Result
	fmt.Fprintf(w, "Workers' Compensation Premium Quote\n")
	fmt.Fprintf(w, "Plan: %s   Class: %s", report.Metadata.Plan, r.ClassCode)
	if r.Description != "" {
		fmt.Fprintf(w, " (%s)", r.Description)
	}
	fmt.Fprintf(w, "   Rate: %s   Payroll: %s\n\n", r.Rate.String(), Currency(r.Payroll))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Description\tCalculation / Factor")
	for _, row := range report.Exhibit.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Description, row.Value)
	}
	return tw.Flush()
}

type csvFormatter struct{}

func (csvFormatter) Format() Format      { return FormatCSV }
func (csvFormatter) ContentType() string { return "text/csv" }
func (csvFormatter) FileName() string    { return "WC_Quote.csv" }

func (csvFormatter) Render(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Description", "Amount / Factor"}); err != nil {
		return err
	}
	for _, row := range report.Exhibit.Rows {
		if err := cw.Write([]string{row.Description, row.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type markdownFormatter struct{}

func (markdownFormatter) Format() Format      { return FormatMarkdown }
func (markdownFormatter) ContentType() string { return "text/markdown; charset=utf-8" }
func (markdownFormatter) FileName() string    { return "WC_Quote.md" }

func (markdownFormatter) Render(w io.Writer, report *Report) error {
	fmt.Fprintf(w, "### %s\n\n", report.Exhibit.Title)
	fmt.Fprintf(w, "| Description | Calculation / Factor |\n")
	fmt.Fprintf(w, "|---|---:|\n")
	for _, row := range report.Exhibit.Rows {
		desc, value := row.Description, row.Value
		if row.Total {
			desc, value = "**"+desc+"**", "**"+value+"**"
		}
		if _, err := fmt.Fprintf(w, "| %s | %s |\n", desc, value); err != nil {
			return err
		}
	}
	return nil
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format      { return FormatJSON }
func (jsonFormatter) ContentType() string { return "application/json" }
func (jsonFormatter) FileName() string    { return "WC_Quote.json" }

func (jsonFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
