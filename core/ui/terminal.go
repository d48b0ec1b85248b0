// Package ui - Terminal user interface
// CLI output with tables, colors and the quote summary box.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"wc-rating/core/output"
	"wc-rating/core/types"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		noColor:   noColor,
		verbosity: 1,
	}
}

// Out returns the underlying writer
func (w *Writer) Out() io.Writer {
	return w.out
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

// color applies color if enabled
func (w *Writer) color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.color(Bold+Cyan, "━━━ "+title+" ━━━"))
	w.Println("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.color(Bold, "▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Println("%s%s", w.color(Green, "✓ "), msg)
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Println("%s%s", w.color(Yellow, "⚠ "), msg)
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Println("%s%s", w.color(Red, ">> ERROR: "), msg)
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	w.Println("%s%s", w.color(Blue, "ℹ "), msg)
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	w.Println("%s", w.color(Dim, "  "+msg))
}

// Rule prints a horizontal line of width n
func (w *Writer) Rule(ch string, n int) {
	w.Println("%s", strings.Repeat(ch, n))
}

// Table renders a table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	bold    map[int]bool
	widths  []int
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		bold:    map[int]bool{},
		widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if n := utf8.RuneCountInString(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

// AddBoldRow adds a highlighted row
func (t *Table) AddBoldRow(cells ...string) {
	t.AddRow(cells...)
	t.bold[len(t.rows)-1] = true
}

func (t *Table) line(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(" │ ")
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", t.widths[i]-utf8.RuneCountInString(cell)))
		}
	}
	return b.String()
}

// Render prints the table
func (t *Table) Render() {
	t.w.Println("%s", t.w.color(Bold, t.line(t.headers)))

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.w.Println("%s", strings.Join(sep, "─┼─"))

	for i, row := range t.rows {
		text := t.line(row)
		if t.bold[i] {
			text = t.w.color(Bold+Green, text)
		}
		t.w.Println("%s", text)
	}
}

// RenderExhibit prints an exhibit as a table
func (w *Writer) RenderExhibit(e *output.Exhibit) {
	w.SubHeader(e.Title)
	table := w.NewTable("Description", "Calculation / Factor")
	for _, row := range e.Rows {
		if row.Total {
			table.AddBoldRow(row.Description, row.Value)
			continue
		}
		table.AddRow(row.Description, row.Value)
	}
	table.Render()
}

// QuoteSummary renders the headline premium figures
type QuoteSummary struct {
	w      *Writer
	result *types.RatingResult
}

// NewQuoteSummary creates a quote summary
func (w *Writer) NewQuoteSummary(result *types.RatingResult) *QuoteSummary {
	return &QuoteSummary{w: w, result: result}
}

// Render prints the quote summary
func (s *QuoteSummary) Render() {
	r := s.result
	s.w.Header("Rating Calculation Completed")

	s.w.Println("%s", s.w.color(Bold, "╭─────────────────────────────────────╮"))
	s.w.Println("%s%s%s", s.w.color(Bold, "│"), fmt.Sprintf("  Class Selected:    %-16s", r.ClassCode), s.w.color(Bold, "│"))
	s.w.Println("%s%s%s", s.w.color(Bold, "│"), fmt.Sprintf("  Manual Premium:    %-16s", output.Currency(r.ManualPremium)), s.w.color(Bold, "│"))
	s.w.Println("%s%s%s", s.w.color(Bold, "│"), fmt.Sprintf("  Standard Premium:  %-16s", output.Currency(r.StandardPremium)), s.w.color(Bold, "│"))
	s.w.Println("%s%s%s", s.w.color(Bold, "│"), s.w.color(Green, fmt.Sprintf("  NET PREMIUM DUE:   %-16s", output.Currency(r.NetPremium))), s.w.color(Bold, "│"))
	s.w.Println("%s", s.w.color(Bold, "╰─────────────────────────────────────╯"))

	if r.Capped {
		s.w.Warning("schedule adjustment %s capped at %s", output.Percent(r.RawAdjustment), output.Percent(r.AppliedAdjustment))
	}
}
