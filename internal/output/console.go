package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dotcommander/districtkpi/internal/report"
)

// ConsoleFormatter renders each report as lipgloss tables followed by the
// city breakdown.
type ConsoleFormatter struct {
	out        io.Writer
	quiet      bool
	verbose    bool
	outputFile string
}

// NewConsoleFormatter creates a new ConsoleFormatter writing to out, or to
// outputFile when set.
func NewConsoleFormatter(out io.Writer, quiet, verbose bool, outputFile string) *ConsoleFormatter {
	return &ConsoleFormatter{
		out:        out,
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
	}
}

// Format renders the batch. Quiet mode falls back to the compact summary.
func (f *ConsoleFormatter) Format(b *report.Batch) error {
	if f.quiet {
		return NewCompactFormatter(f.out, f.verbose, f.outputFile).Format(b)
	}

	var buf bytes.Buffer
	// Colour only when writing straight to a terminal.
	renderer := lipgloss.NewRenderer(&buf)
	if f.outputFile == "" {
		renderer = lipgloss.NewRenderer(f.out)
	}
	l := report.NewLabels(b.Lang)

	if len(b.Reports) == 0 && len(b.Failures) == 0 {
		fmt.Fprintln(&buf, l.T("report.empty"))
	}
	for i, r := range b.Reports {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		f.printReport(&buf, renderer, r, l)
	}
	f.printFailures(&buf, renderer, b.Failures, l)

	return writeOutput(f.out, f.outputFile, buf.Bytes())
}

func (f *ConsoleFormatter) printReport(w io.Writer, renderer *lipgloss.Renderer, r *report.Report, l *report.Labels) {
	bold := renderer.NewStyle().Bold(true)
	dim := renderer.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Fprintln(w, bold.Render(reportHeading(r, l)))
	if f.verbose {
		fmt.Fprintln(w, dim.Render(fmt.Sprintf("%s: %s  id: %s", l.T("report.rounding"), r.Rounding, r.ID)))
	}

	for _, t := range r.Tables(l) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold.Render(t.Title))
		fmt.Fprintln(w, renderTable(renderer, t))
		fmt.Fprintln(w, dim.Render(t.NotesTitle))
		for _, note := range t.Notes {
			fmt.Fprintf(w, "  %s\n", note)
		}
	}
}

func (f *ConsoleFormatter) printFailures(w io.Writer, renderer *lipgloss.Renderer, failures []report.Failure, l *report.Labels) {
	if len(failures) == 0 {
		return
	}
	red := renderer.NewStyle().Foreground(lipgloss.Color("9"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, red.Bold(true).Render(l.T("report.failures")))
	for _, fail := range failures {
		fmt.Fprintf(w, "  %s %s\n", red.Render("✗ "+fail.Source), fail.Error)
	}
}

// renderTable draws t with the city row highlighted.
func renderTable(renderer *lipgloss.Renderer, t report.Table) string {
	header := renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := renderer.NewStyle().Padding(0, 1)
	city := cell.Foreground(lipgloss.Color("12")).Bold(true)
	cityRow := len(t.Rows) - 1

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row == cityRow:
				return city
			case col > 0:
				return cell.Align(lipgloss.Right)
			default:
				return cell
			}
		}).
		String()
}

// reportHeading is the one-line title of a report.
func reportHeading(r *report.Report, l *report.Labels) string {
	parts := []string{l.T("report.title")}
	if r.Period != "" {
		parts = append(parts, r.Period)
	}
	if r.Source != "" {
		parts = append(parts, "("+r.Source+")")
	}
	return strings.Join(parts, " ")
}
