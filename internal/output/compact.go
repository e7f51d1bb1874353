package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/mattn/go-runewidth"
)

// CompactFormatter prints one status line per period with its city totals,
// then failures grouped at the end.
type CompactFormatter struct {
	out        io.Writer
	verbose    bool
	outputFile string
	startTime  time.Time
}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter(out io.Writer, verbose bool, outputFile string) *CompactFormatter {
	return &CompactFormatter{
		out:        out,
		verbose:    verbose,
		outputFile: outputFile,
		startTime:  time.Now(),
	}
}

// Format renders the batch as status lines.
func (f *CompactFormatter) Format(b *report.Batch) error {
	var buf bytes.Buffer
	renderer := lipgloss.NewRenderer(&buf)
	if f.outputFile == "" {
		renderer = lipgloss.NewRenderer(f.out)
	}
	green := renderer.NewStyle().Foreground(lipgloss.Color("10"))
	red := renderer.NewStyle().Foreground(lipgloss.Color("9"))
	dim := renderer.NewStyle().Foreground(lipgloss.Color("8"))

	l := report.NewLabels(b.Lang)
	width := f.nameWidth(b)

	for _, r := range b.Reports {
		name := displayName(r)
		fmt.Fprintf(&buf, "%s %s  %s\n",
			green.Render("✓"),
			runewidth.FillRight(name, width),
			totalsLine(r, l))
		if f.verbose {
			fmt.Fprintf(&buf, "  %s\n", dim.Render(r.ID))
		}
	}

	if len(b.Failures) > 0 {
		fmt.Fprintln(&buf)
		for _, fail := range b.Failures {
			fmt.Fprintf(&buf, "%s %s\n", red.Render("✗"), red.Render(fail.Source))
			fmt.Fprintf(&buf, "    %s\n", fail.Error)
		}
	}

	total := len(b.Reports) + len(b.Failures)
	summary := fmt.Sprintf("%d/%d scored (%s)", len(b.Reports), total, formatDuration(time.Since(f.startTime)))
	if len(b.Failures) > 0 {
		fmt.Fprintln(&buf, red.Render(summary))
	} else {
		fmt.Fprintln(&buf, green.Render(summary))
	}

	return writeOutput(f.out, f.outputFile, buf.Bytes())
}

// nameWidth computes the display width of the name column.
func (f *CompactFormatter) nameWidth(b *report.Batch) int {
	width := 0
	for _, r := range b.Reports {
		if w := runewidth.StringWidth(displayName(r)); w > width {
			width = w
		}
	}
	return width
}

// displayName prefers the source path, then the period label.
func displayName(r *report.Report) string {
	switch {
	case r.Source != "":
		return r.Source
	case r.Period != "":
		return r.Period
	default:
		return "-"
	}
}

// totalsLine lists the city total of every scored program.
func totalsLine(r *report.Report, l *report.Labels) string {
	totals := r.CityTotals()
	parts := make([]string, 0, len(totals))
	for _, m := range r.Modules() {
		parts = append(parts, fmt.Sprintf("%s %.2f", l.T("title."+string(m)), totals[m]))
	}
	return strings.Join(parts, "  ")
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
