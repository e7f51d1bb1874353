package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/mattn/go-runewidth"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	out        io.Writer
	verbose    bool
	outputFile string
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(out io.Writer, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		out:        out,
		verbose:    verbose,
		outputFile: outputFile,
	}
}

// Format writes the batch as GFM.
func (f *MarkdownFormatter) Format(b *report.Batch) error {
	return writeOutput(f.out, f.outputFile, []byte(RenderMarkdown(b, f.verbose)))
}

// RenderMarkdown renders the batch as a GFM document with column-aligned
// tables.
func RenderMarkdown(b *report.Batch, verbose bool) string {
	l := report.NewLabels(b.Lang)
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("# %s\n\n", l.T("report.title")))
	if len(b.Reports) == 0 && len(b.Failures) == 0 {
		builder.WriteString(fmt.Sprintf("*%s*\n", l.T("report.empty")))
	}

	for _, r := range b.Reports {
		if len(b.Reports) > 1 {
			builder.WriteString(fmt.Sprintf("## %s\n\n", displayName(r)))
		}
		if r.Period != "" {
			builder.WriteString(fmt.Sprintf("**%s:** %s\n\n", l.T("report.period"), r.Period))
		}
		if r.Source != "" {
			builder.WriteString(fmt.Sprintf("**%s:** `%s`\n\n", l.T("report.source"), r.Source))
		}
		if verbose {
			builder.WriteString(fmt.Sprintf("**%s:** %s\n\n", l.T("report.rounding"), r.Rounding))
		}

		heading := "##"
		if len(b.Reports) > 1 {
			heading = "###"
		}
		for _, t := range r.Tables(l) {
			builder.WriteString(fmt.Sprintf("%s %s\n\n", heading, t.Title))
			writeMarkdownTable(&builder, t.Headers, t.Rows)
			builder.WriteString(fmt.Sprintf("\n**%s**\n\n", t.NotesTitle))
			for _, note := range t.Notes {
				builder.WriteString(fmt.Sprintf("- %s\n", note))
			}
			builder.WriteString("\n")
		}
	}

	if len(b.Failures) > 0 {
		builder.WriteString(fmt.Sprintf("## %s\n\n", l.T("report.failures")))
		for _, fail := range b.Failures {
			builder.WriteString(fmt.Sprintf("- `%s`: %s\n", fail.Source, fail.Error))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// writeMarkdownTable pads every column to its widest cell, counting CJK
// characters as two columns.
func writeMarkdownTable(builder *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(3, runewidth.StringWidth(escapeCell(h)))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(escapeCell(cell)))
			}
		}
	}

	writeRow := func(cells []string) {
		builder.WriteString("|")
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = escapeCell(cells[i])
			}
			builder.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
		}
		builder.WriteString("\n")
	}

	writeRow(headers)
	builder.WriteString("|")
	for _, w := range widths {
		builder.WriteString(" " + strings.Repeat("-", w) + " |")
	}
	builder.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
