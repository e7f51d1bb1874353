package output

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; }
tbody tr:last-child { font-weight: bold; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTMLFormatter renders the Markdown report as a standalone HTML page.
type HTMLFormatter struct {
	out        io.Writer
	verbose    bool
	outputFile string
	md         goldmark.Markdown
}

// NewHTMLFormatter creates a new HTMLFormatter.
func NewHTMLFormatter(out io.Writer, verbose bool, outputFile string) *HTMLFormatter {
	return &HTMLFormatter{
		out:        out,
		verbose:    verbose,
		outputFile: outputFile,
		md:         goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Format converts the Markdown rendering of b to HTML.
func (f *HTMLFormatter) Format(b *report.Batch) error {
	var body bytes.Buffer
	if err := f.md.Convert([]byte(RenderMarkdown(b, f.verbose)), &body); err != nil {
		return fmt.Errorf("error rendering HTML: %w", err)
	}

	l := report.NewLabels(b.Lang)
	page := fmt.Sprintf(htmlTemplate, l.Tag().String(), html.EscapeString(l.T("report.title")), body.String())
	return writeOutput(f.out, f.outputFile, []byte(page))
}
