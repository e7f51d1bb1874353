package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/districtkpi/internal/report"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	out        io.Writer
	indent     bool
	outputFile string
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(out io.Writer, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		out:        out,
		indent:     indent,
		outputFile: outputFile,
	}
}

// Format writes the batch as a JSON document. Numbers are raw; display
// formatting is left to the reader.
func (f *JSONFormatter) Format(b *report.Batch) error {
	doc := JSONDocument{
		Header: JSONHeader{
			Tool:      report.Tool,
			Version:   report.Version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary:  JSONSummary{Scored: len(b.Reports), Failed: len(b.Failures)},
		Reports:  b.Reports,
		Failures: b.Failures,
	}
	if doc.Reports == nil {
		doc.Reports = []*report.Report{}
	}

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(doc, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeOutput(f.out, f.outputFile, append(jsonBytes, '\n'))
}

// JSONDocument is the complete JSON output.
type JSONDocument struct {
	Header   JSONHeader       `json:"header"`
	Summary  JSONSummary      `json:"summary"`
	Reports  []*report.Report `json:"reports"`
	Failures []report.Failure `json:"failures,omitempty"`
}

// JSONHeader contains document metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary counts the period files in the document.
type JSONSummary struct {
	Scored int `json:"scored"`
	Failed int `json:"failed"`
}

// writeOutput writes data to outputFile when set, otherwise to out.
func writeOutput(out io.Writer, outputFile string, data []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}
