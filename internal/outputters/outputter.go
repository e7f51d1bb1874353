package outputters

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/districtkpi/internal/config"
	"github.com/dotcommander/districtkpi/internal/output"
	"github.com/dotcommander/districtkpi/internal/report"
)

// Formatter renders a batch of reports.
type Formatter interface {
	Format(b *report.Batch) error
}

// FormatterFactory creates formatters by name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters in internal/output from the
// config's output options.
type DefaultFormatterFactory struct {
	config *config.Config
	out    io.Writer
}

// CreateFormatter implements FormatterFactory.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	c := f.config
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.out, c.Quiet, c.Verbose, c.Output), nil
	case "json":
		return output.NewJSONFormatter(f.out, true, c.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.out, c.Verbose, c.Output), nil
	case "html":
		return output.NewHTMLFormatter(f.out, c.Verbose, c.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates an Outputter that writes to stdout.
func NewOutputter(cfg *config.Config) *Outputter {
	return NewOutputterTo(cfg, os.Stdout)
}

// NewOutputterTo creates an Outputter that writes to out unless the config
// names an output file.
func NewOutputterTo(cfg *config.Config, out io.Writer) *Outputter {
	return NewOutputterWithFactory(cfg, &DefaultFormatterFactory{config: cfg, out: out})
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
	}
}

// Format renders b in the given format. The batch language defaults to the
// configured one.
func (o *Outputter) Format(b *report.Batch, format string) error {
	if b.Lang == "" {
		b.Lang = o.config.Lang
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(b)
}
