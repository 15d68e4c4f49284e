// Package converter wires the engine together: it locates the record array of
// a document, flattens and merges its records, and renders them as CSV.
package converter

import (
	"go.uber.org/zap"

	"github.com/mcncl/nestedcsv/internal/errors"
	"github.com/mcncl/nestedcsv/internal/flattener"
	"github.com/mcncl/nestedcsv/internal/formatter"
	"github.com/mcncl/nestedcsv/internal/generator"
	"github.com/mcncl/nestedcsv/internal/locator"
	"github.com/mcncl/nestedcsv/internal/models"
)

// Result is the outcome of a conversion. An empty CSV means no convertible
// array was found or the array was empty; it is not an error.
type Result struct {
	CSV     string
	Found   bool
	Path    string
	Records int
	Headers []string
}

// Converter turns parsed JSON documents into CSV text
type Converter struct {
	formatter *formatter.Formatter
	generator *generator.Generator
	logger    *zap.Logger
}

// Option configures a Converter
type Option func(*Converter)

// WithHeaderCase rewrites header path segments with the given case
func WithHeaderCase(hc formatter.HeaderCase) Option {
	return func(c *Converter) {
		c.formatter = formatter.NewFormatterWithCase(hc)
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// New creates a Converter. Without options headers are left as plain dot-paths.
func New(opts ...Option) *Converter {
	c := &Converter{
		formatter: formatter.NewFormatter(),
		generator: generator.NewGenerator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs Locate, Merge and serialization over root
func (c *Converter) Convert(root models.Value) (Result, error) {
	located, found := locator.Locate(root)
	if !found {
		c.logger.Debug("no record array found")
		return Result{}, nil
	}
	c.logger.Debug("located record array",
		zap.String("path", located.Path),
		zap.Int("records", len(located.Array)),
		zap.Int("context_fields", len(located.Context)),
	)

	result := Result{Found: true, Path: located.Path, Records: len(located.Array)}
	if len(located.Array) == 0 {
		return result, nil
	}

	records := c.formatter.Format(flattener.Merge(located))
	table, err := c.generator.BuildTable(records)
	if err != nil {
		return Result{}, errors.NewConversionError("failed to render CSV cells", err)
	}
	c.logger.Debug("rendered CSV", zap.Int("headers", len(table.Headers)), zap.Int("rows", len(table.Rows)))

	result.CSV = table.String()
	result.Headers = table.Headers
	return result, nil
}

// ToCSV converts root with default options and returns only the CSV text
func ToCSV(root models.Value) (string, error) {
	result, err := New().Convert(root)
	if err != nil {
		return "", err
	}
	return result.CSV, nil
}
