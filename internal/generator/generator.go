package generator

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mcncl/nestedcsv/internal/models"
)

// Generator is responsible for turning flat records into CSV text
type Generator struct{}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders records as CSV. The header row is the sorted union of all
// record keys. Rows are separated by "\n" and there is no trailing newline.
// An empty record list renders as the empty string.
func (g *Generator) Generate(records []models.FlatRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	table, err := g.BuildTable(records)
	if err != nil {
		return "", err
	}
	return table.String(), nil
}

// BuildTable collects headers and renders every cell of every record
func (g *Generator) BuildTable(records []models.FlatRecord) (models.CsvTable, error) {
	headers := Headers(records)

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(headers))
		for i, header := range headers {
			cell, err := Cell(record[header])
			if err != nil {
				return models.CsvTable{}, err
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}

	return models.CsvTable{Headers: headers, Rows: rows}, nil
}

// Headers returns the union of all record keys in byte-wise ascending order
func Headers(records []models.FlatRecord) []string {
	seen := make(map[string]struct{})
	headers := make([]string, 0)
	for _, record := range records {
		for key := range record {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			headers = append(headers, key)
		}
	}
	// strings compare by bytes, independent of locale
	slices.Sort(headers)
	return headers
}

// Cell renders a single value: empty for a missing or null value, JSON text
// for arrays and objects, the canonical text otherwise. Line breaks are
// written as the two characters `\n` and `\r`, and the result is quoted when
// it contains a comma or a double quote.
func Cell(value models.Value) (string, error) {
	if models.IsNull(value) {
		return "", nil
	}

	var text string
	switch v := value.(type) {
	case models.Bool:
		text = strconv.FormatBool(bool(v))
	case models.Number:
		text = models.FormatNumber(v)
	case models.String:
		text = string(v)
	case models.Array:
		data, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		text = string(data)
	case *models.Object:
		data, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		text = string(data)
	}
	return escape(text), nil
}

var lineBreakReplacer = strings.NewReplacer("\n", `\n`, "\r", `\r`)

func escape(text string) string {
	text = lineBreakReplacer.Replace(text)
	if strings.ContainsAny(text, `,"`) {
		return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
	}
	return text
}
