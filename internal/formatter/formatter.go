package formatter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/nestedcsv/internal/errors"
	"github.com/mcncl/nestedcsv/internal/models"
)

// HeaderCase selects how the segments of a dot-path header are rewritten
type HeaderCase string

const (
	HeaderCaseNone       HeaderCase = "none"
	HeaderCaseSnake      HeaderCase = "snake"
	HeaderCaseCamel      HeaderCase = "camel"
	HeaderCaseLowerCamel HeaderCase = "lower-camel"
	HeaderCaseKebab      HeaderCase = "kebab"
)

// HeaderCases lists the accepted header case names
var HeaderCases = []HeaderCase{
	HeaderCaseNone,
	HeaderCaseSnake,
	HeaderCaseCamel,
	HeaderCaseLowerCamel,
	HeaderCaseKebab,
}

// ParseHeaderCase validates a header case name. The empty string means none.
func ParseHeaderCase(name string) (HeaderCase, error) {
	if name == "" {
		return HeaderCaseNone, nil
	}
	hc := HeaderCase(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(HeaderCases, hc) {
		return "", errors.NewConfigError(fmt.Sprintf("unknown header case '%s'", name), errors.ErrInvalidHeaderCase)
	}
	return hc, nil
}

// Formatter rewrites record keys before they become CSV headers
type Formatter struct {
	headerCase HeaderCase
}

// NewFormatter creates a Formatter that leaves keys untouched
func NewFormatter() *Formatter {
	return &Formatter{headerCase: HeaderCaseNone}
}

// NewFormatterWithCase creates a Formatter applying hc to every path segment
func NewFormatterWithCase(hc HeaderCase) *Formatter {
	return &Formatter{headerCase: hc}
}

// Header rewrites each dot-separated segment of key
func (f *Formatter) Header(key string) string {
	convert := f.converter()
	if convert == nil {
		return key
	}
	segments := strings.Split(key, ".")
	for i, segment := range segments {
		segments[i] = convert(segment)
	}
	return strings.Join(segments, ".")
}

// Format returns copies of records with rewritten keys. When two keys of one
// record rewrite to the same header, the key that sorts last wins.
func (f *Formatter) Format(records []models.FlatRecord) []models.FlatRecord {
	if f.converter() == nil {
		return records
	}

	out := make([]models.FlatRecord, 0, len(records))
	for _, record := range records {
		keys := make([]string, 0, len(record))
		for k := range record {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		renamed := make(models.FlatRecord, len(record))
		for _, k := range keys {
			renamed[f.Header(k)] = record[k]
		}
		out = append(out, renamed)
	}
	return out
}

func (f *Formatter) converter() func(string) string {
	switch f.headerCase {
	case HeaderCaseSnake:
		return strcase.ToSnake
	case HeaderCaseCamel:
		return strcase.ToCamel
	case HeaderCaseLowerCamel:
		return strcase.ToLowerCamel
	case HeaderCaseKebab:
		return strcase.ToKebab
	default:
		return nil
	}
}
