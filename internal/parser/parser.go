package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/mcncl/nestedcsv/internal/errors"
	"github.com/mcncl/nestedcsv/internal/models"
)

// Parse reads a single JSON document from reader and converts it into a models.Value.
// Object key order is preserved and numbers keep their literal text.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a JSON document held in memory
func ParseBytes(data []byte) (models.Value, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		// fastjson reports syntax errors, trailing data and excessive nesting alike
		return nil, errors.NewParsingError(fmt.Sprintf("invalid JSON: %v", err), errors.ErrInvalidJSON)
	}

	return convert(v)
}

// convert copies a fastjson value tree into the models union. The fastjson
// value is only valid until the parser is reused, so nothing of it is retained.
func convert(v *fastjson.Value) (models.Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return models.Null{}, nil
	case fastjson.TypeTrue:
		return models.Bool(true), nil
	case fastjson.TypeFalse:
		return models.Bool(false), nil
	case fastjson.TypeNumber:
		// String() marshals a number back to its original literal
		return models.Number(v.String()), nil
	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return nil, errors.NewParsingError("invalid string value", err)
		}
		return models.String(s), nil
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, errors.NewParsingError("invalid array value", err)
		}
		arr := make(models.Array, 0, len(items))
		for _, item := range items {
			converted, err := convert(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, converted)
		}
		return arr, nil
	case fastjson.TypeObject:
		o, err := v.Object()
		if err != nil {
			return nil, errors.NewParsingError("invalid object value", err)
		}
		obj := models.NewObject()
		var visitErr error
		o.Visit(func(key []byte, member *fastjson.Value) {
			if visitErr != nil {
				return
			}
			converted, err := convert(member)
			if err != nil {
				visitErr = err
				return
			}
			// Duplicate keys: the last value wins, the first position is kept
			obj.Set(string(key), converted)
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return obj, nil
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unexpected JSON value type: %s", v.Type()), errors.ErrInvalidJSON)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
