// Package flattener collapses nested JSON objects into single-level records
// keyed by dot-separated paths, and merges located records with their context.
//
// Only objects are descended into. Arrays are leaves: they stay intact and are
// later written as JSON text. Keys that contain a literal "." are not escaped,
// so {"a.b": 1} and {"a": {"b": 1}} flatten to the same path.
//
// There is no cycle detection. Values produced by the parser cannot be cyclic,
// but a hand-built *models.Object that contains itself recurses without bound.
package flattener

import (
	"maps"

	"github.com/mcncl/nestedcsv/internal/models"
)

// Flatten collapses value into a FlatRecord. Nested object keys are joined to
// prefix with ".". A scalar, null or array value is stored whole under prefix,
// or dropped when prefix is empty since there is nothing to name it by.
func Flatten(value models.Value, prefix string) models.FlatRecord {
	result := models.FlatRecord{}
	flattenInto(result, value, prefix)
	return result
}

func flattenInto(result models.FlatRecord, value models.Value, prefix string) {
	obj, ok := value.(*models.Object)
	if !ok {
		if prefix != "" {
			result[prefix] = orNull(value)
		}
		return
	}

	for key, child := range obj.All() {
		childKey := JoinPath(prefix, key)
		if nested, ok := child.(*models.Object); ok {
			flattenInto(result, nested, childKey)
			continue
		}
		// Later identical paths overwrite earlier ones
		result[childKey] = orNull(child)
	}
}

// Merge flattens every element of the located array under the array's path
// and overlays the context on top. Context fields win on key collision.
func Merge(located models.LocatedArray) []models.FlatRecord {
	records := make([]models.FlatRecord, 0, len(located.Array))
	for _, element := range located.Array {
		record := Flatten(element, located.Path)
		maps.Copy(record, located.Context)
		records = append(records, record)
	}
	return records
}

// JoinPath appends key to a dot-path
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func orNull(v models.Value) models.Value {
	if v == nil {
		return models.Null{}
	}
	return v
}
