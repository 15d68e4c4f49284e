// Package locator finds the record array inside an arbitrary JSON document.
//
// The search is depth-first and stops at the first match; it does not look
// for the largest or deepest array. API payloads usually wrap one meaningful
// array in one or two levels of envelope fields (pagination, ids), and those
// envelope fields become the context that is repeated on every row.
//
// When several arrays sit at the same level only the first one in key order
// is used.
package locator

import (
	"maps"

	"github.com/mcncl/nestedcsv/internal/flattener"
	"github.com/mcncl/nestedcsv/internal/models"
)

// Locate returns the record array of root, the dot-path it lives under and
// the flattened sibling fields. It reports false when root holds no array.
func Locate(root models.Value) (models.LocatedArray, bool) {
	switch v := root.(type) {
	case models.Array:
		return models.LocatedArray{Array: v, Path: "", Context: models.FlatRecord{}}, true
	case *models.Object:
		return locateInObject(v, "")
	default:
		return models.LocatedArray{}, false
	}
}

// locateInObject searches obj, which lives at basePath inside the document.
// Context keys are relative to obj, Path is absolute.
func locateInObject(obj *models.Object, basePath string) (models.LocatedArray, bool) {
	// A direct array property
	for key, value := range obj.All() {
		arr, ok := value.(models.Array)
		if !ok {
			continue
		}
		return models.LocatedArray{
			Array:   arr,
			Path:    flattener.JoinPath(basePath, key),
			Context: siblingContext(obj, key),
		}, true
	}

	// An array property one level down, keeping both levels as context
	for parentKey, value := range obj.All() {
		child, ok := value.(*models.Object)
		if !ok {
			continue
		}
		for subKey, subValue := range child.All() {
			arr, ok := subValue.(models.Array)
			if !ok {
				continue
			}
			context := siblingContext(obj, parentKey)
			for prop, propValue := range child.All() {
				if prop == subKey {
					continue
				}
				maps.Copy(context, flattener.Flatten(propValue, flattener.JoinPath(parentKey, prop)))
			}
			return models.LocatedArray{
				Array:   arr,
				Path:    flattener.JoinPath(flattener.JoinPath(basePath, parentKey), subKey),
				Context: context,
			}, true
		}
	}

	// Anything deeper
	for key, value := range obj.All() {
		child, ok := value.(*models.Object)
		if !ok {
			continue
		}
		if located, found := locateInObject(child, flattener.JoinPath(basePath, key)); found {
			return located, true
		}
	}

	return models.LocatedArray{}, false
}

// siblingContext flattens every property of obj except skip under its own key
func siblingContext(obj *models.Object, skip string) models.FlatRecord {
	context := models.FlatRecord{}
	for key, value := range obj.All() {
		if key == skip {
			continue
		}
		maps.Copy(context, flattener.Flatten(value, key))
	}
	return context
}
