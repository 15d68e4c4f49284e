package analyzer

import (
	"github.com/mcncl/nestedcsv/internal/models"
)

// HasNestedStructure reports whether value contains structure that a flat
// CSV row cannot hold directly.
//
// An array is nested if any of its elements is. An object is nested if any
// property holds an object (regardless of its contents) or a non-empty array
// that carries objects at any level. Scalars and null are never nested.
func HasNestedStructure(value models.Value) bool {
	switch v := value.(type) {
	case models.Array:
		for _, item := range v {
			if HasNestedStructure(item) {
				return true
			}
		}
		return false
	case *models.Object:
		for _, prop := range v.All() {
			switch p := prop.(type) {
			case *models.Object:
				return true
			case models.Array:
				if len(p) > 0 && holdsStructure(p) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// holdsStructure reports whether an array stored under a property contains
// objects, directly or through inner arrays. Such a cell would otherwise be
// written as JSON text.
func holdsStructure(arr models.Array) bool {
	for _, item := range arr {
		switch v := item.(type) {
		case *models.Object:
			return true
		case models.Array:
			if holdsStructure(v) {
				return true
			}
		}
	}
	return false
}

// Summary describes the shape of a JSON document
type Summary struct {
	RootKind models.Kind
	Nested   bool
	// MaxDepth counts container levels; a scalar root has depth 0.
	MaxDepth int
	Objects  int
	Arrays   int
	Leaves   int
}

// Analyzer walks a document and collects a Summary
type Analyzer struct {
	summary Summary
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the structural summary of root
func (a *Analyzer) Analyze(root models.Value) Summary {
	a.summary = Summary{RootKind: models.KindNull}
	if root != nil {
		a.summary.RootKind = root.Kind()
	}
	a.summary.MaxDepth = a.analyzeNode(root)
	a.summary.Nested = HasNestedStructure(root)
	return a.summary
}

// analyzeNode counts node kinds below value and returns its container depth
func (a *Analyzer) analyzeNode(value models.Value) int {
	switch v := value.(type) {
	case *models.Object:
		a.summary.Objects++
		depth := 0
		for _, child := range v.All() {
			depth = max(depth, a.analyzeNode(child))
		}
		return depth + 1
	case models.Array:
		a.summary.Arrays++
		depth := 0
		for _, child := range v {
			depth = max(depth, a.analyzeNode(child))
		}
		return depth + 1
	default:
		a.summary.Leaves++
		return 0
	}
}
