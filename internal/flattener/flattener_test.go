package flattener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/nestedcsv/internal/models"
	"github.com/mcncl/nestedcsv/internal/parser"
)

func mustParse(t *testing.T, input string) models.Value {
	t.Helper()
	v, err := parser.ParseString(input)
	require.NoError(t, err)
	return v
}

func TestFlatten_NestedObject(t *testing.T) {
	root := mustParse(t, `{
		"id": 7,
		"user": {"name": "Ann", "address": {"city": "Oslo", "zip": null}},
		"tags": ["a", "b"],
		"active": true
	}`)

	result := Flatten(root, "")

	assert.Equal(t, models.FlatRecord{
		"id":                models.Number("7"),
		"user.name":         models.String("Ann"),
		"user.address.city": models.String("Oslo"),
		"user.address.zip":  models.Null{},
		"tags":              models.Array{models.String("a"), models.String("b")},
		"active":            models.Bool(true),
	}, result)
}

func TestFlatten_Prefix(t *testing.T) {
	root := mustParse(t, `{"x": 1, "y": {"z": 2}}`)

	result := Flatten(root, "items")

	assert.Equal(t, models.FlatRecord{
		"items.x":   models.Number("1"),
		"items.y.z": models.Number("2"),
	}, result)
}

func TestFlatten_Leaves(t *testing.T) {
	tests := []struct {
		name     string
		value    models.Value
		prefix   string
		expected models.FlatRecord
	}{
		{"scalar without prefix", models.Number("1"), "", models.FlatRecord{}},
		{"scalar with prefix", models.String("v"), "k", models.FlatRecord{"k": models.String("v")}},
		{"null with prefix", models.Null{}, "k", models.FlatRecord{"k": models.Null{}}},
		{"nil with prefix", nil, "k", models.FlatRecord{"k": models.Null{}}},
		{"array is a leaf", models.Array{models.Number("1")}, "k", models.FlatRecord{"k": models.Array{models.Number("1")}}},
		{"array without prefix", models.Array{models.Number("1")}, "", models.FlatRecord{}},
		{"empty object", models.NewObject(), "k", models.FlatRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Flatten(tt.value, tt.prefix))
		})
	}
}

func TestFlatten_ArraysOfObjectsAreNotRecursed(t *testing.T) {
	root := mustParse(t, `{"rows": [{"a": {"b": 1}}]}`)

	result := Flatten(root, "")

	require.Len(t, result, 1)
	assert.Equal(t, models.KindArray, result["rows"].Kind())
}

func TestFlatten_DottedKeysCollide(t *testing.T) {
	root := mustParse(t, `{"a": {"b": 1}, "a.b": 2}`)

	result := Flatten(root, "")

	// the later path wins
	assert.Equal(t, models.FlatRecord{"a.b": models.Number("2")}, result)
}

func TestFlatten_Idempotent(t *testing.T) {
	root := mustParse(t, `{"a": {"b": {"c": 1}}, "d": [1, {"e": 2}], "f": null}`)

	once := Flatten(root, "")

	flatObj := models.NewObject()
	for k, v := range once {
		flatObj.Set(k, v)
	}
	twice := Flatten(flatObj, "")

	assert.Equal(t, once, twice)
}

func TestMerge_ContextWins(t *testing.T) {
	located := models.LocatedArray{
		Array: models.Array{
			mustParse(t, `{"id": "record", "x": 1}`),
		},
		Path:    "",
		Context: models.FlatRecord{"id": models.String("context")},
	}

	records := Merge(located)

	require.Len(t, records, 1)
	assert.Equal(t, models.String("context"), records[0]["id"])
	assert.Equal(t, models.Number("1"), records[0]["x"])
}

func TestMerge_PrefixesWithPath(t *testing.T) {
	located := models.LocatedArray{
		Array:   mustParse(t, `[{"x": 1}, {"x": 2, "y": {"z": 3}}]`).(models.Array),
		Path:    "items",
		Context: models.FlatRecord{"id": models.Number("1")},
	}

	records := Merge(located)

	assert.Equal(t, []models.FlatRecord{
		{"items.x": models.Number("1"), "id": models.Number("1")},
		{"items.x": models.Number("2"), "items.y.z": models.Number("3"), "id": models.Number("1")},
	}, records)
}

func TestMerge_DoesNotShareContext(t *testing.T) {
	context := models.FlatRecord{"id": models.Number("1")}
	located := models.LocatedArray{
		Array:   models.Array{models.NewObject(), models.NewObject()},
		Context: context,
	}

	records := Merge(located)
	records[0]["extra"] = models.Bool(true)

	assert.NotContains(t, records[1], "extra")
	assert.NotContains(t, context, "extra")
}

func TestMerge_ScalarElements(t *testing.T) {
	located := models.LocatedArray{
		Array: models.Array{models.Number("1"), models.String("two")},
		Path:  "values",
	}

	records := Merge(located)

	assert.Equal(t, []models.FlatRecord{
		{"values": models.Number("1")},
		{"values": models.String("two")},
	}, records)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(models.LocatedArray{}))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", JoinPath("", "a"))
	assert.Equal(t, "a.b", JoinPath("a", "b"))
	assert.Equal(t, "a.b.c", JoinPath("a.b", "c"))
}
