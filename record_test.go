package datamodel

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountSchema(t *testing.T, opts ...SchemaOption) *Schema {
	schema, err := NewSchema("Account", []*Field{
		MustField("id", Int(), PrimaryKey()),
		MustField("amount", Decimal(), Min(0)),
		MustField("code", String(), WithDecoder(func(value interface{}) (interface{}, error) {
			return strings.ToUpper(value.(string)), nil
		})),
	}, opts...)
	require.NoError(t, err)
	return schema
}

func TestRecord_Set(t *testing.T) {
	t.Run("validate assignment", func(t *testing.T) {
		record := NewRecord(accountSchema(t, ValidateAssignment()))
		require.NoError(t, record.Set("id", "5"))
		value, ok := record.Get("id")
		assert.True(t, ok)
		assert.Equal(t, 5, value)

		require.NoError(t, record.Set("amount", "2.50"))
		value, _ = record.Get("amount")
		assert.True(t, decimal.RequireFromString("2.5").Equal(value.(decimal.Decimal)))

		err := record.Set("amount", "-1")
		var failure *ErrorRecord
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, KindConstraint, failure.Kind)
		assert.Equal(t, "amount", failure.Field)
		value, _ = record.Get("amount")
		assert.True(t, decimal.RequireFromString("2.5").Equal(value.(decimal.Decimal)), "rejected value is not stored")

		err = record.Set("id", "abc")
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, KindConversion, failure.Kind)

		require.NoError(t, record.Set("id", 6))
		old, ok := record.OldValue("id")
		assert.True(t, ok)
		assert.Equal(t, "5", old)
		assert.Equal(t, []interface{}{6}, record.PrimaryKey())
	})

	t.Run("plain assignment", func(t *testing.T) {
		record := NewRecord(accountSchema(t))
		require.NoError(t, record.Set("id", "5"))
		value, _ := record.Get("id")
		assert.Equal(t, "5", value)
		_, ok := record.Get("code")
		assert.False(t, ok)
	})

	t.Run("unknown field", func(t *testing.T) {
		record := NewRecord(accountSchema(t))
		err := record.Set("nope", 1)
		var unknown *UnknownField
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "nope", unknown.Field)
		_, ok := record.OldValue("nope")
		assert.False(t, ok)
	})
}

func TestRecord_ToMap(t *testing.T) {
	nestedSchema := MustSchema("Owner", MustField("name", String()))
	schema := MustSchema("Account",
		MustField("code", String(), WithDecoder(func(value interface{}) (interface{}, error) {
			return strings.ToUpper(value.(string)), nil
		})),
		MustField("owner", RecordOf(nestedSchema)),
		MustField("note", Optional(String())),
	)
	instance, errs, err := New().CoerceAndValidate(schema, map[string]interface{}{
		"code":  "abc",
		"owner": map[string]interface{}{"name": "Ann"},
		"x":     1,
	}, WithUnknownFieldPolicy(AllowUnknown))
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len())
	record := instance.(*Record)

	var testCases = []struct {
		description string
		removeNulls bool
		expect      map[string]interface{}
	}{
		{
			description: "with nulls",
			expect:      map[string]interface{}{"code": "ABC", "owner": map[string]interface{}{"name": "Ann"}, "note": nil, "x": 1},
		},
		{
			description: "without nulls",
			removeNulls: true,
			expect:      map[string]interface{}{"code": "ABC", "owner": map[string]interface{}{"name": "Ann"}, "x": 1},
		},
	}
	for _, testCase := range testCases {
		actual, err := record.ToMap(testCase.removeNulls)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
	assert.Equal(t, []string{"code", "owner", "note", "x"}, record.Keys())
	assert.Equal(t, []interface{}{"abc", record.Values()[1], nil}, record.Values())
}

func TestRecord_ToMap_DecoderError(t *testing.T) {
	schema := MustSchema("Broken", MustField("code", String(), WithDecoder(func(value interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	})))
	record := NewRecord(schema)
	require.NoError(t, record.Set("code", "a"))
	_, err := record.ToMap(false)
	assert.EqualError(t, err, "failed to decode code: boom")
	assert.Contains(t, record.String(), "boom")
}

func TestRecord_Pop(t *testing.T) {
	record := NewRecord(accountSchema(t))
	require.NoError(t, record.Set("id", 5))
	require.NoError(t, record.Set("id", 6))

	value, err := record.Pop("id")
	require.NoError(t, err)
	assert.Equal(t, 6, value)
	_, ok := record.Get("id")
	assert.False(t, ok)
	_, ok = record.OldValue("id")
	assert.False(t, ok)

	_, err = record.Pop("nope")
	var unknown *UnknownField
	assert.True(t, errors.As(err, &unknown))
}

func TestRecord_ResetValues(t *testing.T) {
	record := NewRecord(accountSchema(t))
	require.NoError(t, record.Set("code", "a"))
	record.ResetValues()
	_, ok := record.OldValue("code")
	assert.False(t, ok)
	value, _ := record.Get("code")
	assert.Equal(t, "a", value)
}

func TestSchema_Sample(t *testing.T) {
	schema := MustSchema("Profile",
		MustField("id", Int(), PrimaryKey()),
		MustField("name", String(), Required()),
		MustField("score", Float(), Default(1.5)),
		MustField("tags", List(String()), DefaultFactory(func() interface{} { return []string{} })),
	)
	assert.Equal(t, map[string]interface{}{
		"properties": map[string]interface{}{"id": nil, "name": nil, "score": 1.5, "tags": []string{}},
		"required":   []string{"name"},
	}, schema.Sample())
}
