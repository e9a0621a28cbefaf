package datamodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_CoerceValue_Union(t *testing.T) {
	engine := New()
	var testCases = []struct {
		description string
		aType       *Type
		input       interface{}
		expect      interface{}
		expectErr   bool
	}{
		{description: "mapping selects record arm", aType: Union(TypeFor[Address](), String()), input: map[string]interface{}{"street": "Main", "city": "Paris"}, expect: Address{Street: "Main", City: "Paris"}},
		{description: "text selects string arm", aType: Union(TypeFor[Address](), String()), input: "Paris", expect: "Paris"},
		{description: "exact type wins over declaration order", aType: Union(Int(), String()), input: "5", expect: "5"},
		{description: "first convertible arm wins", aType: Union(Int(), String()), input: 5.0, expect: 5},
		{description: "sequence selects container arm", aType: Union(List(Int()), Int()), input: []interface{}{"1"}, expect: []int{1}},
		{description: "scalar skips container arm", aType: Union(List(Int()), Int()), input: "7", expect: 7},
		{description: "record instance", aType: Union(String(), TypeFor[Address]()), input: &Address{City: "Rome"}, expect: Address{City: "Rome"}},
		{description: "optional union nil", aType: Union(Int(), String(), None()), input: nil, expect: nil},
		{description: "no arm accepts", aType: Union(TypeFor[Address](), Int()), input: "abc", expectErr: true},
	}
	for _, testCase := range testCases {
		actual, err := engine.CoerceValue(testCase.aType, testCase.input)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		if testCase.expect == nil {
			assert.Nil(t, actual, testCase.description)
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestEngine_CoerceValue_UnionExhausted(t *testing.T) {
	aType := Union(TypeFor[Address](), Int())
	_, err := New().CoerceValue(aType, "abc")
	var exhausted *UnionExhausted
	require.True(t, errors.As(err, &exhausted))
	require.Len(t, exhausted.Arms, 2)
	assert.Equal(t, "abc", exhausted.Value)
	assert.Equal(t, aType.Category().Args[0].String(), exhausted.Arms[0].Type)
	assert.Equal(t, "int", exhausted.Arms[1].Type)

	var mismatch *TypeMismatchError
	assert.True(t, errors.As(err, &mismatch), "scalar input is not attempted on record arm")
	assert.Equal(t, KindUnion, kindOf(err))
}

func TestEngine_CoerceValue_UnionDeterminism(t *testing.T) {
	engine := New()
	aType := Union(Float(), Int(), String())
	inputs := []interface{}{"1", 1, 1.5, "x", true}
	for _, input := range inputs {
		first, err := engine.CoerceValue(aType, input)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			actual, err := engine.CoerceValue(aType, input)
			require.NoError(t, err)
			assert.Equal(t, first, actual)
		}
	}
}
